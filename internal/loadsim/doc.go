// Package loadsim drives a router with random keys and reports how the
// load spreads over its hosts, and how many keys move when hosts leave.
package loadsim
