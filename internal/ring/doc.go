// Package ring implements a weighted consistent hashing ring. Hosts own a
// number of virtual nodes proportional to their weight, and keys are routed
// to the host owning the nearest position at or after the key's hash, so
// adding or removing a host only moves the keys that host owned.
//
// Positions are XXH64 (seed 0) hashes of replica identifiers of the form
// "<host>_<k>", which makes placement reproducible across processes.
package ring
