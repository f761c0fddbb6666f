package ring

import "github.com/cespare/xxhash/v2"

// Hash maps a replica identifier or a routed key to a ring position.
type Hash func(s string) uint64

// DefaultHash is XXH64 with a zero seed. Placement and routing both use it
// unless a Router is built with WithHash.
func DefaultHash(s string) uint64 {
	return xxhash.Sum64String(s)
}
