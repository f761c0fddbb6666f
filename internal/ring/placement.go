package ring

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/sirupsen/logrus"
)

const (
	// MinReplicas and MaxReplicas bound the base replica count of a Router.
	MinReplicas = 1
	MaxReplicas = 256

	// MinWeight and MaxWeight bound a host weight. A weight of 0 still gets
	// one replica.
	MinWeight = 0.0
	MaxWeight = 16.0

	// maxAttemptsPerReplica caps the identifiers tried per wanted replica
	// before placement gives up.
	maxAttemptsPerReplica = 64
)

// ReplicaCount returns the number of ring positions a host of the given
// weight owns: max(1, floor(base*weight)).
func ReplicaCount(base int, weight float64) int {
	n := int(float64(base) * weight)
	if n < 1 {
		return 1
	}
	return n
}

func validWeight(weight float64) bool {
	// NaN fails both comparisons.
	return weight >= MinWeight && weight <= MaxWeight
}

func replicaID(name string, k int) string {
	return name + "_" + strconv.Itoa(k)
}

// place derives want distinct free positions for the named host. The
// counter k starts at 1 and only moves forward; any position already on the
// ring, or already taken by this host, is skipped.
// Caller must hold r.mu.
func (r *Router) place(name string, want int) ([]uint64, error) {
	positions := make([]uint64, 0, want)
	taken := make(map[uint64]struct{}, want)
	limit := want * maxAttemptsPerReplica

	for k := 1; len(positions) < want; k++ {
		if k > limit {
			return nil, fmt.Errorf("host %q: placed %d of %d replicas in %d attempts: %w",
				name, len(positions), want, limit, ErrPlacementExhausted)
		}

		id := replicaID(name, k)
		pos := r.hash(id)
		if _, dup := taken[pos]; dup || r.occupied(pos) {
			r.log.WithFields(logrus.Fields{
				"host":     name,
				"replica":  id,
				"position": pos,
			}).Debug("Replica position collision, retrying")
			continue
		}

		taken[pos] = struct{}{}
		positions = append(positions, pos)
		r.log.WithFields(logrus.Fields{
			"host":     name,
			"replica":  id,
			"position": pos,
		}).Debug("Placed replica")
	}

	return positions, nil
}

// occupied reports whether pos is already on the ring.
// Caller must hold r.mu.
func (r *Router) occupied(pos uint64) bool {
	idx := r.search(pos)
	return idx < len(r.vnodes) && r.vnodes[idx].position == pos
}

// insert merges the host's positions into the index. The index is rebuilt
// into a new slice so it changes in one step under the write lock.
// Caller must hold r.mu.
func (r *Router) insert(name string, positions []uint64) {
	added := make([]vnode, 0, len(positions))
	for _, pos := range positions {
		added = append(added, vnode{position: pos, host: name})
	}
	sort.Slice(added, func(i, j int) bool {
		return added[i].position < added[j].position
	})

	merged := make([]vnode, 0, len(r.vnodes)+len(added))
	i, j := 0, 0
	for i < len(r.vnodes) && j < len(added) {
		if r.vnodes[i].position < added[j].position {
			merged = append(merged, r.vnodes[i])
			i++
		} else {
			merged = append(merged, added[j])
			j++
		}
	}
	merged = append(merged, r.vnodes[i:]...)
	merged = append(merged, added[j:]...)
	r.vnodes = merged
}
