package loadsim

import (
	"context"
	"sync"
)

// checkEvery is how many keys a worker routes between context checks.
const checkEvery = 1024

// Router is the routing surface the simulation needs.
type Router interface {
	Route(key string) (string, bool)
}

// Run routes every key through r using the given number of workers and
// returns the resulting histogram. It stops early when ctx is done.
func Run(ctx context.Context, r Router, keys []string, workers int) (*Histogram, error) {
	if workers < 1 {
		workers = 1
	}
	if workers > len(keys) && len(keys) > 0 {
		workers = len(keys)
	}

	rec := NewRecorder()
	var wg sync.WaitGroup

	chunk := (len(keys) + workers - 1) / workers
	for start := 0; start < len(keys); start += chunk {
		end := start + chunk
		if end > len(keys) {
			end = len(keys)
		}

		wg.Add(1)
		go func(part []string) {
			defer wg.Done()
			for i, key := range part {
				if i%checkEvery == 0 && ctx.Err() != nil {
					return
				}
				rec.Observe(r.Route(key))
			}
		}(keys[start:end])
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rec.Histogram()
}

// Assign records the owner of every key. Keys that could not be routed map
// to the empty string.
func Assign(r Router, keys []string) map[string]string {
	owners := make(map[string]string, len(keys))
	for _, key := range keys {
		owners[key], _ = r.Route(key)
	}
	return owners
}

// Displacement counts keys whose owner changed between two assignments.
type Displacement struct {
	Total int
	Moved int
	// Unexpected counts moved keys that did not belong to a removed host.
	// Consistent hashing keeps this at zero.
	Unexpected int
}

// Fraction returns Moved as a fraction of Total.
func (d Displacement) Fraction() float64 {
	if d.Total == 0 {
		return 0
	}
	return float64(d.Moved) / float64(d.Total)
}

// Compare reports how keys moved from before to after, given the hosts
// removed in between.
func Compare(before, after map[string]string, removed []string) Displacement {
	gone := make(map[string]bool, len(removed))
	for _, name := range removed {
		gone[name] = true
	}

	d := Displacement{Total: len(before)}
	for key, owner := range before {
		if after[key] == owner {
			continue
		}
		d.Moved++
		if !gone[owner] {
			d.Unexpected++
		}
	}
	return d
}
