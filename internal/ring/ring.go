package ring

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// Host is a snapshot of a registered host.
type Host struct {
	Name      string
	Weight    float64
	Positions []uint64 // in placement order
}

// HostSpec names a host and its weight for bulk registration.
type HostSpec struct {
	Name   string
	Weight float64
}

// host is the registry record. The Router is its only owner.
type host struct {
	name      string
	weight    float64
	positions []uint64
}

// vnode is one position on the ring. It refers to its host by name only.
type vnode struct {
	position uint64
	host     string
}

// Option configures a Router.
type Option func(*Router)

// WithHash replaces the ring hash. Every Router that must agree on routing
// has to use the same function.
func WithHash(h Hash) Option {
	return func(r *Router) {
		if h != nil {
			r.hash = h
		}
	}
}

// WithLogger sets the logger used for placement and membership messages.
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Router) {
		if l != nil {
			r.log = l
		}
	}
}

// Router routes keys to weighted hosts on a consistent hashing ring.
// It is safe for concurrent use.
type Router struct {
	mu           sync.RWMutex
	baseReplicas int
	hash         Hash
	log          logrus.FieldLogger
	hosts        map[string]*host // name -> host
	vnodes       []vnode          // sorted by position
}

// NewRouter creates a Router where a host of weight 1.0 owns baseReplicas
// positions. baseReplicas must be within [MinReplicas, MaxReplicas].
func NewRouter(baseReplicas int, opts ...Option) (*Router, error) {
	if baseReplicas < MinReplicas || baseReplicas > MaxReplicas {
		return nil, fmt.Errorf("%d not in [%d, %d]: %w",
			baseReplicas, MinReplicas, MaxReplicas, ErrInvalidReplicaCount)
	}

	discard := logrus.New()
	discard.Out = io.Discard

	r := &Router{
		baseReplicas: baseReplicas,
		hash:         DefaultHash,
		log:          discard,
		hosts:        make(map[string]*host),
		vnodes:       make([]vnode, 0),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// MustNewRouter is like NewRouter but panics on an invalid replica count.
func MustNewRouter(baseReplicas int, opts ...Option) *Router {
	r, err := NewRouter(baseReplicas, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// BaseReplicas returns the replica count of a weight 1.0 host.
func (r *Router) BaseReplicas() int {
	return r.baseReplicas
}

// Add registers a host. It fails without changing the ring if the name is
// taken, the weight is out of range, or the replicas cannot be placed.
func (r *Router) Add(name string, weight float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.add(name, weight)
}

// AddHost is Add reporting only whether the host was added.
func (r *Router) AddHost(name string, weight float64) bool {
	return r.Add(name, weight) == nil
}

// Caller must hold r.mu.
func (r *Router) add(name string, weight float64) error {
	if _, exists := r.hosts[name]; exists {
		return fmt.Errorf("host %q: %w", name, ErrHostExists)
	}
	if !validWeight(weight) {
		return fmt.Errorf("host %q weight %v not in [%v, %v]: %w",
			name, weight, MinWeight, MaxWeight, ErrInvalidWeight)
	}

	replicas := ReplicaCount(r.baseReplicas, weight)
	r.log.WithFields(logrus.Fields{
		"host":     name,
		"weight":   weight,
		"replicas": replicas,
	}).Debug("Placing host replicas")

	positions, err := r.place(name, replicas)
	if err != nil {
		return err
	}

	r.insert(name, positions)
	r.hosts[name] = &host{
		name:      name,
		weight:    weight,
		positions: positions,
	}
	return nil
}

// Remove unregisters a host and drops all of its positions from the ring.
func (r *Router) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.hosts[name]; !exists {
		return fmt.Errorf("host %q: %w", name, ErrHostNotFound)
	}

	kept := make([]vnode, 0, len(r.vnodes))
	for _, v := range r.vnodes {
		if v.host != name {
			kept = append(kept, v)
		}
	}
	r.vnodes = kept
	delete(r.hosts, name)

	r.log.WithField("host", name).Debug("Removed host")
	return nil
}

// RemoveHost is Remove reporting only whether the host was removed.
func (r *Router) RemoveHost(name string) bool {
	return r.Remove(name) == nil
}

// SetHosts replaces every host with specs, added in the given order. On
// error the ring is left as it was.
func (r *Router) SetHosts(specs []HostSpec) error {
	next := &Router{
		baseReplicas: r.baseReplicas,
		hash:         r.hash,
		log:          r.log,
		hosts:        make(map[string]*host, len(specs)),
		vnodes:       make([]vnode, 0),
	}
	for _, spec := range specs {
		if err := next.add(spec.Name, spec.Weight); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.hosts = next.hosts
	r.vnodes = next.vnodes
	return nil
}

// Route returns the host owning key: the first position at or after the
// key's hash, wrapping to the lowest position. It returns ("", false) when
// no hosts are registered.
func (r *Router) Route(key string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.vnodes) == 0 {
		return "", false
	}

	idx := r.successor(r.hash(key))
	h, exists := r.hosts[r.vnodes[idx].host]
	if !exists {
		return "", false
	}
	return h.name, true
}

// PreferenceList returns up to n distinct hosts for key, starting with its
// owner and walking the ring clockwise.
func (r *Router) PreferenceList(key string, n int) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.vnodes) == 0 || n <= 0 {
		return []string{}
	}

	idx := r.successor(r.hash(key))
	seen := make(map[string]bool)
	result := make([]string, 0, n)

	for i := 0; i < len(r.vnodes) && len(result) < n; i++ {
		name := r.vnodes[(idx+i)%len(r.vnodes)].host
		if !seen[name] {
			seen[name] = true
			result = append(result, name)
		}
	}
	return result
}

// Host returns a copy of the named host's record.
func (r *Router) Host(name string) (Host, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, exists := r.hosts[name]
	if !exists {
		return Host{}, false
	}
	return h.snapshot(), true
}

// Hosts returns every registered host sorted by name.
func (r *Router) Hosts() []Host {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hosts := make([]Host, 0, len(r.hosts))
	for _, h := range r.hosts {
		hosts = append(hosts, h.snapshot())
	}
	sort.Slice(hosts, func(i, j int) bool {
		return hosts[i].Name < hosts[j].Name
	})
	return hosts
}

// Len returns the number of positions on the ring.
func (r *Router) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.vnodes)
}

// search returns the index of the first vnode with position >= pos, or
// len(r.vnodes) if there is none.
func (r *Router) search(pos uint64) int {
	return sort.Search(len(r.vnodes), func(i int) bool {
		return r.vnodes[i].position >= pos
	})
}

// successor is search with wraparound. The ring must not be empty.
func (r *Router) successor(pos uint64) int {
	idx := r.search(pos)
	if idx >= len(r.vnodes) {
		idx = 0
	}
	return idx
}

func (h *host) snapshot() Host {
	positions := make([]uint64, len(h.positions))
	copy(positions, h.positions)
	return Host{
		Name:      h.name,
		Weight:    h.weight,
		Positions: positions,
	}
}
