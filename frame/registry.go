package frame

import "fmt"

// Registry is the process-wide table of live pools. Its single job is
// resolving "which pool owns frame X" so that a run can be released through
// its head frame number alone, without a pool handle.
//
// Pools register at construction and are never deregistered; capacity is a
// small fixed bound. Build one registry at startup and pass it to whatever
// needs release capability - there is no implicit global instance.
type Registry struct {
	pools []*Pool
	max   int
}

// NewRegistry returns a registry bounded at DefaultMaxPools.
func NewRegistry() *Registry {
	return NewRegistrySize(DefaultMaxPools)
}

// NewRegistrySize returns a registry bounded at max pools. Non-positive max
// falls back to DefaultMaxPools.
func NewRegistrySize(max int) *Registry {
	if max <= 0 {
		max = DefaultMaxPools
	}
	return &Registry{
		pools: make([]*Pool, 0, max),
		max:   max,
	}
}

// register appends p, failing with ErrRegistryFull at capacity. Registered
// pools' ranges must be disjoint; that is the caller's contract (ranges come
// from a machine memory map) and is not enforced here.
func (r *Registry) register(p *Pool) error {
	if len(r.pools) >= r.max {
		return fmt.Errorf("%w: capacity %d", ErrRegistryFull, r.max)
	}
	r.pools = append(r.pools, p)
	return nil
}

// lookup returns the pool owning f, scanning in insertion order.
func (r *Registry) lookup(f Frame) *Pool {
	for _, p := range r.pools {
		if p.Contains(f) {
			return p
		}
	}
	return nil
}

// Release frees the run whose head is f, resolving the owning pool through
// the registry. The head becomes Free, then every directly following Used
// frame; the walk stops at the first Free, HeadOfSequence, or Reserved frame
// or the pool edge. A run produced by Allocate is therefore released fully
// and exactly.
//
// ErrUnknownFrame (no pool owns f) and ErrNotHead (f is not a HeadOfSequence
// frame) are protocol violations: they mean caller misuse or corrupted
// bookkeeping, and the affected pools must not be trusted afterwards.
// Continuing to allocate from them risks handing out memory twice.
//
// Precondition: f came from Allocate, not Reserve. Releasing a reserved
// range's head frees only the head and strands the Reserved body; reserved
// memory is not meant to re-enter circulation.
func (r *Registry) Release(f Frame) error {
	p := r.lookup(f)
	if p == nil {
		return fmt.Errorf("%w: frame %d", ErrUnknownFrame, f)
	}

	rel := uint64(f - p.base)
	if st := p.states.get(rel); st != StateHeadOfSequence {
		return fmt.Errorf("%w: frame %d is %s", ErrNotHead, f, st)
	}

	p.releaseRun(rel)
	return nil
}

// Pools returns a snapshot of the registered pools in insertion order.
func (r *Registry) Pools() []*Pool {
	out := make([]*Pool, len(r.pools))
	copy(out, r.pools)
	return out
}

// Totals returns frame counts aggregated over every registered pool.
func (r *Registry) Totals() (total, free, used uint64) {
	for _, p := range r.pools {
		total += p.nframes
		free += p.freeCount
	}
	return total, free, total - free
}
