package frame

import (
	"fmt"
	"os"
)

// Runtime debug flag for allocation logging - controlled by FRAME_LOG_ALLOC env var.
var logFrames = os.Getenv("FRAME_LOG_ALLOC") != ""

// SelfHosted is the metadata-frame argument that asks NewPool to keep the
// state bitmap inside the pool's own first frame. That frame is pre-marked
// Used and permanently unavailable to callers - invisible overhead, not a
// user-visible allocation.
const SelfHosted Frame = 0

// Stats holds per-pool operation counters.
type Stats struct {
	AllocCalls     int    // Total Allocate() calls
	AllocFrames    uint64 // Frames handed out by Allocate()
	FailedAllocs   int    // Allocate() calls that returned ErrNoSpace
	ReserveCalls   int    // Total Reserve() calls
	ReservedFrames uint64 // Frames placed by Reserve()
	ReleaseCalls   int    // Release walks that landed in this pool
	ReleasedFrames uint64 // Frames returned to Free by release walks
}

// Pool owns one contiguous range of physical frames and the bitmap that
// describes their allocation state. Pools are created once and live for the
// remainder of the process; they are never destroyed or resized.
type Pool struct {
	mem       Memory
	base      Frame  // first absolute frame number owned by this pool
	nframes   uint64 // number of frames owned
	freeCount uint64 // frames currently Free; invariant checked by Verify
	metaFrame Frame  // SelfHosted, or the external frame holding the bitmap
	states    stateMap
	stats     Stats
}

// NewPool constructs a pool over nframes frames starting at base, initializes
// every frame to Free, and registers the pool in reg.
//
// metaFrame locates the state bitmap within mem. Pass SelfHosted to host the
// bitmap in the pool's own first frame; the bitmap must then fit in a single
// frame (use MetadataFrames to check), and relative frame 0 is consumed.
// Otherwise metaFrame names an externally owned frame - typically one
// reserved or allocated out of another pool - and the pool's full capacity
// stays allocatable.
//
// Construction fails with ErrRegistryFull when reg is at capacity: a pool the
// registry cannot see could never serve a Release, so it must not exist.
func NewPool(mem Memory, reg *Registry, base Frame, nframes uint64, metaFrame Frame) (*Pool, error) {
	if mem == nil || reg == nil {
		return nil, fmt.Errorf("frame: NewPool requires memory and registry")
	}
	if nframes == 0 {
		return nil, ErrBadCount
	}
	if nframes > maxPoolFrames {
		return nil, fmt.Errorf("%w: bitmap size for %d frames not representable",
			ErrBadMetadata, nframes)
	}

	selfHosted := metaFrame == SelfHosted
	if selfHosted {
		metaFrame = base
		if MetadataFrames(nframes) > 1 {
			return nil, fmt.Errorf("%w: self-hosted pool of %d frames needs %d metadata frames",
				ErrBadMetadata, nframes, MetadataFrames(nframes))
		}
	}

	data := mem.Bytes()
	off := metaFrame.Addr()
	size := bitmapBytes(nframes)
	// Both guards matter: Addr wraps for absurd frame numbers, and off+size
	// wraps when both operands are large. Either wrap would sneak the bitmap
	// past the fit check below.
	if off/FrameSize != uint64(metaFrame) || off+size < off {
		return nil, fmt.Errorf("%w: metadata frame %d out of addressable range",
			ErrBadMetadata, metaFrame)
	}
	if off+size > uint64(len(data)) {
		return nil, fmt.Errorf("%w: bitmap [%d, %d) exceeds %d bytes of backing memory",
			ErrBadMetadata, off, off+size, len(data))
	}

	p := &Pool{
		mem:       mem,
		base:      base,
		nframes:   nframes,
		freeCount: nframes,
		metaFrame: metaFrame,
		states:    stateMap(data[off : off+size]),
	}
	if selfHosted {
		p.metaFrame = SelfHosted
	}

	// Initialize every frame to Free. The backing bytes may hold anything.
	for i := range p.states {
		p.states[i] = 0
	}

	// A self-hosted bitmap consumes the pool's first frame before any
	// free-count accounting.
	if selfHosted {
		p.states.set(0, StateUsed)
		p.freeCount--
	}

	if err := reg.register(p); err != nil {
		return nil, err
	}

	if logFrames {
		fmt.Fprintf(os.Stderr, "[FRAME] pool: base=%d frames=%d free=%d selfHosted=%v\n",
			p.base, p.nframes, p.freeCount, selfHosted)
	}
	return p, nil
}

// Allocate finds the first run of n contiguous free frames, marks its head
// HeadOfSequence and its body Used, and returns the head's absolute frame
// number. First-fit: deterministic, but can fragment.
//
// Returns ErrNoSpace when no such run exists - either too few free frames
// overall (fast-path rejection) or free frames too fragmented. The search is
// O(nframes * n) worst case, acceptable at boot-time pool sizes.
func (p *Pool) Allocate(n uint64) (Frame, error) {
	p.stats.AllocCalls++
	if n == 0 {
		return 0, ErrBadCount
	}

	// Fast-path rejection. Passing it does not guarantee a run exists, since
	// free frames may be fragmented.
	if p.freeCount < n {
		p.stats.FailedAllocs++
		if logFrames {
			fmt.Fprintf(os.Stderr, "[FRAME] alloc %d: only %d free in pool %d\n", n, p.freeCount, p.base)
		}
		return 0, ErrNoSpace
	}

	for start := uint64(0); start+n <= p.nframes; start++ {
		run := true
		for i := uint64(0); i < n; i++ {
			if p.states.get(start+i) != StateFree {
				run = false
				break
			}
		}
		if !run {
			continue
		}

		p.states.set(start, StateHeadOfSequence)
		for i := uint64(1); i < n; i++ {
			p.states.set(start+i, StateUsed)
		}
		p.freeCount -= n
		p.stats.AllocFrames += n

		head := p.base + Frame(start)
		if logFrames {
			fmt.Fprintf(os.Stderr, "[FRAME] alloc %d: head=%d free=%d\n", n, head, p.freeCount)
		}
		return head, nil
	}

	p.stats.FailedAllocs++
	if logFrames {
		fmt.Fprintf(os.Stderr, "[FRAME] alloc %d: fragmented, %d free in pool %d\n", n, p.freeCount, p.base)
	}
	return 0, ErrNoSpace
}

// Reserve places a run over [base, base+n) without searching: the head is
// marked HeadOfSequence and the body Reserved. Used to carve out ranges known
// a priori to be occupied (firmware, boot images, metadata frames) before
// general allocation begins.
//
// The caller asserts the range is currently free; that is mostly not
// verified - only a provably false assertion (more frames than are free at
// all) fails, with ErrNoSpace. Returns ErrOutOfRange when the range is not
// fully contained in this pool.
// Do not call Registry.Release on the head of a reserved range - only the
// head would be freed, and the Reserved body stays allocated forever.
func (p *Pool) Reserve(base Frame, n uint64) error {
	p.stats.ReserveCalls++
	if n == 0 {
		return ErrBadCount
	}
	if base < p.base {
		return fmt.Errorf("%w: [%d, %d) vs pool [%d, %d)",
			ErrOutOfRange, base, uint64(base)+n, p.base, uint64(p.base)+p.nframes)
	}
	rel := uint64(base - p.base)
	// n > nframes-rel instead of rel+n > nframes: the sum wraps for huge n.
	if rel >= p.nframes || n > p.nframes-rel {
		return fmt.Errorf("%w: [%d, +%d) vs pool [%d, %d)",
			ErrOutOfRange, base, n, p.base, uint64(p.base)+p.nframes)
	}
	if p.freeCount < n {
		return fmt.Errorf("%w: reserving %d frames with %d free", ErrNoSpace, n, p.freeCount)
	}

	p.states.set(rel, StateHeadOfSequence)
	for i := uint64(1); i < n; i++ {
		p.states.set(rel+i, StateReserved)
	}
	p.freeCount -= n
	p.stats.ReservedFrames += n

	if logFrames {
		fmt.Fprintf(os.Stderr, "[FRAME] reserve [%d, %d): free=%d\n", base, uint64(base)+n, p.freeCount)
	}
	return nil
}

// releaseRun frees the run headed at relative frame rel: the head itself,
// then every directly following Used frame. The walk stops at the first
// Free, HeadOfSequence, or Reserved frame, or the pool edge - that boundary
// frame is not consumed. Returns the number of frames freed.
//
// The caller has already verified that rel is a HeadOfSequence frame.
func (p *Pool) releaseRun(rel uint64) uint64 {
	p.states.set(rel, StateFree)
	p.freeCount++
	freed := uint64(1)

	for cur := rel + 1; cur < p.nframes; cur++ {
		if p.states.get(cur) != StateUsed {
			break
		}
		p.states.set(cur, StateFree)
		p.freeCount++
		freed++
	}

	p.stats.ReleaseCalls++
	p.stats.ReleasedFrames += freed
	if logFrames {
		fmt.Fprintf(os.Stderr, "[FRAME] release head=%d: freed %d, free=%d\n",
			p.base+Frame(rel), freed, p.freeCount)
	}
	return freed
}

// Contains reports whether f falls within this pool's frame range.
func (p *Pool) Contains(f Frame) bool {
	return f >= p.base && uint64(f-p.base) < p.nframes
}

// State returns the allocation state of an absolute frame number, and false
// when the frame is outside this pool's range.
func (p *Pool) State(f Frame) (FrameState, bool) {
	if !p.Contains(f) {
		return StateFree, false
	}
	return p.states.get(uint64(f - p.base)), true
}

// BaseFrame returns the first absolute frame number owned by this pool.
func (p *Pool) BaseFrame() Frame { return p.base }

// FrameCount returns the number of frames owned by this pool.
func (p *Pool) FrameCount() uint64 { return p.nframes }

// FreeFrames returns the number of frames currently Free.
func (p *Pool) FreeFrames() uint64 { return p.freeCount }

// SelfHosted reports whether the pool keeps its bitmap in its own first frame.
func (p *Pool) SelfHosted() bool { return p.metaFrame == SelfHosted }

// Stats returns a copy of the pool's operation counters.
func (p *Pool) Stats() Stats { return p.stats }
