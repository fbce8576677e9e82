package frame

import "fmt"

// Verify checks the pool's bookkeeping against its raw bitmap and returns a
// descriptive error on the first violation found. It recomputes the free
// count and validates run structure; the bitmap itself is the ground truth.
//
// Checked invariants:
//
//   - the cached free count equals the number of frames in state Free
//   - every Used frame continues a run: it directly follows a HeadOfSequence
//     or Used frame (the sole exception is relative frame 0 of a self-hosted
//     pool, which is bitmap overhead marked Used at construction)
//   - every Reserved frame directly follows a HeadOfSequence or Reserved
//     frame
//
// Primarily used by tests after every mutation, but cheap enough for callers
// to run at checkpoints: a single O(nframes) walk.
func Verify(p *Pool) error {
	var free uint64

	for i := uint64(0); i < p.nframes; i++ {
		st := p.states.get(i)
		switch st {
		case StateFree:
			free++
		case StateUsed:
			if i == 0 {
				if p.metaFrame != SelfHosted {
					return fmt.Errorf("frame: pool %d: frame %d Used with no head before it", p.base, p.base)
				}
				continue
			}
			if prev := p.states.get(i - 1); prev != StateHeadOfSequence && prev != StateUsed {
				return fmt.Errorf("frame: pool %d: frame %d Used after %s", p.base, p.base+Frame(i), prev)
			}
		case StateReserved:
			if i == 0 {
				return fmt.Errorf("frame: pool %d: frame %d Reserved with no head before it", p.base, p.base)
			}
			if prev := p.states.get(i - 1); prev != StateHeadOfSequence && prev != StateReserved {
				return fmt.Errorf("frame: pool %d: frame %d Reserved after %s", p.base, p.base+Frame(i), prev)
			}
		case StateHeadOfSequence:
			// Any position is legal for a head.
		}
	}

	if free != p.freeCount {
		return fmt.Errorf("frame: pool %d: free count %d, bitmap says %d", p.base, p.freeCount, free)
	}
	return nil
}
