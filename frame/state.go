package frame

// FrameState is the allocation state of a single frame. Exactly four states
// exist; each occupies 2 bits in a pool's bitmap.
type FrameState uint8

const (
	// StateFree marks a frame available for allocation.
	StateFree FrameState = 0

	// StateUsed marks an allocated frame that is not the first of its run.
	StateUsed FrameState = 1

	// StateHeadOfSequence marks the first frame of an allocated run.
	StateHeadOfSequence FrameState = 2

	// StateReserved marks a frame placed by Reserve that is not the head of
	// its range. The release walk stops at Reserved frames instead of freeing
	// them, which is what keeps reserved memory out of circulation.
	StateReserved FrameState = 3
)

// String returns a short name for the state.
func (s FrameState) String() string {
	switch s {
	case StateFree:
		return "Free"
	case StateUsed:
		return "Used"
	case StateHeadOfSequence:
		return "HeadOfSequence"
	case StateReserved:
		return "Reserved"
	}
	return "Invalid"
}

const (
	framesPerByte = 4
	stateMask     = 0x3
)

// stateMap packs one FrameState per frame into 2 bits, four frames per byte.
// Indices are pool-relative; bounds checking is the caller's responsibility.
// Callers never see these bytes - the packing is a Pool implementation detail.
type stateMap []byte

// maxPoolFrames is the largest frame count whose bitmap size in bits still
// fits a uint64; bitmapBytes wraps beyond it. NewPool rejects larger pools.
const maxPoolFrames = (^uint64(0) - 7) / 2

// bitmapBytes returns the bitmap size in bytes for nframes frames.
// nframes must not exceed maxPoolFrames.
func bitmapBytes(nframes uint64) uint64 {
	return (nframes*2 + 7) / 8
}

func (m stateMap) get(i uint64) FrameState {
	shift := (i % framesPerByte) * 2
	return FrameState((m[i/framesPerByte] >> shift) & stateMask)
}

// set overwrites exactly the 2 bits for index i, leaving adjacent frames
// untouched.
func (m stateMap) set(i uint64, s FrameState) {
	idx := i / framesPerByte
	shift := (i % framesPerByte) * 2
	m[idx] = m[idx]&^(stateMask<<shift) | byte(s)<<shift
}
