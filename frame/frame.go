package frame

const (
	// FrameSize is the size in bytes of a single physical frame. Frame numbers
	// translate to byte offsets in the frame space by multiplying with it.
	FrameSize = 4096

	// DefaultMaxPools is the registry capacity used by NewRegistry.
	DefaultMaxPools = 10
)

// Frame identifies a physical frame by its absolute, process-wide index.
// Frames are never instantiated as objects; they exist only as indices into
// the bitmap of the pool that owns them.
type Frame uint64

// Addr returns the byte offset of the frame within the physical frame space.
func (f Frame) Addr() uint64 {
	return uint64(f) * FrameSize
}

// Memory is the physical frame space pools carve their ranges out of. The
// returned slice must stay valid and stable for the lifetime of every pool
// built over it; pools keep their state bitmaps inside it.
//
// physmem.Region is the standard implementation.
type Memory interface {
	Bytes() []byte
}

// MetadataFrames returns the number of whole frames required to hold the
// state bitmap for a pool of nframes frames (2 bits per frame, rounded up to
// bytes, rounded up to frames).
//
// Callers use it before construction to decide whether a pool can self-host
// its bitmap (result == 1) or needs externally supplied metadata frames.
func MetadataFrames(nframes uint64) uint64 {
	return (bitmapBytes(nframes) + FrameSize - 1) / FrameSize
}
