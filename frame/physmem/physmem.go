package physmem

import (
	"fmt"

	"github.com/joshuapare/framekit/frame"
)

// Region is a contiguous block of backing memory for frame pools. It
// implements frame.Memory.
type Region struct {
	data    []byte
	sync    func() error
	cleanup func() error
}

// Bytes returns the region's backing bytes. The slice stays valid until
// Close.
func (r *Region) Bytes() []byte {
	return r.data
}

// Frames returns the number of whole frames the region holds.
func (r *Region) Frames() uint64 {
	return uint64(len(r.data)) / frame.FrameSize
}

// Sync flushes a file-backed region to disk. It is a no-op for anonymous and
// heap-backed regions.
func (r *Region) Sync() error {
	if r.sync == nil {
		return nil
	}
	return r.sync()
}

// Close releases the mapping. The slice returned by Bytes must not be used
// afterwards; any pool built over the region is dead.
func (r *Region) Close() error {
	if r.cleanup == nil {
		r.data = nil
		return nil
	}
	err := r.cleanup()
	r.cleanup = nil
	r.data = nil
	return err
}

// New returns a heap-backed region of nframes frames, zero-initialized.
func New(nframes uint64) *Region {
	return &Region{data: make([]byte, nframes*frame.FrameSize)}
}

// regionSize validates nframes and returns the byte size of the mapping.
func regionSize(nframes uint64) (int, error) {
	if nframes == 0 {
		return 0, fmt.Errorf("physmem: region must hold at least one frame")
	}
	size := nframes * frame.FrameSize
	if size/frame.FrameSize != nframes || size > uint64(^uint(0)>>1) {
		return 0, fmt.Errorf("physmem: region of %d frames too large to map", nframes)
	}
	return int(size), nil
}
