package physmem_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/framekit/frame"
	"github.com/joshuapare/framekit/frame/physmem"
)

func TestNewRegion(t *testing.T) {
	r := physmem.New(16)
	require.Equal(t, uint64(16), r.Frames())
	require.Len(t, r.Bytes(), 16*frame.FrameSize)
	require.NoError(t, r.Sync()) // no-op for heap-backed regions
	require.NoError(t, r.Close())
	require.Nil(t, r.Bytes())
}

// TestPoolOverRegion exercises a full allocate/reserve/release cycle over a
// region, with the pool's bitmap living inside the region itself.
func TestPoolOverRegion(t *testing.T) {
	r := physmem.New(64)
	defer r.Close()

	reg := frame.NewRegistry()
	p, err := frame.NewPool(r, reg, 0, 64, frame.SelfHosted)
	require.NoError(t, err)
	require.Equal(t, uint64(63), p.FreeFrames())

	require.NoError(t, p.Reserve(32, 8))

	head, err := p.Allocate(10)
	require.NoError(t, err)
	require.NoError(t, frame.Verify(p))

	require.NoError(t, reg.Release(head))
	require.Equal(t, uint64(55), p.FreeFrames())
	require.NoError(t, frame.Verify(p))

	// The bitmap occupies the front of frame 0's bytes; the first state
	// byte must be non-zero (frame 0 itself is marked Used).
	require.NotZero(t, r.Bytes()[0])
}

func TestMapFileRegion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "physmem.bin")

	r, err := physmem.MapFile(path, 8)
	require.NoError(t, err)

	reg := frame.NewRegistry()
	p, err := frame.NewPool(r, reg, 0, 8, frame.SelfHosted)
	require.NoError(t, err)
	_, err = p.Allocate(2)
	require.NoError(t, err)

	require.NoError(t, r.Sync())
	require.NoError(t, r.Close())
}

func TestRegionZeroFrames(t *testing.T) {
	_, err := physmem.MapAnon(0)
	require.Error(t, err)
	_, err = physmem.MapFile(filepath.Join(t.TempDir(), "x.bin"), 0)
	require.Error(t, err)
}
