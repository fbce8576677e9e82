package frame

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// Test_Registry_DispatchAcrossPools: Release resolves ownership without a
// pool handle, across multiple registered pools.
func Test_Registry_DispatchAcrossPools(t *testing.T) {
	mem := newTestMem(128)
	reg := NewRegistry()

	kernel := newTestPool(t, mem, reg, 0, 32, SelfHosted)
	process := newTestPool(t, mem, reg, 64, 32, 33) // bitmap outside both ranges

	kHead, err := kernel.Allocate(2)
	require.NoError(t, err)
	pHead, err := process.Allocate(5)
	require.NoError(t, err)

	// Release through the registry only; frame numbers say which pool.
	require.NoError(t, reg.Release(pHead))
	require.NoError(t, reg.Release(kHead))

	require.Equal(t, uint64(31), kernel.FreeFrames())
	require.Equal(t, uint64(32), process.FreeFrames())
	mustVerify(t, kernel)
	mustVerify(t, process)
}

func Test_Registry_UnknownFrame(t *testing.T) {
	mem := newTestMem(64)
	reg := NewRegistry()
	newTestPool(t, mem, reg, 10, 8, SelfHosted)

	err := reg.Release(50)
	if !errors.Is(err, ErrUnknownFrame) {
		t.Fatalf("Release(50) = %v, want ErrUnknownFrame", err)
	}

	// Empty registry: every frame is unknown.
	err = NewRegistry().Release(0)
	require.ErrorIs(t, err, ErrUnknownFrame)
}

func Test_Registry_NotHead(t *testing.T) {
	mem := newTestMem(64)
	reg := NewRegistry()
	p := newTestPool(t, mem, reg, 0, 8, 10)

	head, err := p.Allocate(3)
	require.NoError(t, err)

	// Body frame of a run.
	err = reg.Release(head + 1)
	require.ErrorIs(t, err, ErrNotHead)

	// Free frame.
	err = reg.Release(head + 3)
	require.ErrorIs(t, err, ErrNotHead)

	// The failed releases must not have mutated anything.
	require.Equal(t, uint64(5), p.FreeFrames())
	mustState(t, p, head, StateHeadOfSequence)
	mustState(t, p, head+1, StateUsed)
	mustVerify(t, p)
}

func Test_Registry_CapacityExceeded(t *testing.T) {
	mem := newTestMem(64)
	reg := NewRegistrySize(2)

	newTestPool(t, mem, reg, 0, 4, 10)
	newTestPool(t, mem, reg, 4, 4, 11)

	_, err := NewPool(mem, reg, 8, 4, 12)
	require.ErrorIs(t, err, ErrRegistryFull)
	require.Len(t, reg.Pools(), 2)
}

func Test_Registry_DefaultCapacity(t *testing.T) {
	mem := newTestMem(256)
	reg := NewRegistry()

	for i := 0; i < DefaultMaxPools; i++ {
		newTestPool(t, mem, reg, Frame(i*4), 4, Frame(100+i))
	}
	_, err := NewPool(mem, reg, 40, 4, 110)
	require.ErrorIs(t, err, ErrRegistryFull)

	// Non-positive sizes fall back to the default bound.
	require.Equal(t, 0, len(NewRegistrySize(-1).Pools()))
}

func Test_Registry_Totals(t *testing.T) {
	mem := newTestMem(128)
	reg := NewRegistry()

	a := newTestPool(t, mem, reg, 0, 16, SelfHosted) // 1 frame of overhead
	b := newTestPool(t, mem, reg, 32, 16, 17)

	_, err := a.Allocate(4)
	require.NoError(t, err)
	require.NoError(t, b.Reserve(40, 2))

	total, free, used := reg.Totals()
	require.Equal(t, uint64(32), total)
	require.Equal(t, uint64(25), free) // 32 - 1 overhead - 4 allocated - 2 reserved
	require.Equal(t, uint64(7), used)
}

// Test_Registry_ReleaseStopsAtNeighbor: releasing one run must not bleed into
// an adjacent run.
func Test_Registry_ReleaseStopsAtNeighbor(t *testing.T) {
	mem := newTestMem(64)
	reg := NewRegistry()
	p := newTestPool(t, mem, reg, 0, 8, 10)

	a, err := p.Allocate(2) // [0, 2)
	require.NoError(t, err)
	b, err := p.Allocate(2) // [2, 4), directly adjacent
	require.NoError(t, err)

	require.NoError(t, reg.Release(a))

	mustState(t, p, 0, StateFree)
	mustState(t, p, 1, StateFree)
	mustState(t, p, b, StateHeadOfSequence)
	mustState(t, p, b+1, StateUsed)
	require.Equal(t, uint64(6), p.FreeFrames())
	mustVerify(t, p)
}

func Test_Registry_PoolsSnapshot(t *testing.T) {
	mem := newTestMem(64)
	reg := NewRegistry()
	a := newTestPool(t, mem, reg, 0, 4, 10)
	b := newTestPool(t, mem, reg, 4, 4, 11)

	pools := reg.Pools()
	require.Equal(t, []*Pool{a, b}, pools)

	// Mutating the snapshot must not affect the registry.
	pools[0] = nil
	require.Equal(t, a, reg.Pools()[0])
}
