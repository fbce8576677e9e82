package frame

import "testing"

// ============================================================================
// Test Helpers
// ============================================================================

// testMem is a heap-backed Memory for in-package tests. Integration tests
// over real mappings live in the physmem package.
type testMem []byte

func (m testMem) Bytes() []byte { return m }

// newTestMem returns zeroed backing memory holding nframes frames.
func newTestMem(nframes uint64) testMem {
	return make(testMem, nframes*FrameSize)
}

// newTestPool builds a pool and fails the test on error.
func newTestPool(t testing.TB, mem Memory, reg *Registry, base Frame, nframes uint64, meta Frame) *Pool {
	t.Helper()
	p, err := NewPool(mem, reg, base, nframes, meta)
	if err != nil {
		t.Fatalf("NewPool(base=%d, nframes=%d, meta=%d): %v", base, nframes, meta, err)
	}
	return p
}

// mustVerify fails the test if the pool's bookkeeping violates an invariant.
func mustVerify(t testing.TB, p *Pool) {
	t.Helper()
	if err := Verify(p); err != nil {
		t.Fatal(err)
	}
}

// mustState fails the test unless the absolute frame f is in state want.
func mustState(t testing.TB, p *Pool, f Frame, want FrameState) {
	t.Helper()
	got, ok := p.State(f)
	if !ok {
		t.Fatalf("frame %d not in pool [%d, %d)", f, p.BaseFrame(), uint64(p.BaseFrame())+p.FrameCount())
	}
	if got != want {
		t.Fatalf("frame %d: state %s, want %s", f, got, want)
	}
}

// snapshotStates captures the state of every frame in the pool.
func snapshotStates(p *Pool) []FrameState {
	out := make([]FrameState, p.FrameCount())
	for i := range out {
		out[i], _ = p.State(p.BaseFrame() + Frame(i))
	}
	return out
}
