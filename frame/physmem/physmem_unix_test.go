//go:build unix

package physmem

import "testing"

func TestMapAnonUnix(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping mmap test in short mode")
	}
	r, err := MapAnon(4)
	if err != nil {
		t.Fatalf("MapAnon: %v", err)
	}
	data := r.Bytes()
	if len(data) != 4*4096 {
		t.Fatalf("len mismatch: got %d", len(data))
	}
	for i, b := range data {
		if b != 0 {
			t.Fatalf("byte %d not zero-filled: 0x%x", i, b)
		}
	}
	data[0] = 0xAB
	if r.Bytes()[0] != 0xAB {
		t.Fatalf("mapping not writable")
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// Double close is a no-op.
	if err := r.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
