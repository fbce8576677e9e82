//go:build !unix

package physmem

import "os"

// MapAnon returns a heap-backed region when mmap is not available.
func MapAnon(nframes uint64) (*Region, error) {
	if _, err := regionSize(nframes); err != nil {
		return nil, err
	}
	return New(nframes), nil
}

// MapFile returns a heap-backed region; Sync rewrites the whole file.
func MapFile(path string, nframes uint64) (*Region, error) {
	size, err := regionSize(nframes)
	if err != nil {
		return nil, err
	}

	data := make([]byte, size)
	if existing, err := os.ReadFile(path); err == nil {
		copy(data, existing)
	}
	return &Region{
		data: data,
		sync: func() error { return os.WriteFile(path, data, 0o644) },
	}, nil
}
