//go:build unix

package physmem

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// MapAnon maps an anonymous region of nframes frames. The pages are
// zero-filled by the kernel and never touch a backing file.
func MapAnon(nframes uint64) (*Region, error) {
	size, err := regionSize(nframes)
	if err != nil {
		return nil, err
	}

	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}
	return &Region{
		data:    data,
		cleanup: munmap(data),
	}, nil
}

// MapFile maps a shared region of nframes frames backed by the file at path,
// creating or extending the file as needed. Sync flushes the pages to disk.
func MapFile(path string, nframes uint64) (*Region, error) {
	size, err := regionSize(nframes)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	defer f.Close() // safe before return; mapping keeps pages alive

	if err := f.Truncate(int64(size)); err != nil {
		return nil, err
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}
	return &Region{
		data:    data,
		sync:    func() error { return unix.Msync(data, unix.MS_SYNC) },
		cleanup: munmap(data),
	}, nil
}

func munmap(data []byte) func() error {
	return func() error {
		err := unix.Munmap(data)
		if errors.Is(err, unix.EINVAL) {
			// Treat double-unmap as no-op for callers.
			return nil
		}
		return err
	}
}
