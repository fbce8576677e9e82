package frame

import "errors"

var (
	// ErrNoSpace indicates that no contiguous run of free frames large enough
	// was found. Recoverable: try a smaller request or a different pool.
	ErrNoSpace = errors.New("frame: no contiguous run of free frames")

	// ErrBadCount indicates a zero frame count where at least one is required.
	ErrBadCount = errors.New("frame: frame count must be >= 1")

	// ErrOutOfRange indicates a reservation range not fully contained in the pool.
	ErrOutOfRange = errors.New("frame: range not contained in pool")

	// ErrBadMetadata indicates a metadata frame whose bitmap does not fit the
	// backing memory, a self-hosted bitmap larger than one frame, or a pool
	// geometry whose byte sizes are not representable.
	ErrBadMetadata = errors.New("frame: bitmap does not fit metadata frame")

	// ErrRegistryFull indicates the registry is at capacity; the pool was not
	// constructed, since an unregistered pool could never be released into.
	ErrRegistryFull = errors.New("frame: pool registry full")

	// ErrUnknownFrame indicates a release of a frame no registered pool owns.
	// The allocator's bookkeeping can no longer be trusted; do not retry.
	ErrUnknownFrame = errors.New("frame: frame not owned by any registered pool")

	// ErrNotHead indicates a release of a frame that is not the head of a run.
	// This means caller error or corrupted bookkeeping; do not retry.
	ErrNotHead = errors.New("frame: frame is not the head of a sequence")
)
