// Package frame provides contiguous physical-frame allocation for kernel-style
// memory managers.
//
// # Overview
//
// Physical memory is modeled as a flat frame space: fixed-size frames
// identified by absolute integer indices. A Pool owns one contiguous range of
// frames and tracks each frame's allocation state in a packed 2-bit bitmap
// that lives inside the frame space itself, either in an externally supplied
// metadata frame or in the pool's own first frame.
//
// Pools support two ways of consuming frames:
//
//   - Allocate(n): first-fit search for n contiguous free frames
//   - Reserve(base, n): direct placement over a range known to be occupied
//     out of band (firmware tables, boot images, metadata frames)
//
// Frames are handed back through the Registry, not through a pool: a caller
// releasing a run knows only the head frame number, and the registry resolves
// which pool owns it.
//
// # Usage Example
//
//	mem := physmem.New(2048)
//	reg := frame.NewRegistry()
//
//	// Kernel pool hosts its own bitmap in its first frame.
//	kernel, err := frame.NewPool(mem, reg, 0, 1024, frame.SelfHosted)
//	if err != nil {
//	    return err
//	}
//
//	head, err := kernel.Allocate(3)
//	if err != nil {
//	    return err
//	}
//
//	// Later, release the whole run through the registry.
//	if err := reg.Release(head); err != nil {
//	    // Release errors mean corrupted or misused bookkeeping.
//	    log.Fatal(err)
//	}
//
// # Frame States
//
// Each frame is in exactly one of four states, stored in 2 bits:
//
//	Free           available for allocation
//	Used           allocated, not the first frame of its run
//	HeadOfSequence allocated, first frame of a run (run length >= 1)
//	Reserved       placed via Reserve, not the first frame of that range
//
// A run allocated by Allocate is a HeadOfSequence frame followed by zero or
// more Used frames; Release walks forward from the head and frees until it
// meets a Free, HeadOfSequence, or Reserved frame (or the pool edge).
//
// # Reserved Ranges
//
// Reserve marks the body of a range Reserved rather than Used so that the
// release walk treats it as an opaque boundary. Releasing the head of a
// reserved range frees only the head; the Reserved body never re-enters the
// free pool. Do not call Release on heads obtained from Reserve - reserved
// memory is meant to stay out of circulation.
//
// # Error Handling
//
// Recoverable conditions (no space, bad arguments, out-of-range reservation)
// return sentinel errors such as ErrNoSpace and ErrOutOfRange. Errors from
// Registry.Release (ErrUnknownFrame, ErrNotHead) indicate caller misuse or
// corrupted bookkeeping; the allocator's bitmap is the single source of truth
// for physical memory safety, so callers must stop using the affected pools
// instead of retrying.
//
// # Thread Safety
//
// Pools and registries are not thread-safe. The design assumes a single
// logical actor, consistent with boot-time memory management before
// multiprocessing is enabled. Callers in concurrent environments must hold
// one lock per pool across entire operations, plus a registry lock.
//
// # Related Packages
//
//   - github.com/joshuapare/framekit/frame/physmem: mmap-backed frame space
package frame
