// Package physmem provides byte-addressed backing memory for frame pools.
//
// A Region stands in for the machine's physical frame space: a flat byte
// slice in which frame number n lives at offset n * frame.FrameSize. Pools
// keep their state bitmaps inside the region, exactly as a kernel allocator
// keeps them inside the physical frames it manages.
//
// Three constructors are provided:
//
//   - New: heap-backed region, available everywhere; the usual choice for tests
//   - MapAnon: anonymous mmap region (unix), for frame spaces larger than the
//     Go heap should carry
//   - MapFile: file-backed shared mapping (unix) with Sync, for inspecting a
//     frame space across process runs
//
// On non-unix platforms MapAnon and MapFile fall back to heap-backed regions.
package physmem
