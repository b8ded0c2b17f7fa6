// Package arena provides the default raw-memory source behind the SMR
// package's allocator hook (spec §6 "Memory hooks"), used by
// smr.AllocOffHeap and smr.FreeOffHeap for client payloads. The core's
// own guard and retired blocks are Go heap allocations and do not come
// from here.
//
// The spec models the allocator hook as a pair of process-wide function
// pointers ("two process-wide function pointers; default: raw array
// alloc/free"). This package supplies that default: each call to Alloc
// maps a fresh anonymous region of the requested size with mmap and hands
// it back as a byte slice; Free unmaps it. Regions never move once
// allocated, and mapping each one individually rather than out of one
// shared arena keeps Free exact.
package arena

// AllocFunc mirrors the spec's alloc hook: it returns a fresh,
// zero-initialized region of at least size bytes.
type AllocFunc func(size int) []byte

// FreeFunc mirrors the spec's free hook: it releases a region obtained
// from the matching AllocFunc.
type FreeFunc func(b []byte)
