// Package smr implements a Dynamic Hazard Pointer safe-memory-reclamation
// core for lock-free concurrent data structures.
//
// Each attached thread (goroutine, in this port) owns a hazard array for
// publishing the pointers it is currently dereferencing and a retired
// array for objects it has logically removed but not yet freed. Guard
// publishes into a hazard slot; Retire records a deletion; Scan walks
// the registry of every attached thread's hazards and frees any
// retiree absent from that set. DetachThread runs a scan of its own
// retirees and then a help_scan to adopt anything orphaned by threads
// that exited without detaching.
//
// Typical use:
//
//	smr.Construct(16)
//	defer smr.Destruct(false)
//
//	smr.AttachThread()
//	defer smr.DetachThread()
//
//	g := smr.AcquireGuard()
//	defer smr.ReleaseGuard(g)
//	g.Store(unsafe.Pointer(node))
//	// ... dereference node ...
//	g.Clear()
//
//	smr.Retire(unsafe.Pointer(node), func(addr, extra unsafe.Pointer) {
//		free((*myNode)(addr))
//	}, nil)
//
// A node backed by off-heap storage, allocated and freed through the
// pluggable allocator hook (spec §6) instead of the Go heap:
//
//	buf := smr.AllocOffHeap(nodeSize)
//	node := (*myNode)(unsafe.Pointer(&buf[0]))
//	// ... populate *node, publish it, dereference it via a guard ...
//	smr.Retire(unsafe.Pointer(node), func(addr, extra unsafe.Pointer) {
//		smr.FreeOffHeap(unsafe.Slice((*byte)(addr), nodeSize))
//	}, nil)
package smr
