package smr

import (
	"sync/atomic"
	"unsafe"
)

// hazardSlot is a single published hazard pointer (spec §3 "Hazard
// slot"). p is written only by the owning thread and read with acquire
// semantics by any thread running a scan; next threads the slot onto its
// owning HazardArray's free list and is never touched by a scanner.
type hazardSlot struct {
	p    unsafe.Pointer
	next *hazardSlot
}

func (s *hazardSlot) publish(p unsafe.Pointer) { atomic.StorePointer(&s.p, p) }

func (s *hazardSlot) clear() { atomic.StorePointer(&s.p, nil) }

func (s *hazardSlot) load() unsafe.Pointer { return atomic.LoadPointer(&s.p) }

// guardBlock is a fixed-capacity, chained extension of a hazard array
// (spec §3 "Guard block"). Guard blocks are drawn from the process-wide
// guard-block pool (component A) and, once spliced into a HazardArray's
// extended chain, are never unlinked or returned to the pool until SMR
// teardown (spec §4.A rationale): a concurrent scan may be mid-traversal
// of the chain at any time.
type guardBlock struct {
	slots [guardBlockSize]hazardSlot
	next  atomic.Pointer[guardBlock]
}

func (b *guardBlock) freeNext() *atomic.Pointer[guardBlock] { return &b.next }

// link clears every slot in the block and threads them into a singly
// linked free list, returning its head. Called by acquireGuard when a
// block comes off the pool; init() rebuilds a reused HazardArray's free
// list through rebuildFreeList instead.
func (b *guardBlock) link() *hazardSlot {
	for i := range b.slots {
		b.slots[i].p = nil
		if i+1 < len(b.slots) {
			b.slots[i].next = &b.slots[i+1]
		} else {
			b.slots[i].next = nil
		}
	}
	return &b.slots[0]
}

// HazardArray is the per-thread, dynamically extensible array of hazard
// slots described in spec §3/§4.B. The owning thread is the sole mutator
// of its structure (the initial segment, the extended chain, and the
// free list); scan and help_scan read the published values concurrently
// from any thread.
type HazardArray struct {
	initial  []hazardSlot // length N0, allocated once per thread record
	extended atomic.Pointer[guardBlock]
	pool     *blockAllocator[guardBlock, *guardBlock]

	free *hazardSlot // owner-exclusive free list of unvended slots
}

func newHazardArray(n0 int, pool *blockAllocator[guardBlock, *guardBlock]) *HazardArray {
	h := &HazardArray{
		initial: make([]hazardSlot, n0),
		pool:    pool,
	}
	h.init()
	return h
}

// init resets the array for a new attachment (spec §4.B "init"): clears
// the initial segment and rebuilds the free list across it and whatever
// extended blocks the record already has. A reused thread record keeps
// its extended blocks forever — the source never releases guard blocks
// before SMR teardown, and this port reproduces that.
func (h *HazardArray) init() {
	for i := range h.initial {
		h.initial[i].clear()
	}
	h.rebuildFreeList()
}

// clear nulls every live slot, initial and extended, with release
// semantics, so that a scan running concurrently with (or just after) a
// detach never observes a stale published hazard (spec §4.B "clear").
func (h *HazardArray) clear() {
	for i := range h.initial {
		h.initial[i].clear()
	}
	for b := h.extended.Load(); b != nil; b = b.next.Load() {
		for i := range b.slots {
			b.slots[i].clear()
		}
	}
}

func (h *HazardArray) rebuildFreeList() {
	var head, tail *hazardSlot
	link := func(s *hazardSlot) {
		s.next = nil
		if head == nil {
			head = s
		} else {
			tail.next = s
		}
		tail = s
	}

	for i := range h.initial {
		link(&h.initial[i])
	}
	for b := h.extended.Load(); b != nil; b = b.next.Load() {
		for i := range b.slots {
			link(&b.slots[i])
		}
	}
	h.free = head
}

// acquireGuard vends a free slot to the client, growing the extended
// chain by one guard block when the array is exhausted (spec §4.B
// "alloc_guard"). The extended chain is owner-mutated only, so splicing
// a new block needs no CAS: the next field is set before the head is
// published, so a concurrent scanner never sees a partially linked block.
func (h *HazardArray) acquireGuard() *hazardSlot {
	if h.free == nil {
		b := h.pool.alloc()
		head := b.link()
		b.next.Store(h.extended.Load())
		h.extended.Store(b)
		h.free = head
	}

	s := h.free
	h.free = s.next
	s.next = nil
	return s
}

// releaseGuard returns a slot to the free list, clearing its published
// value first so no scan observes it as still hazarded (spec §4.B
// "free_guard").
func (h *HazardArray) releaseGuard(s *hazardSlot) {
	s.clear()
	s.next = h.free
	h.free = s
}

// forEach calls fn with every currently published (non-nil) hazard
// pointer in the array, in the order scan's Stage 1 expects to collect
// them: the initial segment first, then each extended block in chain
// order. Safe to call from any thread.
func (h *HazardArray) forEach(fn func(unsafe.Pointer)) {
	for i := range h.initial {
		if p := h.initial[i].load(); p != nil {
			fn(p)
		}
	}
	for b := h.extended.Load(); b != nil; b = b.next.Load() {
		for i := range b.slots {
			if p := b.slots[i].load(); p != nil {
				fn(p)
			}
		}
	}
}
