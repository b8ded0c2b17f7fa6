package smr

import (
	"sync/atomic"
	"unsafe"
)

// Deleter reclaims the object at addr once no hazard protects it. extra
// carries whatever side-channel the client attached at Retire time
// (spec §3 "Retired entry": "(raw_address, deleter, extra)").
type Deleter func(addr, extra unsafe.Pointer)

// RetiredPtr is one entry in a thread's retired array: an object that is
// logically deleted but not yet known to be free of hazards.
type RetiredPtr struct {
	Addr    unsafe.Pointer
	Extra   unsafe.Pointer
	Deleter Deleter
}

func (r RetiredPtr) isEmpty() bool { return r.Deleter == nil }

// retiredBlock is one fixed-capacity segment of a thread's retired
// array. Its capacity is fixed per SMR instance at construct time (spec
// §3 "Retired block", capacity C); next doubles as both the retired
// array's chain link and, while idle, the retired-block pool's free-list
// link (component A), same rationale as guardBlock.
type retiredBlock struct {
	cells []RetiredPtr
	next  atomic.Pointer[retiredBlock]
}

func (b *retiredBlock) freeNext() *atomic.Pointer[retiredBlock] { return &b.next }

func (b *retiredBlock) reset() {
	for i := range b.cells {
		b.cells[i] = RetiredPtr{}
	}
}

// RetiredArray is the per-thread list of retired blocks described in
// spec §3/§4.C. Unlike HazardArray's extended chain, the retired array's
// cursor (currentBlock/currentCell) moves back and forth: scan rewinds
// it to the head before re-pushing survivors, so it needs no atomics of
// its own — it is mutated by exactly one thread at a time, whichever
// thread currently owns the parent ThreadRecord (the owner during normal
// operation, or the helper that won help_scan's ownership CAS).
type RetiredArray struct {
	pool *blockAllocator[retiredBlock, *retiredBlock]

	head         *retiredBlock
	tail         *retiredBlock
	currentBlock *retiredBlock
	currentCell  int
	blockCount   int
}

func newRetiredArray(pool *blockAllocator[retiredBlock, *retiredBlock]) *RetiredArray {
	r := &RetiredArray{pool: pool}
	first := pool.alloc()
	first.reset()
	first.next.Store(nil)
	r.head = first
	r.tail = first
	r.blockCount = 1
	r.init()
	return r
}

// init resets the cursor to the head of the list (spec §4.C "init"),
// used both at first construction and when a thread record is reused
// after detach.
func (r *RetiredArray) init() {
	r.currentBlock = r.head
	r.currentCell = 0
}

// fini discards the live cursor position without touching the
// underlying blocks (spec §4.C "fini"), rewinding it to the head exactly
// as init does, so the array reads as empty afterward; the caller is
// responsible for having reclaimed or migrated every live cell first.
func (r *RetiredArray) fini() {
	r.currentBlock = r.head
	r.currentCell = 0
}

// empty reports whether no cell holds a live retired pointer: the
// cursor sits at cell 0 of the first block.
func (r *RetiredArray) empty() bool {
	return r.currentBlock == r.head && r.currentCell == 0
}

// push appends p at the cursor, advancing into the next chained block
// when the current one is full. It returns false only when the cursor
// is at the last existing block and that block is also full — the
// caller (Retire) must then run a scan before retrying.
func (r *RetiredArray) push(p RetiredPtr) bool {
	if r.currentCell >= len(r.currentBlock.cells) {
		next := r.currentBlock.next.Load()
		if next == nil {
			return false
		}
		r.currentBlock = next
		r.currentCell = 0
	}
	r.currentBlock.cells[r.currentCell] = p
	r.currentCell++
	return true
}

// safePush re-inserts a survivor during scan's Stage 2 rewrite. The
// rewound cursor is always at or behind its pre-scan position, so this
// can never overflow the chain; a failure here is a bug in scan, not a
// condition the caller must handle.
func (r *RetiredArray) safePush(p RetiredPtr) {
	if !r.push(p) {
		assertionFailed("retired array overflowed during scan rewrite")
	}
}

// extend grows the chain by one block drawn from the shared pool,
// appending it after the current tail (spec §4.C "extend", called by
// scan when a sweep that reached the tail's full capacity freed nothing).
func (r *RetiredArray) extend() {
	b := r.pool.alloc()
	b.reset()
	b.next.Store(nil)
	r.tail.next.Store(b)
	r.tail = b
	r.blockCount++
}

// dropSpare returns every block after currentBlock to the shared pool
// (spec §4.F "free_thread_data" step 4: "drop spare empty retired-blocks
// (current_block.next onwards) back to the retired-block allocator").
// Called when a detaching thread's retired array still holds survivors,
// so only the reserve capacity beyond the live cursor is reclaimable.
func (r *RetiredArray) dropSpare() {
	for b := r.currentBlock.next.Load(); b != nil; {
		next := b.next.Load()
		r.pool.release(b)
		b = next
	}
	r.currentBlock.next.Store(nil)
	r.tail = r.currentBlock
	r.blockCount = 1
	for b := r.head; b != r.currentBlock; b = b.next.Load() {
		r.blockCount++
	}
}

// forEach visits every live cell in cursor order — from the head of the
// chain up to the current cursor position — which is exactly the set of
// entries scan's Stage 2 must examine. A cell beyond the cursor is never
// live data: push only advances the cursor over entries it writes, and
// scan's Stage 2 skips (never writes back) a cell whose pointer it frees,
// so the cursor boundary alone — not an isEmpty() check — is what
// separates live cells from a freed or never-written one. This is also
// why help_scan and Destruct's final reclamation pass both walk a
// record's retired array through forEach rather than the whole chain.
func (r *RetiredArray) forEach(fn func(RetiredPtr)) {
	for b := r.head; b != nil; b = b.next.Load() {
		limit := len(b.cells)
		if b == r.currentBlock {
			limit = r.currentCell
		}
		for i := 0; i < limit; i++ {
			fn(b.cells[i])
		}
		if b == r.currentBlock {
			return
		}
	}
}
