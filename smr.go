package smr

import (
	"sync"
	"sync/atomic"

	"smr/internal/arena"
)

// AllocFunc and FreeFunc mirror the spec's pluggable memory hooks (§6
// "Memory hooks": "two process-wide function pointers; default: raw
// array alloc/free"). They are aliased from internal/arena so the
// default (an anonymous mmap region per call) is usable without an
// import cycle.
//
// Scope note (see DESIGN.md): the core's own bookkeeping structures —
// ThreadRecord, guardBlock, retiredBlock, and everything chained off
// them — are ordinary Go heap allocations, not hook-backed. Go's
// allocator never moves a live object, which is what the source relies
// on mmap/placement-new for; routing GC-followed pointer chains through
// raw hook-allocated memory would make them invisible to the collector.
// The hook instead governs storage a client can hand to Retire for
// objects it chooses to keep off the Go heap.
type AllocFunc = arena.AllocFunc
type FreeFunc = arena.FreeFunc

// Coordinator is the SMR singleton described in spec §3/§4: the
// registry of thread records plus the shared guard-block and
// retired-block pools every record's arrays draw from.
type Coordinator struct {
	cfg config

	registry    registry
	guardPool   *blockAllocator[guardBlock, *guardBlock]
	retiredPool *blockAllocator[retiredBlock, *retiredBlock]

	lastPlistSize atomic.Int64 // seeds the next scan's plist capacity

	tls sync.Map // ThreadID -> *ThreadRecord, this process's attach handle
}

var (
	instance  atomic.Pointer[Coordinator]
	lifecycle sync.Mutex // serializes Construct/Destruct/SetMemoryAllocator against each other
	allocHook AllocFunc
	freeHook  FreeFunc
)

// SetMemoryAllocator installs the allocator hooks client code can use
// for off-heap retired payloads (spec §6). It is only permitted while no
// SMR singleton exists, matching the source's "assertion checked, not
// error-returning" treatment of misuse here.
//
//goland:noinspection GoUnusedExportedFunction
func SetMemoryAllocator(alloc AllocFunc, free FreeFunc) {
	lifecycle.Lock()
	defer lifecycle.Unlock()
	if instance.Load() != nil {
		assertionFailed("SetMemoryAllocator called while the SMR singleton exists")
	}
	allocHook, freeHook = alloc, free
}

// AllocOffHeap obtains a pointer-free region of at least size bytes using
// the installed allocator hook (spec §6 "Memory hooks"), for client code
// preparing a payload it intends to hand to Retire. The region is not
// Go-heap memory and must not hold Go pointers (see DESIGN.md Open
// Question 5): the garbage collector never scans it. If no hook has been
// installed via SetMemoryAllocator, this falls back to internal/arena's
// default — an anonymous mmap mapping on unix, a plain slice elsewhere —
// matching spec §6's "default: raw array alloc/free."
func AllocOffHeap(size int) []byte {
	return currentAllocHook()(size)
}

// FreeOffHeap releases a region obtained from AllocOffHeap, using the
// free hook installed at the time of this call, or internal/arena's
// default if none is installed.
func FreeOffHeap(b []byte) {
	currentFreeHook()(b)
}

func currentAllocHook() AllocFunc {
	lifecycle.Lock()
	defer lifecycle.Unlock()
	if allocHook == nil {
		allocHook, freeHook = arena.Default()
	}
	return allocHook
}

func currentFreeHook() FreeFunc {
	lifecycle.Lock()
	defer lifecycle.Unlock()
	if freeHook == nil {
		allocHook, freeHook = arena.Default()
	}
	return freeHook
}

// Construct brings up the SMR singleton with an initial per-thread
// hazard count of n0, clamped to minInitialHazardCount (spec §3, §4
// "construct"). Calling it again while a singleton already exists is a
// no-op, matching the source's idempotent construct.
func Construct(n0 int, opts ...Option) {
	lifecycle.Lock()
	defer lifecycle.Unlock()
	if instance.Load() != nil {
		return
	}

	cfg := defaultConfig()
	cfg.initialHazardCount = n0
	if cfg.initialHazardCount < minInitialHazardCount {
		cfg.initialHazardCount = minInitialHazardCount
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.logger = withWarnThrottle(cfg.logger, cfg.orphanWarnEvery)

	c := &Coordinator{cfg: cfg}
	c.guardPool = newBlockAllocator[guardBlock, *guardBlock](func() *guardBlock {
		return &guardBlock{}
	})
	c.retiredPool = newBlockAllocator[retiredBlock, *retiredBlock](func() *retiredBlock {
		return &retiredBlock{cells: make([]RetiredPtr, cfg.retiredBlockSize)}
	})
	c.lastPlistSize.Store(int64(cfg.initialHazardCount) * 64)

	instance.Store(c)
	cfg.logger.Info("smr: constructed", "n0", cfg.initialHazardCount, "retiredBlockSize", cfg.retiredBlockSize)
}

// Destruct tears down the singleton (spec §4.F "Destructor"). When
// detachAll is true, every still-attached record has its hazards cleared
// and its owner reset to null; no per-record scan, help_scan or
// free-marking runs at that point, and the final sweep below frees its
// live retirees directly. When false (the source's default), the source's exact
// assertion applies: a record may still be attached at teardown only if
// its owner is null, the calling thread itself, or dead — anything else
// is an invariant violation (SPEC_FULL.md §4 "destruct's full sweep").
// Either way, the final step walks every record's retired array through
// forEach — live cells only, in cursor order — and frees each straight
// through its deleter with no hazard check, since nothing can observe a
// hazard once every thread has detached; that is what guarantees the
// spec's "no leak" property under Destruct(true).
func Destruct(detachAll bool) {
	lifecycle.Lock()
	defer lifecycle.Unlock()
	c := instance.Load()
	if c == nil {
		return
	}

	if detachAll {
		c.registry.walk(func(rec *ThreadRecord) bool {
			if rec.ownerID() != NullThreadID {
				rec.hazards.clear()
				rec.owner.Store(int64(NullThreadID))
			}
			return true
		})
		c.tls = sync.Map{}
	} else {
		me := c.cfg.identity.Current()
		c.registry.walk(func(rec *ThreadRecord) bool {
			if rec.isFree.Load() {
				return true
			}
			owner := rec.ownerID()
			if owner == NullThreadID || owner == me || !c.cfg.identity.Alive(owner) {
				return true
			}
			assertionFailed("Destruct called with thread %d still attached", owner)
			return true
		})
	}

	c.registry.walk(func(rec *ThreadRecord) bool {
		rec.retired.forEach(func(p RetiredPtr) {
			if !p.isEmpty() {
				p.Deleter(p.Addr, p.Extra)
			}
		})
		rec.retired.fini()
		rec.hazards.clear()
		rec.isFree.Store(true)
		return true
	})

	if s, ok := c.cfg.logger.(Syncer); ok {
		_ = s.Sync()
	}

	instance.Store(nil)
}

func current() *Coordinator {
	c := instance.Load()
	if c == nil {
		assertionFailed("SMR operation called before Construct")
	}
	return c
}

// AttachThread binds the calling thread to a ThreadRecord, reusing a
// free one if the registry has one and allocating a fresh record
// otherwise (spec §4.F "attach_thread"). It is idempotent: calling it
// again from a thread that is already attached returns immediately.
func AttachThread() {
	c := current()
	id := c.cfg.identity.Current()

	if _, ok := c.tls.Load(id); ok {
		return
	}

	var rec *ThreadRecord
	c.registry.walk(func(candidate *ThreadRecord) bool {
		if candidate.tryClaim(id) {
			rec = candidate
			return false
		}
		return true
	})

	if rec == nil {
		rec = newThreadRecord(c.cfg.initialHazardCount, c.guardPool, c.retiredPool)
		rec.owner.Store(int64(id))
		c.registry.append(rec)
	} else {
		rec.hazards.init()
		rec.retired.init()
	}

	c.tls.Store(id, rec)
	c.cfg.logger.Info("smr: thread attached", "thread", int64(id))
}

// DetachThread releases the calling thread's record (spec §4.F
// "detach_thread" / "free_thread_data"): clears its hazards, runs a
// best-effort scan of its own retirees, then help_scan to adopt any
// orphaned records before deciding whether this record can be marked
// free immediately or must wait for a future help_scan to drain it.
// It is a no-op if the thread has no active attachment.
func DetachThread() {
	c := current()
	id := c.cfg.identity.Current()

	v, ok := c.tls.Load(id)
	if !ok {
		return
	}
	rec := v.(*ThreadRecord)
	c.tls.Delete(id)

	rec.hazards.clear()
	scan(c, rec)
	helpScan(c, rec)

	if rec.retired.empty() {
		rec.retired.fini()
		rec.isFree.Store(true)
	} else {
		rec.retired.dropSpare()
	}
	rec.owner.Store(int64(NullThreadID))

	c.cfg.logger.Info("smr: thread detached", "thread", int64(id))
}

// threadRecord returns the calling thread's attached record, asserting
// if it has none. AcquireGuard and Retire both require an active
// attachment.
func threadRecord(c *Coordinator) *ThreadRecord {
	id := c.cfg.identity.Current()
	v, ok := c.tls.Load(id)
	if !ok {
		assertionFailed("SMR operation called on thread %d with no active attachment", int64(id))
	}
	return v.(*ThreadRecord)
}
