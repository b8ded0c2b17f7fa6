package smr

import "sync/atomic"

// ThreadRecord is the per-thread state node described in spec §3/§4.D:
// a thread's hazard array, its retired array, and the bookkeeping the
// registry and help_scan need to find and claim it. Once appended to
// the registry it is never unlinked — only ever marked free and later
// reclaimed by a different thread (spec §4.D, §4.F).
type ThreadRecord struct {
	hazards *HazardArray
	retired *RetiredArray

	next atomic.Pointer[ThreadRecord] // registry chain link, set once at append

	owner  atomic.Int64 // ThreadID currently attached; NullThreadID when free
	isFree atomic.Bool  // true once released with an empty retired array, until the next successful attach
}

func newThreadRecord(n0 int, guardPool *blockAllocator[guardBlock, *guardBlock], retiredPool *blockAllocator[retiredBlock, *retiredBlock]) *ThreadRecord {
	return &ThreadRecord{
		hazards: newHazardArray(n0, guardPool),
		retired: newRetiredArray(retiredPool),
	}
}

// tryClaim attempts to take ownership of a free record for id, the
// fast-path reuse attach_thread prefers over allocating a new record
// (spec §4.F "attach_thread"). It fails harmlessly if another thread
// wins the race.
func (r *ThreadRecord) tryClaim(id ThreadID) bool {
	if !r.isFree.Load() {
		return false
	}
	if !r.owner.CompareAndSwap(int64(NullThreadID), int64(id)) {
		return false
	}
	r.isFree.Store(false)
	return true
}

// release nulls the owner and marks the record free for reuse,
// unconditionally. DetachThread and helpScan do not call it: they set
// these two fields inline, and DetachThread leaves isFree false when the
// retired array still holds survivors.
func (r *ThreadRecord) release() {
	r.owner.Store(int64(NullThreadID))
	r.isFree.Store(true)
}

// ownerID returns the ThreadID currently attached to this record, or
// NullThreadID if it is free.
func (r *ThreadRecord) ownerID() ThreadID {
	return ThreadID(r.owner.Load())
}
