package smr

import "sync/atomic"

// registry is the global, append-only list of every thread record ever
// created by this SMR instance (spec §3 "Registry", §4.E). Appends race
// via CAS; nothing ever unlinks a node, which is what lets scan and
// help_scan walk it from any thread without synchronizing with
// attach/detach.
type registry struct {
	head atomic.Pointer[ThreadRecord]
	size atomic.Int64 // count of records ever appended
}

// append splices rec onto the head of the list. Concurrent appends are
// the only writers; rec.next is set before the CAS publishes rec, so a
// concurrent walker never observes a partially linked node.
func (r *registry) append(rec *ThreadRecord) {
	for {
		old := r.head.Load()
		rec.next.Store(old)
		if r.head.CompareAndSwap(old, rec) {
			r.size.Add(1)
			return
		}
	}
}

// walk visits every record in the registry, stopping early if fn
// returns false.
func (r *registry) walk(fn func(*ThreadRecord) bool) {
	for n := r.head.Load(); n != nil; n = n.next.Load() {
		if !fn(n) {
			return
		}
	}
}

// count returns the number of records ever appended. Records are never
// unlinked, so this is also the registry's current length; scan does not
// use it (its plist is presized from Coordinator.lastPlistSize).
func (r *registry) count() int64 { return r.size.Load() }
