package smr

import "unsafe"

// Guard is a single hazard slot vended to client code (spec §6 "Guard
// API"). The SMR core owns its storage and lifetime; the client is
// responsible for the standard hazard-pointer usage protocol: publish
// before dereferencing, clear (or release) once done.
type Guard struct {
	slot *hazardSlot
	rec  *ThreadRecord
}

// AcquireGuard vends a free slot from the calling thread's hazard array,
// extending it with a fresh guard block if none is free (spec §6
// "acquire_guard() -> slot").
func AcquireGuard() *Guard {
	c := current()
	rec := threadRecord(c)
	return &Guard{slot: rec.hazards.acquireGuard(), rec: rec}
}

// Store publishes p as a hazard with release semantics: once Store
// returns, any scan that starts afterward is guaranteed to see p (spec
// §6 "slot.store(p, release)").
func (g *Guard) Store(p unsafe.Pointer) { g.slot.publish(p) }

// Clear nulls the guard's published value without returning the slot to
// the free list; the caller may still reuse it for another Store before
// eventually calling ReleaseGuard (spec §6 "slot.clear(release)").
func (g *Guard) Clear() { g.slot.clear() }

// ReleaseGuard returns g to its thread's hazard array free list. g must
// not be used again afterward.
func ReleaseGuard(g *Guard) {
	g.rec.hazards.releaseGuard(g.slot)
}
