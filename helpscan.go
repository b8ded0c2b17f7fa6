package smr

// helpScan adopts retirees orphaned by dead or abandoned thread records
// (spec §4.F "help_scan"). For every record whose owner is null or
// confirmed dead, it CAS-claims the record, migrates its retirees into
// r, and releases it free. It always finishes with a scan of r, since
// the whole point of migrating survivors in is to give them another
// chance at reclamation.
func helpScan(c *Coordinator, r *ThreadRecord) {
	c.registry.walk(func(h *ThreadRecord) bool {
		if h.isFree.Load() {
			return true
		}

		owner := h.ownerID()
		if owner != NullThreadID && c.cfg.identity.Alive(owner) {
			return true
		}
		me := c.cfg.identity.Current()
		if !h.owner.CompareAndSwap(int64(owner), int64(me)) {
			return true
		}

		c.cfg.logger.Warn("smr: help_scan adopted orphaned record", "from", int64(owner), "to", int64(me))

		h.retired.forEach(func(p RetiredPtr) {
			if p.isEmpty() {
				return
			}
			for !r.retired.push(p) {
				scan(c, r)
			}
		})

		h.retired.fini()
		h.isFree.Store(true)
		h.owner.Store(int64(NullThreadID))
		return true
	})

	scan(c, r)
}
