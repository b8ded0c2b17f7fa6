package smr

import "unsafe"

// scan reclaims r's retirees that no thread currently hazards (spec
// §4.F "scan"). Stage 1 collects every published hazard across the
// whole registry into a plist; Stage 2 rewinds r's retired array and
// re-sweeps it, freeing anything absent from the plist and re-pushing
// everything else. It is always safe to call, including recursively
// from a deleter that itself calls Retire (see retire.go).
func scan(c *Coordinator, r *ThreadRecord) {
	hint := c.lastPlistSize.Load()
	pl := newPlist(hint)

	c.registry.walk(func(n *ThreadRecord) bool {
		if n.ownerID() != NullThreadID {
			n.hazards.forEach(func(p unsafe.Pointer) {
				pl.add(uintptr(p))
			})
		}
		return true
	})

	if int64(pl.len()) > hint {
		c.bumpPlistHint(int64(pl.len()))
	}

	ra := r.retired
	lastBlock := ra.currentBlock
	lastCell := ra.currentCell
	ra.currentBlock = ra.head
	ra.currentCell = 0

	freeCount := 0
	sweptToTailCapacity := false
	for b := ra.head; ; b = b.next.Load() {
		end := len(b.cells)
		if b == lastBlock {
			end = lastCell
		}
		for i := 0; i < end; i++ {
			p := b.cells[i]
			if p.isEmpty() {
				continue
			}
			if pl.contains(uintptr(p.Addr)) {
				ra.safePush(p)
			} else {
				p.Deleter(p.Addr, p.Extra)
				freeCount++
			}
		}
		if b == lastBlock {
			sweptToTailCapacity = b.next.Load() == nil && lastCell == len(b.cells)
			break
		}
	}

	if freeCount == 0 && sweptToTailCapacity {
		ra.extend()
	}
}

// bumpPlistHint raises last_plist_size_ to at least n (spec §4.F:
// "weak, relaxed; hint only"). It never lowers the hint — scan-buffer
// presizing is monotonically nondecreasing by design (see DESIGN.md).
func (c *Coordinator) bumpPlistHint(n int64) {
	for {
		old := c.lastPlistSize.Load()
		if n <= old {
			return
		}
		if c.lastPlistSize.CompareAndSwap(old, n) {
			return
		}
	}
}
