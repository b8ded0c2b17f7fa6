package smr

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/google/btree"
)

// plist is scan's Stage 1 accumulator (spec §4.F "scan", "plist"): the
// sorted set of every currently published hazard address. The spec
// calls for a sorted dynamic buffer searched by binary_search; this port
// keeps an ordered btree.BTreeG as the authority (so membership and
// presizing are both cheap) and layers a fixed-size xxhash-seeded
// bitset in front of it as a fast-reject filter for Stage 2's sweep,
// which is address-heavy and runs once per retired block per scan.
type plist struct {
	tree   *btree.BTreeG[uintptr]
	filter []uint64
	mask   uint64
}

const plistDegree = 32

func newPlist(sizeHint int64) *plist {
	bits := nextPow2(sizeHint*8 + 64)
	return &plist{
		tree:   btree.NewG[uintptr](plistDegree, func(a, b uintptr) bool { return a < b }),
		filter: make([]uint64, bits/64),
		mask:   bits - 1,
	}
}

func nextPow2(n int64) uint64 {
	if n < 64 {
		return 64
	}
	v := uint64(n)
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v |= v >> 32
	return v + 1
}

func hashAddr(addr uintptr) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(addr))
	return xxhash.Sum64(buf[:])
}

func (p *plist) add(addr uintptr) {
	p.tree.ReplaceOrInsert(addr)
	h := hashAddr(addr) & p.mask
	p.filter[h/64] |= 1 << (h % 64)
}

// contains reports whether addr was collected in Stage 1. The bitset
// can produce false positives but never false negatives — a cleared bit
// means addr was never added; a set bit means "ask the tree," which is
// always correct, just sometimes redundant.
func (p *plist) contains(addr uintptr) bool {
	h := hashAddr(addr) & p.mask
	if p.filter[h/64]&(1<<(h%64)) == 0 {
		return false
	}
	_, ok := p.tree.Get(addr)
	return ok
}

func (p *plist) len() int { return p.tree.Len() }
