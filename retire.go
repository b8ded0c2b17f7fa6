package smr

import "unsafe"

// Retire appends (addr, deleter, extra) to the calling thread's retired
// array (spec §6 "retire(ptr, deleter, extra)"). It cannot fail: if the
// immediate push overflows, the calling thread runs a scan synchronously
// and retries, exactly as the source does — scan always leaves at least
// one free cell, either by reclaiming something or by extending the
// array's capacity.
func Retire(addr unsafe.Pointer, deleter Deleter, extra unsafe.Pointer) {
	c := current()
	rec := threadRecord(c)

	p := RetiredPtr{Addr: addr, Deleter: deleter, Extra: extra}
	for !rec.retired.push(p) {
		scan(c, rec)
	}
}
