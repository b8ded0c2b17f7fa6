// Package threadid provides a portable, assembly-free thread identity
// primitive for the SMR core.
//
// The original source (libcds) models threads with an OS thread id and an
// is_thread_alive OS query. Go exposes neither portably, so this package
// substitutes the calling goroutine's id, parsed out of a runtime.Stack
// trace. This is the universal fallback technique (no unsafe struct-offset
// reads, no assembly, works on every architecture Go supports), at the
// cost of being unsuitable for a hot path. The SMR core calls Current once
// per AcquireGuard, Retire, attach, detach and help_scan (not per
// Guard.Store), and Alive only from help_scan and Destruct's teardown
// check.
package threadid

import (
	"bytes"
	"runtime"
	"strconv"
)

// Current returns the calling goroutine's id, or 0 if it could not be
// parsed (callers treat 0 the same as spec's "null" thread id sentinel).
func Current() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	return parseGoroutineID(buf[:n])
}

// Alive reports whether a goroutine with the given id is still running.
// It works by taking a full stack dump of every goroutine and scanning for
// a "goroutine <id> [" header. This is expensive (allocates and scans the
// whole process's stacks) and is only called from help_scan, which runs
// on detach, and from Destruct's teardown check.
func Alive(id int64) bool {
	if id == 0 {
		return false
	}

	buf := make([]byte, 64*1024)
	for {
		n := runtime.Stack(buf, true)
		if n < len(buf) {
			buf = buf[:n]
			break
		}
		buf = make([]byte, len(buf)*2)
	}

	needle := []byte("goroutine " + strconv.FormatInt(id, 10) + " [")
	return bytes.Contains(buf, needle)
}

// parseGoroutineID extracts the numeric id from a single-goroutine stack
// trace of the form "goroutine 123 [running]:\n...".
func parseGoroutineID(buf []byte) int64 {
	const prefix = "goroutine "
	if !bytes.HasPrefix(buf, []byte(prefix)) {
		return 0
	}
	buf = buf[len(prefix):]

	end := bytes.IndexByte(buf, ' ')
	if end < 0 {
		return 0
	}

	id, err := strconv.ParseInt(string(buf[:end]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
