package smr

import (
	"errors"
	"fmt"
)

// ErrThreadIDUnavailable is the message the default ThreadIdentity
// implementation's Current panics with (through assertionFailed) when the
// calling goroutine's id could not be parsed out of a runtime.Stack
// trace; no function returns it as an error value. Callers that supply a
// custom ThreadIdentity (see WithThreadIdentity) will not see it.
var ErrThreadIDUnavailable = errors.New("smr: goroutine id unavailable")

// assertionFailed panics with the package's invariant-violation idiom.
//
// The SMR core does not use error returns to report misuse (construct,
// attach/detach, tls and set_memory_allocator are documented as
// assertion-checked, not error-returning); this is the one place that
// renders the panic message, so the wording stays consistent.
func assertionFailed(format string, args ...any) {
	panic(fmt.Sprintf("smr: BUG: "+format, args...))
}
