package smr

import (
	"testing"
	"unsafe"
)

func TestRetireWithNoHazardsFreesOnNextScan(t *testing.T) {
	Construct(16)
	defer Destruct(true)

	AttachThread()
	defer DetachThread()

	obj := new(int)
	freed := 0
	Retire(unsafe.Pointer(obj), countingDeleter(&freed), nil)

	scan(current(), threadRecord(current()))
	if freed != 1 {
		t.Fatalf("freed = %d, want 1", freed)
	}
}

func TestRetirePassesExtraThroughToDeleter(t *testing.T) {
	Construct(16)
	defer Destruct(true)

	AttachThread()
	defer DetachThread()

	obj := new(int)
	extra := new(int)
	*extra = 42

	var gotExtra *int
	Retire(unsafe.Pointer(obj), func(addr, e unsafe.Pointer) {
		gotExtra = (*int)(e)
	}, unsafe.Pointer(extra))

	scan(current(), threadRecord(current()))
	if gotExtra == nil || *gotExtra != 42 {
		t.Fatal("deleter did not receive the extra pointer passed to Retire")
	}
}
