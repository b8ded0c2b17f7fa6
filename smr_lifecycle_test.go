package smr

import (
	"testing"
	"unsafe"
)

func TestSetMemoryAllocatorAssertsWhileConstructed(t *testing.T) {
	Construct(16)
	defer Destruct(true)

	defer func() {
		if recover() == nil {
			t.Fatal("SetMemoryAllocator did not panic while the singleton exists")
		}
	}()
	SetMemoryAllocator(func(int) []byte { return nil }, func([]byte) {})
}

func TestDestructAssertsWithLiveAttachmentUnlessDetachAll(t *testing.T) {
	Construct(16)

	// The live attachment belongs to another goroutine: a record owned by
	// the calling goroutine itself is tolerated (see the self-attached
	// test below).
	attached := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		AttachThread()
		close(attached)
		<-release
		DetachThread()
	}()
	<-attached

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("Destruct(false) did not panic with a live attachment")
			}
		}()
		Destruct(false)
	}()

	close(release)
	<-done
	Destruct(true)
}

func TestAllocOffHeapUsesInstalledHook(t *testing.T) {
	origAlloc, origFree := allocHook, freeHook
	defer func() { allocHook, freeHook = origAlloc, origFree }()

	var allocated, freed int
	SetMemoryAllocator(
		func(size int) []byte {
			allocated++
			return make([]byte, size)
		},
		func(b []byte) { freed++ },
	)

	b := AllocOffHeap(8)
	if len(b) != 8 {
		t.Fatalf("AllocOffHeap(8) returned %d bytes, want 8", len(b))
	}
	if allocated != 1 {
		t.Fatalf("installed AllocFunc called %d times, want 1", allocated)
	}

	FreeOffHeap(b)
	if freed != 1 {
		t.Fatalf("installed FreeFunc called %d times, want 1", freed)
	}
}

func TestRetireReclaimsOffHeapPayload(t *testing.T) {
	Construct(16)
	defer Destruct(true)

	AttachThread()
	defer DetachThread()

	buf := AllocOffHeap(int(unsafe.Sizeof(int(0))))
	node := (*int)(unsafe.Pointer(&buf[0]))
	*node = 7

	freed := false
	Retire(unsafe.Pointer(node), func(addr, extra unsafe.Pointer) {
		FreeOffHeap(unsafe.Slice((*byte)(addr), unsafe.Sizeof(int(0))))
		freed = true
	}, nil)

	scan(current(), threadRecord(current()))
	if !freed {
		t.Fatal("off-heap payload was not reclaimed by scan")
	}
}

func TestDestructWithoutDetachAllToleratesSelfAttachedThread(t *testing.T) {
	Construct(16)
	AttachThread()

	// Destruct(false) must tolerate a record still owned by the calling
	// thread itself, per SPEC_FULL.md §4: only an owner that is neither
	// null, self, nor dead trips the assertion.
	Destruct(false)

	Construct(16)
	defer Destruct(true)
	AttachThread()
	DetachThread()
}

func TestDestructWithoutDetachAllToleratesDeadOwner(t *testing.T) {
	id := newTestIdentity()
	Construct(16, WithThreadIdentity(id))

	var owner ThreadID
	done := make(chan struct{})
	go func() {
		defer close(done)
		AttachThread()
		owner = threadRecord(current()).ownerID()
	}()
	<-done
	id.markDead(owner)

	Destruct(false)

	Construct(16)
	defer Destruct(true)
	AttachThread()
	DetachThread()
}

func TestDestructWithDetachAllForceDetachesEveryone(t *testing.T) {
	Construct(16)
	AttachThread()
	Destruct(true)

	// Construct again to prove the singleton was actually torn down and
	// can be rebuilt cleanly.
	Construct(16)
	defer Destruct(true)
	AttachThread()
	DetachThread()
}
