package smr

import (
	"sync"
	"testing"
	"unsafe"
)

// S2 + S3: a hazarded pointer survives scan; once the guard clears, a
// second scan reclaims it exactly once.
func TestS2AndS3ProtectedPointerSurvivesThenReclaims(t *testing.T) {
	Construct(16)
	defer Destruct(true)

	var wgAttach sync.WaitGroup
	var g *Guard
	obj := new(int)
	attachedA := make(chan struct{})
	releaseA := make(chan struct{})
	doneA := make(chan struct{})

	wgAttach.Add(1)
	go func() {
		defer wgAttach.Done()
		AttachThread()
		g = AcquireGuard()
		g.Store(unsafe.Pointer(obj))
		close(attachedA)
		<-releaseA
		g.Clear()
		ReleaseGuard(g)
		DetachThread()
		close(doneA)
	}()
	<-attachedA

	freed := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		AttachThread()
		Retire(unsafe.Pointer(obj), countingDeleter(&freed), nil)

		rec := threadRecord(current())
		scan(current(), rec)
		if freed != 0 {
			t.Errorf("scan freed a still-hazarded pointer")
		}

		close(releaseA)
		<-doneA

		scan(current(), rec)
		if freed != 1 {
			t.Errorf("freed = %d after guard released, want 1", freed)
		}
		DetachThread()
	}()
	<-done
	wgAttach.Wait()
}

// S5: retiring far more pointers than a single retired block holds,
// while every one of them stays permanently hazarded, must grow the
// retired array via extend rather than freeing anything or overflowing.
func TestS5ExtendUnderPressure(t *testing.T) {
	Construct(16, WithRetiredBlockSize(8))
	defer Destruct(true)

	var guards []*Guard
	objs := make([]*int, 64)

	AttachThread()
	for i := range objs {
		objs[i] = new(int)
		g := AcquireGuard()
		g.Store(unsafe.Pointer(objs[i]))
		guards = append(guards, g)
	}

	freed := 0
	for _, o := range objs {
		Retire(unsafe.Pointer(o), countingDeleter(&freed), nil)
	}

	if freed != 0 {
		t.Fatalf("freed %d permanently hazarded pointers, want 0", freed)
	}

	rec := threadRecord(current())
	if rec.retired.blockCount < 8 {
		t.Fatalf("retired.blockCount = %d, want at least 8 blocks for 64 entries at capacity 8", rec.retired.blockCount)
	}

	for _, g := range guards {
		ReleaseGuard(g)
	}
	DetachThread()
}
