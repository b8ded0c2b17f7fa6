package smr

import (
	"testing"
	"unsafe"
)

func TestHelpScanMigratesAndFreesRecordWithDeadOwner(t *testing.T) {
	id := newTestIdentity()
	Construct(16, WithThreadIdentity(id))
	defer Destruct(true)

	AttachThread()
	r := threadRecord(current())

	var orphan *ThreadRecord
	var orphanOwner ThreadID
	done := make(chan struct{})
	go func() {
		defer close(done)
		AttachThread()
		orphan = threadRecord(current())
		orphanOwner = orphan.ownerID()
		for i := 0; i < 10; i++ {
			obj := new(int)
			Retire(unsafe.Pointer(obj), func(unsafe.Pointer, unsafe.Pointer) {}, nil)
		}
	}()
	<-done
	id.markDead(orphanOwner)

	helpScan(current(), r)

	if !orphan.isFree.Load() {
		t.Fatal("helpScan did not mark the dead-owner record free")
	}
	if orphan.ownerID() != NullThreadID {
		t.Fatal("helpScan did not clear the dead-owner record's owner id")
	}
	if !orphan.retired.empty() {
		t.Fatal("helpScan did not finalize the dead-owner record's retired array")
	}
}

func TestHelpScanSkipsRecordsWithLiveOwner(t *testing.T) {
	id := newTestIdentity()
	Construct(16, WithThreadIdentity(id))
	defer Destruct(true)

	AttachThread()
	r := threadRecord(current())

	var other *ThreadRecord
	attached := make(chan struct{})
	block := make(chan struct{})
	go func() {
		AttachThread()
		other = threadRecord(current())
		close(attached)
		<-block
	}()
	<-attached

	helpScan(current(), r)

	if other.isFree.Load() {
		t.Fatal("helpScan adopted a record whose owner is still alive")
	}
	close(block)
}
