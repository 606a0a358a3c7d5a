package metrics

import (
	"sync"
	"testing"
)

func TestCollector_IncrementMethods(t *testing.T) {
	c := NewCollector("dep-001")

	c.SetBucket("site-bucket")
	c.IncRunStarted()
	c.IncRunSucceeded()
	c.IncRunFailed()
	c.SetFilesScanned(12)
	c.SetRemoteKeys(9)
	c.IncUploadSuccess(100)
	c.IncUploadSuccess(50)
	c.IncUploadFailure()
	c.IncDeleteSuccess()
	c.IncDeleteFailure()
	c.IncDeleteFailure()
	c.IncInvalidationSuccess()
	c.IncInvalidationFailure()
	c.IncInvalidationSkipped()

	s := c.Snapshot()

	want := Snapshot{
		RunsStarted:         1,
		RunsSucceeded:       1,
		RunsFailed:          1,
		FilesScanned:        12,
		RemoteKeys:          9,
		UploadSuccess:       2,
		UploadFailure:       1,
		BytesUploaded:       150,
		DeleteSuccess:       1,
		DeleteFailure:       2,
		InvalidationSuccess: 1,
		InvalidationFailure: 1,
		InvalidationSkipped: 1,
		DeployID:            "dep-001",
		Bucket:              "site-bucket",
	}
	if s != want {
		t.Errorf("Snapshot = %+v\nwant      %+v", s, want)
	}
}

func TestCollector_NilReceiverSafe(t *testing.T) {
	var c *Collector

	c.SetBucket("b")
	c.IncRunStarted()
	c.IncUploadSuccess(1)
	c.IncDeleteFailure()
	c.IncInvalidationSkipped()
	c.IncNotifyFailure()

	if s := c.Snapshot(); s != (Snapshot{}) {
		t.Errorf("nil collector Snapshot = %+v, want zero", s)
	}
}

func TestCollector_SnapshotIsCopy(t *testing.T) {
	c := NewCollector("d")
	before := c.Snapshot()
	c.IncUploadSuccess(10)

	if before.UploadSuccess != 0 {
		t.Error("earlier snapshot changed after increment")
	}
}

func TestCollector_ConcurrentIncrements(t *testing.T) {
	c := NewCollector("d")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.IncUploadSuccess(2)
			c.IncDeleteSuccess()
		}()
	}
	wg.Wait()

	s := c.Snapshot()
	if s.UploadSuccess != 50 || s.BytesUploaded != 100 || s.DeleteSuccess != 50 {
		t.Errorf("Snapshot = %+v", s)
	}
}
