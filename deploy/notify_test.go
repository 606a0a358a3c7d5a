package deploy

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/liambarstad/Bird-Watchers-Emporium-App/notify"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/syncer"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/types"
)

type fakeNotifier struct {
	mu     sync.Mutex
	err    error
	events []*notify.DeployCompletedEvent
	ctxErr error
}

func (n *fakeNotifier) Publish(ctx context.Context, ev *notify.DeployCompletedEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
	n.ctxErr = ctx.Err()
	return n.err
}

func (n *fakeNotifier) Close() error { return nil }

func TestDeploy_PublishesCompletionEvent(t *testing.T) {
	h := newHarness(t, writeDist(t, siteFiles))
	h.store.Seed(testBucket, "stale.css")
	n := &fakeNotifier{}
	h.config.Notifier = n
	at := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
	h.config.Now = func() time.Time { return at }

	if _, err := h.run(t); err != nil {
		t.Fatalf("Deploy: %v", err)
	}
	if len(n.events) != 1 {
		t.Fatalf("published %d events, want 1", len(n.events))
	}
	if got := h.collector.Snapshot().NotifySuccess; got != 1 {
		t.Errorf("notify success = %d, want 1", got)
	}

	want := &notify.DeployCompletedEvent{
		Version:        types.Version,
		EventType:      notify.EventType,
		DeployID:       "deploy-1",
		Stack:          h.config.StackName,
		Outcome:        string(types.OutcomeSuccess),
		Message:        "deployment completed successfully",
		Bucket:         testBucket,
		DistributionID: "E2ABC",
		WebsiteURL:     "https://d111.cloudfront.net",
		InvalidationID: "I123",
		Uploaded:       2,
		Deleted:        1,
		Timestamp:      "2026-10-19T09:30:00Z",
	}
	if diff := cmp.Diff(want, n.events[0]); diff != "" {
		t.Errorf("event mismatch (-want +got):\n%s", diff)
	}
}

func TestDeploy_PublishesFailedRun(t *testing.T) {
	h := newHarness(t, writeDist(t, siteFiles))
	h.store.PutErrs = map[string]error{"index.html": errors.New("AccessDenied")}
	n := &fakeNotifier{}
	h.config.Notifier = n

	_, err := h.run(t)
	var ue *syncer.UploadError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want *syncer.UploadError", err)
	}
	if len(n.events) != 1 {
		t.Fatalf("published %d events, want 1", len(n.events))
	}
	ev := n.events[0]
	if ev.Outcome != string(types.OutcomeSyncError) || ev.Failures != 1 || ev.Uploaded != 1 {
		t.Errorf("event = %+v", ev)
	}
	if ev.InvalidationID != "" {
		t.Errorf("invalidation id = %q on failed run", ev.InvalidationID)
	}
}

func TestDeploy_NotifyFailureIsNonFatal(t *testing.T) {
	h := newHarness(t, writeDist(t, siteFiles))
	h.config.Notifier = &fakeNotifier{err: errors.New("connection refused")}

	res, err := h.run(t)
	if err != nil {
		t.Fatalf("Deploy: %v", err)
	}
	if res.Outcome.Status != types.OutcomeSuccess {
		t.Errorf("outcome = %s, want success", res.Outcome.Status)
	}
	if snap := h.collector.Snapshot(); snap.NotifyFailure != 1 || snap.NotifySuccess != 0 {
		t.Errorf("notify counters = %d ok / %d failed", snap.NotifySuccess, snap.NotifyFailure)
	}
}

func TestDeploy_NotifySurvivesCanceledContext(t *testing.T) {
	h := newHarness(t, writeDist(t, siteFiles))
	n := &fakeNotifier{}
	h.config.Notifier = n

	o, err := NewOrchestrator(h.config)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, _ := o.Deploy(ctx)

	if res.Outcome.Status == types.OutcomeSuccess {
		t.Fatalf("outcome = %s, want a failure on canceled context", res.Outcome.Status)
	}
	if len(n.events) != 1 {
		t.Fatalf("published %d events, want 1", len(n.events))
	}
	if n.ctxErr != nil {
		t.Errorf("publish context already done: %v", n.ctxErr)
	}
}

func TestCompletedEvent_PartialResult(t *testing.T) {
	res := &Result{
		Meta:     &types.DeployMeta{DeployID: "d-9"},
		Outcome:  types.DeployOutcome{Status: types.OutcomeTargetError, Message: "no bucket"},
		Duration: 1500 * time.Millisecond,
	}
	ev := CompletedEvent(res, time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("EST", -5*3600)))

	if ev.DeployID != "d-9" || ev.Outcome != "target_error" || ev.Bucket != "" {
		t.Errorf("event = %+v", ev)
	}
	if ev.Timestamp != "2026-01-02T08:04:05Z" {
		t.Errorf("timestamp = %q, want UTC", ev.Timestamp)
	}
	if ev.DurationMs != 1500 {
		t.Errorf("duration = %d", ev.DurationMs)
	}
}
