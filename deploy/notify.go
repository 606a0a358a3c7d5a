package deploy

import (
	"context"
	"time"

	"github.com/liambarstad/Bird-Watchers-Emporium-App/notify"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/types"
)

// NotifyTimeout bounds publishing the completion event, including retries.
const NotifyTimeout = 30 * time.Second

// CompletedEvent builds the completion event for a finished run.
func CompletedEvent(res *Result, at time.Time) *notify.DeployCompletedEvent {
	ev := &notify.DeployCompletedEvent{
		Version:    types.Version,
		EventType:  notify.EventType,
		Outcome:    string(res.Outcome.Status),
		Message:    res.Outcome.Message,
		Timestamp:  at.UTC().Format(time.RFC3339),
		DurationMs: res.Duration.Milliseconds(),
	}
	if res.Meta != nil {
		ev.DeployID = res.Meta.DeployID
		ev.Stack = res.Meta.StackName
	}
	if t := res.Targets; t != nil {
		ev.Bucket = t.BucketName
		ev.DistributionID = t.DistributionID
		ev.WebsiteURL = t.WebsiteURL
	}
	if s := res.Sync; s != nil {
		ev.Uploaded = s.Uploaded
		ev.Deleted = s.Deleted
		ev.Failures = len(s.Failures)
	}
	if inv := res.Invalidation; inv != nil {
		ev.InvalidationID = inv.InvalidationID
	}
	return ev
}

// publish sends the completion event. It runs after the outcome is fixed
// and only logs failures. A canceled run context still gets a bounded
// attempt so that interrupted deploys are reported.
func (o *Orchestrator) publish(ctx context.Context, res *Result) {
	n := o.config.Notifier
	if n == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), NotifyTimeout)
	defer cancel()

	ev := CompletedEvent(res, o.now())
	if err := n.Publish(ctx, ev); err != nil {
		o.config.Collector.IncNotifyFailure()
		o.logger.Warn("failed to publish deploy event", map[string]any{"error": err.Error()})
		return
	}
	o.config.Collector.IncNotifySuccess()
	o.logger.Debug("published deploy event", map[string]any{"outcome": ev.Outcome})
}
