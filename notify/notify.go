// Package notify publishes deploy completion events to downstream systems.
//
// A notifier is created per invocation, receives at most one event and is
// closed by its owner. Publish failures never change a deploy outcome.
package notify

import (
	"context"
	"fmt"
	"strings"
)

// EventType is the event_type of every DeployCompletedEvent.
const EventType = "deploy_completed"

// Notifier types accepted in configuration.
const (
	TypeWebhook = "webhook"
	TypeRedis   = "redis"
)

// DeployCompletedEvent is the payload published when a deploy finishes,
// successfully or not.
type DeployCompletedEvent struct {
	Version        string `json:"version"`
	EventType      string `json:"event_type"`
	DeployID       string `json:"deploy_id"`
	Stack          string `json:"stack,omitempty"`
	Outcome        string `json:"outcome"`
	Message        string `json:"message"`
	Bucket         string `json:"bucket,omitempty"`
	DistributionID string `json:"distribution_id,omitempty"`
	WebsiteURL     string `json:"website_url,omitempty"`
	InvalidationID string `json:"invalidation_id,omitempty"`
	Uploaded       int    `json:"uploaded"`
	Deleted        int    `json:"deleted"`
	Failures       int    `json:"failures"`
	Timestamp      string `json:"timestamp"` // RFC 3339
	DurationMs     int64  `json:"duration_ms"`
}

// Notifier publishes deploy completion events.
type Notifier interface {
	// Publish sends one event. Must respect context cancellation.
	Publish(ctx context.Context, event *DeployCompletedEvent) error

	// Close releases notifier resources.
	Close() error
}

// ParseType normalizes a notifier type. Empty input means notifications
// are disabled.
func ParseType(s string) (string, error) {
	switch t := strings.ToLower(strings.TrimSpace(s)); t {
	case "", TypeWebhook, TypeRedis:
		return t, nil
	default:
		return "", fmt.Errorf("unknown notifier type %q (must be %s or %s)", s, TypeWebhook, TypeRedis)
	}
}
