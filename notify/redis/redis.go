// Package redis publishes deploy completion events on a Redis pub/sub channel.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/liambarstad/Bird-Watchers-Emporium-App/notify"
)

// Defaults applied by New.
const (
	DefaultChannel = "sitesync:deploy_completed"
	DefaultTimeout = 5 * time.Second
	DefaultRetries = 3
	DefaultBackoff = 500 * time.Millisecond
)

// Config configures the Redis notifier.
type Config struct {
	// URL is the connection URL, redis://[:password@]host:port[/db] (required).
	URL string
	// Channel defaults to DefaultChannel.
	Channel string
	// Timeout bounds each PUBLISH.
	Timeout time.Duration
	// Retries is the number of attempts after the first one.
	Retries int
	// Backoff is the delay before the first retry. It doubles per retry.
	Backoff time.Duration
}

// Notifier publishes events via PUBLISH.
type Notifier struct {
	config Config
	client *goredis.Client
}

// New creates a Redis notifier. The URL is required and must parse.
func New(cfg Config) (*Notifier, error) {
	if cfg.URL == "" {
		return nil, errors.New("redis notifier requires a URL")
	}
	opts, err := goredis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("redis notifier: invalid URL: %w", err)
	}
	if cfg.Retries < 0 {
		return nil, fmt.Errorf("retries must be >= 0, got %d", cfg.Retries)
	}
	if cfg.Channel == "" {
		cfg.Channel = DefaultChannel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = DefaultBackoff
	}
	return &Notifier{
		config: cfg,
		client: goredis.NewClient(opts),
	}, nil
}

// Channel returns the channel events are published on.
func (n *Notifier) Channel() string {
	return n.config.Channel
}

// Publish sends the event as JSON, retrying with exponential backoff.
func (n *Notifier) Publish(ctx context.Context, event *notify.DeployCompletedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("redis: marshal event: %w", err)
	}

	attempts := 1 + n.config.Retries
	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("redis: context canceled: %w", err)
		}
		if i > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("redis: context canceled during backoff: %w", ctx.Err())
			case <-time.After(n.config.Backoff << uint(i-1)):
			}
		}

		pubCtx, cancel := context.WithTimeout(ctx, n.config.Timeout)
		lastErr = n.client.Publish(pubCtx, n.config.Channel, body).Err()
		cancel()
		if lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("redis: failed after %d attempts: %w", attempts, lastErr)
}

// Close closes the connection pool.
func (n *Notifier) Close() error {
	return n.client.Close()
}

var _ notify.Notifier = (*Notifier)(nil)
