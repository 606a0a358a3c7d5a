package cmd

import (
	"fmt"

	"github.com/liambarstad/Bird-Watchers-Emporium-App/cli/config"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/notify"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/notify/redis"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/notify/webhook"
)

// newNotifier builds the configured notifier, or nil when notifications
// are disabled.
func newNotifier(s config.NotifySettings) (notify.Notifier, error) {
	switch s.Type {
	case "":
		return nil, nil
	case notify.TypeWebhook:
		cfg := webhook.Config{
			URL:     s.URL,
			Headers: s.Headers,
			Timeout: s.Timeout,
			Retries: webhook.DefaultRetries,
		}
		if s.Retries != nil {
			cfg.Retries = *s.Retries
		}
		n, err := webhook.New(cfg)
		if err != nil {
			return nil, err
		}
		return n, nil
	case notify.TypeRedis:
		cfg := redis.Config{
			URL:     s.URL,
			Channel: s.Channel,
			Timeout: s.Timeout,
			Retries: redis.DefaultRetries,
		}
		if s.Retries != nil {
			cfg.Retries = *s.Retries
		}
		n, err := redis.New(cfg)
		if err != nil {
			return nil, err
		}
		return n, nil
	default:
		return nil, fmt.Errorf("unknown notifier type %q", s.Type)
	}
}
