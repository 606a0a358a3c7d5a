package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/liambarstad/Bird-Watchers-Emporium-App/cli/config"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/log"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/types"
)

// loadSettings resolves settings with precedence flags > config file >
// environment > defaults.
func loadSettings(c *cli.Context) (*config.Settings, error) {
	s := config.Defaults()
	if err := s.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	var (
		cfg *config.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadOptional(config.DefaultFileName)
	}
	if err != nil {
		return nil, err
	}
	s.ApplyFile(cfg)

	applyFlags(c, s)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func applyFlags(c *cli.Context, s *config.Settings) {
	str := func(name string, dst *string) {
		if c.IsSet(name) {
			*dst = c.String(name)
		}
	}
	boolean := func(name string, dst *bool) {
		if c.IsSet(name) {
			*dst = c.Bool(name)
		}
	}

	str("stack", &s.StackName)
	str("bucket", &s.Bucket)
	str("distribution-id", &s.DistributionID)
	str("website-url", &s.WebsiteURL)
	str("dist-dir", &s.DistDir)
	str("region", &s.AWS.Region)
	str("profile", &s.AWS.Profile)
	str("endpoint", &s.AWS.S3Endpoint)
	str("log-level", &s.LogLevel)
	str("build-dir", &s.BuildDir)
	boolean("no-stack", &s.NoStack)
	boolean("s3-path-style", &s.AWS.S3PathStyle)
	boolean("skip-build", &s.SkipBuild)
	if c.IsSet("concurrency") {
		s.Concurrency = c.Int("concurrency")
	}
	if c.IsSet("list-page-size") {
		s.ListPageSize = c.Int("list-page-size")
	}
	if c.IsSet("build-command") {
		s.BuildCommand = strings.Fields(c.String("build-command"))
	}

	str("notify", &s.Notify.Type)
	str("notify-url", &s.Notify.URL)
	str("notify-channel", &s.Notify.Channel)
	if c.IsSet("notify-timeout") {
		s.Notify.Timeout = c.Duration("notify-timeout")
	}
	if c.IsSet("notify-retries") {
		r := c.Int("notify-retries")
		s.Notify.Retries = &r
	}
}

// newMeta builds the run identity. The stack name is blank when stack
// lookup is disabled.
func newMeta(s *config.Settings, deployID string) *types.DeployMeta {
	meta := &types.DeployMeta{DeployID: deployID}
	if !s.NoStack {
		meta.StackName = s.StackName
	}
	return meta
}

// newLogger writes JSON logs to the app's error writer at the configured level.
func newLogger(c *cli.Context, s *config.Settings, meta *types.DeployMeta) (*log.Logger, error) {
	level, err := log.ParseLevel(s.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", s.LogLevel, err)
	}
	w := c.App.ErrWriter
	if w == nil {
		w = os.Stderr
	}
	return log.NewLoggerWithWriter(meta, w, level), nil
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
