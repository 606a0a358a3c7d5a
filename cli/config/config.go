package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/liambarstad/Bird-Watchers-Emporium-App/awsx"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/notify"
	"github.com/liambarstad/Bird-Watchers-Emporium-App/stack"
)

// Defaults used when neither flags, the config file nor the environment set a value.
const (
	DefaultDistDir  = "frontend/dist"
	DefaultBuildDir = "frontend"
	// DefaultBucket is only used when stack lookup is disabled.
	DefaultBucket   = "bird-watchers-emporium-frontend"
	DefaultLogLevel = "info"
	DefaultFileName = "sitesync.yaml"
)

// Environment variables read by ApplyEnv.
const (
	EnvRegion         = "AWS_REGION"
	EnvProfile        = "AWS_PROFILE"
	EnvBucket         = "BUCKET_NAME"
	EnvDistributionID = "DISTRIBUTION_ID"
	EnvStackName      = "SITESYNC_STACK_NAME"
	EnvDistDir        = "SITESYNC_DIST_DIR"
	EnvEndpoint       = "SITESYNC_ENDPOINT"
	EnvConcurrency    = "SITESYNC_CONCURRENCY"
	EnvLogLevel       = "SITESYNC_LOG_LEVEL"
	EnvNotifyType     = "SITESYNC_NOTIFY_TYPE"
	EnvNotifyURL      = "SITESYNC_NOTIFY_URL"
)

// Config represents a sitesync.yaml configuration file.
// All values are optional. CLI flags always override config values.
type Config struct {
	Stack          string       `yaml:"stack"`
	NoStack        *bool        `yaml:"no_stack"`
	Bucket         string       `yaml:"bucket"`
	DistributionID string       `yaml:"distribution_id"`
	WebsiteURL     string       `yaml:"website_url"`
	DistDir        string       `yaml:"dist_dir"`
	Concurrency    int          `yaml:"concurrency"`
	ListPageSize   int          `yaml:"list_page_size"`
	LogLevel       string       `yaml:"log_level"`
	Build          BuildConfig  `yaml:"build"`
	AWS            AWSConfig    `yaml:"aws"`
	Notify         NotifyConfig `yaml:"notify"`
}

// BuildConfig holds build runner defaults.
type BuildConfig struct {
	Command Command `yaml:"command"`
	Dir     string  `yaml:"dir"`
	Skip    *bool   `yaml:"skip"`
}

// AWSConfig holds client defaults.
type AWSConfig struct {
	Region      string `yaml:"region"`
	Profile     string `yaml:"profile"`
	Endpoint    string `yaml:"endpoint"`
	S3PathStyle *bool  `yaml:"s3_path_style"`
}

// NotifyConfig configures the deploy completion notifier.
type NotifyConfig struct {
	Type    string            `yaml:"type"`
	URL     string            `yaml:"url"`
	Channel string            `yaml:"channel,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty"`
	Timeout Duration          `yaml:"timeout,omitempty"`
	Retries *int              `yaml:"retries,omitempty"`
}

// Duration wraps time.Duration for YAML strings such as "10s" or "1m30s".
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string. An empty string leaves d unset.
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// Command is an argv that accepts either a YAML list or a single
// whitespace-separated string ("npm run build").
type Command []string

// UnmarshalYAML accepts a scalar or a sequence.
func (c *Command) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err == nil {
		*c = strings.Fields(s)
		return nil
	}
	var list []string
	if err := unmarshal(&list); err != nil {
		return fmt.Errorf("build command must be a string or a list of strings: %w", err)
	}
	*c = list
	return nil
}

// Settings are the fully resolved values for one invocation.
type Settings struct {
	StackName      string
	NoStack        bool
	Bucket         string
	DistributionID string
	WebsiteURL     string
	DistDir        string
	BuildCommand   []string
	BuildDir       string
	SkipBuild      bool
	Concurrency    int
	ListPageSize   int
	LogLevel       string
	AWS            awsx.Options
	Notify         NotifySettings
}

// NotifySettings are the resolved notifier options. An empty Type
// disables notifications.
type NotifySettings struct {
	Type    string
	URL     string
	Channel string
	Headers map[string]string
	Timeout time.Duration
	// Retries is nil when the notifier default applies.
	Retries *int
}

// Defaults returns the built-in settings.
func Defaults() *Settings {
	return &Settings{
		StackName:    stack.DefaultStackName,
		DistDir:      DefaultDistDir,
		BuildCommand: []string{"npm", "run", "build"},
		BuildDir:     DefaultBuildDir,
		LogLevel:     DefaultLogLevel,
		AWS:          awsx.Options{Region: awsx.DefaultRegion},
	}
}

// ApplyEnv overlays environment values. Empty values are ignored.
func (s *Settings) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(name)
		return v, ok && v != ""
	}
	if v, ok := get(EnvRegion); ok {
		s.AWS.Region = v
	}
	if v, ok := get(EnvProfile); ok {
		s.AWS.Profile = v
	}
	if v, ok := get(EnvBucket); ok {
		s.Bucket = v
	}
	if v, ok := get(EnvDistributionID); ok {
		s.DistributionID = v
	}
	if v, ok := get(EnvStackName); ok {
		s.StackName = v
	}
	if v, ok := get(EnvDistDir); ok {
		s.DistDir = v
	}
	if v, ok := get(EnvEndpoint); ok {
		s.AWS.S3Endpoint = v
	}
	if v, ok := get(EnvLogLevel); ok {
		s.LogLevel = v
	}
	if v, ok := get(EnvNotifyType); ok {
		s.Notify.Type = v
	}
	if v, ok := get(EnvNotifyURL); ok {
		s.Notify.URL = v
	}
	if v, ok := get(EnvConcurrency); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: invalid integer %q", EnvConcurrency, v)
		}
		s.Concurrency = n
	}
	return nil
}

// ApplyFile overlays values set in cfg. A nil cfg is a no-op.
func (s *Settings) ApplyFile(cfg *Config) {
	if cfg == nil {
		return
	}
	setString(&s.StackName, cfg.Stack)
	setString(&s.Bucket, cfg.Bucket)
	setString(&s.DistributionID, cfg.DistributionID)
	setString(&s.WebsiteURL, cfg.WebsiteURL)
	setString(&s.DistDir, cfg.DistDir)
	setString(&s.LogLevel, cfg.LogLevel)
	setString(&s.BuildDir, cfg.Build.Dir)
	setString(&s.AWS.Region, cfg.AWS.Region)
	setString(&s.AWS.Profile, cfg.AWS.Profile)
	setString(&s.AWS.S3Endpoint, cfg.AWS.Endpoint)
	if cfg.NoStack != nil {
		s.NoStack = *cfg.NoStack
	}
	if cfg.Build.Skip != nil {
		s.SkipBuild = *cfg.Build.Skip
	}
	if cfg.AWS.S3PathStyle != nil {
		s.AWS.S3PathStyle = *cfg.AWS.S3PathStyle
	}
	if len(cfg.Build.Command) > 0 {
		s.BuildCommand = append([]string(nil), cfg.Build.Command...)
	}
	if cfg.Concurrency != 0 {
		s.Concurrency = cfg.Concurrency
	}
	if cfg.ListPageSize != 0 {
		s.ListPageSize = cfg.ListPageSize
	}

	n := cfg.Notify
	setString(&s.Notify.Type, n.Type)
	setString(&s.Notify.URL, n.URL)
	setString(&s.Notify.Channel, n.Channel)
	if len(n.Headers) > 0 {
		s.Notify.Headers = make(map[string]string, len(n.Headers))
		for k, v := range n.Headers {
			s.Notify.Headers[k] = v
		}
	}
	if n.Timeout.Duration > 0 {
		s.Notify.Timeout = n.Timeout.Duration
	}
	if n.Retries != nil {
		r := *n.Retries
		s.Notify.Retries = &r
	}
}

// MaxListPageSize is the largest page S3 returns from a single list call.
const MaxListPageSize = 1000

// Validate checks the resolved settings.
func (s *Settings) Validate() error {
	if s.Concurrency < 0 {
		return fmt.Errorf("concurrency must be >= 0, got %d", s.Concurrency)
	}
	if s.ListPageSize < 0 || s.ListPageSize > MaxListPageSize {
		return fmt.Errorf("list page size must be between 0 and %d, got %d", MaxListPageSize, s.ListPageSize)
	}
	if s.DistDir == "" {
		return fmt.Errorf("dist directory must not be empty")
	}
	if !s.NoStack && s.StackName == "" {
		return fmt.Errorf("stack name must not be empty unless stack lookup is disabled")
	}
	if !s.SkipBuild && len(s.BuildCommand) == 0 {
		return fmt.Errorf("build command must not be empty unless the build is skipped")
	}
	return s.Notify.validate()
}

func (n *NotifySettings) validate() error {
	t, err := notify.ParseType(n.Type)
	if err != nil {
		return err
	}
	n.Type = t
	switch {
	case t == "" && n.URL != "":
		return errors.New("notify url is set but notify type is empty")
	case t != "" && n.URL == "":
		return fmt.Errorf("notify type %s requires a url", t)
	case t == notify.TypeWebhook && n.Channel != "":
		return errors.New("notify channel is only valid for the redis notifier")
	case n.Retries != nil && *n.Retries < 0:
		return fmt.Errorf("notify retries must be >= 0, got %d", *n.Retries)
	}
	return nil
}

// StaticBucket returns the bucket used when stack lookup is disabled.
func (s *Settings) StaticBucket() string {
	if s.Bucket != "" {
		return s.Bucket
	}
	return DefaultBucket
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
