// Package cmd provides the sitesync CLI commands.
package cmd

import (
	"github.com/urfave/cli/v2"
)

// Output flags shared by every command.
var (
	// FormatFlag selects output format: json, table, yaml.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, table, yaml",
	}

	// NoColorFlag disables colored table output.
	NoColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable colored output",
	}

	// TUIFlag opens the interactive viewer (plan, outputs only).
	TUIFlag = &cli.BoolFlag{
		Name:  "tui",
		Usage: "Enable interactive TUI mode (plan, outputs only)",
	}
)

// OutputFlags returns the flags that control rendering. --tui is included
// everywhere so unsupported commands can reject it explicitly.
func OutputFlags() []cli.Flag {
	return []cli.Flag{FormatFlag, NoColorFlag, TUIFlag}
}

// TargetFlags returns the flags that select and reach the deployment
// targets. Values left unset fall back to the config file, then the
// environment, then built-in defaults.
func TargetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path to config file (default: ./sitesync.yaml if present)",
		},
		&cli.StringFlag{
			Name:  "stack",
			Usage: "CloudFormation stack holding the deployment outputs",
		},
		&cli.BoolFlag{
			Name:  "no-stack",
			Usage: "Skip the stack lookup and use --bucket/--distribution-id directly",
		},
		&cli.StringFlag{
			Name:  "bucket",
			Usage: "Bucket name (overrides the stack's BucketName output)",
		},
		&cli.StringFlag{
			Name:  "distribution-id",
			Usage: "CloudFront distribution id (used with --no-stack)",
		},
		&cli.StringFlag{
			Name:  "website-url",
			Usage: "Website URL to report (used with --no-stack)",
		},
		&cli.StringFlag{
			Name:  "dist-dir",
			Usage: "Build output directory to publish",
		},
		&cli.IntFlag{
			Name:  "concurrency",
			Usage: "Maximum parallel uploads and deletes (0 = default)",
		},
		&cli.IntFlag{
			Name:  "list-page-size",
			Usage: "Keys requested per bucket list call (0 = service default)",
		},
		&cli.StringFlag{
			Name:  "region",
			Usage: "AWS region",
		},
		&cli.StringFlag{
			Name:  "profile",
			Usage: "AWS shared config profile",
		},
		&cli.StringFlag{
			Name:  "endpoint",
			Usage: "Custom S3 endpoint (S3-compatible providers)",
		},
		&cli.BoolFlag{
			Name:  "s3-path-style",
			Usage: "Force path-style S3 addressing",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
	}
}

// BuildFlags returns the build runner flags.
func BuildFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "skip-build",
			Usage: "Publish the existing dist directory without building",
		},
		&cli.StringFlag{
			Name:  "build-command",
			Usage: `Build command (default: "npm run build")`,
		},
		&cli.StringFlag{
			Name:  "build-dir",
			Usage: "Working directory for the build command",
		},
	}
}

// NotifyFlags returns the deploy completion notifier flags.
func NotifyFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "notify",
			Usage: "Publish a completion event: webhook, redis",
		},
		&cli.StringFlag{
			Name:  "notify-url",
			Usage: "Webhook endpoint or redis:// URL for --notify",
		},
		&cli.StringFlag{
			Name:  "notify-channel",
			Usage: "Redis pub/sub channel (default: sitesync:deploy_completed)",
		},
		&cli.DurationFlag{
			Name:  "notify-timeout",
			Usage: "Per-attempt notifier timeout",
		},
		&cli.IntFlag{
			Name:  "notify-retries",
			Usage: "Notifier retries after the first attempt",
		},
	}
}

func joinFlags(groups ...[]cli.Flag) []cli.Flag {
	var out []cli.Flag
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
