// Package config loads sitesync.yaml and resolves run settings from flags,
// the config file, the environment and built-in defaults.
package config

import (
	"os"
	"regexp"
)

// envVarPattern matches ${VAR} and ${VAR:-default}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// ExpandEnv replaces ${VAR} and ${VAR:-default} in input with environment
// values. An unset or empty variable uses its default, or expands to the
// empty string when there is none; required values are caught by
// Settings.Validate or by target resolution instead.
func ExpandEnv(input string) string {
	return expandWith(input, os.LookupEnv)
}

func expandWith(input string, lookup func(string) (string, bool)) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		if value, ok := lookup(groups[1]); ok && value != "" {
			return value
		}
		if len(groups) >= 3 {
			return groups[2]
		}
		return ""
	})
}
