package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var ErrMissingEnv = errors.New("required environment variable not set")

var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-[^}]*|:\?[^}]*)?\}`)

// ExpandEnv substitutes ${VAR}, ${VAR:-default} and ${VAR:?message}. Unset
// plain references expand to the empty string; a ${VAR:?} reference to an
// unset or empty variable is an error.
func ExpandEnv(input string) (string, error) {
	var missing []string
	out := envPattern.ReplaceAllStringFunc(input, func(match string) string {
		sub := envPattern.FindStringSubmatch(match)
		name, modifier := sub[1], sub[2]
		value, ok := os.LookupEnv(name)

		switch {
		case strings.HasPrefix(modifier, ":-"):
			if !ok || value == "" {
				return modifier[2:]
			}
		case strings.HasPrefix(modifier, ":?"):
			if !ok || value == "" {
				missing = append(missing, fmt.Sprintf("%s: %s", name, modifier[2:]))
				return match
			}
		}
		return value
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s", ErrMissingEnv, strings.Join(missing, ", "))
	}
	return out, nil
}

// getEnvOrDefault and friends supply flag defaults from the environment.
func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// EnvOverrides applies SNEKPATH_* variables on top of cfg. Unparseable
// values are reported rather than ignored.
func EnvOverrides(cfg *File) error {
	var errs []error
	cfg.Log.Format = getEnvOrDefault("SNEKPATH_LOG_FORMAT", cfg.Log.Format)
	cfg.Log.Level = getEnvOrDefault("SNEKPATH_LOG_LEVEL", cfg.Log.Level)
	cfg.Server.Listen = getEnvOrDefault("SNEKPATH_LISTEN", cfg.Server.Listen)
	cfg.Sim.OutDir = getEnvOrDefault("SNEKPATH_OUT_DIR", cfg.Sim.OutDir)
	if v := os.Getenv("SNEKPATH_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("SNEKPATH_WORKERS=%q: %w", v, err))
		} else {
			cfg.Sim.Workers = n
		}
	}
	return errors.Join(errs...)
}
