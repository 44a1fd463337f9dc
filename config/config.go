// Package config loads the snekpath configuration file.
//
// A file has four sections: engine (the navigation thresholds), sim (batch
// simulation), server (the decision service) and log. Missing keys keep their
// defaults, ${VAR} and ${VAR:-default} are expanded from the environment
// before decoding, and the result is validated.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/brensch/snekpath/nav"
)

var (
	ErrNotFound      = errors.New("config file not found")
	ErrInvalidFormat = errors.New("invalid config format")
	ErrValidation    = errors.New("config validation failed")
)

// File is the decoded configuration.
type File struct {
	Engine nav.Config `yaml:"engine"`
	Sim    Sim        `yaml:"sim"`
	Server Server     `yaml:"server"`
	Log    Log        `yaml:"log"`
}

// Sim configures batch simulation.
type Sim struct {
	Policy     string `yaml:"policy"`
	Games      int    `yaml:"games"`
	Workers    int    `yaml:"workers"`
	MaxTicks   int    `yaml:"max_ticks"`
	Seed       int64  `yaml:"seed"`
	OutDir     string `yaml:"out_dir"`
	FlushGames int    `yaml:"flush_games"`
}

// Server configures the decision service.
type Server struct {
	Listen     string        `yaml:"listen"`
	Policy     string        `yaml:"policy"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

type Log struct {
	Format string `yaml:"format"`
	Level  string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() File {
	return File{
		Engine: nav.DefaultConfig(10),
		Sim: Sim{
			Policy:     string(nav.PolicyHybrid),
			Games:      100,
			Workers:    4,
			MaxTicks:   0,
			Seed:       1,
			OutDir:     "data",
			FlushGames: 50,
		},
		Server: Server{
			Listen:     "127.0.0.1:8080",
			Policy:     string(nav.PolicyHybrid),
			SessionTTL: 10 * time.Minute,
		},
		Log: Log{Format: "text", Level: "info"},
	}
}

// Validate checks every section.
func (f File) Validate() error {
	var errs []error
	if err := f.Engine.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("engine: %w", err))
	}
	if _, err := nav.ParsePolicy(f.Sim.Policy); err != nil {
		errs = append(errs, fmt.Errorf("sim.policy: %w", err))
	}
	if _, err := nav.ParsePolicy(f.Server.Policy); err != nil {
		errs = append(errs, fmt.Errorf("server.policy: %w", err))
	}
	if f.Sim.Games < 0 {
		errs = append(errs, fmt.Errorf("sim.games %d is negative", f.Sim.Games))
	}
	if f.Sim.Workers < 1 {
		errs = append(errs, fmt.Errorf("sim.workers %d must be at least 1", f.Sim.Workers))
	}
	if f.Sim.MaxTicks < 0 {
		errs = append(errs, fmt.Errorf("sim.max_ticks %d is negative", f.Sim.MaxTicks))
	}
	if f.Sim.FlushGames < 1 {
		errs = append(errs, fmt.Errorf("sim.flush_games %d must be at least 1", f.Sim.FlushGames))
	}
	if f.Server.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("server.session_ttl %s must be positive", f.Server.SessionTTL))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrValidation, errors.Join(errs...))
	}
	return nil
}

// LoadFile reads a .yaml or .yml file. An empty path returns the defaults.
func LoadFile(path string) (File, error) {
	if path == "" {
		return Default(), nil
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
	default:
		return File{}, fmt.Errorf("%w: unsupported extension %q", ErrInvalidFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return File{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return File{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Load(f)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Load decodes YAML from r on top of Default.
func Load(r io.Reader) (File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return File{}, fmt.Errorf("read config: %w", err)
	}
	expanded, err := ExpandEnv(string(data))
	if err != nil {
		return File{}, err
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if err := cfg.Validate(); err != nil {
		return File{}, err
	}
	return cfg, nil
}
