// Package config loads zonealloc settings with viper. Sources, highest
// precedence first: command-line flags, ZONEALLOC_* environment variables
// (dots and dashes become underscores, e.g. ZONEALLOC_SOLVER_TIME_LIMIT),
// a YAML config file, and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/katalvlaran/zonealloc/alloc"
	"github.com/katalvlaran/zonealloc/bnb"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "ZONEALLOC"

// ErrInvalidConfig is returned for unusable settings.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the full settings tree.
type Config struct {
	Solver SolverConfig `mapstructure:"solver"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
}

// SolverConfig mirrors alloc.Options in serialisable form.
type SolverConfig struct {
	TimeLimit time.Duration `mapstructure:"time-limit"`
	NodeLimit int           `mapstructure:"node-limit"`
	Tolerance float64       `mapstructure:"tolerance"`
	Branching string        `mapstructure:"branching"`
	Workers   int           `mapstructure:"workers"`
	Backend   string        `mapstructure:"backend"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	RequestTimeout  time.Duration `mapstructure:"request-timeout"`
	MaxBodyBytes    int64         `mapstructure:"max-body-bytes"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
	MaxCells        int           `mapstructure:"max-cells"`
	MaxWorkers      int           `mapstructure:"max-workers"`
	MaxJobs         int           `mapstructure:"max-jobs"`
	JobTTL          time.Duration `mapstructure:"job-ttl"`
	MaxStoredJobs   int           `mapstructure:"max-stored-jobs"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	// Format is "console" or "json".
	Format string `mapstructure:"format"`
	// Verbosity is the logr V-level enabled (0 = info only).
	Verbosity int `mapstructure:"verbosity"`
}

// defaults lists every key with its default value.
var defaults = map[string]any{
	"solver.time-limit":       time.Duration(0),
	"solver.node-limit":       0,
	"solver.tolerance":        bnb.DefaultTolerance,
	"solver.branching":        bnb.MostFractional.String(),
	"solver.workers":          1,
	"solver.backend":          alloc.Simplex.String(),
	"server.addr":             ":8080",
	"server.request-timeout":  60 * time.Second,
	"server.max-body-bytes":   int64(8 << 20),
	"server.shutdown-timeout": 10 * time.Second,
	"server.max-cells":        50_000,
	"server.max-workers":      0,
	"server.max-jobs":         4,
	"server.job-ttl":          time.Hour,
	"server.max-stored-jobs":  1024,
	"log.format":              "console",
	"log.verbosity":           0,
}

// FlagKeys maps command-line flag names onto config keys.
var FlagKeys = map[string]string{
	"time-limit": "solver.time-limit",
	"node-limit": "solver.node-limit",
	"tolerance":  "solver.tolerance",
	"branching":  "solver.branching",
	"workers":    "solver.workers",
	"backend":    "solver.backend",
	"addr":       "server.addr",
	"log-format": "log.format",
	"verbosity":  "log.verbosity",
}

// NewViper returns a viper instance with defaults, environment binding,
// the optional config file and whichever FlagKeys flags exist in flags.
func NewViper(configFile string, flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", configFile, err)
		}
	}

	if flags != nil {
		for name, key := range FlagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("config: bind flag %s: %w", name, err)
				}
			}
		}
	}

	return v, nil
}

// Load decodes v into a validated Config.
func Load(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if _, err := c.Solver.Options(logr.Discard()); err != nil {
		return fmt.Errorf("%w: solver: %w", ErrInvalidConfig, err)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: server.max-body-bytes must be positive", ErrInvalidConfig)
	}
	if c.Server.RequestTimeout < 0 || c.Server.ShutdownTimeout < 0 || c.Server.JobTTL < 0 {
		return fmt.Errorf("%w: negative server timeout", ErrInvalidConfig)
	}
	if c.Server.MaxCells < 0 || c.Server.MaxWorkers < 0 || c.Server.MaxJobs < 0 || c.Server.MaxStoredJobs < 0 {
		return fmt.Errorf("%w: negative server limit", ErrInvalidConfig)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log.format %q (want console or json)", ErrInvalidConfig, c.Log.Format)
	}
	if c.Log.Verbosity < 0 {
		return fmt.Errorf("%w: negative log.verbosity", ErrInvalidConfig)
	}

	return nil
}

// Options converts the solver settings into validated alloc.Options.
func (s SolverConfig) Options(log logr.Logger) (alloc.Options, error) {
	branching, err := bnb.ParseBranching(s.Branching)
	if err != nil {
		return alloc.Options{}, err
	}
	backend, err := alloc.ParseBackend(s.Backend)
	if err != nil {
		return alloc.Options{}, err
	}
	o := alloc.Options{
		TimeLimit: s.TimeLimit,
		NodeLimit: s.NodeLimit,
		Tolerance: s.Tolerance,
		Branching: branching,
		Workers:   s.Workers,
		Backend:   backend,
		Logger:    log,
	}
	if err = o.Validate(); err != nil {
		return alloc.Options{}, err
	}

	return o, nil
}
