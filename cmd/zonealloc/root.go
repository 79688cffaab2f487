package main

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/katalvlaran/zonealloc/alloc"
	"github.com/katalvlaran/zonealloc/bnb"
	"github.com/katalvlaran/zonealloc/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// globals holds the persistent flags shared by all subcommands.
type globals struct {
	configFile string
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "zonealloc",
		Short:         "Optimal capacitated assignment of resources to zones",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&g.configFile, "config", "", "YAML config file")
	pf.String("log-format", "console", "log encoding: console or json")
	pf.IntP("verbosity", "v", 0, "log verbosity (1: search summary, 2: per-node events)")

	root.AddCommand(
		newSolveCmd(g),
		newGenerateCmd(),
		newServeCmd(g),
		newVersionCmd(),
	)

	return root
}

// addSolverFlags registers the flags mapped onto solver.* config keys.
// Their defaults only document the built-in values; viper owns precedence.
func addSolverFlags(fs *pflag.FlagSet) {
	fs.Duration("time-limit", 0, "stop the search after this long (0: unlimited)")
	fs.Int("node-limit", 0, "stop after this many relaxations (0: unlimited)")
	fs.Float64("tolerance", bnb.DefaultTolerance, "integrality tolerance")
	fs.String("branching", bnb.MostFractional.String(), "branching rule: most-fractional or first-fractional")
	fs.Int("workers", 1, "parallel search workers")
	fs.String("backend", alloc.Simplex.String(), "LP engine: simplex or gonum")
}

// load resolves the configuration for cmd.
func (g *globals) load(cmd *cobra.Command) (config.Config, error) {
	v, err := config.NewViper(g.configFile, cmd.Flags())
	if err != nil {
		return config.Config{}, err
	}

	return config.Load(v)
}

// newLogger builds a zap logger behind logr. Verbosity n enables V(n).
func newLogger(c config.LogConfig) (logr.Logger, func(), error) {
	var zc zap.Config
	if c.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(zapcore.Level(-c.Verbosity))
	zc.OutputPaths = []string{"stderr"}

	zl, err := zc.Build()
	if err != nil {
		return logr.Discard(), func() {}, fmt.Errorf("build logger: %w", err)
	}

	return zapr.NewLogger(zl), func() { _ = zl.Sync() }, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "zonealloc", version)
		},
	}
}
