package main

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/katalvlaran/zonealloc/alloc"
	"github.com/katalvlaran/zonealloc/instance"
	"github.com/katalvlaran/zonealloc/metrics"
	"github.com/katalvlaran/zonealloc/model"
	"github.com/katalvlaran/zonealloc/report"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// costTol is the relative cost agreement demanded by --cross-check.
const costTol = 1e-9

// errCrossCheck is returned when the exhaustive reference disagrees.
var errCrossCheck = errors.New("cross-check failed")

type solveFlags struct {
	format      string
	crossCheck  bool
	metricsFile string
}

func newSolveCmd(g *globals) *cobra.Command {
	f := &solveFlags{}
	cmd := &cobra.Command{
		Use:   "solve INSTANCE",
		Short: "Solve an instance file (.yaml, .json or .csv)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd, g, f, args[0])
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&f.format, "format", "table", "output format: table or json")
	fs.BoolVar(&f.crossCheck, "cross-check", false, "compare against exhaustive enumeration (small instances only)")
	fs.StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile")
	addSolverFlags(fs)

	return cmd
}

func runSolve(cmd *cobra.Command, g *globals, f *solveFlags, path string) error {
	if f.format != "table" && f.format != "json" {
		return fmt.Errorf("unknown --format %q", f.format)
	}
	cfg, err := g.load(cmd)
	if err != nil {
		return err
	}
	log, sync, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer sync()

	opts, err := cfg.Solver.Options(log)
	if err != nil {
		return err
	}
	in, err := instance.Load(path)
	if err != nil {
		return err
	}
	if err = in.Validate(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	m, err := in.Model()
	if err != nil {
		return err
	}

	start := time.Now()
	sol, err := alloc.SolveModel(cmd.Context(), m, opts)
	elapsed := time.Since(start)

	if f.metricsFile != "" {
		reg := prometheus.NewRegistry()
		mt, merr := metrics.New(reg)
		if merr != nil {
			return merr
		}
		mt.Observe(sol, err, elapsed)
		if merr = metrics.WriteTextfile(f.metricsFile, reg); merr != nil {
			return fmt.Errorf("write metrics: %w", merr)
		}
	}
	if err != nil {
		return err
	}
	log.V(1).Info("solve finished", "instance", in.Name, "status", sol.Status,
		"totalCost", sol.TotalCost, "elapsed", elapsed)

	if f.crossCheck {
		if err = crossCheck(m, sol); err != nil {
			if !errors.Is(err, alloc.ErrTooLarge) {
				return err
			}
			log.Info("cross-check skipped", "reason", err.Error())
		}
	}

	if f.format == "json" {
		return report.JSON(cmd.OutOrStdout(), in, sol)
	}

	return report.Table(cmd.OutOrStdout(), in, sol)
}

// crossCheck compares sol against BruteForce. Only optimal solutions are
// required to match; a best-effort one must not beat the reference.
func crossCheck(m *model.Model, sol alloc.Solution) error {
	ref, err := alloc.BruteForce(m)
	if err != nil {
		return err
	}
	diff := sol.TotalCost - ref.TotalCost
	if diff < -costTol*math.Max(1, math.Abs(ref.TotalCost)) ||
		(sol.Status == alloc.Optimal && diff > costTol*math.Max(1, math.Abs(ref.TotalCost))) {
		return fmt.Errorf("%w: solver %v (%s), exhaustive %v",
			errCrossCheck, sol.TotalCost, sol.Status, ref.TotalCost)
	}

	return nil
}
