package main

import (
	"github.com/katalvlaran/zonealloc/internal/httpapi"
	"github.com/katalvlaran/zonealloc/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func newServeCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			mt, err := metrics.New(reg)
			if err != nil {
				return err
			}

			srv := httpapi.NewServer(httpapi.Config{
				Options:        opts,
				Logger:         log,
				Metrics:        mt,
				Gatherer:       reg,
				MaxBodyBytes:   cfg.Server.MaxBodyBytes,
				RequestTimeout: cfg.Server.RequestTimeout,
				MaxCells:       cfg.Server.MaxCells,
				MaxWorkers:     cfg.Server.MaxWorkers,
				MaxJobs:        cfg.Server.MaxJobs,
				JobTTL:         cfg.Server.JobTTL,
				MaxStoredJobs:  cfg.Server.MaxStoredJobs,
			})

			return srv.ListenAndServe(cmd.Context(), cfg.Server.Addr, cfg.Server.ShutdownTimeout)
		},
	}
	fs := cmd.Flags()
	fs.String("addr", ":8080", "listen address")
	addSolverFlags(fs)

	return cmd
}
