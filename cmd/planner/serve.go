package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"turbine_planner/pkg/api"
	"turbine_planner/pkg/logging"
	"turbine_planner/pkg/metrics"
	"turbine_planner/pkg/planner"
)

var corsOrigin string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the planning HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&corsOrigin, "cors-origin", "", "CORS allowed origin (empty = same-origin)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logging.New("server")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec, err := metrics.NewPromRecorder(reg)
	if err != nil {
		return err
	}

	plannerLog := logging.New("planner")
	factory := func(pcfg planner.Config) (api.Planner, error) {
		return planner.New(pcfg, planner.WithLogger(plannerLog), planner.WithRecorder(rec))
	}
	defaults := api.Defaults{
		Planner: planner.Config{
			ClusterThresholdKm: cfg.Planner.ClusterThresholdKm,
			Schedule:           cfg.ScheduleConfig(),
		},
		TopN:          cfg.Planner.TopGroupCount,
		MaxFacilities: cfg.Server.MaxFacilities,
	}
	handlers := api.NewHandlers(factory, defaults, log)

	scfg := api.DefaultConfig(cfg.Server.Addr)
	scfg.MaxConcurrent = cfg.Server.MaxConcurrent
	scfg.RequestTimeout = cfg.Server.RequestTimeout()
	scfg.CORSOrigin = corsOrigin

	srv := api.NewServer(scfg, handlers, reg, log)
	return api.ListenAndServe(ctx, srv, log)
}
