package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"turbine_planner/pkg/fleet"
	"turbine_planner/pkg/logging"
	"turbine_planner/pkg/planner"
	"turbine_planner/pkg/report"
)

var planFlags struct {
	input       inputFlags
	groupBy     string
	top         int
	thresholdKm float64
	geojsonPath string
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Cluster facilities, optimise routes and print a maintenance schedule",
	RunE:  runPlan,
}

func init() {
	planFlags.input.register(planCmd)
	planCmd.Flags().StringVar(&planFlags.groupBy, "group-by", "manufacturer", "grouping: manufacturer, operator or none")
	planCmd.Flags().IntVar(&planFlags.top, "top", 0, "number of largest groups to plan (default from config)")
	planCmd.Flags().Float64Var(&planFlags.thresholdKm, "threshold", 0, "cluster distance in km (default from config)")
	planCmd.Flags().StringVar(&planFlags.geojsonPath, "geojson", "", "write routes and facilities as GeoJSON to this file")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logging.New("plan")

	groupFn, err := fleet.GroupFuncByName(planFlags.groupBy)
	if err != nil {
		return err
	}

	facilities, err := planFlags.input.load(ctx, log)
	if err != nil {
		return err
	}

	pcfg := planner.Config{
		ClusterThresholdKm: cfg.Planner.ClusterThresholdKm,
		Schedule:           cfg.ScheduleConfig(),
	}
	if planFlags.thresholdKm != 0 {
		pcfg.ClusterThresholdKm = planFlags.thresholdKm
	}
	topN := cfg.Planner.TopGroupCount
	if planFlags.top != 0 {
		topN = planFlags.top
	}

	p, err := planner.New(pcfg, planner.WithLogger(logging.New("planner")))
	if err != nil {
		return fmt.Errorf("planner: %w", err)
	}

	res, err := p.PlanTopGroups(ctx, facilities, groupFn, topN)
	if err != nil {
		return fmt.Errorf("plan: %w", err)
	}

	if err := report.WriteText(cmd.OutOrStdout(), res); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if planFlags.geojsonPath != "" {
		f, err := os.Create(planFlags.geojsonPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", planFlags.geojsonPath, err)
		}
		defer f.Close()
		if err := report.WriteGeoJSON(f, res); err != nil {
			return fmt.Errorf("write geojson: %w", err)
		}
		log.Infof("wrote GeoJSON to %s", planFlags.geojsonPath)
	}
	return nil
}
