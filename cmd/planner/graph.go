package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"turbine_planner/pkg/graph"
	"turbine_planner/pkg/logging"
)

var graphFlags struct {
	input       inputFlags
	thresholdKm float64
}

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print proximity graph and cluster statistics for a facility set",
	RunE:  runGraph,
}

func init() {
	graphFlags.input.register(graphCmd)
	graphCmd.Flags().Float64Var(&graphFlags.thresholdKm, "threshold", 0, "cluster distance in km (default from config)")
	rootCmd.AddCommand(graphCmd)
}

func runGraph(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	facilities, err := graphFlags.input.load(ctx, logging.New("graph"))
	if err != nil {
		return err
	}

	threshold := cfg.Planner.ClusterThresholdKm
	if graphFlags.thresholdKm != 0 {
		threshold = graphFlags.thresholdKm
	}

	g, err := graph.Build(facilities, threshold)
	if err != nil {
		return err
	}
	clusters := graph.DetectClusters(g)

	sizes := make([]int, len(clusters))
	for i, c := range clusters {
		sizes[i] = len(c)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Graph: %s\n", g.Summary())
	fmt.Fprintf(out, "Skipped without coordinates: %d\n", len(facilities)-int(g.NumNodes))
	fmt.Fprintf(out, "Clusters: %d\n", len(clusters))
	if len(sizes) > 0 {
		fmt.Fprintf(out, "Largest cluster: %d facilities\n", sizes[0])
	}
	return nil
}
