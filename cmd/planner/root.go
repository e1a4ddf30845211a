package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"turbine_planner/pkg/config"
	"turbine_planner/pkg/fleet"
	"turbine_planner/pkg/logging"
	osmparser "turbine_planner/pkg/osm"
)

var (
	cfgPath  string
	logLevel string
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:               "planner",
	Short:             "Wind turbine maintenance route planner",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return logging.SetLevel(cfg.Logging.Level)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

// inputFlags selects where facilities are read from.
type inputFlags struct {
	osmPath  string
	jsonPath string
	bbox     string
}

func (in *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&in.osmPath, "osm", "", "OSM extract with wind turbines (.osm.pbf or .osm)")
	cmd.Flags().StringVar(&in.jsonPath, "json", "", "JSON facility list")
	cmd.Flags().StringVar(&in.bbox, "bbox", "", "bounding box filter for --osm: minLat,minLng,maxLat,maxLng")
	cmd.MarkFlagsMutuallyExclusive("osm", "json")
	cmd.MarkFlagsOneRequired("osm", "json")
}

func (in *inputFlags) load(ctx context.Context, log logging.Logger) ([]fleet.Facility, error) {
	if in.jsonPath != "" {
		facilities, err := fleet.LoadJSON(in.jsonPath)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", in.jsonPath, err)
		}
		log.Infof("loaded %d facilities from %s", len(facilities), in.jsonPath)
		return facilities, nil
	}

	opts := osmparser.ParseOptions{Logger: log}
	if in.bbox != "" {
		var minLat, minLng, maxLat, maxLng float64
		if _, err := fmt.Sscanf(in.bbox, "%f,%f,%f,%f", &minLat, &minLng, &maxLat, &maxLng); err != nil {
			return nil, fmt.Errorf("invalid bbox format (expected minLat,minLng,maxLat,maxLng): %w", err)
		}
		opts.BBox = osmparser.BBox{MinLat: minLat, MaxLat: maxLat, MinLng: minLng, MaxLng: maxLng}
	}

	f, err := os.Open(in.osmPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", in.osmPath, err)
	}
	defer f.Close()

	parse := osmparser.Parse
	if ext := strings.ToLower(filepath.Ext(in.osmPath)); ext == ".osm" || ext == ".xml" {
		parse = osmparser.ParseXML
	}
	facilities, err := parse(ctx, f, opts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", in.osmPath, err)
	}
	return facilities, nil
}
