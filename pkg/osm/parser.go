package osm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"

	"turbine_planner/pkg/fleet"
	"turbine_planner/pkg/logging"
)

// ErrNoFacilities is returned when an extract contains no wind turbines.
var ErrNoFacilities = errors.New("no wind turbines found")

// isWindTurbine returns true if the node is tagged as a wind generator.
func isWindTurbine(tags osm.Tags) bool {
	if tags.Find("power") != "generator" {
		return false
	}
	if tags.Find("generator:source") == "wind" {
		return true
	}
	return tags.Find("generator:method") == "wind_turbine"
}

// turbineType joins manufacturer and model, e.g. "Enercon E-82".
func turbineType(tags osm.Tags) string {
	manufacturer := tags.Find("manufacturer")
	if manufacturer == "" {
		manufacturer = tags.Find("generator:manufacturer")
	}
	model := tags.Find("model")
	if model == "" {
		model = tags.Find("generator:model")
	}
	return strings.TrimSpace(manufacturer + " " + model)
}

func facilityName(tags osm.Tags) string {
	if name := tags.Find("name"); name != "" {
		return name
	}
	return tags.Find("ref")
}

// toFacility converts a turbine node into a facility.
func toFacility(n *osm.Node) fleet.Facility {
	f := fleet.New(int64(n.ID), facilityName(n.Tags), n.Lat, n.Lon)
	f.Type = turbineType(n.Tags)
	f.Operator = n.Tags.Find("operator")
	f.Location = n.Tags.Find("addr:city")
	return f
}

// BBox defines a geographic bounding box for filtering.
// If non-zero, only turbines inside the box are kept.
type BBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// IsZero returns true if the bbox is unset.
func (b BBox) IsZero() bool {
	return b.MinLat == 0 && b.MaxLat == 0 && b.MinLng == 0 && b.MaxLng == 0
}

// Contains returns true if the point is inside the bounding box.
func (b BBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// ParseOptions configures the OSM parser.
type ParseOptions struct {
	BBox   BBox           // if non-zero, filter turbines to this bounding box
	Logger logging.Logger // defaults to a no-op logger
}

// Parse reads wind turbines from an OSM PBF extract.
func Parse(ctx context.Context, r io.Reader, opts ...ParseOptions) ([]fleet.Facility, error) {
	scanner := osmpbf.New(ctx, r, 1)
	scanner.SkipWays = true
	scanner.SkipRelations = true
	return extract(scanner, option(opts))
}

// ParseXML reads wind turbines from an OSM XML document.
func ParseXML(ctx context.Context, r io.Reader, opts ...ParseOptions) ([]fleet.Facility, error) {
	return extract(osmxml.New(ctx, r), option(opts))
}

func option(opts []ParseOptions) ParseOptions {
	var opt ParseOptions
	if len(opts) > 0 {
		opt = opts[0]
	}
	if opt.Logger == nil {
		opt.Logger = logging.NopLogger{}
	}
	return opt
}

// extract collects turbine nodes from the scanner in stream order.
func extract(scanner osm.Scanner, opt ParseOptions) ([]fleet.Facility, error) {
	defer scanner.Close()

	useBBox := !opt.BBox.IsZero()
	var facilities []fleet.Facility
	var nodes, bboxFiltered int

	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		nodes++

		if !isWindTurbine(n.Tags) {
			continue
		}
		if useBBox && !opt.BBox.Contains(n.Lat, n.Lon) {
			bboxFiltered++
			continue
		}
		facilities = append(facilities, toFacility(n))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan nodes: %w", err)
	}

	if bboxFiltered > 0 {
		opt.Logger.Infof("filtered %d turbines outside bounding box", bboxFiltered)
	}
	opt.Logger.Infof("scanned %d nodes, found %d wind turbines", nodes, len(facilities))

	if len(facilities) == 0 {
		return nil, ErrNoFacilities
	}
	return facilities, nil
}
