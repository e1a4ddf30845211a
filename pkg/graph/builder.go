package graph

import (
	"fmt"
	"math"
	"slices"

	"github.com/tidwall/rtree"

	"turbine_planner/pkg/fleet"
	"turbine_planner/pkg/geo"
)

// Build creates a proximity graph over the facilities that carry coordinates.
// Two facilities are adjacent when their great-circle distance is at most
// thresholdKm. Candidate pairs come from an R-tree queried with a bounding box
// around each node; the exact distance decides every edge.
func Build(facilities []fleet.Facility, thresholdKm float64) (*Graph, error) {
	if err := ValidateThreshold(thresholdKm); err != nil {
		return nil, err
	}

	nodes := fleet.WithCoordinates(facilities)
	lat, lon := coordinates(nodes)

	var tr rtree.RTreeG[uint32]
	for i := range nodes {
		p := [2]float64{lon[i], lat[i]}
		tr.Insert(p, p, uint32(i))
	}

	adj := make([][]uint32, len(nodes))
	for i := range nodes {
		box := geo.BoundingBox(lat[i], lon[i], thresholdKm)
		tr.Search(
			[2]float64{box.MinLon, box.MinLat},
			[2]float64{box.MaxLon, box.MaxLat},
			func(_, _ [2]float64, j uint32) bool {
				// Each pair is decided once, from its lower index.
				if int(j) <= i {
					return true
				}
				if geo.DistanceKm(lat[i], lon[i], lat[j], lon[j]) <= thresholdKm {
					adj[i] = append(adj[i], j)
					adj[j] = append(adj[j], uint32(i))
				}
				return true
			},
		)
	}

	return fromAdjacency(nodes, adj, thresholdKm), nil
}

// buildAllPairs is the quadratic reference construction used to check Build.
func buildAllPairs(facilities []fleet.Facility, thresholdKm float64) (*Graph, error) {
	if err := ValidateThreshold(thresholdKm); err != nil {
		return nil, err
	}

	nodes := fleet.WithCoordinates(facilities)
	lat, lon := coordinates(nodes)

	adj := make([][]uint32, len(nodes))
	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			if geo.DistanceKm(lat[i], lon[i], lat[j], lon[j]) <= thresholdKm {
				adj[i] = append(adj[i], uint32(j))
				adj[j] = append(adj[j], uint32(i))
			}
		}
	}

	return fromAdjacency(nodes, adj, thresholdKm), nil
}

// ValidateThreshold returns ErrInvalidThreshold unless thresholdKm is positive.
func ValidateThreshold(thresholdKm float64) error {
	if math.IsNaN(thresholdKm) || thresholdKm <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidThreshold, thresholdKm)
	}
	return nil
}

func coordinates(nodes []fleet.Facility) (lat, lon []float64) {
	lat = make([]float64, len(nodes))
	lon = make([]float64, len(nodes))
	for i, f := range nodes {
		lat[i], lon[i] = f.LatLon()
	}
	return lat, lon
}

// fromAdjacency packs per-node neighbour lists into CSR arrays with each
// list sorted ascending.
func fromAdjacency(nodes []fleet.Facility, adj [][]uint32, thresholdKm float64) *Graph {
	numNodes := uint32(len(nodes))
	firstOut := make([]uint32, numNodes+1)
	for i, ns := range adj {
		firstOut[i+1] = firstOut[i] + uint32(len(ns))
	}

	head := make([]uint32, 0, firstOut[numNodes])
	for _, ns := range adj {
		slices.Sort(ns)
		head = append(head, ns...)
	}

	return &Graph{
		NumNodes:    numNodes,
		NumEdges:    uint32(len(head) / 2),
		FirstOut:    firstOut,
		Head:        head,
		Facilities:  nodes,
		ThresholdKm: thresholdKm,
	}
}
