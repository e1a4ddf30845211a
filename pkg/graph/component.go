package graph

import (
	"math"

	"turbine_planner/pkg/fleet"
	"turbine_planner/pkg/geo"
)

// Components returns the connected components of g as node index lists.
// Components are discovered in ascending order of their smallest node. Within
// a component, nodes appear in the order an explicit-stack depth-first search
// visits them: the most recently pushed node is popped first and neighbours
// are pushed in ascending order.
func Components(g *Graph) [][]uint32 {
	if g.NumNodes == 0 {
		return nil
	}

	visited := make([]bool, g.NumNodes)
	var components [][]uint32
	var stack []uint32

	for start := uint32(0); start < g.NumNodes; start++ {
		if visited[start] {
			continue
		}

		var comp []uint32
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			u := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[u] {
				continue
			}
			visited[u] = true
			comp = append(comp, u)

			for _, v := range g.Neighbors(u) {
				if !visited[v] {
					stack = append(stack, v)
				}
			}
		}
		components = append(components, comp)
	}

	return components
}

// DetectClusters returns the connected components of g as facility lists.
// Every node of g appears in exactly one cluster.
func DetectClusters(g *Graph) [][]fleet.Facility {
	components := Components(g)
	clusters := make([][]fleet.Facility, len(components))
	for i, comp := range components {
		cluster := make([]fleet.Facility, len(comp))
		for k, u := range comp {
			cluster[k] = g.Facilities[u]
		}
		clusters[i] = cluster
	}
	return clusters
}

// DetectClustersFromFacilities builds the proximity graph and returns its clusters.
func DetectClustersFromFacilities(facilities []fleet.Facility, thresholdKm float64) ([][]fleet.Facility, error) {
	g, err := Build(facilities, thresholdKm)
	if err != nil {
		return nil, err
	}
	return DetectClusters(g), nil
}

// ClusterDistanceKm returns the smallest distance between any facility of a
// and any facility of b, or +Inf when either is empty.
func ClusterDistanceKm(a, b []fleet.Facility) float64 {
	best := math.Inf(1)
	for _, fa := range a {
		latA, lonA := fa.LatLon()
		for _, fb := range b {
			latB, lonB := fb.LatLon()
			if d := geo.DistanceKm(latA, lonA, latB, lonB); d < best {
				best = d
			}
		}
	}
	return best
}
