package graph

import (
	"errors"
	"fmt"

	"turbine_planner/pkg/fleet"
)

// ErrInvalidThreshold is returned when the edge threshold is not a positive number.
var ErrInvalidThreshold = errors.New("threshold must be positive")

// Graph is an undirected proximity graph in CSR (Compressed Sparse Row) format.
// Node i refers to Facilities[i]. Every edge is stored in both directions and
// each node's neighbours are sorted ascending.
type Graph struct {
	NumNodes    uint32
	NumEdges    uint32           // undirected edges; len(Head) == 2*NumEdges
	FirstOut    []uint32         // len: NumNodes + 1; FirstOut[i]..FirstOut[i+1] index into Head
	Head        []uint32         // neighbour node for each directed half-edge
	Facilities  []fleet.Facility // len: NumNodes; only facilities with coordinates
	ThresholdKm float64
}

// EdgesFrom returns the range of half-edge indices for edges originating from node u.
func (g *Graph) EdgesFrom(u uint32) (start, end uint32) {
	return g.FirstOut[u], g.FirstOut[u+1]
}

// Neighbors returns the neighbours of u in ascending order. The slice aliases
// the graph's storage and must not be modified.
func (g *Graph) Neighbors(u uint32) []uint32 {
	start, end := g.EdgesFrom(u)
	return g.Head[start:end]
}

// Degree returns the number of neighbours of u.
func (g *Graph) Degree(u uint32) int {
	start, end := g.EdgesFrom(u)
	return int(end - start)
}

// Summary describes a graph for logs and reports.
type Summary struct {
	Nodes         int     `json:"nodes"`
	Edges         int     `json:"edges"`
	AverageDegree float64 `json:"averageDegree"`
	ThresholdKm   float64 `json:"thresholdKm"`
}

// Summary returns node and edge counts plus the average degree.
func (g *Graph) Summary() Summary {
	s := Summary{
		Nodes:       int(g.NumNodes),
		Edges:       int(g.NumEdges),
		ThresholdKm: g.ThresholdKm,
	}
	if g.NumNodes > 0 {
		s.AverageDegree = float64(2*g.NumEdges) / float64(g.NumNodes)
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%d nodes, %d edges, avg degree %.2f, threshold %.1f km",
		s.Nodes, s.Edges, s.AverageDegree, s.ThresholdKm)
}
