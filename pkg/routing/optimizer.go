package routing

import (
	"context"
	"math"

	"turbine_planner/pkg/fleet"
	"turbine_planner/pkg/geo"
)

// Stats describes one optimisation run.
type Stats struct {
	NearestNeighborKm float64 `json:"nearestNeighborKm"`
	OptimizedKm       float64 `json:"optimizedKm"`
	Moves             int     `json:"moves"`  // accepted 2-opt reversals
	Passes            int     `json:"passes"` // full 2-opt scans, including the final one without a move
}

// ctxCheckRows is how many rows of the 2-opt pair scan run between context checks.
const ctxCheckRows = 64

// Optimizer orders facilities into a short open visiting path. The path starts
// at the first facility and does not return to it.
type Optimizer struct{}

// Route builds a nearest-neighbour tour and improves it with 2-opt.
// Facilities without coordinates are left out of the route. On context
// cancellation the best route found so far is returned together with the
// context error.
func (o *Optimizer) Route(ctx context.Context, facilities []fleet.Facility) ([]fleet.Facility, Stats, error) {
	facilities = fleet.WithCoordinates(facilities)
	var stats Stats
	if len(facilities) == 0 {
		return []fleet.Facility{}, stats, nil
	}

	p := newPath(facilities)
	p.nearestNeighbor()
	stats.NearestNeighborKm = p.length()

	err := p.twoOpt(ctx, &stats)
	stats.OptimizedKm = p.length()

	return p.facilities(), stats, err
}

// NearestNeighborRoute starts at facilities[0] and repeatedly moves to the
// closest unvisited facility. Ties go to the facility that comes first in
// the input.
func NearestNeighborRoute(facilities []fleet.Facility) []fleet.Facility {
	facilities = fleet.WithCoordinates(facilities)
	if len(facilities) == 0 {
		return []fleet.Facility{}
	}
	p := newPath(facilities)
	p.nearestNeighbor()
	return p.facilities()
}

// TwoOptImprove applies open-path 2-opt until a full pass finds no improving
// reversal. Routes with fewer than four facilities are returned unchanged.
// The input slice is not modified; facilities without coordinates are dropped.
func TwoOptImprove(ctx context.Context, route []fleet.Facility) ([]fleet.Facility, error) {
	p := newPath(fleet.WithCoordinates(route))
	var stats Stats
	err := p.twoOpt(ctx, &stats)
	return p.facilities(), err
}

// OptimizedRoute runs nearest-neighbour construction followed by 2-opt.
func OptimizedRoute(ctx context.Context, facilities []fleet.Facility) ([]fleet.Facility, error) {
	var o Optimizer
	route, _, err := o.Route(ctx, facilities)
	return route, err
}

// TotalDistance returns the summed distance between consecutive facilities
// that carry coordinates.
func TotalDistance(route []fleet.Facility) float64 {
	route = fleet.WithCoordinates(route)
	total := 0.0
	for k := 1; k < len(route); k++ {
		total += legKm(route[k-1], route[k])
	}
	return total
}

// LegKm returns the distance between two facilities in kilometres, or +Inf
// when either has no coordinates.
func LegKm(a, b fleet.Facility) float64 {
	if !a.HasCoordinates() || !b.HasCoordinates() {
		return math.Inf(1)
	}
	return legKm(a, b)
}

func legKm(a, b fleet.Facility) float64 {
	latA, lonA := a.LatLon()
	latB, lonB := b.LatLon()
	return geo.DistanceKm(latA, lonA, latB, lonB)
}

// path holds a visiting order as indices into a fixed facility slice.
type path struct {
	src   []fleet.Facility
	lat   []float64
	lon   []float64
	order []int
}

func newPath(facilities []fleet.Facility) *path {
	p := &path{
		src:   facilities,
		lat:   make([]float64, len(facilities)),
		lon:   make([]float64, len(facilities)),
		order: make([]int, len(facilities)),
	}
	for i, f := range facilities {
		p.lat[i], p.lon[i] = f.LatLon()
		p.order[i] = i
	}
	return p
}

// dist returns the distance between the facilities at route positions a and b.
func (p *path) dist(a, b int) float64 {
	u, v := p.order[a], p.order[b]
	return geo.DistanceKm(p.lat[u], p.lon[u], p.lat[v], p.lon[v])
}

func (p *path) length() float64 {
	total := 0.0
	for k := 1; k < len(p.order); k++ {
		total += p.dist(k-1, k)
	}
	return total
}

func (p *path) facilities() []fleet.Facility {
	out := make([]fleet.Facility, len(p.order))
	for k, i := range p.order {
		out[k] = p.src[i]
	}
	return out
}

func (p *path) nearestNeighbor() {
	n := len(p.order)
	if n == 0 {
		return
	}

	visited := make([]bool, n)
	order := make([]int, 0, n)
	cur := 0
	visited[cur] = true
	order = append(order, cur)

	for len(order) < n {
		best := -1
		bestDist := math.Inf(1)
		for j := 0; j < n; j++ {
			if visited[j] {
				continue
			}
			d := geo.DistanceKm(p.lat[cur], p.lon[cur], p.lat[j], p.lon[j])
			if d < bestDist {
				best, bestDist = j, d
			}
		}
		visited[best] = true
		order = append(order, best)
		cur = best
	}

	p.order = order
}

// twoOpt scans all position pairs (i, j) with j >= i+2. Reversing order[i+1..j]
// replaces edges (i,i+1) and (j,j+1) with (i,j) and (i+1,j+1); at the open end
// only the first edge changes. An accepted reversal takes effect immediately for
// the rest of the pass. The context is checked every ctxCheckRows values of i.
func (p *path) twoOpt(ctx context.Context, stats *Stats) error {
	n := len(p.order)
	if n < 4 {
		return nil
	}

	for improved := true; improved; {
		improved = false
		stats.Passes++

		for i := 0; i < n-2; i++ {
			if i%ctxCheckRows == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			for j := i + 2; j < n; j++ {
				current := p.dist(i, i+1)
				candidate := p.dist(i, j)
				if j < n-1 {
					current += p.dist(j, j+1)
					candidate += p.dist(i+1, j+1)
				}
				if candidate < current {
					p.reverse(i+1, j)
					stats.Moves++
					improved = true
				}
			}
		}
	}
	return nil
}

func (p *path) reverse(from, to int) {
	for from < to {
		p.order[from], p.order[to] = p.order[to], p.order[from]
		from++
		to--
	}
}
