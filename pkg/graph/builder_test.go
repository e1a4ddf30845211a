package graph

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turbine_planner/pkg/fleet"
	"turbine_planner/pkg/geo"
)

func TestBuildSimpleGraph(t *testing.T) {
	// Two turbines ~1.3 km apart and one ~480 km away.
	facilities := []fleet.Facility{
		fleet.New(1, "A", 48.00, 9.00),
		fleet.New(2, "B", 48.01, 9.01),
		fleet.New(3, "C", 52.00, 13.00),
	}

	g, err := Build(facilities, 20)
	require.NoError(t, err)

	if g.NumNodes != 3 {
		t.Fatalf("NumNodes = %d, want 3", g.NumNodes)
	}
	if g.NumEdges != 1 {
		t.Fatalf("NumEdges = %d, want 1", g.NumEdges)
	}

	assert.Equal(t, []uint32{1}, g.Neighbors(0))
	assert.Equal(t, []uint32{0}, g.Neighbors(1))
	assert.Empty(t, g.Neighbors(2))
}

func TestBuildEmptyGraph(t *testing.T) {
	g, err := Build(nil, 10)
	require.NoError(t, err)

	if g.NumNodes != 0 {
		t.Errorf("NumNodes = %d, want 0", g.NumNodes)
	}
	if g.NumEdges != 0 {
		t.Errorf("NumEdges = %d, want 0", g.NumEdges)
	}
	assert.Equal(t, 0.0, g.Summary().AverageDegree)
}

func TestBuildSkipsFacilitiesWithoutCoordinates(t *testing.T) {
	lat := 48.0
	facilities := []fleet.Facility{
		fleet.New(1, "A", 48.00, 9.00),
		{ID: 2, Name: "no lon", Lat: &lat},
		fleet.New(3, "C", 48.01, 9.00),
	}

	g, err := Build(facilities, 5)
	require.NoError(t, err)

	require.Equal(t, uint32(2), g.NumNodes)
	assert.Equal(t, []int64{1, 3}, fleet.IDs(g.Facilities))
	assert.Equal(t, []uint32{1}, g.Neighbors(0))
}

func TestBuildInvalidThreshold(t *testing.T) {
	facilities := []fleet.Facility{fleet.New(1, "A", 48, 9)}
	for _, th := range []float64{0, -1, math.NaN()} {
		_, err := Build(facilities, th)
		if !errors.Is(err, ErrInvalidThreshold) {
			t.Errorf("Build(threshold=%v) err = %v, want ErrInvalidThreshold", th, err)
		}
	}
}

func TestValidateThreshold(t *testing.T) {
	tests := []struct {
		th   float64
		want bool
	}{
		{120, true},
		{1e-9, true},
		{0, false},
		{-5, false},
		{math.NaN(), false},
	}
	for _, tt := range tests {
		err := ValidateThreshold(tt.th)
		if tt.want && err != nil {
			t.Errorf("ValidateThreshold(%v) = %v, want nil", tt.th, err)
		}
		if !tt.want && !errors.Is(err, ErrInvalidThreshold) {
			t.Errorf("ValidateThreshold(%v) = %v, want ErrInvalidThreshold", tt.th, err)
		}
	}
}

func TestBuildEdgeAtExactThreshold(t *testing.T) {
	a := fleet.New(1, "A", 48.0, 9.0)
	b := fleet.New(2, "B", 48.1, 9.1)
	d := distance(a, b)

	g, err := Build([]fleet.Facility{a, b}, d)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), g.NumEdges, "distance equal to threshold is an edge")

	g, err = Build([]fleet.Facility{a, b}, math.Nextafter(d, 0))
	require.NoError(t, err)
	assert.Equal(t, uint32(0), g.NumEdges)
}

func TestBuildMatchesAllPairs(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	facilities := randomFacilities(rng, 300, 53.0, 8.0, 3.0)

	for _, th := range []float64{5, 20, 60, 120} {
		got, err := Build(facilities, th)
		require.NoError(t, err)
		want, err := buildAllPairs(facilities, th)
		require.NoError(t, err)

		assert.Equal(t, want.FirstOut, got.FirstOut, "threshold %v", th)
		assert.Equal(t, want.Head, got.Head, "threshold %v", th)
		assert.Equal(t, want.NumEdges, got.NumEdges, "threshold %v", th)
	}
}

func TestBuildSymmetricSortedAdjacency(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	facilities := randomFacilities(rng, 200, 54.0, 10.0, 2.0)

	g, err := Build(facilities, 25)
	require.NoError(t, err)

	for u := uint32(0); u < g.NumNodes; u++ {
		ns := g.Neighbors(u)
		for k, v := range ns {
			if v == u {
				t.Fatalf("node %d has a self loop", u)
			}
			if k > 0 && ns[k-1] >= v {
				t.Fatalf("neighbours of %d not strictly ascending: %v", u, ns)
			}
			assert.Contains(t, g.Neighbors(v), u, "edge %d-%d not symmetric", u, v)
		}
	}
}

func TestSummary(t *testing.T) {
	facilities := []fleet.Facility{
		fleet.New(1, "A", 48.00, 9.00),
		fleet.New(2, "B", 48.01, 9.00),
		fleet.New(3, "C", 48.02, 9.00),
		fleet.New(4, "D", 60.00, 9.00),
	}
	g, err := Build(facilities, 5)
	require.NoError(t, err)

	s := g.Summary()
	assert.Equal(t, 4, s.Nodes)
	assert.Equal(t, 3, s.Edges)
	assert.InDelta(t, 1.5, s.AverageDegree, 1e-12)
	assert.Equal(t, 5.0, s.ThresholdKm)
	assert.Contains(t, s.String(), "4 nodes")
}

func BenchmarkBuild(b *testing.B) {
	rng := rand.New(rand.NewPCG(3, 4))
	facilities := randomFacilities(rng, 2000, 52.0, 10.0, 4.0)
	for b.Loop() {
		Build(facilities, 20)
	}
}

func BenchmarkBuildAllPairs(b *testing.B) {
	rng := rand.New(rand.NewPCG(3, 4))
	facilities := randomFacilities(rng, 2000, 52.0, 10.0, 4.0)
	for b.Loop() {
		buildAllPairs(facilities, 20)
	}
}

func randomFacilities(rng *rand.Rand, n int, lat, lon, spread float64) []fleet.Facility {
	out := make([]fleet.Facility, n)
	for i := range out {
		out[i] = fleet.New(int64(i+1), "", lat+(rng.Float64()-0.5)*spread, lon+(rng.Float64()-0.5)*spread)
	}
	return out
}

func distance(a, b fleet.Facility) float64 {
	la, lo := a.LatLon()
	lb, lob := b.LatLon()
	return geo.DistanceKm(la, lo, lb, lob)
}
