package geo

import (
	"math"
	"testing"
)

func TestDistanceKm(t *testing.T) {
	tests := []struct {
		name             string
		lat1, lon1       float64
		lat2, lon2       float64
		wantKm           float64
		tolerancePercent float64
	}{
		{
			name: "Hamburg to Berlin",
			lat1: 53.5511, lon1: 9.9937,
			lat2: 52.5200, lon2: 13.4050,
			wantKm:           255.0,
			tolerancePercent: 1,
		},
		{
			name: "Same point",
			lat1: 54.3233, lon1: 10.1228,
			lat2: 54.3233, lon2: 10.1228,
			wantKm:           0,
			tolerancePercent: 0,
		},
		{
			name: "London to Paris",
			lat1: 51.5074, lon1: -0.1278,
			lat2: 48.8566, lon2: 2.3522,
			wantKm:           343.5,
			tolerancePercent: 1,
		},
		{
			name: "One degree of latitude",
			lat1: 48.0, lon1: 9.0,
			lat2: 49.0, lon2: 9.0,
			wantKm:           111.195,
			tolerancePercent: 0.01,
		},
		{
			name: "Short distance (~1.4 km)",
			lat1: 48.00, lon1: 9.00,
			lat2: 48.01, lon2: 9.01,
			wantKm:           1.336,
			tolerancePercent: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if tt.wantKm == 0 {
				if got != 0 {
					t.Errorf("expected 0, got %f", got)
				}
				return
			}
			diff := math.Abs(got-tt.wantKm) / tt.wantKm * 100
			if diff > tt.tolerancePercent {
				t.Errorf("DistanceKm = %f km, want ~%f km (diff %.2f%%)", got, tt.wantKm, diff)
			}
		})
	}
}

func TestDistanceKmSymmetric(t *testing.T) {
	pairs := [][4]float64{
		{48.0, 9.0, 52.0, 13.0},
		{-33.86, 151.21, 51.5, -0.12},
		{0, 179.9, 0, -179.9},
	}
	for _, p := range pairs {
		ab := DistanceKm(p[0], p[1], p[2], p[3])
		ba := DistanceKm(p[2], p[3], p[0], p[1])
		if ab != ba {
			t.Errorf("DistanceKm not symmetric for %v: %v vs %v", p, ab, ba)
		}
		if ab < 0 || math.IsNaN(ab) || math.IsInf(ab, 0) {
			t.Errorf("DistanceKm(%v) = %v, want finite non-negative", p, ab)
		}
	}
}

func TestBoundingBoxContainsCircle(t *testing.T) {
	centers := [][2]float64{
		{48.0, 9.0},
		{54.5, 8.3},
		{-45.0, 170.0},
		{78.0, 15.0},
	}
	radii := []float64{1, 20, 120, 500}

	for _, c := range centers {
		for _, r := range radii {
			box := BoundingBox(c[0], c[1], r)
			// Walk the circle at 5 degree bearings and check every point on it.
			for bearing := 0.0; bearing < 360; bearing += 5 {
				lat, lon := destination(c[0], c[1], r, bearing)
				if DistanceKm(c[0], c[1], lat, lon) > r {
					continue
				}
				if !box.Contains(lat, lon) {
					t.Errorf("center %v radius %v: point (%f, %f) at bearing %v outside box %+v",
						c, r, lat, lon, bearing, box)
				}
			}
		}
	}
}

func TestBoundingBoxNearPoleWidens(t *testing.T) {
	box := BoundingBox(89.5, 10, 120)
	if box.MinLon != -180 || box.MaxLon != 180 {
		t.Errorf("expected full longitude range near pole, got %+v", box)
	}
	if box.MaxLat != 90 {
		t.Errorf("MaxLat = %f, want clamp to 90", box.MaxLat)
	}
}

func TestBoundingBoxAntimeridianWidens(t *testing.T) {
	box := BoundingBox(0, 179.9, 50)
	if box.MinLon != -180 || box.MaxLon != 180 {
		t.Errorf("expected full longitude range across antimeridian, got %+v", box)
	}
}

// destination returns the point reached after travelling distKm from
// (lat, lon) along the given initial bearing.
func destination(lat, lon, distKm, bearingDeg float64) (float64, float64) {
	phi1 := lat * math.Pi / 180
	lambda1 := lon * math.Pi / 180
	theta := bearingDeg * math.Pi / 180
	delta := distKm / earthRadiusKm

	phi2 := math.Asin(math.Sin(phi1)*math.Cos(delta) + math.Cos(phi1)*math.Sin(delta)*math.Cos(theta))
	lambda2 := lambda1 + math.Atan2(math.Sin(theta)*math.Sin(delta)*math.Cos(phi1),
		math.Cos(delta)-math.Sin(phi1)*math.Sin(phi2))

	return phi2 * 180 / math.Pi, lambda2 * 180 / math.Pi
}

func BenchmarkDistanceKm(b *testing.B) {
	for b.Loop() {
		DistanceKm(53.5511, 9.9937, 52.5200, 13.4050)
	}
}

func BenchmarkBoundingBox(b *testing.B) {
	for b.Loop() {
		BoundingBox(53.5511, 9.9937, 120)
	}
}
