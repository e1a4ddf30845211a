package geo

import "math"

const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance in kilometres between two points.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// Box is an axis-aligned rectangle in degrees.
type Box struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// BoundingBox returns a box containing every point whose DistanceKm to
// (lat, lon) is at most radiusKm. Near the poles, or when the circle
// crosses the antimeridian, the longitude range widens to [-180, 180].
func BoundingBox(lat, lon, radiusKm float64) Box {
	angular := radiusKm / earthRadiusKm
	dLat := pad(angular * 180 / math.Pi)

	minLat := lat - dLat
	maxLat := lat + dLat
	if minLat <= -90 || maxLat >= 90 {
		return Box{MinLat: max(minLat, -90), MaxLat: min(maxLat, 90), MinLon: -180, MaxLon: 180}
	}

	// From the haversine term cos(lat1)cos(lat2)sin²(Δlon/2) <= sin²(c/2),
	// bounded with the smallest cosine inside the latitude band.
	cosLat := math.Cos(math.Max(math.Abs(minLat), math.Abs(maxLat)) * math.Pi / 180)
	s := math.Sin(angular/2) / cosLat
	if s >= 1 {
		return Box{MinLat: minLat, MaxLat: maxLat, MinLon: -180, MaxLon: 180}
	}
	dLon := pad(2 * math.Asin(s) * 180 / math.Pi)
	if lon-dLon < -180 || lon+dLon > 180 {
		return Box{MinLat: minLat, MaxLat: maxLat, MinLon: -180, MaxLon: 180}
	}

	return Box{MinLat: minLat, MaxLat: maxLat, MinLon: lon - dLon, MaxLon: lon + dLon}
}

// pad widens a degree span so rounding never drops a point on the boundary.
func pad(deg float64) float64 {
	return deg*(1+1e-9) + 1e-12
}

// Contains reports whether the point lies inside the box (inclusive).
func (b Box) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}
