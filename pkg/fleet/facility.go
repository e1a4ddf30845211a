package fleet

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// Facility is a geolocated site to be serviced, typically a wind turbine.
// The planning packages treat it as read-only and only reorder references.
type Facility struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name,omitempty"`
	Lat      *float64 `json:"lat,omitempty"`
	Lon      *float64 `json:"lon,omitempty"`
	Type     string   `json:"type,omitempty"`
	Location string   `json:"location,omitempty"`
	Operator string   `json:"operator,omitempty"`
}

// New returns a facility with both coordinates set.
func New(id int64, name string, lat, lon float64) Facility {
	return Facility{ID: id, Name: name, Lat: &lat, Lon: &lon}
}

// HasCoordinates is true only when latitude and longitude are both present.
func (f Facility) HasCoordinates() bool {
	return f.Lat != nil && f.Lon != nil
}

// LatLon returns the coordinates. Callers must check HasCoordinates first.
func (f Facility) LatLon() (float64, float64) {
	return *f.Lat, *f.Lon
}

// WithCoordinates returns the subset of facilities that carry both coordinates.
func WithCoordinates(facilities []Facility) []Facility {
	out := make([]Facility, 0, len(facilities))
	for _, f := range facilities {
		if f.HasCoordinates() {
			out = append(out, f)
		}
	}
	return out
}

// IDs returns the identifiers of the given facilities in order.
func IDs(facilities []Facility) []int64 {
	ids := make([]int64, len(facilities))
	for i, f := range facilities {
		ids[i] = f.ID
	}
	return ids
}

// ErrDuplicateID is returned when a facility list repeats an identifier.
var ErrDuplicateID = errors.New("duplicate facility id")

// Validate checks identifier uniqueness and coordinate ranges. Coordinates
// outside the valid range are reported rather than repaired.
func Validate(facilities []Facility) error {
	seen := make(map[int64]struct{}, len(facilities))
	for _, f := range facilities {
		if _, dup := seen[f.ID]; dup {
			return fmt.Errorf("%w: %d", ErrDuplicateID, f.ID)
		}
		seen[f.ID] = struct{}{}

		if f.Lat != nil && (math.IsNaN(*f.Lat) || *f.Lat < -90 || *f.Lat > 90) {
			return fmt.Errorf("facility %d: latitude %v out of range", f.ID, *f.Lat)
		}
		if f.Lon != nil && (math.IsNaN(*f.Lon) || *f.Lon < -180 || *f.Lon > 180) {
			return fmt.Errorf("facility %d: longitude %v out of range", f.ID, *f.Lon)
		}
	}
	return nil
}

// DecodeJSON reads a JSON array of facilities.
func DecodeJSON(r io.Reader) ([]Facility, error) {
	var facilities []Facility
	if err := json.NewDecoder(r).Decode(&facilities); err != nil {
		return nil, fmt.Errorf("decode facilities: %w", err)
	}
	if err := Validate(facilities); err != nil {
		return nil, err
	}
	return facilities, nil
}

// LoadJSON reads a JSON array of facilities from a file.
func LoadJSON(path string) ([]Facility, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	return DecodeJSON(f)
}
