package schedule

import (
	"errors"
	"fmt"
	"math"

	"turbine_planner/pkg/fleet"
	"turbine_planner/pkg/geo"
)

// ErrInvalidConfig is returned for non-positive parameters or when not a
// single facility fits into a work day.
var ErrInvalidConfig = errors.New("invalid schedule config")

// Config holds the working-time and transport parameters of a crew.
type Config struct {
	ServiceHoursPerFacility float64 `json:"serviceHoursPerFacility"`
	WorkHoursPerDay         float64 `json:"workHoursPerDay"`
	TransportSpeedKmh       float64 `json:"transportSpeedKmh"`
	TransportHoursPerDay    float64 `json:"transportHoursPerDay"`
}

// DefaultConfig returns two service hours per facility, eight-hour days and
// two hours of transport at 60 km/h.
func DefaultConfig() Config {
	return Config{
		ServiceHoursPerFacility: 2,
		WorkHoursPerDay:         8,
		TransportSpeedKmh:       60,
		TransportHoursPerDay:    2,
	}
}

// Builder turns an ordered route into working days.
type Builder struct {
	cfg              Config
	facilitiesPerDay int
	maxTransportKm   float64
}

// New validates cfg and returns a Builder.
func New(cfg Config) (*Builder, error) {
	values := []struct {
		name string
		v    float64
	}{
		{"service hours per facility", cfg.ServiceHoursPerFacility},
		{"work hours per day", cfg.WorkHoursPerDay},
		{"transport speed", cfg.TransportSpeedKmh},
		{"transport hours per day", cfg.TransportHoursPerDay},
	}
	for _, v := range values {
		if math.IsNaN(v.v) || math.IsInf(v.v, 0) || v.v <= 0 {
			return nil, fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidConfig, v.name, v.v)
		}
	}

	fpd := math.Floor(cfg.WorkHoursPerDay / cfg.ServiceHoursPerFacility)
	if fpd < 1 {
		return nil, fmt.Errorf("%w: %v service hours do not fit into a %v hour day",
			ErrInvalidConfig, cfg.ServiceHoursPerFacility, cfg.WorkHoursPerDay)
	}

	return &Builder{
		cfg:              cfg,
		facilitiesPerDay: int(fpd),
		maxTransportKm:   cfg.TransportSpeedKmh * cfg.TransportHoursPerDay,
	}, nil
}

// Config returns the parameters the builder was created with.
func (b *Builder) Config() Config { return b.cfg }

// FacilitiesPerDay is floor(work hours / service hours).
func (b *Builder) FacilitiesPerDay() int { return b.facilitiesPerDay }

// MaxTransportKmPerDay is the distance a crew can cover in its daily transport budget.
func (b *Builder) MaxTransportKmPerDay() float64 { return b.maxTransportKm }

// BuildDayPlan splits the route into consecutive days of FacilitiesPerDay
// facilities; only the last day may be shorter. Facilities without
// coordinates are skipped by every Builder method.
func (b *Builder) BuildDayPlan(route []fleet.Facility) [][]int64 {
	route = fleet.WithCoordinates(route)
	days := make([][]int64, 0, b.BaseDays(route))
	for start := 0; start < len(route); start += b.facilitiesPerDay {
		end := min(start+b.facilitiesPerDay, len(route))
		days = append(days, fleet.IDs(route[start:end]))
	}
	return days
}

// BaseDays is ceil(len(route) / FacilitiesPerDay).
func (b *Builder) BaseDays(route []fleet.Facility) int {
	route = fleet.WithCoordinates(route)
	return (len(route) + b.facilitiesPerDay - 1) / b.facilitiesPerDay
}

// TransportWarnings reports every leg of the route that is longer than the
// daily transport budget.
func (b *Builder) TransportWarnings(route []fleet.Facility) []Warning {
	route = fleet.WithCoordinates(route)
	var warnings []Warning
	for k := 1; k < len(route); k++ {
		d := leg(route[k-1], route[k])
		if d > b.maxTransportKm {
			from, to := route[k-1].ID, route[k].ID
			warnings = append(warnings, Warning{
				Kind:       KindTransportLimit,
				FromID:     &from,
				ToID:       &to,
				DistanceKm: d,
				LimitKm:    b.maxTransportKm,
			})
		}
	}
	return warnings
}

// ExtraTravelDays adds days for legs that cross a day boundary, i.e. from the
// last facility of one day to the first of the next, and exceed the transport
// budget. Each such leg costs ceil(excess hours / work hours) days. Long legs
// inside a day only produce warnings.
func (b *Builder) ExtraTravelDays(route []fleet.Facility) int {
	route = fleet.WithCoordinates(route)
	extra := 0
	for i := b.facilitiesPerDay - 1; i < len(route)-1; i += b.facilitiesPerDay {
		d := leg(route[i], route[i+1])
		if d > b.maxTransportKm {
			excessHours := (d - b.maxTransportKm) / b.cfg.TransportSpeedKmh
			extra += int(math.Ceil(excessHours / b.cfg.WorkHoursPerDay))
		}
	}
	return extra
}

// TotalDays is BaseDays plus ExtraTravelDays.
func (b *Builder) TotalDays(route []fleet.Facility) int {
	return b.BaseDays(route) + b.ExtraTravelDays(route)
}

// Schedule bundles everything derived from one route.
type Schedule struct {
	Days      [][]int64 `json:"days"`
	BaseDays  int       `json:"baseDays"`
	ExtraDays int       `json:"extraDays"`
	TotalDays int       `json:"totalDays"`
	Warnings  []Warning `json:"warnings,omitempty"`
}

// Build computes the day plan, day counts and warnings for a route.
func (b *Builder) Build(route []fleet.Facility) Schedule {
	route = fleet.WithCoordinates(route)
	s := Schedule{
		Days:      b.BuildDayPlan(route),
		BaseDays:  b.BaseDays(route),
		ExtraDays: b.ExtraTravelDays(route),
		Warnings:  b.TransportWarnings(route),
	}
	s.TotalDays = s.BaseDays + s.ExtraDays
	return s
}

func leg(a, b fleet.Facility) float64 {
	latA, lonA := a.LatLon()
	latB, lonB := b.LatLon()
	return geo.DistanceKm(latA, lonA, latB, lonB)
}
