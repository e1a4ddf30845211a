package api

import (
	"turbine_planner/pkg/fleet"
	"turbine_planner/pkg/planner"
	"turbine_planner/pkg/report"
)

// PlanRequest is the JSON body for POST /api/v1/plan. Unset parameters fall
// back to the server configuration.
type PlanRequest struct {
	Facilities         []fleet.Facility   `json:"facilities"`
	GroupBy            string             `json:"groupBy,omitempty" validate:"omitempty,oneof=manufacturer operator none"`
	TopN               *int               `json:"topN,omitempty" validate:"omitempty,gte=1"`
	ClusterThresholdKm *float64           `json:"clusterThresholdKm,omitempty" validate:"omitempty,gt=0"`
	Schedule           *ScheduleOverrides `json:"schedule,omitempty"`
}

// ScheduleOverrides replaces individual schedule parameters.
type ScheduleOverrides struct {
	ServiceHoursPerFacility *float64 `json:"serviceHoursPerFacility,omitempty" validate:"omitempty,gt=0"`
	WorkHoursPerDay         *float64 `json:"workHoursPerDay,omitempty" validate:"omitempty,gt=0"`
	TransportSpeedKmh       *float64 `json:"transportSpeedKmh,omitempty" validate:"omitempty,gt=0"`
	TransportHoursPerDay    *float64 `json:"transportHoursPerDay,omitempty" validate:"omitempty,gt=0"`
}

// PlanResponse is the JSON response for a successful planning request.
type PlanResponse struct {
	RunID   string              `json:"runId"`
	Totals  map[string]int      `json:"totals"`
	Groups  []planner.GroupPlan `json:"groups"`
	Summary report.Summary      `json:"summary"`
}

// ErrorResponse is the JSON response for errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message,omitempty"`
}

// StatsResponse is the JSON response for GET /api/v1/stats.
type StatsResponse struct {
	Runs           int     `json:"runs"`
	LastRunID      string  `json:"lastRunId,omitempty"`
	LastFacilities int     `json:"lastFacilities"`
	LastGroups     int     `json:"lastGroups"`
	LastClusters   int     `json:"lastClusters"`
	LastTotalDays  int     `json:"lastTotalDays"`
	LastDurationMs float64 `json:"lastDurationMs"`
}

// HealthResponse is the JSON response for GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}
