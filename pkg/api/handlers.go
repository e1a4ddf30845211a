package api

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"turbine_planner/pkg/fleet"
	"turbine_planner/pkg/graph"
	"turbine_planner/pkg/logging"
	"turbine_planner/pkg/planner"
	"turbine_planner/pkg/report"
	"turbine_planner/pkg/schedule"
)

// maxBodyBytes bounds the request body of a planning request.
const maxBodyBytes = 8 << 20

// Planner is the planning interface used by the handlers.
type Planner interface {
	PlanTopGroups(ctx context.Context, facilities []fleet.Facility, groupFn fleet.GroupFunc, topN int) (planner.Result, error)
}

// PlannerFactory creates a Planner for one request's parameters.
type PlannerFactory func(cfg planner.Config) (Planner, error)

// Defaults are the request parameters used when a request leaves them unset.
type Defaults struct {
	Planner       planner.Config
	TopN          int
	MaxFacilities int
}

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	newPlanner PlannerFactory
	defaults   Defaults
	validate   *validator.Validate
	log        logging.Logger

	mu    sync.Mutex
	stats StatsResponse
}

// NewHandlers creates handlers that build planners with newPlanner.
func NewHandlers(newPlanner PlannerFactory, defaults Defaults, log logging.Logger) *Handlers {
	if log == nil {
		log = logging.NopLogger{}
	}
	return &Handlers{
		newPlanner: newPlanner,
		defaults:   defaults,
		validate:   validator.New(),
		log:        log,
	}
}

// HandlePlan handles POST /api/v1/plan.
func (h *Handlers) HandlePlan(w http.ResponseWriter, r *http.Request) {
	// Enforce Content-Type.
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request", "", "")
		return
	}

	// Parse request.
	var req PlanRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "", "")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameters", "", err.Error())
		return
	}
	if h.defaults.MaxFacilities > 0 && len(req.Facilities) > h.defaults.MaxFacilities {
		writeError(w, http.StatusRequestEntityTooLarge, "too_many_facilities", "facilities", "")
		return
	}
	if err := fleet.Validate(req.Facilities); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_facilities", "facilities", err.Error())
		return
	}

	groupFn, err := fleet.GroupFuncByName(req.GroupBy)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameters", "groupBy", "")
		return
	}
	cfg, topN := h.merge(req)

	p, err := h.newPlanner(cfg)
	if err != nil {
		h.writePlanError(w, err)
		return
	}

	start := time.Now()
	res, err := p.PlanTopGroups(r.Context(), req.Facilities, groupFn, topN)
	if err != nil {
		h.writePlanError(w, err)
		return
	}

	summary := report.Summarize(res)
	h.record(res, summary, len(req.Facilities), time.Since(start))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(PlanResponse{
		RunID:   res.RunID,
		Totals:  res.Totals,
		Groups:  res.Groups,
		Summary: summary,
	})
}

// merge applies request overrides to the defaults.
func (h *Handlers) merge(req PlanRequest) (planner.Config, int) {
	cfg := h.defaults.Planner
	topN := h.defaults.TopN

	if req.TopN != nil {
		topN = *req.TopN
	}
	if req.ClusterThresholdKm != nil {
		cfg.ClusterThresholdKm = *req.ClusterThresholdKm
	}
	if s := req.Schedule; s != nil {
		if s.ServiceHoursPerFacility != nil {
			cfg.Schedule.ServiceHoursPerFacility = *s.ServiceHoursPerFacility
		}
		if s.WorkHoursPerDay != nil {
			cfg.Schedule.WorkHoursPerDay = *s.WorkHoursPerDay
		}
		if s.TransportSpeedKmh != nil {
			cfg.Schedule.TransportSpeedKmh = *s.TransportSpeedKmh
		}
		if s.TransportHoursPerDay != nil {
			cfg.Schedule.TransportHoursPerDay = *s.TransportHoursPerDay
		}
	}
	return cfg, topN
}

func (h *Handlers) writePlanError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, graph.ErrInvalidThreshold),
		errors.Is(err, schedule.ErrInvalidConfig),
		errors.Is(err, planner.ErrInvalidTopN):
		writeError(w, http.StatusUnprocessableEntity, "invalid_parameters", "", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "request_timeout", "", "")
	default:
		h.log.Errorf("plan: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "", "")
	}
}

func (h *Handlers) record(res planner.Result, s report.Summary, facilities int, d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stats = StatsResponse{
		Runs:           h.stats.Runs + 1,
		LastRunID:      res.RunID,
		LastFacilities: facilities,
		LastGroups:     s.Groups,
		LastClusters:   s.Clusters,
		LastTotalDays:  s.TotalDays,
		LastDurationMs: float64(d.Microseconds()) / 1000,
	}
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	stats := h.stats
	h.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

func writeError(w http.ResponseWriter, status int, code, field, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: code, Field: field, Message: message})
}
