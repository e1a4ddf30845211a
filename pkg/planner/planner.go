package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"turbine_planner/pkg/fleet"
	"turbine_planner/pkg/graph"
	"turbine_planner/pkg/logging"
	"turbine_planner/pkg/metrics"
	"turbine_planner/pkg/routing"
	"turbine_planner/pkg/schedule"
)

// ErrInvalidTopN is returned when fewer than one group is requested.
var ErrInvalidTopN = errors.New("top group count must be at least 1")

// Config holds the planning parameters.
type Config struct {
	ClusterThresholdKm float64
	Schedule           schedule.Config
}

// DefaultConfig links facilities within one day's transport distance.
func DefaultConfig() Config {
	sc := schedule.DefaultConfig()
	return Config{
		ClusterThresholdKm: sc.TransportSpeedKmh * sc.TransportHoursPerDay,
		Schedule:           sc,
	}
}

// ClusterPlan is the route and schedule of one cluster.
type ClusterPlan struct {
	Index     int                `json:"index"` // 1-based, in detection order
	Route     []fleet.Facility   `json:"route"`
	RouteKm   float64            `json:"routeKm"`
	Stats     routing.Stats      `json:"optimization"`
	Days      [][]int64          `json:"days"`
	BaseDays  int                `json:"baseDays"`
	ExtraDays int                `json:"extraDays"`
	TotalDays int                `json:"totalDays"`
	Warnings  []schedule.Warning `json:"warnings,omitempty"`
}

// GroupPlan is the plan of one facility group.
type GroupPlan struct {
	Label      string        `json:"label"`
	Facilities int           `json:"facilities"`
	Graph      graph.Summary `json:"graph"`
	Clusters   []ClusterPlan `json:"clusters"`
	TotalDays  int           `json:"totalDays"`
	Duration   time.Duration `json:"durationNs"`
}

// Warnings returns all warnings of the group in cluster order.
func (g GroupPlan) Warnings() []schedule.Warning {
	var out []schedule.Warning
	for _, c := range g.Clusters {
		out = append(out, c.Warnings...)
	}
	return out
}

// Result is the outcome of planning the largest groups.
type Result struct {
	RunID  string         `json:"runId"`
	Totals map[string]int `json:"totals"` // label -> total days
	Groups []GroupPlan    `json:"groups"` // ranked by group size
}

// Planner turns facility sets into clustered routes and day schedules.
// A Planner holds no per-run state and may be used concurrently.
type Planner struct {
	thresholdKm float64
	sched       *schedule.Builder
	log         logging.Logger
	rec         metrics.Recorder
}

// Option configures a Planner.
type Option func(*Planner)

// WithLogger sets the logger. The default discards output.
func WithLogger(l logging.Logger) Option {
	return func(p *Planner) { p.log = l }
}

// WithRecorder sets the metrics recorder. The default discards measurements.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Planner) { p.rec = r }
}

// New validates cfg and returns a Planner.
func New(cfg Config, opts ...Option) (*Planner, error) {
	sched, err := schedule.New(cfg.Schedule)
	if err != nil {
		return nil, err
	}
	if err := graph.ValidateThreshold(cfg.ClusterThresholdKm); err != nil {
		return nil, err
	}

	p := &Planner{
		thresholdKm: cfg.ClusterThresholdKm,
		sched:       sched,
		log:         logging.NopLogger{},
		rec:         metrics.NopRecorder{},
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Schedule returns the schedule builder used by the planner.
func (p *Planner) Schedule() *schedule.Builder { return p.sched }

// ThresholdKm returns the clustering distance.
func (p *Planner) ThresholdKm() float64 { return p.thresholdKm }

// PlanGroup clusters the facilities, optimises a route per cluster and
// schedules it. Facilities without coordinates are ignored.
func (p *Planner) PlanGroup(ctx context.Context, facilities []fleet.Facility, label string) (GroupPlan, error) {
	start := time.Now()

	g, err := graph.Build(facilities, p.thresholdKm)
	if err != nil {
		return GroupPlan{}, fmt.Errorf("build graph: %w", err)
	}
	clusters := graph.DetectClusters(g)
	p.log.Debugf("group %q: graph %s, %d clusters", label, g.Summary(), len(clusters))

	plan := GroupPlan{
		Label:      label,
		Facilities: int(g.NumNodes),
		Graph:      g.Summary(),
		Clusters:   make([]ClusterPlan, 0, len(clusters)),
	}

	var opt routing.Optimizer
	for i, cluster := range clusters {
		var warnings []schedule.Warning
		if w, ok := p.isolation(i, clusters); ok {
			warnings = append(warnings, w)
		}

		route, stats, err := opt.Route(ctx, cluster)
		if err != nil {
			return GroupPlan{}, fmt.Errorf("group %q cluster %d: %w", label, i+1, err)
		}
		p.rec.RecordTwoOptMoves(stats.Moves)

		s := p.sched.Build(route)
		warnings = append(warnings, s.Warnings...)

		for _, w := range warnings {
			p.log.Warnf("group %q: %s", label, w)
			p.rec.RecordWarning(string(w.Kind))
		}

		plan.Clusters = append(plan.Clusters, ClusterPlan{
			Index:     i + 1,
			Route:     route,
			RouteKm:   stats.OptimizedKm,
			Stats:     stats,
			Days:      s.Days,
			BaseDays:  s.BaseDays,
			ExtraDays: s.ExtraDays,
			TotalDays: s.TotalDays,
			Warnings:  warnings,
		})
		plan.TotalDays += s.TotalDays
	}

	plan.Duration = time.Since(start)
	p.rec.RecordGroup(len(clusters), plan.Duration)
	p.log.Infof("group %q: %d facilities, %d clusters, %d days in %s",
		label, plan.Facilities, len(clusters), plan.TotalDays, plan.Duration)

	return plan, nil
}

// isolation reports cluster i as isolated when every other cluster is farther
// away than one day's transport. A single cluster is never isolated.
func (p *Planner) isolation(i int, clusters [][]fleet.Facility) (schedule.Warning, bool) {
	if len(clusters) < 2 {
		return schedule.Warning{}, false
	}

	nearest := -1.0
	for j, other := range clusters {
		if j == i {
			continue
		}
		if d := graph.ClusterDistanceKm(clusters[i], other); nearest < 0 || d < nearest {
			nearest = d
		}
	}

	limit := p.sched.MaxTransportKmPerDay()
	if nearest <= limit {
		return schedule.Warning{}, false
	}
	return schedule.Warning{
		Kind:       schedule.KindIsolatedCluster,
		Cluster:    i + 1,
		DistanceKm: nearest,
		LimitKm:    limit,
	}, true
}

// PlanTopGroups groups the facilities with groupFn and plans the topN largest
// groups. Groups of equal size are taken in label order. Facilities without
// coordinates are dropped before grouping.
func (p *Planner) PlanTopGroups(ctx context.Context, facilities []fleet.Facility, groupFn fleet.GroupFunc, topN int) (Result, error) {
	if topN < 1 {
		return Result{}, fmt.Errorf("%w: got %d", ErrInvalidTopN, topN)
	}

	res := Result{
		RunID:  uuid.New().String(),
		Totals: make(map[string]int),
	}
	p.rec.RecordRun()

	located := fleet.WithCoordinates(facilities)
	if dropped := len(facilities) - len(located); dropped > 0 {
		p.log.Infof("run %s: ignoring %d facilities without coordinates", res.RunID, dropped)
	}

	ranked := fleet.RankGroups(fleet.GroupBy(located, groupFn))
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	p.log.Infof("run %s: planning %d groups", res.RunID, len(ranked))

	for _, grp := range ranked {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		plan, err := p.PlanGroup(ctx, grp.Facilities, grp.Label)
		if err != nil {
			return res, err
		}
		res.Groups = append(res.Groups, plan)
		res.Totals[grp.Label] = plan.TotalDays
	}

	return res, nil
}
