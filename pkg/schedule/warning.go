package schedule

import "fmt"

// Kind classifies a planning warning.
type Kind string

const (
	// KindTransportLimit marks a leg longer than the daily transport budget.
	KindTransportLimit Kind = "transport_limit"
	// KindIsolatedCluster marks a cluster farther than one day's transport from every other cluster.
	KindIsolatedCluster Kind = "isolated_cluster"
)

// Warning is an advisory finding. It never aborts planning.
type Warning struct {
	Kind       Kind    `json:"kind"`
	FromID     *int64  `json:"fromId,omitempty"` // transport-limit warnings only
	ToID       *int64  `json:"toId,omitempty"`
	Cluster    int     `json:"cluster,omitempty"` // 1-based, isolated-cluster warnings only
	DistanceKm float64 `json:"distanceKm"`
	LimitKm    float64 `json:"limitKm"`
}

func (w Warning) String() string {
	switch w.Kind {
	case KindTransportLimit:
		return fmt.Sprintf("distance %d -> %d is %.1f km, exceeds daily transport limit of %.1f km",
			deref(w.FromID), deref(w.ToID), w.DistanceKm, w.LimitKm)
	case KindIsolatedCluster:
		return fmt.Sprintf("cluster %d is isolated: nearest other cluster is %.1f km away, limit %.1f km",
			w.Cluster, w.DistanceKm, w.LimitKm)
	default:
		return fmt.Sprintf("%s: %.1f km (limit %.1f km)", w.Kind, w.DistanceKm, w.LimitKm)
	}
}

func deref(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}
