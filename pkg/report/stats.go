package report

import (
	"gonum.org/v1/gonum/stat"

	"turbine_planner/pkg/planner"
)

// Summary aggregates a planning result across all groups.
type Summary struct {
	Groups            int     `json:"groups"`
	Clusters          int     `json:"clusters"`
	Facilities        int     `json:"facilities"`
	TotalDays         int     `json:"totalDays"`
	Warnings          int     `json:"warnings"`
	MeanClusterSize   float64 `json:"meanClusterSize"`
	StdDevClusterSize float64 `json:"stdDevClusterSize"`
	MeanRouteKm       float64 `json:"meanRouteKm"`
	StdDevRouteKm     float64 `json:"stdDevRouteKm"`
}

// Summarize computes totals plus mean and sample standard deviation of
// cluster sizes and route lengths.
func Summarize(res planner.Result) Summary {
	var s Summary
	var sizes, lengths []float64

	for _, g := range res.Groups {
		s.Groups++
		s.Facilities += g.Facilities
		s.TotalDays += g.TotalDays
		for _, c := range g.Clusters {
			s.Clusters++
			s.Warnings += len(c.Warnings)
			sizes = append(sizes, float64(len(c.Route)))
			lengths = append(lengths, c.RouteKm)
		}
	}

	s.MeanClusterSize, s.StdDevClusterSize = meanStdDev(sizes)
	s.MeanRouteKm, s.StdDevRouteKm = meanStdDev(lengths)
	return s
}

// meanStdDev returns zeros where the statistic is undefined.
func meanStdDev(x []float64) (mean, std float64) {
	switch len(x) {
	case 0:
		return 0, 0
	case 1:
		return x[0], 0
	}
	return stat.MeanStdDev(x, nil)
}
