package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"turbine_planner/pkg/planner"
)

// WriteText writes a human readable plan: one section per group with its
// clusters, daily visits and warnings.
func WriteText(w io.Writer, res planner.Result) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Maintenance plan (run %s)\n", res.RunID)
	for rank, g := range res.Groups {
		fmt.Fprintf(&b, "\n%d. %s: %d facilities, %d clusters, %d days\n",
			rank+1, g.Label, g.Facilities, len(g.Clusters), g.TotalDays)

		for _, c := range g.Clusters {
			fmt.Fprintf(&b, "   Cluster %d: %d facilities, route %.1f km, %d days",
				c.Index, len(c.Route), c.RouteKm, c.TotalDays)
			if c.ExtraDays > 0 {
				fmt.Fprintf(&b, " (%d for travel)", c.ExtraDays)
			}
			b.WriteString("\n")

			for d, day := range c.Days {
				fmt.Fprintf(&b, "      Day %d: %s\n", d+1, joinIDs(day))
			}
			for _, warn := range c.Warnings {
				fmt.Fprintf(&b, "      WARNING: %s\n", warn)
			}
		}
	}

	s := Summarize(res)
	fmt.Fprintf(&b, "\nTotal: %d groups, %d clusters, %d facilities, %d days\n",
		s.Groups, s.Clusters, s.Facilities, s.TotalDays)
	fmt.Fprintf(&b, "Cluster size: mean %.1f, stddev %.1f; route length: mean %.1f km, stddev %.1f km\n",
		s.MeanClusterSize, s.StdDevClusterSize, s.MeanRouteKm, s.StdDevRouteKm)

	_, err := io.WriteString(w, b.String())
	return err
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}
