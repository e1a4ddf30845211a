package report

import (
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"turbine_planner/pkg/planner"
)

// FeatureCollection renders every cluster route as a LineString and every
// visited facility as a Point. Properties identify group, cluster and the
// visiting position so the plan can be styled on a map.
func FeatureCollection(res planner.Result) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, g := range res.Groups {
		for _, c := range g.Clusters {
			line := make(orb.LineString, 0, len(c.Route))
			for pos, f := range c.Route {
				lat, lon := f.LatLon()
				pt := orb.Point{lon, lat}
				line = append(line, pt)

				feat := geojson.NewFeature(pt)
				feat.ID = f.ID
				feat.Properties["kind"] = "facility"
				feat.Properties["name"] = f.Name
				feat.Properties["type"] = f.Type
				feat.Properties["group"] = g.Label
				feat.Properties["cluster"] = c.Index
				feat.Properties["position"] = pos + 1
				fc.Append(feat)
			}

			if len(line) < 2 {
				continue
			}
			route := geojson.NewFeature(line)
			route.Properties["kind"] = "route"
			route.Properties["group"] = g.Label
			route.Properties["cluster"] = c.Index
			route.Properties["routeKm"] = c.RouteKm
			route.Properties["totalDays"] = c.TotalDays
			fc.Append(route)
		}
	}

	return fc
}

// WriteGeoJSON writes FeatureCollection(res) as JSON.
func WriteGeoJSON(w io.Writer, res planner.Result) error {
	data, err := FeatureCollection(res).MarshalJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
