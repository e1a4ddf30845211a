package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const facilitiesJSON = `[
	{"id": 1, "name": "WEA 1", "lat": 48.00, "lon": 9.00, "type": "Enercon E-82"},
	{"id": 2, "name": "WEA 2", "lat": 48.01, "lon": 9.01, "type": "Enercon E-70"},
	{"id": 3, "name": "WEA 3", "lat": 52.00, "lon": 13.00, "type": "Enercon E-101"},
	{"id": 4, "name": "WEA 4", "lat": 50.00, "lon": 8.00, "type": "Vestas V90"},
	{"id": 5, "name": "WEA 5", "type": "Vestas V90"}
]`

func writeFacilities(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "facilities.json")
	require.NoError(t, os.WriteFile(path, []byte(facilitiesJSON), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestPlanCommand(t *testing.T) {
	input := writeFacilities(t)
	geo := filepath.Join(t.TempDir(), "plan.geojson")

	out, err := execute(t, "plan", "--json", input, "--threshold", "20", "--top", "2", "--geojson", geo)
	require.NoError(t, err)

	assert.Contains(t, out, "1. Enercon: 3 facilities, 2 clusters, 2 days")
	assert.Contains(t, out, "2. Vestas: 1 facilities, 1 clusters, 1 days")

	data, err := os.ReadFile(geo)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"FeatureCollection"`)
}

func TestGraphCommand(t *testing.T) {
	input := writeFacilities(t)

	out, err := execute(t, "graph", "--json", input, "--threshold", "20")
	require.NoError(t, err)

	assert.Contains(t, out, "Graph: 4 nodes, 1 edges")
	assert.Contains(t, out, "Skipped without coordinates: 1")
	assert.Contains(t, out, "Clusters: 3")
}
