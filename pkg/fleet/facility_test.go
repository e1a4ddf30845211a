package fleet

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCoordinates(t *testing.T) {
	lat := 48.0
	lon := 9.0

	assert.True(t, Facility{ID: 1, Lat: &lat, Lon: &lon}.HasCoordinates())
	assert.False(t, Facility{ID: 2, Lat: &lat}.HasCoordinates())
	assert.False(t, Facility{ID: 3, Lon: &lon}.HasCoordinates())
	assert.False(t, Facility{ID: 4}.HasCoordinates())
}

func TestWithCoordinates(t *testing.T) {
	lat := 48.0
	in := []Facility{
		New(1, "a", 48, 9),
		{ID: 2, Lat: &lat},
		New(3, "c", 49, 9),
	}
	got := WithCoordinates(in)
	assert.Equal(t, []int64{1, 3}, IDs(got))
}

func TestDecodeJSON(t *testing.T) {
	body := `[
		{"id": 10, "name": "WEA 1", "lat": 53.1, "lon": 8.2, "type": "Enercon E-82"},
		{"id": 11, "name": "WEA 2", "type": "Vestas V90"}
	]`
	got, err := DecodeJSON(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.True(t, got[0].HasCoordinates())
	assert.False(t, got[1].HasCoordinates())
	assert.Equal(t, "Enercon E-82", got[0].Type)
}

func TestDecodeJSONRejectsDuplicateIDs(t *testing.T) {
	body := `[{"id": 1, "lat": 1, "lon": 1}, {"id": 1, "lat": 2, "lon": 2}]`
	_, err := DecodeJSON(strings.NewReader(body))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateID))
}

func TestDecodeJSONRejectsOutOfRange(t *testing.T) {
	body := `[{"id": 1, "lat": 91, "lon": 1}]`
	_, err := DecodeJSON(strings.NewReader(body))
	assert.Error(t, err)
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "facilities.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id": 7, "lat": 50, "lon": 7}]`), 0o644))

	got, err := LoadJSON(path)
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, IDs(got))

	_, err = LoadJSON(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
