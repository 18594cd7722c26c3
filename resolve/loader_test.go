// Copyright 2026 The Climata Authors
// SPDX-License-Identifier: Apache-2.0

package resolve

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/climatehq/climata/dataset"
	"github.com/climatehq/climata/geocode"
)

const rawCSV = `dt,AverageTemperature,AverageTemperatureUncertainty,City,Country,Latitude,Longitude
2015-01-01,3.52,0.21,Paris,France,48.85N,2.35E
2015-02-01,4.10,0.25,Paris,France,48.85N,2.35E
2015-01-01,2.91,0.18,Lyon,France,45.76N,4.84E
`

const numericCSV = `dt,AverageTemperature,AverageTemperatureUncertainty,City,Country,Latitude,Longitude
2015-01-01,3.52,0.21,Paris,France,48.8566,2.3522
2015-01-01,2.91,0.18,Lyon,France,45.76,4.84
`

func setupLoaderTest(t *testing.T, csv string, geocoder geocode.Geocoder) (*Loader, string) {
	db, err := sql.Open("duckdb", "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	path := filepath.Join(t.TempDir(), "cities.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o600))

	return NewLoader(dataset.NewStore(db), geocoder), path
}

func TestLoaderResolvesAndRewrites(t *testing.T) {
	geocoder := newScriptedGeocoder(map[string]*geocode.Result{
		"Paris, France": {Latitude: 48.8566, Longitude: 2.3522},
	})

	loader, path := setupLoaderTest(t, rawCSV, geocoder)

	ds, err := loader.Load(path)
	require.NoError(t, err)
	require.Len(t, ds.Records, 3)
	assert.Equal(t, 2, geocoder.totalCalls())

	// Both Paris rows carry the remote pair, Lyon the parsed fallback.
	assert.InDelta(t, 48.8566, ds.Records[0].Point.Lat, 1e-9)
	assert.InDelta(t, 2.3522, ds.Records[1].Point.Lng, 1e-9)
	assert.InDelta(t, 45.76, ds.Records[2].Point.Lat, 1e-9)
	assert.InDelta(t, 4.84, ds.Records[2].Point.Lng, 1e-9)

	for _, r := range ds.Records {
		assert.False(t, dataset.IsRawCoordinate(r.Latitude))
		assert.False(t, dataset.IsRawCoordinate(r.Longitude))
	}

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "48.85N")
	assert.Contains(t, string(content), "City_Country")
}

func TestLoaderSecondPassIsNoOp(t *testing.T) {
	first := newScriptedGeocoder(map[string]*geocode.Result{
		"Paris, France": {Latitude: 48.8566, Longitude: 2.3522},
	})

	loader, path := setupLoaderTest(t, rawCSV, first)

	ds, err := loader.Load(path)
	require.NoError(t, err)

	rewritten, err := os.ReadFile(path)
	require.NoError(t, err)

	// Reload through a fresh store: the detection rule must skip
	// resolution entirely.
	second := newScriptedGeocoder(nil)
	reloader, _ := setupLoaderTest(t, "unused", second)

	reloaded, err := reloader.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, second.totalCalls())

	require.Len(t, reloaded.Records, len(ds.Records))

	for i, r := range reloaded.Records {
		assert.InDelta(t, ds.Records[i].Point.Lat, r.Point.Lat, 1e-9)
		assert.InDelta(t, ds.Records[i].Point.Lng, r.Point.Lng, 1e-9)
	}

	// No rewrite happened either.
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, rewritten, content)
}

func TestLoaderNumericDatasetUntouched(t *testing.T) {
	geocoder := newScriptedGeocoder(nil)
	loader, path := setupLoaderTest(t, numericCSV, geocoder)

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	ds, err := loader.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, geocoder.totalCalls())

	require.Len(t, ds.Records, 2)
	assert.InDelta(t, 48.8566, ds.Records[0].Point.Lat, 1e-9)
	assert.InDelta(t, 4.84, ds.Records[1].Point.Lng, 1e-9)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestLoaderMissingFile(t *testing.T) {
	loader, _ := setupLoaderTest(t, "unused", newScriptedGeocoder(nil))

	_, err := loader.Load(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, dataset.ErrDataUnavailable))
}
