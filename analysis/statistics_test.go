// Copyright 2026 The Climata Authors
// SPDX-License-Identifier: Apache-2.0

package analysis

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/climatehq/climata/dataset"
)

const statsCSV = `dt,AverageTemperature,AverageTemperatureUncertainty,City,Country,Latitude,Longitude
2000-06-01,10,0.2,Paris,France,48.8566,2.3522
2001-06-01,20,0.2,Paris,France,48.8566,2.3522
2000-06-01,5,0.2,Lyon,France,45.76,4.84
2001-06-01,,0.2,Lyon,France,45.76,4.84
`

const trendCSV = `dt,AverageTemperature,AverageTemperatureUncertainty,City,Country,Latitude,Longitude
2000-06-01,10,0.2,Paris,France,48.8566,2.3522
2001-06-01,11,0.2,Paris,France,48.8566,2.3522
2002-06-01,12,0.2,Paris,France,48.8566,2.3522
2003-06-01,13,0.2,Paris,France,48.8566,2.3522
2004-06-01,14,0.2,Paris,France,48.8566,2.3522
`

// stageCSV loads a CSV into a fresh in-memory store so the analytical
// queries see a populated readings table.
func stageCSV(t *testing.T, csv string) *sql.DB {
	db, err := sql.Open("duckdb", "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	path := filepath.Join(t.TempDir(), "cities.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o600))

	_, err = dataset.NewStore(db).Load(path)
	require.NoError(t, err)

	return db
}

func TestStatistics(t *testing.T) {
	db := stageCSV(t, statsCSV)

	stats, err := Statistics(db)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	// Ordered by key.
	lyon, paris := stats[0], stats[1]

	assert.Equal(t, "Lyon, France", lyon.Key)
	assert.InDelta(t, 5, lyon.AverageTemperature, 1e-9)
	assert.InDelta(t, 0, lyon.Std, 1e-9)
	assert.Equal(t, 1, lyon.Readings)

	assert.Equal(t, "Paris, France", paris.Key)
	assert.InDelta(t, 15, paris.AverageTemperature, 1e-9)
	assert.InDelta(t, 10, paris.MinTemperature, 1e-9)
	assert.InDelta(t, 20, paris.MaxTemperature, 1e-9)
	assert.InDelta(t, 7.0710678, paris.Std, 1e-6)
	assert.Equal(t, 2, paris.Readings)
}

func TestFindPlace(t *testing.T) {
	stats := []*PlaceStatistics{
		{Key: "São Paulo, Brazil"},
		{Key: "Paris, France"},
	}

	assert.Equal(t, stats[0], FindPlace(stats, "sao paulo, brazil"))
	assert.Equal(t, stats[1], FindPlace(stats, "  PARIS, France "))
	assert.Nil(t, FindPlace(stats, "Lyon, France"))
}

func TestProject(t *testing.T) {
	db := stageCSV(t, trendCSV)

	projection, err := Project(db, "Paris, France", 2)
	require.NoError(t, err)

	assert.InDelta(t, 1, projection.Slope, 1e-6)
	require.Len(t, projection.Years, 2)
	assert.Equal(t, 2005, projection.Years[0].Year)
	assert.InDelta(t, 15, projection.Years[0].Temperature, 1e-6)
	assert.Equal(t, 2006, projection.Years[1].Year)
	assert.InDelta(t, 16, projection.Years[1].Temperature, 1e-6)
}

func TestProjectUnknownPlace(t *testing.T) {
	db := stageCSV(t, trendCSV)

	_, err := Project(db, "Atlantis, Ocean", 10)
	require.Error(t, err)
}

func TestProjectInvalidYears(t *testing.T) {
	db := stageCSV(t, trendCSV)

	_, err := Project(db, "Paris, France", 0)
	require.Error(t, err)
}
