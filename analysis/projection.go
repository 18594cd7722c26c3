// Copyright 2026 The Climata Authors
// SPDX-License-Identifier: Apache-2.0

package analysis

import (
	"database/sql"
	"fmt"

	"github.com/climatehq/climata/dataset"
)

// ProjectedYear is one projected yearly mean temperature.
type ProjectedYear struct {
	Year        int     `json:"year"`
	Temperature float64 `json:"temperature"`
}

// Projection is a least-squares trend over a place's yearly mean
// temperatures, extended into the future.
type Projection struct {
	Key       string          `json:"key"`
	Slope     float64         `json:"slope"`
	Intercept float64         `json:"intercept"`
	Years     []ProjectedYear `json:"years"`
}

// Project fits a line over the place's yearly means and extends it the
// requested number of years past the last observed year. The regression
// runs inside DuckDB.
func Project(db *sql.DB, key string, years int) (*Projection, error) {
	if years < 1 {
		return nil, fmt.Errorf("years must be positive, got %d", years)
	}

	row := db.QueryRow(`
		WITH yearly AS (
			SELECT year(CAST(dt AS DATE)) AS y,
			       avg(TRY_CAST(AverageTemperature AS DOUBLE)) AS t
			FROM readings
			WHERE `+dataset.KeyExpr+` = ?
			  AND TRY_CAST(AverageTemperature AS DOUBLE) IS NOT NULL
			GROUP BY y
		)
		SELECT regr_slope(t, y), regr_intercept(t, y), max(y)
		FROM yearly
	`, key)

	var slope, intercept sql.NullFloat64

	var lastYear sql.NullInt64

	if err := row.Scan(&slope, &intercept, &lastYear); err != nil {
		return nil, fmt.Errorf("fitting trend for %s: %w", key, err)
	}

	if !slope.Valid || !intercept.Valid || !lastYear.Valid {
		return nil, fmt.Errorf("not enough temperature readings for %s", key)
	}

	projection := &Projection{
		Key:       key,
		Slope:     slope.Float64,
		Intercept: intercept.Float64,
		Years:     make([]ProjectedYear, 0, years),
	}

	for y := int(lastYear.Int64) + 1; y <= int(lastYear.Int64)+years; y++ {
		projection.Years = append(projection.Years, ProjectedYear{
			Year:        y,
			Temperature: slope.Float64*float64(y) + intercept.Float64,
		})
	}

	return projection, nil
}
