// Copyright 2026 The Climata Authors
// SPDX-License-Identifier: Apache-2.0

package analysis

import (
	"database/sql"
	"fmt"

	"github.com/climatehq/climata/dataset"
	"github.com/climatehq/climata/utils"
)

// PlaceStatistics summarizes the temperature readings of one place.
type PlaceStatistics struct {
	Key                string  `json:"key"`
	AverageTemperature float64 `json:"average_temperature"`
	MinTemperature     float64 `json:"min_temperature"`
	MaxTemperature     float64 `json:"max_temperature"`
	Std                float64 `json:"std"`
	Readings           int     `json:"readings"`
}

// Statistics computes per-place aggregates over the staged readings table.
// Rows without a temperature reading are ignored.
func Statistics(db *sql.DB) ([]*PlaceStatistics, error) {
	rows, err := db.Query(`
		SELECT ` + dataset.KeyExpr + ` AS key,
		       avg(TRY_CAST(AverageTemperature AS DOUBLE)),
		       min(TRY_CAST(AverageTemperature AS DOUBLE)),
		       max(TRY_CAST(AverageTemperature AS DOUBLE)),
		       coalesce(stddev_samp(TRY_CAST(AverageTemperature AS DOUBLE)), 0),
		       count(TRY_CAST(AverageTemperature AS DOUBLE))
		FROM readings
		GROUP BY key
		ORDER BY key
	`)
	if err != nil {
		return nil, fmt.Errorf("aggregating readings: %w", err)
	}
	defer rows.Close()

	var stats []*PlaceStatistics

	for rows.Next() {
		s := &PlaceStatistics{}

		var avg, minTemp, maxTemp, std sql.NullFloat64

		if err := rows.Scan(&s.Key, &avg, &minTemp, &maxTemp, &std, &s.Readings); err != nil {
			return nil, fmt.Errorf("scanning statistics: %w", err)
		}

		s.AverageTemperature = avg.Float64
		s.MinTemperature = minTemp.Float64
		s.MaxTemperature = maxTemp.Float64
		s.Std = std.Float64

		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading statistics: %w", err)
	}

	return stats, nil
}

// FindPlace matches a composite key case- and accent-insensitively, so
// "sao paulo, brazil" finds "São Paulo, Brazil".
func FindPlace(stats []*PlaceStatistics, name string) *PlaceStatistics {
	want := utils.LowerASCIIFolding(name)

	for _, s := range stats {
		if utils.LowerASCIIFolding(s.Key) == want {
			return s
		}
	}

	return nil
}
