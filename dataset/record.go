// Copyright 2026 The Climata Authors
// SPDX-License-Identifier: Apache-2.0

package dataset

import (
	"database/sql"
	"time"

	"github.com/climatehq/climata/spatial"
)

// keySeparator joins a city and its country into a composite place key.
const keySeparator = ", "

// PlaceKey returns the composite key identifying a physical location.
// Two rows with the same city and country are the same place.
func PlaceKey(city, country string) string {
	return city + keySeparator + country
}

// KeyExpr rebuilds the composite key from the staged City and Country
// columns in SQL. It must agree with PlaceKey, or analytical queries would
// key places differently than the record set does.
const KeyExpr = "City || '" + keySeparator + "' || Country"

// Record is one row of the climate dataset.
type Record struct {
	Date                          time.Time
	Year                          int
	AverageTemperature            sql.NullFloat64
	AverageTemperatureUncertainty sql.NullFloat64
	City                          string
	Country                       string

	// Latitude and Longitude hold the column text as stored: either the
	// hemisphere-suffixed raw form ("48.85N") or decimal degrees.
	Latitude  string
	Longitude string

	// Point holds the numeric coordinates once the record is resolved.
	Point *spatial.Point
}

// Key returns the record's composite place key.
func (r *Record) Key() string {
	return PlaceKey(r.City, r.Country)
}

// Dataset is an in-memory record set together with its backing file.
type Dataset struct {
	Path    string
	Records []*Record
}

// Places returns the distinct composite keys in first-seen order.
func (d *Dataset) Places() []string {
	seen := make(map[string]bool)

	var keys []string

	for _, r := range d.Records {
		key := r.Key()
		if !seen[key] {
			seen[key] = true

			keys = append(keys, key)
		}
	}

	return keys
}
