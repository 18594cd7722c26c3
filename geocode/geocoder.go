// Copyright 2026 The Climata Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

// Result represents a geocoding result from any provider.
type Result struct {
	Latitude    float64
	Longitude   float64
	Provider    string
	DisplayName string
}

// Geocoder resolves a city and its country into coordinates.
type Geocoder interface {
	Geocode(city string, country string) (*Result, error)
}
