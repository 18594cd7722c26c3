// Copyright 2026 The Climata Authors
// SPDX-License-Identifier: Apache-2.0

package resolve

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/climatehq/climata/dataset"
	"github.com/climatehq/climata/geocode"
	"github.com/climatehq/climata/spatial"
)

// ErrMissingPlace signals a record whose composite key is absent from a
// freshly built mapping. The mapping is built from the same record set, so
// hitting this means the pass is internally inconsistent.
var ErrMissingPlace = errors.New("place missing from resolved mapping")

// place is one distinct (city, country, raw coordinate) combination.
type place struct {
	city    string
	country string
	rawLat  string
	rawLng  string
}

func (p place) key() string {
	return dataset.PlaceKey(p.city, p.country)
}

// Resolver maps composite place keys to numeric coordinates: remote lookup
// first, the first-seen row's own raw text as fallback.
type Resolver struct {
	geocoder geocode.Geocoder
}

// NewResolver creates a resolver backed by the given geocoder.
func NewResolver(geocoder geocode.Geocoder) *Resolver {
	return &Resolver{geocoder: geocoder}
}

// distinctPlaces reduces the record set to distinct places in first-seen
// order. Later rows with the same key but different raw text are reported
// and ignored.
func distinctPlaces(records []*dataset.Record) []place {
	index := make(map[string]int)

	var places []place

	for _, r := range records {
		key := r.Key()

		if i, ok := index[key]; ok {
			first := places[i]
			if first.rawLat != r.Latitude || first.rawLng != r.Longitude {
				log.Printf("⚠️  %s: row carries (%s, %s) but first-seen row had (%s, %s); keeping first",
					key, r.Latitude, r.Longitude, first.rawLat, first.rawLng)
			}

			continue
		}

		index[key] = len(places)
		places = append(places, place{
			city:    r.City,
			country: r.Country,
			rawLat:  r.Latitude,
			rawLng:  r.Longitude,
		})
	}

	return places
}

// Resolve builds the mapping from composite key to coordinates, with at
// most one remote attempt per distinct key. Remote failures of any kind are
// absorbed by the fallback parse; a fallback parse failure aborts the pass.
func (r *Resolver) Resolve(records []*dataset.Record) (map[string]spatial.Point, error) {
	places := distinctPlaces(records)

	var bar *progressbar.ProgressBar
	if isatty.IsTerminal(os.Stderr.Fd()) {
		bar = progressbar.NewOptions(len(places),
			progressbar.OptionSetDescription("Resolving coordinates"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	coords := make(map[string]spatial.Point, len(places))

	for _, p := range places {
		result, err := r.geocoder.Geocode(p.city, p.country)
		if err != nil {
			log.Printf("geocoding %s: %v", p.key(), err)

			point, err := fallbackCoordinates(p)
			if err != nil {
				return nil, err
			}

			coords[p.key()] = point
		} else {
			coords[p.key()] = spatial.Point{Lat: result.Latitude, Lng: result.Longitude}
		}

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if bar != nil {
		_ = bar.Finish()
	}

	return coords, nil
}

// fallbackCoordinates parses the place's own raw column text. There is no
// further fallback behind it.
func fallbackCoordinates(p place) (spatial.Point, error) {
	lat, err := dataset.ParseCoordinate(p.rawLat)
	if err != nil {
		return spatial.Point{}, fmt.Errorf("fallback latitude for %s: %w", p.key(), err)
	}

	lng, err := dataset.ParseCoordinate(p.rawLng)
	if err != nil {
		return spatial.Point{}, fmt.Errorf("fallback longitude for %s: %w", p.key(), err)
	}

	return spatial.Point{Lat: lat, Lng: lng}, nil
}

// Apply refreshes every record's coordinate fields from the mapping.
func Apply(records []*dataset.Record, coords map[string]spatial.Point) error {
	for _, rec := range records {
		point, ok := coords[rec.Key()]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingPlace, rec.Key())
		}

		rec.Point = &spatial.Point{Lat: point.Lat, Lng: point.Lng}
		rec.Latitude = dataset.FormatCoordinate(point.Lat)
		rec.Longitude = dataset.FormatCoordinate(point.Lng)
	}

	return nil
}
