// Copyright 2026 The Climata Authors
// SPDX-License-Identifier: Apache-2.0

package resolve

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/climatehq/climata/dataset"
	"github.com/climatehq/climata/geocode"
	"github.com/climatehq/climata/spatial"
	"github.com/climatehq/climata/utils"
)

// Loader produces a fully numeric in-memory dataset from a storage path,
// running the resolution pass when the stored coordinates are still raw.
type Loader struct {
	store    *dataset.Store
	resolver *Resolver
}

// NewLoader creates a loader over the given store and geocoder.
func NewLoader(store *dataset.Store, geocoder geocode.Geocoder) *Loader {
	return &Loader{
		store:    store,
		resolver: NewResolver(geocoder),
	}
}

// Load reads the dataset and guarantees numeric coordinates on every record
// when it returns. The backing file is rewritten only when a resolution
// pass ran; loading an already numeric dataset has no side effects, which
// makes the pass self-disabling.
func (l *Loader) Load(path string) (*dataset.Dataset, error) {
	records, err := l.store.Load(path)
	if err != nil {
		return nil, err
	}

	ds := &dataset.Dataset{Path: path, Records: records}
	if len(records) == 0 {
		return ds, nil
	}

	// The first record decides for the whole dataset: there is no
	// per-row mixed-mode handling.
	if !dataset.IsRawCoordinate(records[0].Latitude) {
		if err := refreshPoints(records); err != nil {
			return nil, err
		}

		return ds, nil
	}

	coords, err := l.resolver.Resolve(records)
	if err != nil {
		return nil, err
	}

	if err := Apply(records, coords); err != nil {
		return nil, err
	}

	if err := l.store.Flush(path, records); err != nil {
		return nil, err
	}

	log.Printf("Resolved %s places across %s rows; rewrote %s",
		utils.FormatInt(int64(len(coords))),
		utils.FormatInt(int64(len(records))),
		path)

	return ds, nil
}

// refreshPoints fills in Point from columns that are already numeric.
func refreshPoints(records []*dataset.Record) error {
	for _, rec := range records {
		lat, err := strconv.ParseFloat(strings.TrimSpace(rec.Latitude), 64)
		if err != nil {
			return fmt.Errorf("%w: latitude %q for %s", dataset.ErrMalformedCoordinate, rec.Latitude, rec.Key())
		}

		lng, err := strconv.ParseFloat(strings.TrimSpace(rec.Longitude), 64)
		if err != nil {
			return fmt.Errorf("%w: longitude %q for %s", dataset.ErrMalformedCoordinate, rec.Longitude, rec.Key())
		}

		rec.Point = &spatial.Point{Lat: lat, Lng: lng}
	}

	return nil
}
