// Copyright 2026 The Climata Authors
// SPDX-License-Identifier: Apache-2.0

package analysis

import (
	"fmt"
	"sort"

	"github.com/uber/h3-go/v4"

	"github.com/climatehq/climata/dataset"
	"github.com/climatehq/climata/spatial"
)

// HeatmapCell aggregates the places falling into one H3 cell.
type HeatmapCell struct {
	Cell               string  `json:"cell"`
	Places             int     `json:"places"`
	AverageTemperature float64 `json:"average_temperature"`
}

// HeatmapCells buckets resolved places into H3 cells at the given
// resolution. Each place contributes its mean temperature once, no matter
// how many rows it has; places without readings are skipped.
func HeatmapCells(ds *dataset.Dataset, resolution int) ([]*HeatmapCell, error) {
	type placeAgg struct {
		point *spatial.Point
		sum   float64
		n     int
	}

	places := make(map[string]*placeAgg)

	for _, r := range ds.Records {
		if r.Point == nil {
			return nil, fmt.Errorf("record %s has no numeric coordinates", r.Key())
		}

		agg, ok := places[r.Key()]
		if !ok {
			agg = &placeAgg{point: r.Point}
			places[r.Key()] = agg
		}

		if r.AverageTemperature.Valid {
			agg.sum += r.AverageTemperature.Float64
			agg.n++
		}
	}

	type cellAgg struct {
		sum    float64
		places int
	}

	cells := make(map[h3.Cell]*cellAgg)

	for key, agg := range places {
		if agg.n == 0 {
			continue
		}

		cell, err := h3.LatLngToCell(h3.NewLatLng(agg.point.Lat, agg.point.Lng), resolution)
		if err != nil {
			return nil, fmt.Errorf("converting %s to h3 cell at res %d: %w", key, resolution, err)
		}

		ca, ok := cells[cell]
		if !ok {
			ca = &cellAgg{}
			cells[cell] = ca
		}

		ca.sum += agg.sum / float64(agg.n)
		ca.places++
	}

	out := make([]*HeatmapCell, 0, len(cells))

	for cell, ca := range cells {
		out = append(out, &HeatmapCell{
			Cell:               cell.String(),
			Places:             ca.places,
			AverageTemperature: ca.sum / float64(ca.places),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Cell < out[j].Cell
	})

	return out, nil
}
