// Copyright 2026 The Climata Authors
// SPDX-License-Identifier: Apache-2.0

package analysis

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/climatehq/climata/dataset"
	"github.com/climatehq/climata/spatial"
)

// Place is one resolved place as exposed over the API.
type Place struct {
	Key   string        `json:"key"`
	Point spatial.Point `json:"point"`
}

// NearestPlace is the answer to a nearest-place query.
type NearestPlace struct {
	Place
	DistanceMeters float64 `json:"distance_meters"`
}

// Server exposes the resolved dataset to visualization consumers as JSON.
// It serves the table as-is and performs no further coordinate resolution.
type Server struct {
	ds   *dataset.Dataset
	db   *sql.DB
	addr string
}

// NewServer creates a server over a loaded, fully numeric dataset.
func NewServer(ds *dataset.Dataset, db *sql.DB, addr string) *Server {
	return &Server{ds: ds, db: db, addr: addr}
}

// Run blocks serving the API until the process is stopped.
func (s *Server) Run() error {
	r := gin.Default()

	r.GET("/api/places", s.listPlaces)
	r.GET("/api/statistics", s.getStatistics)
	r.GET("/api/projection", s.getProjection)
	r.GET("/api/heatmap", s.getHeatmap)
	r.GET("/api/nearest", s.getNearest)

	return r.Run(s.addr)
}

// places returns one entry per distinct composite key in first-seen order.
func (s *Server) places() []Place {
	keys := s.ds.Places()
	index := make(map[string]*spatial.Point, len(keys))

	for _, r := range s.ds.Records {
		if _, ok := index[r.Key()]; !ok {
			index[r.Key()] = r.Point
		}
	}

	out := make([]Place, 0, len(keys))
	for _, key := range keys {
		out = append(out, Place{Key: key, Point: *index[key]})
	}

	return out
}

func (s *Server) listPlaces(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, s.places())
}

func (s *Server) getStatistics(ctx *gin.Context) {
	stats, err := Statistics(s.db)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	if place := ctx.Query("place"); place != "" {
		found := FindPlace(stats, place)
		if found == nil {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "unknown place: " + place})

			return
		}

		ctx.JSON(http.StatusOK, found)

		return
	}

	ctx.JSON(http.StatusOK, stats)
}

func (s *Server) getProjection(ctx *gin.Context) {
	place := ctx.Query("place")
	if place == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "place query parameter is required"})

		return
	}

	years := 50
	if raw := ctx.Query("years"); raw != "" {
		var err error

		years, err = strconv.Atoi(raw)
		if err != nil || years < 1 || years > 100 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "years must be between 1 and 100"})

			return
		}
	}

	projection, err := Project(s.db, place, years)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, projection)
}

func (s *Server) getHeatmap(ctx *gin.Context) {
	resolution := 4
	if raw := ctx.Query("res"); raw != "" {
		var err error

		resolution, err = strconv.Atoi(raw)
		if err != nil || resolution < 0 || resolution > 15 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "res must be between 0 and 15"})

			return
		}
	}

	cells, err := HeatmapCells(s.ds, resolution)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, cells)
}

func (s *Server) getNearest(ctx *gin.Context) {
	lat, latErr := strconv.ParseFloat(ctx.Query("lat"), 64)

	lng, lngErr := strconv.ParseFloat(ctx.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng query parameters are required"})

		return
	}

	places := s.places()
	if len(places) == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "dataset has no places"})

		return
	}

	from := &spatial.Point{Lat: lat, Lng: lng}
	nearest := NearestPlace{Place: places[0], DistanceMeters: from.HaversineDistance(&places[0].Point)}

	for _, p := range places[1:] {
		if d := from.HaversineDistance(&p.Point); d < nearest.DistanceMeters {
			nearest = NearestPlace{Place: p, DistanceMeters: d}
		}
	}

	ctx.JSON(http.StatusOK, nearest)
}
