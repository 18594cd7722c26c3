// Copyright 2026 The Climata Authors
// SPDX-License-Identifier: Apache-2.0

package dataset

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrDataUnavailable is returned when the backing file cannot be read or
// written. It always aborts the whole load.
var ErrDataUnavailable = errors.New("dataset unavailable")

const dateLayout = "2006-01-02"

// Store reads and writes the climate CSV through an embedded DuckDB
// instance. The loaded rows stay staged in the readings table so analytical
// consumers can query them with SQL.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open DuckDB connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying database connection for analytical queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// quoteLiteral escapes a string for embedding in statement text. DuckDB's
// read_csv and COPY take the file path as part of the statement, not as a
// bind parameter.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Load reads the dataset at path into memory, keeping coordinate column
// text verbatim and normalizing dt to a year.
func (s *Store) Load(path string) ([]*Record, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}

	_, err := s.db.Exec(`
		CREATE OR REPLACE TABLE readings AS
		SELECT * FROM read_csv(` + quoteLiteral(path) + `, header = true, all_varchar = true)
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: staging %s: %v", ErrDataUnavailable, path, err)
	}

	rows, err := s.db.Query(`
		SELECT dt, AverageTemperature, AverageTemperatureUncertainty,
		       City, Country, Latitude, Longitude
		FROM readings
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrDataUnavailable, path, err)
	}
	defer rows.Close()

	var records []*Record

	for rows.Next() {
		var dt string

		var avg, uncertainty sql.NullString

		record := &Record{}

		err := rows.Scan(&dt, &avg, &uncertainty,
			&record.City, &record.Country, &record.Latitude, &record.Longitude)
		if err != nil {
			return nil, fmt.Errorf("scanning reading: %w", err)
		}

		record.Date, err = time.Parse(dateLayout, dt)
		if err != nil {
			return nil, fmt.Errorf("parsing dt %q: %w", dt, err)
		}

		record.Year = record.Date.Year()

		if record.AverageTemperature, err = parseTemperature(avg); err != nil {
			return nil, fmt.Errorf("parsing AverageTemperature: %w", err)
		}

		if record.AverageTemperatureUncertainty, err = parseTemperature(uncertainty); err != nil {
			return nil, fmt.Errorf("parsing AverageTemperatureUncertainty: %w", err)
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrDataUnavailable, path, err)
	}

	return records, nil
}

func parseTemperature(v sql.NullString) (sql.NullFloat64, error) {
	if !v.Valid || v.String == "" {
		return sql.NullFloat64{}, nil
	}

	f, err := strconv.ParseFloat(v.String, 64)
	if err != nil {
		return sql.NullFloat64{}, fmt.Errorf("%q: %w", v.String, err)
	}

	return sql.NullFloat64{Float64: f, Valid: true}, nil
}

// Flush replaces the staged table with the typed, resolved record set and
// rewrites the backing file in one pass, including the derived Year and
// City_Country columns. Every record must carry numeric coordinates.
func (s *Store) Flush(path string, records []*Record) error {
	_, err := s.db.Exec(`
		CREATE OR REPLACE TABLE readings (
			dt DATE,
			AverageTemperature DOUBLE,
			AverageTemperatureUncertainty DOUBLE,
			City VARCHAR NOT NULL,
			Country VARCHAR NOT NULL,
			Latitude DOUBLE NOT NULL,
			Longitude DOUBLE NOT NULL,
			Year INTEGER NOT NULL,
			City_Country VARCHAR NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("creating readings table: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO readings VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		if rErr := tx.Rollback(); rErr != nil {
			err = rErr
		}

		return err
	}
	defer stmt.Close()

	for _, r := range records {
		if r.Point == nil {
			if rErr := tx.Rollback(); rErr != nil {
				return rErr
			}

			return fmt.Errorf("record %s has no numeric coordinates", r.Key())
		}

		_, err := stmt.Exec(
			r.Date,
			r.AverageTemperature,
			r.AverageTemperatureUncertainty,
			r.City,
			r.Country,
			r.Point.Lat,
			r.Point.Lng,
			r.Year,
			r.Key(),
		)
		if err != nil {
			if rErr := tx.Rollback(); rErr != nil {
				err = rErr
			}

			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing readings: %w", err)
	}

	_, err = s.db.Exec(`COPY readings TO ` + quoteLiteral(path) + ` (HEADER, DELIMITER ',')`)
	if err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrDataUnavailable, path, err)
	}

	return nil
}
