// Copyright 2026 The Climata Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/spf13/cobra"

	"github.com/climatehq/climata/dataset"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})
}

var dataPath string

var rootCmd = &cobra.Command{
	Use:   "climata",
	Short: "coordinate resolution and analytics for tabular climate datasets",
	Long: `
climata resolves the coordinates of every city in a land-temperature CSV
through the Google Maps Geocoding API, falling back to the coordinates
embedded in the file, and normalizes the file in place. The resolved table
can then be summarized, projected, or served to visualization frontends.
`,
}

var Version = "dev"

func Execute(version string) {
	Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// openStore opens an in-memory DuckDB instance for staging the dataset.
func openStore() (*sql.DB, *dataset.Store, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, nil, fmt.Errorf("opening duckdb: %w", err)
	}

	return db, dataset.NewStore(db), nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "path to the climate CSV file")

	if err := rootCmd.MarkPersistentFlagRequired("data"); err != nil {
		panic(err)
	}
}
