// Copyright 2026 The Climata Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/climatehq/climata/analysis"
	"github.com/climatehq/climata/geocode"
	"github.com/climatehq/climata/resolve"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the resolved dataset over a local JSON API",
	Long: `Loads the dataset, resolving coordinates first if the file still carries
raw ones, and serves places, statistics, projections, and heatmap cells to
visualization frontends. Local only, not meant to be exposed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		// The key is only used when the file still needs a resolution
		// pass, so a failed discovery is not fatal here.
		key, err := geocode.ResolveAPIKey(cmd.Context())
		if err != nil {
			log.Printf("no Maps API key available, remote lookups will fail over to embedded coordinates: %v", err)
		}

		db, store, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		loader := resolve.NewLoader(store, geocode.NewGoogleMapsGeocoder(key))

		ds, err := loader.Load(dataPath)
		if err != nil {
			return err
		}

		fmt.Println("🌍 Climate dataset API starting...")
		fmt.Printf("📍 Open http://%s/api/places in your browser\n", serveAddr)
		fmt.Println("🔒 Local only - not exposed to internet")

		return analysis.NewServer(ds, store.DB(), serveAddr).Run()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "localhost:8080", "listen address")
}
