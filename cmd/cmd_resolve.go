// Copyright 2026 The Climata Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/climatehq/climata/geocode"
	"github.com/climatehq/climata/resolve"
	"github.com/climatehq/climata/utils"
)

var resolveAPIKey string

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve place coordinates and normalize the dataset in place",
	Long: `Loads the climate CSV, resolves each distinct place once through the
Google Maps Geocoding API with the row's own raw coordinates as fallback,
and rewrites the file with numeric coordinates. Running it again on the
normalized file is a no-op.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		key := resolveAPIKey

		if key == "" {
			var err error

			key, err = geocode.ResolveAPIKey(cmd.Context())
			if err != nil {
				return fmt.Errorf("resolving API key: %w", err)
			}
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

		fmt.Printf("✅ %s rows across %s places, all coordinates numeric\n",
			utils.FormatInt(int64(len(ds.Records))),
			utils.FormatInt(int64(len(ds.Places()))))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().StringVar(&resolveAPIKey, "api-key", "",
		"Google Maps API key (default: "+geocode.APIKeyEnv+", then ADC discovery)")
}
