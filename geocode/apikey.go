// Copyright 2026 The Climata Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	apikeys "cloud.google.com/go/apikeys/apiv2"
	"cloud.google.com/go/apikeys/apiv2/apikeyspb"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/iterator"
)

// APIKeyEnv is the environment variable carrying the Maps API key.
const APIKeyEnv = "GOOGLE_MAPS_API_KEY"

// keyDisplayName matches the key provisioned for this project in GCP.
const keyDisplayName = "Climata Geocoding Key"

// ResolveAPIKey returns the Maps API key from the environment, falling back
// to discovery through Application Default Credentials.
func ResolveAPIKey(ctx context.Context) (string, error) {
	if key := os.Getenv(APIKeyEnv); key != "" {
		return key, nil
	}

	log.Printf("%s is not set. Attempting to retrieve via ADC...", APIKeyEnv)

	return apiKeyFromADC(ctx)
}

func apiKeyFromADC(ctx context.Context) (string, error) {
	creds, err := google.FindDefaultCredentials(ctx, "https://www.googleapis.com/auth/cloud-platform")
	if err != nil {
		return "", fmt.Errorf("finding default credentials: %w", err)
	}

	if creds.ProjectID == "" {
		return "", errors.New("no project ID in default credentials")
	}

	client, err := apikeys.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("creating apikeys client: %w", err)
	}
	defer client.Close()

	req := &apikeyspb.ListKeysRequest{
		Parent: fmt.Sprintf("projects/%s/locations/global", creds.ProjectID),
	}

	it := client.ListKeys(ctx, req)

	for {
		key, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}

		if err != nil {
			return "", fmt.Errorf("listing keys: %w", err)
		}

		if key.DisplayName != keyDisplayName {
			continue
		}

		// ListKeys redacts the KeyString; GetKeyString retrieves the secret.
		resp, err := client.GetKeyString(ctx, &apikeyspb.GetKeyStringRequest{
			Name: key.Name,
		})
		if err != nil {
			return "", fmt.Errorf("getting key string: %w", err)
		}

		if resp.KeyString == "" {
			return "", fmt.Errorf("key %q found but its string is empty", keyDisplayName)
		}

		return resp.KeyString, nil
	}

	return "", fmt.Errorf("no API key named %q in project %s", keyDisplayName, creds.ProjectID)
}
