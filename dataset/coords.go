// Copyright 2026 The Climata Authors
// SPDX-License-Identifier: Apache-2.0

package dataset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedCoordinate is returned when raw coordinate text cannot be
// converted into decimal degrees.
var ErrMalformedCoordinate = errors.New("malformed coordinate")

// IsRawCoordinate reports whether the column text is in the raw
// hemisphere-suffixed form rather than a plain decimal number. The loader
// applies it to the first record only: datasets are either fully raw or
// fully numeric.
func IsRawCoordinate(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)

	return err != nil
}

// ParseCoordinate converts the raw form "<magnitude><hemisphere>" into
// signed decimal degrees. N and E map to positive, S and W to negative.
// No range validation is performed.
func ParseCoordinate(s string) (float64, error) {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedCoordinate, s)
	}

	var sign float64

	switch trimmed[len(trimmed)-1] {
	case 'N', 'E':
		sign = 1
	case 'S', 'W':
		sign = -1
	default:
		return 0, fmt.Errorf("%w: %q: missing hemisphere suffix", ErrMalformedCoordinate, s)
	}

	magnitude, err := strconv.ParseFloat(trimmed[:len(trimmed)-1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrMalformedCoordinate, s, err)
	}

	return sign * magnitude, nil
}

// FormatCoordinate renders decimal degrees as column text for a resolved
// record.
func FormatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
