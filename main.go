// Copyright 2026 The Climata Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/climatehq/climata/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
