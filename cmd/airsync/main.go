// Package main provides the entry point for the airsync CLI tool.
package main

import (
	"os"

	"github.com/campgroundfyi/airsync/cmd/airsync/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := cmd.Execute(version, commit); err != nil {
		os.Exit(1)
	}
}
