// ============================================================================
// scriptfront - Script Language Front End
// ============================================================================
//
// Package:     version
// Description: Central version management for the CLI and the services
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version constants
const (
	// Release version of the module
	Platform = "0.1.0"

	// Component versions
	Grammar  = "1.0.0"
	FrontEnd = "0.1.0"
	Gateway  = "0.1.0"
	Audit    = "0.1.0"
)

// Set at build time with -ldflags "-X .../version.Commit=... -X .../version.BuildDate=..."
var (
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info describes the running build
type Info struct {
	Version   string `json:"version"`
	Grammar   string `json:"grammar"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the build information
func Get() Info {
	return Info{
		Version:   Platform,
		Grammar:   Grammar,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String returns a one-line summary
func (i Info) String() string {
	return fmt.Sprintf("scriptfront %s (grammar %s, commit %s, built %s, %s %s)",
		i.Version, i.Grammar, i.Commit, i.BuildDate, i.GoVersion, i.Platform)
}

// ComponentVersion returns the version for a given component name
func ComponentVersion(name string) string {
	switch name {
	case "grammar":
		return Grammar
	case "frontend", "grpc":
		return FrontEnd
	case "gateway", "http":
		return Gateway
	case "audit":
		return Audit
	default:
		return Platform
	}
}
