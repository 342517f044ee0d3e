//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
)

// Version is the semantic version of the lessgo module embedded at build
// time. It is printed by the CLI when users invoke the version subcommand.
//
//go:embed VERSION
var Version string

const (
	// Name is the canonical command and module identifier used across the
	// project. For example, it appears in help text and default config paths.
	Name = "lessgo"
	// Description is a short, human-readable summary of the project used in
	// help output and documentation.
	Description = "LESS to CSS compiler"
	// MetaSuffix is appended to a compiled output file's path to name its
	// cache sidecar, e.g. "style.css" -> "style.css.meta" holding the
	// [github.com/splitbrain/lessgo/less.CacheRecord] JSON.
	MetaSuffix = ".meta"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	// Name is the author's preferred name or handle.
	Name string
	// Email is the author's contact email address.
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
//
//nolint:gochecknoglobals
var Author = []AuthorInfo{
	{"lessgo contributors", "lessgo@example.invalid"},
}
