// Package appcontext provides the shared application context interface
// used by all commands, so command packages depend on an interface rather
// than the concrete App.
package appcontext

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/haccpkit/haccp/pkg/reconcile"
	"github.com/haccpkit/haccp/pkg/schema"
	"github.com/haccpkit/haccp/pkg/sources"
)

// Interface defines what commands need from the application.
// The App struct from cmd/haccp/app implements it; tests use Mock.
type Interface interface {
	// Load runs the reconciler once and caches the result for the
	// lifetime of the process.
	Load(ctx context.Context) (*reconcile.Result, error)

	// Manifest returns the configured manifest with the data directory applied.
	Manifest() (*schema.Manifest, error)

	// Reader returns a source reader using the configured encoding.
	Reader() (sources.Reader, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml, csv, wide).
	OutputFormat() string

	// UseColor reports whether status output may use ANSI colours.
	UseColor() bool

	// FontPath returns the configured TTF font used by charts, if any.
	FontPath() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
