package appcontext

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/haccpkit/haccp/pkg/logging"
	"github.com/haccpkit/haccp/pkg/reconcile"
	"github.com/haccpkit/haccp/pkg/schema"
	"github.com/haccpkit/haccp/pkg/sources"
)

// Mock provides a mock implementation of Interface for testing.
// Each method can be customized by setting the corresponding field.
// If a field is unset, the method returns a default value.
type Mock struct {
	LoadFunc     func(ctx context.Context) (*reconcile.Result, error)
	ManifestFunc func() (*schema.Manifest, error)
	ReaderFunc   func() (sources.Reader, error)
	LoggerFunc   func() *zerolog.Logger
	Format       string
	Font         string
	Color        bool
}

// Load returns a result using the mock function or an empty result.
func (m *Mock) Load(ctx context.Context) (*reconcile.Result, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	return &reconcile.Result{}, nil
}

// Manifest returns a manifest using the mock function or the default manifest.
func (m *Mock) Manifest() (*schema.Manifest, error) {
	if m.ManifestFunc != nil {
		return m.ManifestFunc()
	}
	return schema.Default(), nil
}

// Reader returns a reader using the mock function or an empty static reader.
func (m *Mock) Reader() (sources.Reader, error) {
	if m.ReaderFunc != nil {
		return m.ReaderFunc()
	}
	return sources.Static{}, nil
}

// Logger returns a logger using the mock function or a nop logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	return logging.NewNopLogger()
}

// OutputFormat returns Format.
func (m *Mock) OutputFormat() string { return m.Format }

// UseColor returns Color.
func (m *Mock) UseColor() bool { return m.Color }

// FontPath returns Font.
func (m *Mock) FontPath() string { return m.Font }

// Version returns "test".
func (m *Mock) Version() string { return "test" }

// Commit returns "test".
func (m *Mock) Commit() string { return "test" }

// Date returns "test".
func (m *Mock) Date() string { return "test" }

// BuiltBy returns "test".
func (m *Mock) BuiltBy() string { return "test" }

// Ensure Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
