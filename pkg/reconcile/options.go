package reconcile

import (
	"github.com/rs/zerolog"

	"github.com/haccpkit/haccp/pkg/errors"
	"github.com/haccpkit/haccp/pkg/schema"
	"github.com/haccpkit/haccp/pkg/sources"
)

type options struct {
	manifest    *schema.Manifest
	dataDir     string
	reader      sources.Reader
	logger      *zerolog.Logger
	failOnEmpty bool
}

func defaultOptions() *options {
	return &options{
		manifest: schema.Default(),
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithManifest sets the file manifest. The manifest is validated.
func WithManifest(m *schema.Manifest) Option {
	return func(o *options) error {
		if m == nil {
			return &errors.ValidationError{Field: "manifest", Message: "cannot be nil"}
		}
		if err := m.Validate(); err != nil {
			return err
		}
		o.manifest = m
		return nil
	}
}

// WithDataDir overrides the directory the manifest's relative paths resolve against.
func WithDataDir(dir string) Option {
	return func(o *options) error {
		o.dataDir = dir
		return nil
	}
}

// WithReader sets the reader used to open source files.
func WithReader(r sources.Reader) Option {
	return func(o *options) error {
		if r == nil {
			return &errors.ValidationError{Field: "reader", Message: "cannot be nil"}
		}
		o.reader = r
		return nil
	}
}

// WithLogger sets the logger. Without it the logger is taken from the context.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// WithFailOnEmpty makes Load return an EmptyResultError instead of an empty
// joined table.
func WithFailOnEmpty(enabled bool) Option {
	return func(o *options) error {
		o.failOnEmpty = enabled
		return nil
	}
}
