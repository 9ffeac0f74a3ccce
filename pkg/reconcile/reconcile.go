// Package reconcile loads the survey-evaluation sources and builds the joined
// evaluation table.
//
// A load reads every file named by the manifest, validates every header
// against its explicit column mapping, selects and renames the mapped columns,
// stamps provenance tags, concatenates registrations and evaluations, drops
// rows without a certificate ID or an evaluation result, and right-joins
// registrations onto evaluations on (certificate ID, authority, category).
//
// Example usage:
//
//	result, err := reconcile.Load(ctx, reconcile.WithDataDir("./data"))
//	if err != nil {
//	    return err
//	}
//	for _, row := range result.Joined {
//	    fmt.Println(row.Evaluation.Round, row.Evaluation.Result)
//	}
package reconcile

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/haccpkit/haccp/pkg/errors"
	"github.com/haccpkit/haccp/pkg/logging"
	"github.com/haccpkit/haccp/pkg/records"
	"github.com/haccpkit/haccp/pkg/schema"
	"github.com/haccpkit/haccp/pkg/sources"
)

// Reconciler builds the joined evaluation table from the configured sources.
type Reconciler interface {
	// Load reads, validates and joins every source. It fails fast: no partial
	// result is returned with an error.
	Load(ctx context.Context) (*Result, error)
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	manifest    *schema.Manifest
	reader      sources.Reader
	logger      *zerolog.Logger
	failOnEmpty bool
}

// New creates a new Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	manifest := options.manifest
	if options.dataDir != "" {
		manifest = manifest.WithDataDir(options.dataDir)
	}

	reader := options.reader
	if reader == nil {
		var readerOpts []sources.Option
		if options.logger != nil {
			readerOpts = append(readerOpts, sources.WithLogger(options.logger))
		}
		if reader, err = sources.NewReader(readerOpts...); err != nil {
			return nil, err
		}
	}

	return &reconciler{
		manifest:    manifest,
		reader:      reader,
		logger:      options.logger,
		failOnEmpty: options.failOnEmpty,
	}, nil
}

// Load creates a Reconciler from opts and runs it once.
func Load(ctx context.Context, opts ...Option) (*Result, error) {
	r, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return r.Load(ctx)
}

// frame pairs a source with the content read from it. idx holds the header
// position of every mapped column once the header has been validated.
type frame struct {
	source schema.Source
	path   string
	data   *sources.Frame
	idx    []int
	logger *zerolog.Logger
}

// Load performs the load step by step.
func (r *reconciler) Load(ctx context.Context) (*Result, error) {
	logger := r.logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}
	ctx = logging.WithLogger(ctx, logger)

	// Step 1: Read every file, failing on the first unavailable one
	regFrames, err := r.readAll(ctx, r.manifest.Registrations())
	if err != nil {
		return nil, err
	}
	evalFrames, err := r.readAll(ctx, r.manifest.Evaluations())
	if err != nil {
		return nil, err
	}

	// Step 2: Validate every header before transforming anything
	for _, frames := range [][]frame{regFrames, evalFrames} {
		for i := range frames {
			f := &frames[i]
			idx, err := f.source.HeaderIndexes(f.data.Header)
			if err != nil {
				f.logger.Error().Err(err).Str("path", f.path).Msg("Header does not match mapping")
				return nil, err
			}
			f.idx = idx
		}
	}

	result := &Result{}

	// Step 3: Select, rename, tag and concatenate registrations
	for _, f := range regFrames {
		regs, st, err := registrations(f)
		if err != nil {
			return nil, err
		}
		result.Registrations = append(result.Registrations, regs...)
		result.Stats.Sources = append(result.Stats.Sources, st)
		result.Stats.RegistrationsDropped += st.Read - st.Kept
	}

	// Step 4: Same for evaluations, one file per round
	for _, f := range evalFrames {
		evals, st, err := evaluations(f)
		if err != nil {
			return nil, err
		}
		result.Evaluations = append(result.Evaluations, evals...)
		result.Stats.Sources = append(result.Stats.Sources, st)
		result.Stats.EvaluationsDropped += st.Read - st.Kept
	}

	// Step 5: Right join
	result.Joined = RightJoin(result.Registrations, result.Evaluations)
	result.Stats.Unmatched = result.Joined.Unmatched()
	result.Stats.Matched = len(result.Joined) - result.Stats.Unmatched
	result.Stats.DuplicateKeys = duplicateKeys(result.Registrations)

	// Step 6: Warnings
	for _, st := range result.Stats.Sources {
		if st.Read == 0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("source %s has no data rows", st.ID))
		}
	}
	if result.Stats.DuplicateKeys > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d registration keys appear more than once; their evaluations are repeated per match", result.Stats.DuplicateKeys))
	}
	if result.Empty() {
		if r.failOnEmpty {
			return nil, &errors.EmptyResultError{
				Registrations: len(result.Registrations),
				Evaluations:   len(result.Evaluations),
			}
		}
		result.Warnings = append(result.Warnings, "join produced no rows; check key columns across sources")
	}
	for _, w := range result.Warnings {
		logger.Warn().Msg(w)
	}

	logger.Info().
		Int("registrations", len(result.Registrations)).
		Int("evaluations", len(result.Evaluations)).
		Int("joined", len(result.Joined)).
		Int("unmatched", result.Stats.Unmatched).
		Msg("Loaded evaluation records")

	return result, nil
}

// readAll reads the given sources in order.
func (r *reconciler) readAll(ctx context.Context, srcs []schema.Source) ([]frame, error) {
	frames := make([]frame, 0, len(srcs))
	for _, src := range srcs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", errors.ErrCanceled, err)
		}

		path := src.Resolve(r.manifest.DataDir)
		srcCtx := logging.WithSource(logging.WithGroup(ctx, src.Group), src.ID)
		data, err := r.reader.Read(srcCtx, path)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("%w: %w", errors.ErrCanceled, ctxErr)
			}
			return nil, errors.NewSourceUnavailableError(src.ID, path, err)
		}
		frames = append(frames, frame{source: src, path: path, data: data, logger: logging.FromContext(srcCtx)})
	}
	return frames, nil
}

// registrations converts one registration frame into tagged records,
// dropping rows with a null certificate ID.
func registrations(f frame) (records.Registrations, SourceStats, error) {
	st := newStats(f)
	canonical := f.source.Columns.Canonical()

	out := make(records.Registrations, 0, len(f.data.Rows))
	for _, row := range f.data.Rows {
		rec := records.RegistrationRecord{Authority: f.source.Authority, Category: f.source.Category}
		for i, attr := range canonical {
			if err := rec.Set(attr, cell(row, f.idx[i])); err != nil {
				return nil, st, err
			}
		}
		if rec.CertificateID == "" {
			continue
		}
		out = append(out, rec)
	}
	st.Kept = len(out)
	return out, st, nil
}

// evaluations converts one round frame into tagged records, dropping rows
// with a null result.
func evaluations(f frame) (records.Evaluations, SourceStats, error) {
	st := newStats(f)
	canonical := f.source.Columns.Canonical()
	round := f.source.RoundLabel()

	out := make(records.Evaluations, 0, len(f.data.Rows))
	for _, row := range f.data.Rows {
		rec := records.EvaluationRecord{Round: round, Authority: f.source.Authority, Category: f.source.Category}
		for i, attr := range canonical {
			if err := rec.Set(attr, cell(row, f.idx[i])); err != nil {
				return nil, st, err
			}
		}
		if rec.Result == "" {
			continue
		}
		out = append(out, rec)
	}
	st.Kept = len(out)
	return out, st, nil
}

func newStats(f frame) SourceStats {
	st := SourceStats{
		ID:        f.source.ID,
		Path:      f.path,
		Kind:      f.source.Kind,
		Authority: f.source.Authority,
		Category:  f.source.Category,
		Read:      len(f.data.Rows),
	}
	if f.source.Kind == schema.KindEvaluation {
		st.Round = f.source.RoundLabel()
	}
	return st
}

// cell returns row[i], or null when the row is short.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
