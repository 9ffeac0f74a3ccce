// Package sources reads the survey-evaluation CSV files into raw frames.
//
// A frame is the header row plus every data row of one file, decoded to
// UTF-8, with header names normalized to NFC and null markers replaced by
// the empty string. Frames carry no schema; column selection happens in the
// reconciler against an explicit mapping.
//
// Example usage:
//
//	r, err := sources.NewReader(sources.WithEncoding(sources.EncodingAuto))
//	if err != nil {
//	    return err
//	}
//	frame, err := r.Read(ctx, "data/HACCP_조사평가_2024_지방청_식품_업체정보.csv")
package sources

import (
	"bytes"
	"context"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/haccpkit/haccp/pkg/errors"
	"github.com/haccpkit/haccp/pkg/logging"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Frame is the raw content of one CSV file.
type Frame struct {
	Path   string
	Header []string
	Rows   [][]string
}

// Len returns the number of data rows.
func (f *Frame) Len() int {
	return len(f.Rows)
}

// Reader reads one file into a frame.
type Reader interface {
	Read(ctx context.Context, path string) (*Frame, error)
}

// CSVReader reads CSV files from the local filesystem.
type CSVReader struct {
	encoding Encoding
	nulls    map[string]bool
	logger   *zerolog.Logger
}

// NewReader creates a CSVReader with options.
func NewReader(opts ...Option) (*CSVReader, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	nulls := make(map[string]bool, len(o.nullMarkers))
	for _, m := range o.nullMarkers {
		nulls[m] = true
	}
	return &CSVReader{encoding: o.encoding, nulls: nulls, logger: o.logger}, nil
}

// Read opens path, decodes it and parses it as CSV. Open failures are
// reported as IOError; undecodable or malformed content as ParseError.
func (r *CSVReader) Read(ctx context.Context, path string) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	text, enc, err := r.decode(raw)
	if err != nil {
		return nil, errors.NewParseError("csv", path, err.Error(), err)
	}

	frame, err := r.parse(path, text)
	if err != nil {
		return nil, err
	}

	logger := r.logger
	if tagged, ok := logging.Lookup(ctx); ok {
		logger = tagged
	}
	logger.Debug().
		Str("path", path).
		Str("encoding", string(enc)).
		Int("columns", len(frame.Header)).
		Int("rows", frame.Len()).
		Msg("Read source file")
	return frame, nil
}

// IsNull reports whether a raw cell value counts as null.
func (r *CSVReader) IsNull(v string) bool {
	return v == "" || r.nulls[v]
}

func (r *CSVReader) decode(raw []byte) ([]byte, Encoding, error) {
	switch r.encoding {
	case EncodingCP949:
		out, err := decodeCP949(raw)
		return out, EncodingCP949, err
	case EncodingUTF8:
		raw = bytes.TrimPrefix(raw, utf8BOM)
		if !utf8.Valid(raw) {
			return nil, EncodingUTF8, fmt.Errorf("content is not valid UTF-8")
		}
		return raw, EncodingUTF8, nil
	default:
		if trimmed := bytes.TrimPrefix(raw, utf8BOM); utf8.Valid(trimmed) {
			return trimmed, EncodingUTF8, nil
		}
		out, err := decodeCP949(raw)
		return out, EncodingCP949, err
	}
}

func decodeCP949(raw []byte) ([]byte, error) {
	out, _, err := transform.Bytes(korean.EUCKR.NewDecoder(), raw)
	if err != nil {
		return nil, fmt.Errorf("decode cp949: %w", err)
	}
	return out, nil
}

func (r *CSVReader) parse(path string, text []byte) (*Frame, error) {
	cr := csv.NewReader(bytes.NewReader(text))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.NewParseError("csv", path, "no header row", nil)
	}
	if err != nil {
		return nil, csvError(path, err)
	}
	for i, h := range header {
		header[i] = norm.NFC.String(h)
	}

	frame := &Frame{Path: path, Header: header}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvError(path, err)
		}
		if len(record) > len(header) {
			line, _ := cr.FieldPos(0)
			return nil, &errors.ParseError{
				Format:  "csv",
				File:    path,
				Line:    line,
				Column:  len(header) + 1,
				Message: fmt.Sprintf("expected %d fields, saw %d", len(header), len(record)),
			}
		}
		row := make([]string, len(header))
		for i, v := range record {
			if !r.IsNull(v) {
				row[i] = v
			}
		}
		frame.Rows = append(frame.Rows, row)
	}
	return frame, nil
}

func csvError(path string, err error) error {
	var perr *csv.ParseError
	if stderrors.As(err, &perr) {
		return &errors.ParseError{
			Format:  "csv",
			File:    path,
			Line:    perr.Line,
			Column:  perr.Column,
			Message: perr.Err.Error(),
			Err:     err,
		}
	}
	return errors.WrapParse("csv", path, err)
}

// nopLogger is used when no logger is configured.
var nopLogger = logging.NewNopLogger()
