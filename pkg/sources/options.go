package sources

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/haccpkit/haccp/pkg/constants"
	"github.com/haccpkit/haccp/pkg/errors"
)

// Encoding selects how file bytes are decoded.
type Encoding string

const (
	// EncodingAuto uses UTF-8 when the content is valid UTF-8 and CP949 otherwise.
	EncodingAuto Encoding = constants.DefaultEncoding
	// EncodingUTF8 requires UTF-8 content. A leading BOM is ignored.
	EncodingUTF8 Encoding = "utf-8"
	// EncodingCP949 decodes Korean Windows code page 949 (a superset of EUC-KR).
	EncodingCP949 Encoding = "cp949"
)

// ParseEncoding parses an encoding name. Common aliases are accepted.
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return EncodingAuto, nil
	case "utf-8", "utf8", "utf-8-sig":
		return EncodingUTF8, nil
	case "cp949", "euc-kr", "euckr", "ms949", "uhc":
		return EncodingCP949, nil
	}
	return "", errors.NewValidationError("encoding", name, "unsupported encoding")
}

// DefaultNullMarkers are the cell values read as null, matching the
// defaults of common dataframe CSV readers.
var DefaultNullMarkers = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

type options struct {
	encoding    Encoding
	nullMarkers []string
	logger      *zerolog.Logger
}

func defaultOptions() *options {
	return &options{
		encoding:    EncodingAuto,
		nullMarkers: DefaultNullMarkers,
		logger:      nopLogger,
	}
}

// Option is a function that configures a CSVReader.
type Option func(*options) error

func newOptions(opts ...Option) (*options, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithEncoding sets the text encoding.
func WithEncoding(enc Encoding) Option {
	return func(o *options) error {
		parsed, err := ParseEncoding(string(enc))
		if err != nil {
			return err
		}
		o.encoding = parsed
		return nil
	}
}

// WithNullMarkers replaces the null marker list. The empty string is always null.
func WithNullMarkers(markers ...string) Option {
	return func(o *options) error {
		o.nullMarkers = append([]string(nil), markers...)
		return nil
	}
}

// WithLogger sets the logger used for per-file debug output when the read
// context carries none.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return &errors.ValidationError{Field: "logger", Message: "cannot be nil"}
		}
		o.logger = logger
		return nil
	}
}
