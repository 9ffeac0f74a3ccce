package export

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/haccpkit/haccp/pkg/errors"
	"github.com/haccpkit/haccp/pkg/records"
)

type csvOptions struct {
	bom bool
}

// CSVOption configures CSV output.
type CSVOption func(*csvOptions)

// WithBOM prefixes the output with a UTF-8 byte order mark.
func WithBOM(enabled bool) CSVOption {
	return func(o *csvOptions) {
		o.bom = enabled
	}
}

// WriteCSV writes the header and every row of t to w.
func WriteCSV(w io.Writer, t records.Table, opts ...CSVOption) error {
	var o csvOptions
	for _, opt := range opts {
		opt(&o)
	}

	if o.bom {
		if _, err := w.Write([]byte("\xEF\xBB\xBF")); err != nil {
			return err
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns()); err != nil {
		return err
	}
	return cw.WriteAll(t.Rows())
}

// SaveCSV writes t to a new file at path.
func SaveCSV(path string, t records.Table, opts ...CSVOption) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}

	if err := WriteCSV(file, t, opts...); err != nil {
		_ = file.Close()
		return errors.WrapIO("write", path, err)
	}
	if err := file.Close(); err != nil {
		return errors.WrapIO("close", path, err)
	}
	return nil
}
