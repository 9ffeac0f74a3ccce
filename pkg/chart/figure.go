package chart

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/haccpkit/haccp/pkg/constants"
	"github.com/haccpkit/haccp/pkg/errors"
)

// Format is an output image format.
type Format string

// Supported formats.
const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
	FormatPDF Format = "pdf"
)

// ParseFormat parses a format name, accepting a leading dot.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(s, "."))); f {
	case FormatPNG, FormatSVG, FormatPDF:
		return f, nil
	default:
		return "", errors.NewValidationError("format", s, "expected png, svg or pdf")
	}
}

// FormatFromPath infers the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Figure is a rendered chart ready to be encoded.
type Figure interface {
	Render(w io.Writer, format Format) error
}

// Bytes renders fig into memory.
func Bytes(fig Figure, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := fig.Render(&buf, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save renders fig to path, choosing the format from the extension and
// creating parent directories as needed.
func Save(fig Figure, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := Bytes(fig, format)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
