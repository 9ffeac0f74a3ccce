package report

import (
	"fmt"
	"io"
	"strings"

	md "github.com/nao1215/markdown"
)

// MarkdownBuilder wraps the markdown package with the blocks a report uses.
type MarkdownBuilder struct {
	md        *md.Markdown
	writer    io.Writer
	buffer    *strings.Builder
	useBuffer bool
}

// NewMarkdownBuilder creates a builder writing to w.
func NewMarkdownBuilder(w io.Writer) *MarkdownBuilder {
	return &MarkdownBuilder{
		md:     md.NewMarkdown(w),
		writer: w,
	}
}

// NewMarkdownBuilderBuffer creates a builder with an internal buffer.
func NewMarkdownBuilderBuffer() *MarkdownBuilder {
	buffer := &strings.Builder{}
	return &MarkdownBuilder{
		md:        md.NewMarkdown(buffer),
		writer:    buffer,
		buffer:    buffer,
		useBuffer: true,
	}
}

// String returns the buffered content.
func (m *MarkdownBuilder) String() string {
	if m.useBuffer && m.buffer != nil {
		return m.buffer.String()
	}
	return ""
}

// H1 adds a level 1 header.
func (m *MarkdownBuilder) H1(text string) *MarkdownBuilder {
	m.md.H1(text)
	return m
}

// H2 adds a level 2 header.
func (m *MarkdownBuilder) H2(text string) *MarkdownBuilder {
	m.md.H2(text)
	return m
}

// PlainText adds a paragraph.
func (m *MarkdownBuilder) PlainText(text string) *MarkdownBuilder {
	m.md.PlainText(text)
	return m
}

// PlainTextf adds a formatted paragraph.
func (m *MarkdownBuilder) PlainTextf(format string, args ...any) *MarkdownBuilder {
	m.md.PlainTextf(format, args...)
	return m
}

// LF adds a line break.
func (m *MarkdownBuilder) LF() *MarkdownBuilder {
	m.md.LF()
	return m
}

// BulletList adds a bullet list.
func (m *MarkdownBuilder) BulletList(items ...string) *MarkdownBuilder {
	m.md.BulletList(items...)
	return m
}

// Table adds a table.
func (m *MarkdownBuilder) Table(header []string, rows [][]string) *MarkdownBuilder {
	m.md.Table(md.TableSet{Header: header, Rows: rows})
	return m
}

// KeyValue adds a bold key followed by its value.
func (m *MarkdownBuilder) KeyValue(key string, value any) *MarkdownBuilder {
	m.md.PlainTextf("%s: %v", md.Bold(key), value)
	return m
}

// Alert adds a GitHub-style alert.
func (m *MarkdownBuilder) Alert(alertType string, text string) *MarkdownBuilder {
	alert := fmt.Sprintf("> [!%s]\n> %s", strings.ToUpper(alertType), text)
	m.md.PlainText(alert).LF()
	return m
}

// Build writes the document.
func (m *MarkdownBuilder) Build() error {
	return m.md.Build()
}
