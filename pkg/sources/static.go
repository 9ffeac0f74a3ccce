package sources

import (
	"context"
	"os"

	"github.com/haccpkit/haccp/pkg/errors"
)

// Static is an in-memory Reader keyed by path. It is useful for callers that
// already hold the tables, and for tests.
type Static map[string]*Frame

// Read returns a copy of the frame registered under path.
func (s Static) Read(ctx context.Context, path string) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, ok := s[path]
	if !ok {
		return nil, errors.WrapIO("read", path, os.ErrNotExist)
	}
	out := &Frame{Path: path, Header: append([]string(nil), f.Header...)}
	out.Rows = make([][]string, len(f.Rows))
	for i, row := range f.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out, nil
}
