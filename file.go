package factmerge

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/agentstation/factmerge/pkg/errors"
)

// File is an input document. Open is called once, from the goroutine that
// extracts the file.
type File struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// FromPath returns a File read from disk. Its name is the base name of path.
func FromPath(path string) File {
	return File{
		Name: filepath.Base(path),
		Open: func() (io.ReadCloser, error) {
			f, err := os.Open(path) //nolint:gosec // path is supplied by the operator
			if err != nil {
				return nil, errors.WrapIO("open", path, err)
			}
			return f, nil
		},
	}
}

// FromBytes returns an in-memory File.
func FromBytes(name string, data []byte) File {
	return File{
		Name: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// sizeLimitedReader fails once more than max bytes have been read.
type sizeLimitedReader struct {
	r    io.Reader
	name string
	max  int64
	read int64
}

func (l *sizeLimitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.read += int64(n)
	if l.read > l.max {
		return n, &errors.ValidationError{
			Field:   "file",
			Value:   l.name,
			Message: "exceeds the maximum file size",
		}
	}
	return n, err
}
