// Package fs provides the file-system adapters of policeoffice.
package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/policeoffice/policeoffice/internal/domain"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// DurableWriter implements ports.DocumentWriter on the local file system.
//
// JSON targets are read, merged and atomically replaced through a sibling
// temporary file. Other targets get one appended line per write.
// There is no locking: concurrent writers to the same path race and the
// last rename wins.
type DurableWriter struct {
	now    func() time.Time
	pid    int
	rename func(oldpath, newpath string) error
}

// NewDurableWriter creates a writer using the wall clock and the current pid
// for temporary file names.
func NewDurableWriter() *DurableWriter {
	return &DurableWriter{now: time.Now, pid: os.Getpid(), rename: os.Rename}
}

// Write merges data into the file at path.
//
// For .json paths it returns the resulting document as a generic JSON value.
// For any other path it appends data as a single line and returns true.
// Parent directories are created as needed. All file-system and parse
// errors are returned as-is; nothing is retried.
func (w *DurableWriter) Write(ctx context.Context, data any, path string) (any, error) {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return w.writeJSON(data, path)
	}
	if err := appendLine(data, path); err != nil {
		return nil, err
	}
	return true, nil
}

func (w *DurableWriter) writeJSON(data any, path string) (any, error) {
	incoming, err := domain.Normalize(data)
	if err != nil {
		return nil, fmt.Errorf("encode data: %w", err)
	}

	current, err := readDocument(path, incoming)
	if err != nil {
		return nil, err
	}

	next := current.Merge(incoming).Value()
	b, err := domain.EncodeJSON(next, "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	tmp, err := w.writeTemp(path, b)
	if err != nil {
		return nil, err
	}
	// Atomic rename; a crash before this point leaves the old document intact.
	if err := w.rename(tmp, path); err != nil {
		os.Remove(tmp)
		return nil, err
	}
	return next, nil
}

// writeTemp writes b to a new sibling file named
// <path>.tmp-<pid>-<unix millis>-<random> and returns its name.
// The random suffix keeps goroutines of one process from sharing a file.
func (w *DurableWriter) writeTemp(path string, b []byte) (string, error) {
	pattern := fmt.Sprintf("%s.tmp-%d-%d-*", filepath.Base(path), w.pid, w.now().UnixMilli())
	f, err := os.CreateTemp(filepath.Dir(path), pattern)
	if err != nil {
		return "", err
	}
	if _, err := f.Write(b); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Chmod(filePerm); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func readDocument(path string, incoming any) (domain.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.EmptyFor(incoming), nil
		}
		return domain.Document{}, err
	}
	doc, err := domain.ParseDocument(raw, incoming)
	if err != nil {
		return domain.Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func appendLine(data any, path string) error {
	var line []byte
	switch v := data.(type) {
	case string:
		line = []byte(v)
	case []byte:
		line = v
	default:
		b, err := domain.EncodeJSON(v, "")
		if err != nil {
			return fmt.Errorf("encode line: %w", err)
		}
		line = b
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerm)
	if err != nil {
		return err
	}
	buf := make([]byte, 0, len(line)+1)
	buf = append(append(buf, line...), '\n')
	if _, err := f.Write(buf); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
