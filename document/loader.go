// Package document loads merge documents for a state manager and exports
// snapshots of a state tree.
//
// A merge document is a nested map parsed from JSON or TOML. Loading and
// applying are separate steps: a Loader produces the map, and Apply merges
// it into a manager so every leaf runs the manager's validation and event
// pipeline.
package document

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/dshills/statepath"
)

// Loader produces a merge document as a nested map. A missing source
// yields nil, nil rather than an error, so optional documents can be
// loaded unconditionally.
type Loader interface {
	Load() (map[string]any, error)
}

// FileLoader loads documents from a path, with the configured path as
// the default.
type FileLoader interface {
	Loader
	LoadFrom(path string) (map[string]any, error)
}

// ReaderLoader loads a document from a stream.
type ReaderLoader interface {
	LoadFromReader(r io.Reader) (map[string]any, error)
}

// FileSystem abstracts the file reads the loaders perform, so tests can
// substitute an in-memory implementation.
type FileSystem interface {
	fs.FS
	ReadFile(path string) ([]byte, error)
	Stat(path string) (fs.FileInfo, error)
}

// OSFS is the FileSystem backed by the host file system.
type OSFS struct{}

func (OSFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the host file system.
func DefaultFS() FileSystem {
	return OSFS{}
}

// ParseError reports a document that could not be decoded. Path names the
// source; Err carries the decoder's error when one exists.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Apply loads a document and merges it into the manager.
// A missing source (nil document) is a no-op.
func Apply(m *statepath.Manager, l Loader) error {
	doc, err := l.Load()
	if err != nil {
		return err
	}
	if doc == nil {
		return nil
	}
	return m.Merge(doc)
}
