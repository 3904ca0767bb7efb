package document

import (
	"fmt"
	"io"
	"os"

	"github.com/tidwall/gjson"
)

// JSONLoader reads merge documents in JSON form. The document root must
// be an object.
type JSONLoader struct {
	fs   FileSystem
	path string
}

// NewJSONLoader returns a loader bound to path on the host file system.
func NewJSONLoader(path string) *JSONLoader {
	return &JSONLoader{
		fs:   DefaultFS(),
		path: path,
	}
}

// NewJSONLoaderWithFS is NewJSONLoader over an arbitrary FileSystem.
func NewJSONLoaderWithFS(fs FileSystem, path string) *JSONLoader {
	return &JSONLoader{
		fs:   fs,
		path: path,
	}
}

// Load reads the document from the bound path.
func (l *JSONLoader) Load() (map[string]any, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads the document at path. A missing file is nil, nil.
func (l *JSONLoader) LoadFrom(path string) (map[string]any, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading document %s: %w", path, err)
	}

	return l.parse(path, data)
}

// LoadFromReader decodes a document from r.
func (l *JSONLoader) LoadFromReader(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	return l.parse("<reader>", data)
}

// parse validates and decodes JSON into a nested map.
func (l *JSONLoader) parse(path string, data []byte) (map[string]any, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{
			Path:    path,
			Message: "invalid JSON",
		}
	}

	parsed := gjson.ParseBytes(data)
	if !parsed.IsObject() {
		return nil, &ParseError{
			Path:    path,
			Message: fmt.Sprintf("document root must be an object, got %s", parsed.Type),
		}
	}

	doc, ok := parsed.Value().(map[string]any)
	if !ok {
		return nil, &ParseError{
			Path:    path,
			Message: "document root must be an object",
		}
	}
	return doc, nil
}
