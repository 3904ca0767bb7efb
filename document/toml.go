package document

import (
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// TOMLLoader reads merge documents in TOML form.
type TOMLLoader struct {
	fs   FileSystem
	path string
}

// NewTOMLLoader returns a loader bound to path on the host file system.
func NewTOMLLoader(path string) *TOMLLoader {
	return &TOMLLoader{
		fs:   DefaultFS(),
		path: path,
	}
}

// NewTOMLLoaderWithFS is NewTOMLLoader over an arbitrary FileSystem.
func NewTOMLLoaderWithFS(fs FileSystem, path string) *TOMLLoader {
	return &TOMLLoader{
		fs:   fs,
		path: path,
	}
}

// Load reads the document from the bound path.
func (l *TOMLLoader) Load() (map[string]any, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads the document at path. A missing file is nil, nil.
func (l *TOMLLoader) LoadFrom(path string) (map[string]any, error) {
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
func (l *TOMLLoader) LoadFromReader(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	return l.parse("<reader>", data)
}

// parse decodes TOML into a nested map.
func (l *TOMLLoader) parse(path string, data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{
			Path:    path,
			Message: err.Error(),
			Err:     err,
		}
	}
	return normalizeTree(doc).(map[string]any), nil
}

// normalizeTree rewrites decoded containers into the canonical tree shapes
// (map[string]any and []any) the accessor traverses. go-toml decodes
// homogeneous arrays as typed slices and nested tables as map[string]any
// already, but array tables arrive as []map[string]any.
func normalizeTree(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, child := range val {
			val[k] = normalizeTree(child)
		}
		return val
	case []any:
		for i, child := range val {
			val[i] = normalizeTree(child)
		}
		return val
	case []map[string]any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = normalizeTree(child)
		}
		return out
	default:
		return v
	}
}
