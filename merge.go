package statepath

import (
	"sort"
	"strconv"

	"github.com/dshills/statepath/object"
	"github.com/dshills/statepath/path"
)

// Merge recursively merges doc into the backing tree. Every leaf assignment
// and container reset goes through Set, so each one independently runs
// validation and dispatches set/change events.
//
// The decomposition branches on the shape of each merge value:
//   - a sequence first resets the target path to an empty sequence
//     (replacing whatever was there), then merges each element by index;
//   - a keyed map resets the target path to an empty map only when the
//     current value there is not a map, then merges each key;
//   - nil leaves the target untouched (sparse merge);
//   - anything else is a scalar and is written directly.
//
// Map keys are visited in sorted order so event sequences are deterministic.
// A validation error aborts the merge where it happened; writes already
// committed remain.
func (m *Manager) Merge(doc map[string]any) error {
	if doc == nil {
		return ErrInvalidMerge
	}
	return m.mergeValue(path.Path{}, doc)
}

func (m *Manager) mergeValue(p path.Path, value any) error {
	switch v := value.(type) {
	case nil:
		return nil

	case []any:
		if _, err := m.Set(p, []any{}); err != nil {
			return err
		}
		for i, elem := range v {
			if err := m.mergeValue(p.Child(strconv.Itoa(i)), elem); err != nil {
				return err
			}
		}
		return nil

	case map[string]any:
		if !p.IsRoot() {
			if current, ok := object.Get(m.root, p); !ok || !isMap(current) {
				if _, err := m.Set(p, map[string]any{}); err != nil {
					return err
				}
			}
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := m.mergeValue(p.Child(k), v[k]); err != nil {
				return err
			}
		}
		return nil

	default:
		_, err := m.Set(p, v)
		return err
	}
}

func isMap(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}
