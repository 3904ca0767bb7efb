package object

import (
	"reflect"

	"github.com/dshills/statepath/path"
)

// Flatten converts a nested tree into a single-level map keyed by dotted
// path. Sequences and scalars are leaves; only keyed maps are descended.
func Flatten(root map[string]any) map[string]any {
	result := make(map[string]any)
	flattenInto(root, "", result)
	return result
}

func flattenInto(data map[string]any, prefix string, result map[string]any) {
	for key, val := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := val.(map[string]any); ok {
			flattenInto(nested, fullKey, result)
		} else {
			result[fullKey] = val
		}
	}
}

// Unflatten converts a map with dotted keys back into a nested tree,
// creating intermediate maps as needed.
func Unflatten(flat map[string]any) map[string]any {
	result := make(map[string]any)
	for dotted, val := range flat {
		p := path.Parse(dotted)
		current := result
		for _, seg := range p[:len(p)-1] {
			next, ok := current[seg].(map[string]any)
			if !ok {
				next = make(map[string]any)
				current[seg] = next
			}
			current = next
		}
		current[p[len(p)-1]] = val
	}
	return result
}

// Diff returns the dotted leaf paths that differ between two trees.
func Diff(old, new map[string]any) (added, modified, removed []string) {
	oldFlat := Flatten(old)
	newFlat := Flatten(new)

	for p, newVal := range newFlat {
		if oldVal, exists := oldFlat[p]; exists {
			if !Equal(oldVal, newVal) {
				modified = append(modified, p)
			}
		} else {
			added = append(added, p)
		}
	}

	for p := range oldFlat {
		if _, exists := newFlat[p]; !exists {
			removed = append(removed, p)
		}
	}

	return added, modified, removed
}

// Equal compares two values structurally: maps and sequences element-wise,
// everything else with ==. This is the deep counterpart of Same.
func Equal(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}

	switch va := a.(type) {
	case map[string]any:
		vb, ok := b.(map[string]any)
		if !ok || len(va) != len(vb) {
			return false
		}
		for k, ev := range va {
			other, ok := vb[k]
			if !ok || !Equal(ev, other) {
				return false
			}
		}
		return true
	case []any:
		vb, ok := b.([]any)
		if !ok || len(va) != len(vb) {
			return false
		}
		for i := range va {
			if !Equal(va[i], vb[i]) {
				return false
			}
		}
		return true
	default:
		if !reflect.ValueOf(a).Comparable() || !reflect.ValueOf(b).Comparable() {
			return false
		}
		return a == b
	}
}
