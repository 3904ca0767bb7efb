package document

import (
	"fmt"
	"sort"

	"github.com/tidwall/sjson"

	"github.com/dshills/statepath/object"
)

// Snapshot renders a state tree as a JSON document. Leaves are written in
// sorted path order, so equal trees always produce identical bytes.
//
// Dotted path keys are the write addresses, so a map key containing a
// literal dot lands at the nested location instead; that matches the path
// identity ambiguity the rest of the system accepts.
func Snapshot(root map[string]any) ([]byte, error) {
	flat := object.Flatten(root)

	paths := make([]string, 0, len(flat))
	for p := range flat {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	out := []byte("{}")
	var err error
	for _, p := range paths {
		out, err = sjson.SetBytes(out, p, flat[p])
		if err != nil {
			return nil, fmt.Errorf("writing snapshot leaf %s: %w", p, err)
		}
	}
	return out, nil
}
