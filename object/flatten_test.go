package object

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFlatten(t *testing.T) {
	root := map[string]any{
		"editor": map[string]any{
			"tabSize": 4,
			"rulers":  []any{80, 120},
		},
		"theme": "dark",
	}

	want := map[string]any{
		"editor.tabSize": 4,
		"editor.rulers":  []any{80, 120},
		"theme":          "dark",
	}

	if diff := cmp.Diff(want, Flatten(root)); diff != "" {
		t.Errorf("Flatten mismatch (-want +got):\n%s", diff)
	}
}

func TestUnflatten(t *testing.T) {
	flat := map[string]any{
		"editor.tabSize": 4,
		"editor.theme":   "dark",
		"top":            true,
	}

	want := map[string]any{
		"editor": map[string]any{
			"tabSize": 4,
			"theme":   "dark",
		},
		"top": true,
	}

	if diff := cmp.Diff(want, Unflatten(flat)); diff != "" {
		t.Errorf("Unflatten mismatch (-want +got):\n%s", diff)
	}
}

func TestFlattenUnflattenRoundTrip(t *testing.T) {
	root := map[string]any{
		"a": map[string]any{
			"b": map[string]any{"c": 1},
			"d": "x",
		},
		"e": []any{1, 2},
	}

	if diff := cmp.Diff(root, Unflatten(Flatten(root))); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDiff(t *testing.T) {
	old := map[string]any{
		"keep":   1,
		"change": "a",
		"drop":   true,
		"nested": map[string]any{"same": 1, "gone": 2},
	}
	updated := map[string]any{
		"keep":   1,
		"change": "b",
		"add":    "new",
		"nested": map[string]any{"same": 1},
	}

	added, modified, removed := Diff(old, updated)
	sort.Strings(added)
	sort.Strings(modified)
	sort.Strings(removed)

	if diff := cmp.Diff([]string{"add"}, added); diff != "" {
		t.Errorf("added mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"change"}, modified); diff != "" {
		t.Errorf("modified mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"drop", "nested.gone"}, removed); diff != "" {
		t.Errorf("removed mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffWithUncomparableLeaves(t *testing.T) {
	// Leaves that == cannot compare must register as modified, not panic.
	old := map[string]any{"fn": func() {}}
	updated := map[string]any{"fn": func() {}}

	_, modified, _ := Diff(old, updated)
	if diff := cmp.Diff([]string{"fn"}, modified); diff != "" {
		t.Errorf("modified mismatch (-want +got):\n%s", diff)
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name     string
		a, b     any
		expected bool
	}{
		{"scalars", 1, 1, true},
		{"nested maps", map[string]any{"a": []any{1}}, map[string]any{"a": []any{1}}, true},
		{"length mismatch", []any{1}, []any{1, 2}, false},
		{"value mismatch", map[string]any{"a": 1}, map[string]any{"a": 2}, false},
		{"map vs slice", map[string]any{}, []any{}, false},
		{"nils", nil, nil, true},
		{"nil vs map", nil, map[string]any{}, false},
		{"uncomparable leaves", []string{"a"}, []string{"a"}, false},
		{"func leaves", func() {}, func() {}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.expected {
				t.Errorf("Equal = %v, want %v", got, tt.expected)
			}
		})
	}
}
