package object

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/statepath/path"
)

func testTree() map[string]any {
	return map[string]any{
		"editor": map[string]any{
			"tabSize":      4,
			"insertSpaces": true,
			"rulers":       []any{80, 120},
		},
		"ui": map[string]any{
			"theme": "dark",
			"nested": map[string]any{
				"deep": "value",
			},
		},
		"zero":  0,
		"empty": "",
		"off":   false,
	}
}

func TestGet(t *testing.T) {
	root := testTree()

	tests := []struct {
		path     string
		expected any
		found    bool
	}{
		{"editor.tabSize", 4, true},
		{"editor.insertSpaces", true, true},
		{"ui.theme", "dark", true},
		{"ui.nested.deep", "value", true},
		{"editor.rulers.0", 80, true},
		{"editor.rulers.1", 120, true},
		{"zero", 0, true},
		{"empty", "", true},
		{"off", false, true},
		{"missing", nil, false},
		{"editor.missing", nil, false},
		{"editor.tabSize.deeper", nil, false},
		{"editor.rulers.2", nil, false},
		{"editor.rulers.-1", nil, false},
		{"editor.rulers.x", nil, false},
		{"ui.theme.0", nil, false},
	}

	for _, tt := range tests {
		val, found := Get(root, path.Parse(tt.path))
		if found != tt.found {
			t.Errorf("Get(%q): found = %v, want %v", tt.path, found, tt.found)
		}
		if found && val != tt.expected {
			t.Errorf("Get(%q) = %v, want %v", tt.path, val, tt.expected)
		}
	}
}

func TestGetEmptyPathReturnsRoot(t *testing.T) {
	root := testTree()
	val, found := Get(root, path.Path{})
	if !found {
		t.Fatal("Get on empty path should resolve")
	}
	if !Same(val, root) {
		t.Error("Get on empty path should return the root itself")
	}
}

func TestGetDefault(t *testing.T) {
	root := map[string]any{
		"present": "value",
		"null":    nil,
	}

	tests := []struct {
		path     string
		def      any
		expected any
	}{
		{"present", "fallback", "value"},
		{"missing", "fallback", "fallback"},
		{"null", "fallback", nil}, // stored nil is present, not missing
	}

	for _, tt := range tests {
		if got := GetDefault(root, path.Parse(tt.path), tt.def); got != tt.expected {
			t.Errorf("GetDefault(%q) = %v, want %v", tt.path, got, tt.expected)
		}
	}
}

func TestSet(t *testing.T) {
	tests := []struct {
		name  string
		root  map[string]any
		path  string
		value any
		ok    bool
	}{
		{
			name:  "top level",
			root:  map[string]any{},
			path:  "a",
			value: 1,
			ok:    true,
		},
		{
			name:  "nested existing",
			root:  map[string]any{"a": map[string]any{"b": 1}},
			path:  "a.b",
			value: 2,
			ok:    true,
		},
		{
			name:  "missing intermediate",
			root:  map[string]any{},
			path:  "a.b",
			value: 1,
			ok:    false,
		},
		{
			name:  "scalar intermediate",
			root:  map[string]any{"a": 1},
			path:  "a.b",
			value: 2,
			ok:    false,
		},
		{
			name:  "nil intermediate",
			root:  map[string]any{"a": nil},
			path:  "a.b",
			value: 2,
			ok:    false,
		},
		{
			name:  "sequence element",
			root:  map[string]any{"a": []any{1, 2}},
			path:  "a.1",
			value: 3,
			ok:    true,
		},
		{
			name:  "sequence out of range intermediate",
			root:  map[string]any{"a": []any{map[string]any{}}},
			path:  "a.1.b",
			value: 3,
			ok:    false,
		},
		{
			name:  "bad index",
			root:  map[string]any{"a": []any{1}},
			path:  "a.x",
			value: 3,
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok := Set(tt.root, path.Parse(tt.path), tt.value)
			if ok != tt.ok {
				t.Fatalf("Set(%q) = %v, want %v", tt.path, ok, tt.ok)
			}
			if !ok {
				return
			}
			got, found := Get(tt.root, path.Parse(tt.path))
			if !found {
				t.Fatalf("Get(%q) after Set did not resolve", tt.path)
			}
			if got != tt.value {
				t.Errorf("Get(%q) = %v, want %v", tt.path, got, tt.value)
			}
		})
	}
}

func TestSetEmptyPathFails(t *testing.T) {
	if Set(map[string]any{}, path.Path{}, 1) {
		t.Error("Set on empty path should fail")
	}
}

func TestSetFailureDoesNotMutate(t *testing.T) {
	root := map[string]any{"a": map[string]any{"b": 1}}

	if Set(root, path.Parse("a.x.y"), 2) {
		t.Fatal("Set through missing intermediate should fail")
	}

	want := map[string]any{"a": map[string]any{"b": 1}}
	if diff := cmp.Diff(want, root); diff != "" {
		t.Errorf("failed Set mutated the tree (-want +got):\n%s", diff)
	}
}

func TestSetGrowsSequence(t *testing.T) {
	root := map[string]any{"a": []any{}}

	for i, v := range []any{"x", "y", "z"} {
		p := path.Path{"a", strconv.Itoa(i)}
		if !Set(root, p, v) {
			t.Fatalf("Set(%v) failed", p)
		}
	}

	want := []any{"x", "y", "z"}
	if diff := cmp.Diff(want, root["a"]); diff != "" {
		t.Errorf("sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestSetGrowsSequenceWithGap(t *testing.T) {
	root := map[string]any{"a": []any{"x"}}

	if !Set(root, path.Parse("a.3"), "w") {
		t.Fatal("Set beyond length should extend the sequence")
	}

	want := []any{"x", nil, nil, "w"}
	if diff := cmp.Diff(want, root["a"]); diff != "" {
		t.Errorf("sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestSetDeepSequenceWriteback(t *testing.T) {
	// Growth inside a nested sequence must be visible through the parent.
	root := map[string]any{
		"a": map[string]any{"list": []any{}},
	}

	if !Set(root, path.Parse("a.list.0"), 1) {
		t.Fatal("Set failed")
	}

	got, found := Get(root, path.Parse("a.list.0"))
	if !found || got != 1 {
		t.Errorf("Get(a.list.0) = %v, %v; want 1, true", got, found)
	}
}

func TestSame(t *testing.T) {
	m := map[string]any{"k": 1}
	s := []any{1, 2}
	fn := func(any) {}

	tests := []struct {
		name     string
		a, b     any
		expected bool
	}{
		{"equal ints", 1, 1, true},
		{"different ints", 1, 2, false},
		{"equal strings", "a", "a", true},
		{"int vs string", 1, "1", false},
		{"both nil", nil, nil, true},
		{"nil vs value", nil, 0, false},
		{"same map", m, m, true},
		{"distinct equal maps", map[string]any{"k": 1}, map[string]any{"k": 1}, false},
		{"same slice", s, s, true},
		{"distinct equal slices", []any{1, 2}, []any{1, 2}, false},
		{"distinct empty slices", []any{}, []any{}, false},
		{"empty vs non-empty slice", []any{}, []any{1}, false},
		{"same func", fn, fn, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Same(tt.a, tt.b); got != tt.expected {
				t.Errorf("Same(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}
