// Package statepath provides path-addressable access to an in-memory nested
// state tree, with per-path validation and listener dispatch on read, write,
// and value change.
//
// A Manager owns a backing tree of keyed maps, sequences, and scalar leaves.
// Callers address values with dot-separated paths (or segment slices) instead
// of manual traversal:
//
//	m, err := statepath.New(map[string]any{
//	    "editor": map[string]any{"tabSize": 4},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	m.AddEventListener("editor.tabSize", event.TypeChange, func(ev event.Event) {
//	    fmt.Println("tabSize:", ev.Previous, "->", ev.Value)
//	})
//
//	ok, err := m.Set("editor.tabSize", 8)
//
// Writes run validation first, then the assignment, then dispatch a set
// event, then a change event if the value actually changed. Writes never
// create intermediate containers; Merge decomposes a nested document into
// individual writes so every leaf runs the full pipeline.
//
// All operations are synchronous: listeners run inline on the calling
// goroutine, and the backing tree is single-owner. The listener registry is
// the only internally synchronized piece, which lets callbacks re-enter the
// manager.
//
// The document, script, and watcher subpackages layer optional collaborators
// on top: merge-document loading, Lua-scripted validators and listeners, and
// live reload from watched files.
package statepath
