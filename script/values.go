// Package script exposes state validation and event listening to Lua.
//
// Validators and listeners are ordinary Lua functions wrapped as the
// manager's callback types. Everything runs synchronously on the caller's
// goroutine against a single LState, matching the manager's single-owner
// execution model; an LState must not be shared across goroutines.
package script

import (
	lua "github.com/yuin/gopher-lua"
)

// FromLua converts a Lua value to a Go value using the canonical tree
// shapes: tables become map[string]any or []any, numbers become int64 when
// integral and float64 otherwise.
func FromLua(lv lua.LValue) any {
	return fromLua(lv, make(map[*lua.LTable]bool))
}

func fromLua(lv lua.LValue, visited map[*lua.LTable]bool) any {
	if lv == nil {
		return nil
	}

	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil // Break circular reference
		}
		visited[v] = true
		return tableToGo(v, visited)
	case *lua.LNilType:
		return nil
	case *lua.LUserData:
		return v.Value
	default:
		return nil
	}
}

// tableToGo converts a Lua table to either a map or a sequence.
func tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	// A table is a sequence when its keys are exactly 1..n.
	isArray := true
	maxN := 0
	count := 0
	t.ForEach(func(k, _ lua.LValue) {
		count++
		kn, ok := k.(lua.LNumber)
		if !ok {
			isArray = false
			return
		}
		n := int(kn)
		if float64(n) != float64(kn) || n < 1 {
			isArray = false
			return
		}
		if n > maxN {
			maxN = n
		}
	})
	if count != maxN {
		isArray = false
	}

	if isArray && maxN > 0 {
		arr := make([]any, maxN)
		for i := 1; i <= maxN; i++ {
			arr[i-1] = fromLua(t.RawGetInt(i), visited)
		}
		return arr
	}

	m := make(map[string]any)
	t.ForEach(func(k, v lua.LValue) {
		m[k.String()] = fromLua(v, visited)
	})
	return m
}

// ToLua converts a Go value into a Lua value.
// Maps and sequences become tables; unsupported types become nil.
func ToLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case string:
		return lua.LString(val)
	case int:
		return lua.LNumber(val)
	case int32:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float32:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case map[string]any:
		t := L.NewTable()
		for k, elem := range val {
			t.RawSetString(k, ToLua(L, elem))
		}
		return t
	case []any:
		t := L.NewTable()
		for i, elem := range val {
			t.RawSetInt(i+1, ToLua(L, elem))
		}
		return t
	default:
		return lua.LNil
	}
}
