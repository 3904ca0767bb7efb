package script

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/statepath"
)

// ErrRejected is wrapped by validation failures signaled from Lua.
var ErrRejected = errors.New("rejected by lua validator")

// Validator wraps a Lua function as a statepath.Validator.
//
// The function receives one table argument with the fields value, path, and
// pathId. It rejects the write by raising an error or by returning false; a
// second return value, when present, becomes the rejection message.
func Validator(L *lua.LState, fn *lua.LFunction) statepath.Validator {
	return func(v statepath.Validation) error {
		arg := L.NewTable()
		arg.RawSetString("value", ToLua(L, v.Value))
		arg.RawSetString("path", pathTable(L, v.Path))
		arg.RawSetString("pathId", lua.LString(v.PathID))

		if err := L.CallByParam(lua.P{
			Fn:      fn,
			NRet:    2,
			Protect: true,
		}, arg); err != nil {
			return fmt.Errorf("%w: %v", ErrRejected, err)
		}

		msg := L.Get(-1)
		verdict := L.Get(-2)
		L.Pop(2)

		if verdict == lua.LFalse {
			if s, ok := msg.(lua.LString); ok {
				return fmt.Errorf("%w: %s", ErrRejected, string(s))
			}
			return ErrRejected
		}
		return nil
	}
}

// pathTable renders a path as a sequence table of segments.
func pathTable(L *lua.LState, p []string) *lua.LTable {
	t := L.NewTable()
	for i, seg := range p {
		t.RawSetInt(i+1, lua.LString(seg))
	}
	return t
}
