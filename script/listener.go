package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/statepath/event"
)

// ErrorHandler receives errors raised by a Lua listener.
type ErrorHandler func(error)

// Callback wraps a Lua function as an event.Callback.
//
// The function receives one table argument with the fields type, path,
// pathId, value, and previous. Event callbacks return nothing, so a Lua
// error cannot propagate to the triggering operation; it is delivered to
// onError instead (or dropped when onError is nil).
func Callback(L *lua.LState, fn *lua.LFunction, onError ErrorHandler) event.Callback {
	return func(ev event.Event) {
		arg := L.NewTable()
		arg.RawSetString("type", lua.LString(ev.Type.String()))
		arg.RawSetString("path", pathTable(L, ev.Path))
		arg.RawSetString("pathId", lua.LString(ev.Path.ID()))
		arg.RawSetString("value", ToLua(L, ev.Value))
		arg.RawSetString("previous", ToLua(L, ev.Previous))

		err := L.CallByParam(lua.P{
			Fn:      fn,
			NRet:    0,
			Protect: true,
		}, arg)
		if err != nil && onError != nil {
			onError(err)
		}
	}
}

// Global looks up a global Lua function by name, returning nil when the
// global is absent or not a function.
func Global(L *lua.LState, name string) *lua.LFunction {
	fn, ok := L.GetGlobal(name).(*lua.LFunction)
	if !ok {
		return nil
	}
	return fn
}
