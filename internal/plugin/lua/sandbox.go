package lua

import (
	lua "github.com/yuin/gopher-lua"
)

// unsafeGlobals load code from files or strings and could reach
// outside the sandbox.
var unsafeGlobals = []string{"dofile", "loadfile", "load", "loadstring", "require", "module"}

// installSandbox removes the globals scripts must not use and routes
// print to nowhere, since the terminal belongs to the line editor.
func installSandbox(L *lua.LState) {
	for _, name := range unsafeGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	L.SetGlobal("print", L.NewFunction(func(*lua.LState) int { return 0 }))
}
