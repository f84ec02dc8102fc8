// Package lua runs key-binding scripts written in Lua.
//
// A script gets a global keyline table and registers callbacks with
// keyline.bind:
//
//	keyline.bind("\\C-o", function(ed)
//	    ed.insert(" | less")
//	end)
//
//	keyline.bind("<F2>", function(ed)
//	    ed.set_buffer(string.upper(ed.buffer()))
//	end, "vi-insert")
//
// The callback receives an editor table with buffer(), cursor(),
// insert(s), set_buffer(s) and set_cursor(n). keyline.macro binds a
// key to literal text and keyline.op binds it to a named operation.
//
// Scripts run in a sandbox: only the base, table, string and math
// libraries are opened, and dofile, loadfile and load are removed.
// Every call into Lua is bounded by an execution timeout.
package lua
