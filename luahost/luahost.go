// SPDX-License-Identifier: EPL-2.0

// Package luahost runs Lua scripts against a host.Host. Scripts see a
// global emu table whose functions mirror the host call surface:
//
//	emu.init(rate, dir, module)  -> status
//	emu.teardown()
//	emu.set_subsong(i)           -> status
//	emu.track_info()             -> table {title, author, description, type, speed, subsongs}
//	emu.compute()                -> 0 more audio, 1 ended
//	emu.buffer()                 -> PCM bytes as a string
//	emu.buffer_length()          -> bytes
//	emu.position()               -> ms
//	emu.seek(ms)
//	emu.max_position()           -> ms
//	emu.error()                  -> last error message or nil
package luahost

import (
	"context"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/ik5/oplpbx/host"
)

// Global is the name of the table scripts use.
const Global = "emu"

var trackInfoKeys = [6]string{"title", "author", "description", "type", "speed", "subsongs"}

// Register installs the emu table for h into L.
func Register(L *lua.LState, h *host.Host) {
	fns := map[string]lua.LGFunction{
		"init": func(L *lua.LState) int {
			L.Push(lua.LNumber(h.Init(L.CheckInt(1), L.CheckString(2), L.CheckString(3))))
			return 1
		},
		"teardown": func(L *lua.LState) int {
			h.Teardown()
			return 0
		},
		"set_subsong": func(L *lua.LState) int {
			L.Push(lua.LNumber(h.SetSubsong(L.CheckInt(1))))
			return 1
		},
		"track_info": func(L *lua.LState) int {
			info := h.TrackInfo()
			t := L.NewTable()
			for i, k := range trackInfoKeys {
				L.SetField(t, k, lua.LString(info[i]))
			}
			L.Push(t)
			return 1
		},
		"compute": func(L *lua.LState) int {
			L.Push(lua.LNumber(h.ComputeAudioSamples()))
			return 1
		},
		"buffer": func(L *lua.LState) int {
			L.Push(lua.LString(h.AudioBuffer()))
			return 1
		},
		"buffer_length": func(L *lua.LState) int {
			L.Push(lua.LNumber(h.AudioBufferLength()))
			return 1
		},
		"position": func(L *lua.LState) int {
			L.Push(lua.LNumber(h.CurrentPosition()))
			return 1
		},
		"seek": func(L *lua.LState) int {
			h.SeekPosition(L.CheckInt(1))
			return 0
		},
		"max_position": func(L *lua.LState) int {
			L.Push(lua.LNumber(h.MaxPosition()))
			return 1
		},
		"error": func(L *lua.LState) int {
			if err := h.Err(); err != nil {
				L.Push(lua.LString(err.Error()))
			} else {
				L.Push(lua.LNil)
			}
			return 1
		},
	}

	L.SetGlobal(Global, L.SetFuncs(L.NewTable(), fns))
}

// Run executes script with the emu table bound to h. The script stops
// when ctx is cancelled. The session is left as the script left it.
func Run(ctx context.Context, script string, h *host.Host) error {
	L := lua.NewState()
	defer L.Close()

	L.SetContext(ctx)
	Register(L, h)

	if err := L.DoString(script); err != nil {
		return fmt.Errorf("lua: %w", err)
	}
	return nil
}

// RunFile is Run for a script file.
func RunFile(ctx context.Context, path string, h *host.Host) error {
	L := lua.NewState()
	defer L.Close()

	L.SetContext(ctx)
	Register(L, h)

	if err := L.DoFile(path); err != nil {
		return fmt.Errorf("lua %s: %w", path, err)
	}
	return nil
}
