// SPDX-License-Identifier: EPL-2.0

package main

import (
	"github.com/spf13/cobra"

	"github.com/ik5/oplpbx/host"
	"github.com/ik5/oplpbx/luahost"
)

var scriptCmd = &cobra.Command{
	Use:   "script <file.lua>",
	Short: "Drive the host API from a Lua script",
	Long: `script runs a Lua file with the global table "emu" bound to a fresh
host: emu.init(rate, dir, file), emu.set_subsong(n), emu.compute(),
emu.position(), emu.seek(ms), emu.track_info() and friends.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h := host.New(host.WithOptions(playbackOptions()))
		defer h.Teardown()
		return luahost.RunFile(cmd.Context(), args[0], h)
	},
}
