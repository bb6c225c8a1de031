// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ik5/oplpbx"
	"github.com/ik5/oplpbx/export"
)

var renderCmd = &cobra.Command{
	Use:   "render <module> <out.wav|out.aiff>",
	Short: "Render a subsong to a WAV or AIFF file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := oplpbx.Open(args[0], renderOptions())
		if err != nil {
			return err
		}
		defer st.Close()

		start := time.Now()
		frames, err := export.WriteFile(args[1], st, config.rate, 2)
		if err != nil {
			return fmt.Errorf("%s: %w", args[1], err)
		}

		audio := time.Duration(frames) * time.Second / time.Duration(config.rate)
		logger.Info("rendered", "file", args[1], "frames", frames,
			"audio", audio.Round(time.Millisecond), "took", time.Since(start).Round(time.Millisecond))
		return nil
	},
}
