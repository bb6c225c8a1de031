// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ik5/oplpbx/database"
	"github.com/ik5/oplpbx/host"
)

var infoCmd = &cobra.Command{
	Use:   "info <module>...",
	Short: "Show module metadata and subsong length",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h := host.New(host.WithOptions(playbackOptions()))
		defer h.Teardown()

		for _, path := range args {
			out, err := describe(h, path)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
		}
		return nil
	},
}

func describe(h *host.Host, path string) (string, error) {
	if h.Init(config.rate, filepath.Dir(path), filepath.Base(path)) != host.OK {
		return "", h.Err()
	}
	if h.SetSubsong(config.subsong) != host.OK {
		return "", h.Err()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read module: %w", err)
	}

	info := h.TrackInfo()
	length := time.Duration(h.MaxPosition()) * time.Millisecond
	return report(filepath.Base(path),
		field{"title", info[0]},
		field{"author", info[1]},
		field{"description", info[2]},
		field{"type", info[3]},
		field{"speed", info[4]},
		field{"subsongs", info[5]},
		field{"subsong", config.subsong},
		field{"length", length},
		field{"key", database.KeyOf(data)},
	), nil
}
