// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/spf13/cobra"

	"github.com/ik5/oplpbx"
)

var playCmd = &cobra.Command{
	Use:   "play <module>",
	Short: "Play a subsong on the default audio device",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return play(ctx, args[0])
	},
}

func play(ctx context.Context, path string) error {
	st, err := oplpbx.Open(path, renderOptions())
	if err != nil {
		return err
	}
	defer st.Close()

	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   config.rate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return fmt.Errorf("audio device: %w", err)
	}
	<-ready

	// The player pulls from the stream on its own goroutine; nothing else
	// touches the session until it stops.
	player := otoCtx.NewPlayer(st)
	defer player.Close()

	logger.Info("playing", "module", path, "subsong", config.subsong,
		"length", time.Duration(st.LengthMs)*time.Millisecond)
	player.Play()

	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			logger.Info("stopped")
			return nil
		case <-tick.C:
		}
	}
	if err := player.Err(); err != nil {
		return fmt.Errorf("playback: %w", err)
	}
	logger.Info("finished")
	return nil
}
