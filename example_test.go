// SPDX-License-Identifier: EPL-2.0

package oplpbx_test

import (
	"fmt"

	"github.com/ik5/oplpbx"
	"github.com/ik5/oplpbx/database"
	"github.com/ik5/oplpbx/internal/audiotest"
	"github.com/ik5/oplpbx/opl"
	"github.com/ik5/oplpbx/playback"
)

// scripted renders a ten tick song at 50 Hz on a chip that outputs a
// constant level, instead of loading a file.
func scripted() playback.Options {
	return playback.Options{
		Opener: func(string, opl.Chip, *database.Database) (playback.Decoder, error) {
			return audiotest.NewDecoder(nil, 10), nil
		},
		NewSynth: func(int) opl.Chip { return audiotest.NewChip(true, 1000, nil) },
		Database: database.New,
	}
}

// Example_renderStereo16 renders a whole subsong into memory. The song
// ends during the eighth chunk, which is still delivered in full.
func Example_renderStereo16() {
	pcm, rate, err := oplpbx.RenderStereo16("song.imf", oplpbx.RenderOptions{Playback: scripted()})
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("%d frames at %d Hz\n", len(pcm)/2, rate)
	fmt.Printf("chunks: %d\n", len(pcm)/2/playback.BufSize)
	// Output:
	// 8192 frames at 44100 Hz
	// chunks: 8
}

// Example_limit cuts a render short.
func Example_limit() {
	opts := oplpbx.RenderOptions{LimitMs: 50, Playback: scripted()}
	pcm, _, err := oplpbx.RenderStereo16("song.imf", opts)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("%d frames\n", len(pcm)/2)
	// Output: 2205 frames
}
