// SPDX-License-Identifier: EPL-2.0

package host_test

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ik5/oplpbx/database"
	"github.com/ik5/oplpbx/host"
)

func Example() {
	dir, _ := os.MkdirTemp("", "oplpbx")
	defer os.RemoveAll(dir)

	// Two commands of a type-0 IMF file: key on, wait, key off.
	imf := []byte{0xb0, 0x32, 0x38, 0x00, 0xb0, 0x12, 0x00, 0x00}
	os.WriteFile(filepath.Join(dir, "beep.imf"), imf, 0o600)

	h := host.New(host.WithDatabase(database.New()))
	defer h.Teardown()

	if h.Init(44100, dir, "beep.imf") != host.OK {
		fmt.Println("init failed:", h.Err())
		return
	}
	h.SetSubsong(0)

	info := h.TrackInfo()
	fmt.Println("type:", info[3])
	fmt.Println("length:", h.MaxPosition(), "ms")

	for h.ComputeAudioSamples() == host.ComputeMore {
		// hand h.AudioBuffer() to the audio device
	}
	// The chunk in which the song ends is still complete.
	fmt.Println("last chunk:", h.AudioBufferLength(), "bytes")
	// Output:
	// type: IMF File Format
	// length: 100 ms
	// last chunk: 4096 bytes
}
