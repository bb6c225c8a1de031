// SPDX-License-Identifier: EPL-2.0

package reference

import "errors"

var (
	ErrNotWAV              = errors.New("not a WAV file")
	ErrNotAIFF             = errors.New("not an AIFF file")
	ErrUnsupportedBitDepth = errors.New("unsupported bit depth")
	ErrNoAudio             = errors.New("stream holds no audio")
)
