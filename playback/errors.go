// SPDX-License-Identifier: EPL-2.0

package playback

import "errors"

var (
	// ErrLoad is returned by Init when the module could not be opened or
	// recognised. The underlying cause is wrapped alongside it.
	ErrLoad              = errors.New("failed to load module")
	ErrNotLoaded         = errors.New("no module loaded")
	ErrInvalidSubsong    = errors.New("subsong index out of range")
	ErrNoSubsong         = errors.New("no subsong selected")
	ErrInvalidPosition   = errors.New("invalid seek position")
	ErrInvalidSampleRate = errors.New("invalid sample rate")
)
