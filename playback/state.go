// SPDX-License-Identifier: EPL-2.0

package playback

// Status is the result of a render call.
type Status int

const (
	// Continuing means the decoder has more audio for the subsong.
	Continuing Status = iota
	// Finished means the subsong ended; further chunks are empty.
	Finished
)

func (s Status) String() string {
	switch s {
	case Continuing:
		return "continuing"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// State is the position of a session in its lifecycle.
type State int

const (
	Unloaded State = iota
	Loaded
	SubsongActive
	Rendering
	Ended
)

func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loaded:
		return "loaded"
	case SubsongActive:
		return "subsong active"
	case Rendering:
		return "rendering"
	case Ended:
		return "finished"
	default:
		return "unknown"
	}
}
