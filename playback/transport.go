// SPDX-License-Identifier: EPL-2.0

package playback

import "fmt"

// SelectSubsong rewinds to subsong i, resets the position and returns the
// subsong length in milliseconds. This is the only place the length is
// measured; MaxPositionMs returns the cached value afterwards. Calling it
// again restarts the subsong.
func (s *Session) SelectSubsong(i int) (uint64, error) {
	if s.decoder == nil {
		return 0, ErrNotLoaded
	}
	if n := s.decoder.Info().Subsongs; i < 0 || (n > 0 && i >= n) {
		return 0, fmt.Errorf("%w: %d of %d", ErrInvalidSubsong, i, n)
	}

	s.decoder.Rewind(i)
	s.subsong = i
	s.playTime = 0
	s.minicnt = 0
	s.totalMs = s.decoder.SongLength(i)
	s.state = SubsongActive

	s.log.Debug("subsong selected", "subsong", i, "length_ms", s.totalMs)
	return s.totalMs, nil
}

// PositionMs returns the elapsed time of the subsong, computed as
// playTime / sampleRate * 1000 in truncating integer arithmetic.
func (s *Session) PositionMs() (int, error) {
	if s.decoder == nil {
		return 0, ErrNotLoaded
	}
	return int(s.playTime / uint64(s.sampleRate) * 1000), nil
}

// Seek moves playback to ms. The position becomes ms / 1000 * sampleRate
// frames, truncated, and the decoder seeks to ms. Seeking does not revive
// a finished subsong. The tick phase restarts at the new position.
func (s *Session) Seek(ms int) error {
	if s.decoder == nil {
		return ErrNotLoaded
	}
	if ms < 0 {
		return fmt.Errorf("%w: %d ms", ErrInvalidPosition, ms)
	}

	s.playTime = uint64(ms / 1000 * s.sampleRate)
	s.minicnt = 0
	s.decoder.Seek(uint64(ms))
	s.log.Debug("seek", "ms", ms, "frames", s.playTime)
	return nil
}

// MaxPositionMs returns the length cached by the last SelectSubsong.
func (s *Session) MaxPositionMs() (uint64, error) {
	if s.decoder == nil {
		return 0, ErrNotLoaded
	}
	return s.totalMs, nil
}
