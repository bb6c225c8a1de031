// SPDX-License-Identifier: EPL-2.0

// Package playback is the chunked playback engine: a Session owns a
// loaded module, the synthesizer it drives and a fixed sample buffer, and
// exposes the transport controls a host needs.
//
// # Lifecycle
//
//	s := playback.NewSession(playback.Options{})
//	if err := s.Init(44100, "/music", "keen4.imf"); err != nil {
//	    // errors.Is(err, playback.ErrLoad)
//	}
//	defer s.Teardown()
//
//	total, _ := s.SelectSubsong(0)
//	for {
//	    st, err := s.RenderChunk()
//	    if err != nil {
//	        break
//	    }
//	    consume(s.Buffer()) // valid until the next RenderChunk
//	    if st == playback.Finished {
//	        break
//	    }
//	}
//
// # Song Length
//
// Measuring a subsong is destructive to the decoder, so the length is only
// available as the result of SelectSubsong and through MaxPositionMs,
// which returns the value cached at selection time. Nothing else in the
// package queries it.
//
// # Positions
//
// PositionMs and Seek convert between samples and milliseconds with
// truncating integer arithmetic, dividing before multiplying:
//
//	position = samples / sampleRate * 1000
//	samples  = ms / 1000 * sampleRate
//
// The two conversions are not inverses. At 44100 Hz, Seek(1500) stores
// 44100 samples and PositionMs then reports 1000.
//
// # Concurrency
//
// A Session is not safe for concurrent use. The caller must consume the
// buffer before the next RenderChunk overwrites it.
package playback
