// SPDX-License-Identifier: EPL-2.0

// Package audio is the float PCM pipeline used around the playback
// engine: rendered chunks enter it through PCM16Source, are converted
// with Resampler and MonoMixer, and reference recordings enter it through
// decoders registered in a Registry.
//
// # Source Interface
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Samples are interleaved float32 values in [-1, 1]. A read returning
// io.EOF ends the stream; it may still carry data.
//
// # From a Session
//
//	r := playback.NewReader(session)
//	src := audio.NewPCM16Source(r, session.SampleRate(), 2)
//	mono := audio.NewMonoMixer(audio.NewResampler(src, 16000))
//	pcm, err := audio.ReadAllInt16(mono, 4096)
//
// # Resampling
//
// Resampler uses Catmull-Rom interpolation over a four frame window. When
// the target rate is lower than the source rate the input is low-pass
// filtered first to reduce aliasing.
//
// # Decoders
//
//	reg := audio.NewRegistry()
//	reg.Register(".wav", reference.WAV{})
//	dec, ok := reg.ForPath("take1.WAV")
package audio
