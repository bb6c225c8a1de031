// SPDX-License-Identifier: EPL-2.0

// Package utils holds the sample conversions shared by the audio pipeline
// and the exporters.
package utils

// Float32ToInt16 converts a sample in [-1, 1] to 16-bit PCM, clamping
// values outside the range.
func Float32ToInt16(x float32) int16 {
	switch {
	case x >= 1:
		return 32767
	case x <= -1:
		return -32768
	default:
		return int16(x * 32768)
	}
}

// Int16ToFloat32 converts 16-bit PCM to a sample in [-1, 1).
func Int16ToFloat32(v int16) float32 {
	return float32(v) / 32768
}

// Int16ToInt converts a block of samples for encoders that work on int
// buffers. dst is grown as needed and returned.
func Int16ToInt(dst []int, src []int16) []int {
	dst = dst[:0]
	for _, v := range src {
		dst = append(dst, int(v))
	}
	return dst
}
