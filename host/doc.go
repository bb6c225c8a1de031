// SPDX-License-Identifier: EPL-2.0

// Package host exposes a playback session through the flat, status code
// based call surface that scripting hosts and foreign function bridges
// expect: integers instead of errors, fixed text slots for track info and
// a raw PCM buffer that stays valid until the next compute call.
//
// A Host is not safe for concurrent use; the embedding runtime must
// serialise calls.
package host
