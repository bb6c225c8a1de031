// SPDX-License-Identifier: EPL-2.0

package database

import "errors"

var (
	ErrBadHeader      = errors.New("not a format database")
	ErrUnknownRecord  = errors.New("unknown database record type")
	ErrTruncated      = errors.New("truncated database record")
	ErrEmbeddedNUL    = errors.New("database string contains a NUL byte")
	ErrRecordTooLarge = errors.New("database record too large")
)
