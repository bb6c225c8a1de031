// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"errors"
	"fmt"
)

var (
	ErrUnrecognized = errors.New("unrecognized module format")
	ErrEmptyFile    = errors.New("empty module file")
)

// ParseError reports a malformed module file.
type ParseError struct {
	Format  string
	Message string
	Offset  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s (offset=%d)", e.Format, e.Message, e.Offset)
}
