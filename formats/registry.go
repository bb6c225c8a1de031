// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/ik5/oplpbx/opl"
)

// Format describes one module format.
type Format struct {
	Name       string
	Extensions []string // lower case, with the leading dot
	New        func(chip opl.Chip) Player
}

// Registry holds the known formats in probe order.
type Registry struct {
	formats []Format

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		mtx: &sync.Mutex{},
	}
}

func (r *Registry) Register(f Format) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.formats = append(r.formats, f)
}

// Get returns the format registered under name.
func (r *Registry) Get(name string) (Format, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	for _, f := range r.formats {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return Format{}, false
}

// Formats returns all registered formats in probe order.
func (r *Registry) Formats() []Format {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return slices.Clone(r.formats)
}

// Candidates returns the formats to try for path: those claiming its
// extension first, then the rest, each group in registration order.
func (r *Registry) Candidates(path string) []Format {
	ext := strings.ToLower(filepath.Ext(path))

	all := r.Formats()
	out := make([]Format, 0, len(all))
	var rest []Format
	for _, f := range all {
		if slices.Contains(f.Extensions, ext) {
			out = append(out, f)
		} else {
			rest = append(rest, f)
		}
	}
	return append(out, rest...)
}
