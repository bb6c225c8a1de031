// SPDX-License-Identifier: EPL-2.0

// Package catalog assembles the registry of every built-in format.
package catalog

import (
	"github.com/ik5/oplpbx/formats"
	"github.com/ik5/oplpbx/formats/dro"
	"github.com/ik5/oplpbx/formats/imf"
	"github.com/ik5/oplpbx/formats/raw"
	"github.com/ik5/oplpbx/formats/vgm"
)

// Default returns a new registry holding the built-in formats. Formats
// with a signature are probed before IMF, which accepts headerless data.
func Default() *formats.Registry {
	reg := formats.NewRegistry()
	reg.Register(dro.Format)
	reg.Register(raw.Format)
	reg.Register(vgm.Format)
	reg.Register(imf.Format)
	return reg
}
