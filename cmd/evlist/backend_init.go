// evget - Input event capture and storage pipeline
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build x11

package main

import (
	"github.com/mmalenic/evget/internal/source"
)

// initBackend wires evlist to a real windowing-subsystem backend when
// built with -tags x11. No such backend ships in this module (the
// concrete input backend is an external collaborator per SPEC_FULL.md
// section 1); this build tag exists so a caller vendoring a real X11 or
// Wayland adapter package can satisfy source.Source/source.Querier and
// compile it in here without touching backend_init_stub.go.
func initBackend() (source.Source, source.Querier, error) {
	panic("evlist: built with -tags x11 but no backend adapter is wired into initBackend")
}
