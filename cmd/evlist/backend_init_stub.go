// evget - Input event capture and storage pipeline
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build !x11

package main

import (
	"errors"

	"github.com/mmalenic/evget/internal/source"
)

// errNoBackend is returned by initBackend in the default build: the
// concrete windowing-subsystem backend is an external collaborator
// (SPEC_FULL.md section 1), not something this module ships.
var errNoBackend = errors.New("evlist: no input backend compiled in (build with -tags x11 against a real backend adapter)")

func initBackend() (source.Source, source.Querier, error) {
	return nil, nil, errNoBackend
}
