// evget - Input event capture and storage pipeline
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"

	"github.com/mmalenic/evget/internal/source"
	"github.com/mmalenic/evget/internal/transform"
)

// Listener bridges internal/pipeline to a Manager: it transforms each
// raw event and forwards the resulting batch to StoreEvent. It is the
// "transformer+store fan-in point" spec.md section 4.9 describes a
// pipeline listener's Notify as.
type Listener struct {
	transformer *transform.Transformer
	manager     *Manager
}

// NewListener constructs a pipeline.Listener over transformer and
// manager.
func NewListener(transformer *transform.Transformer, manager *Manager) *Listener {
	return &Listener{transformer: transformer, manager: manager}
}

func (l *Listener) Notify(_ context.Context, ev source.RawEvent) error {
	data, err := l.transformer.TransformEvent(ev)
	if err != nil {
		return err
	}
	l.manager.StoreEvent(data)
	return nil
}
