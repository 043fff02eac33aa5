// evget - Input event capture and storage pipeline
// SPDX-License-Identifier: AGPL-3.0-or-later

package dbsink_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mmalenic/evget/internal/event"
	"github.com/mmalenic/evget/internal/sink/dbsink"
)

func openTestSink(t *testing.T) *dbsink.Sink {
	t.Helper()
	ctx := context.Background()
	sink, err := dbsink.Init(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sink.Close() })
	return sink
}

func moveEntry() event.Entry {
	b := event.NewMoveBuilder()
	b.Interval(time.Millisecond).Timestamp(time.Unix(0, 1)).Position(10, 20).
		DeviceName("mouse0").Screen(0).DeviceType(event.Mouse)
	return b.Build()
}

func keyEntry() event.Entry {
	b := event.NewKeyBuilder()
	b.Interval(time.Millisecond).Timestamp(time.Unix(0, 1)).Position(0, 0).
		DeviceName("kbd0").Screen(0).DeviceType(event.Keyboard)
	b.Key(65, "A", event.Press)
	b.Character("a")
	return b.Build()
}

func TestStoreEventEmptyBatchIsNoop(t *testing.T) {
	sink := openTestSink(t)
	require.NoError(t, sink.StoreEvent(context.Background(), nil))
}

func TestStoreEventInsertsMoveEntry(t *testing.T) {
	ctx := context.Background()
	sink := openTestSink(t)

	err := sink.StoreEvent(ctx, event.Data{moveEntry()})
	require.NoError(t, err)
}

func TestStoreEventMixedBatchReusesPreparedStatementsPerType(t *testing.T) {
	ctx := context.Background()
	sink := openTestSink(t)

	batch := event.Data{moveEntry(), moveEntry(), keyEntry()}
	require.NoError(t, sink.StoreEvent(ctx, batch))
}

func TestStoreEventRollsBackOnInvalidEntry(t *testing.T) {
	ctx := context.Background()
	sink := openTestSink(t)

	tooFewFields := event.Entry{Type: event.MouseMove, Data: []string{"not enough fields"}}
	err := sink.StoreEvent(ctx, event.Data{tooFewFields})
	require.Error(t, err)
}
