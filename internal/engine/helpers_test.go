package engine

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Future-Scholars/paperlib-sync/internal/model"
	"github.com/Future-Scholars/paperlib-sync/internal/store"
)

// epoch is the fixed clock origin for engine tests; payload timestamps in
// tests are plain milliseconds counted from zero.
var epoch = time.UnixMilli(1_000_000)

func newTestEngine(t *testing.T) (*Engine, *FixedClock) {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "sync.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	clock := NewFixedClock(epoch)
	return New(s, WithClock(clock)), clock
}

func paperCreate(id, scope string, ts int64, device string) model.CreatePayload {
	return model.CreatePayload{
		ID:      id,
		ScopeID: scope,
		Fields: map[string]*string{
			"title": model.Ptr("Draft"),
		},
		CreatedAt:         ts,
		CreatedByDeviceID: device,
	}
}

func titleChange(id, value string, ts int64, device string) model.FieldChange {
	return model.FieldChange{
		EntityID:          id,
		Field:             "title",
		Value:             model.Ptr(value),
		Timestamp:         ts,
		DeviceID:          device,
		CreatedAt:         ts,
		CreatedByDeviceID: device,
	}
}
