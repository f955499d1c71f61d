package store

import (
	"path/filepath"
	"testing"

	"github.com/Future-Scholars/paperlib-sync/internal/model"
)

// createTestStore creates a new on-disk store in a temp dir for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// describe resolves a kind's descriptor, failing the test on unknown kinds.
func describe(t *testing.T, kind model.EntityKind) model.Descriptor {
	t.Helper()
	d, err := model.Describe(kind)
	if err != nil {
		t.Fatalf("Describe(%s) failed: %v", kind, err)
	}
	return d
}

// testRecord builds a minimal record for the given kind.
func testRecord(kind model.EntityKind, id, scopeID string, ts int64, deviceID string) *model.Record {
	return &model.Record{
		Kind:              kind,
		ID:                id,
		ScopeID:           scopeID,
		Fields:            map[string]*string{},
		CreatedAt:         ts,
		CreatedByDeviceID: deviceID,
		UpdatedAt:         ts,
		UpdatedByDeviceID: deviceID,
	}
}
