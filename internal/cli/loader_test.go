package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Future-Scholars/paperlib-sync/internal/model"
)

func writeBatch(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batch.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	return path
}

func TestLoadBatch(t *testing.T) {
	path := writeBatch(t, `
- op: create
  model: paper
  create:
    id: P1
    scopeId: lib-1
    fields:
      title: Draft
    createdAt: 100
    createdByDeviceId: dev-a
- op: fieldChange
  model: paper
  fieldChange:
    entityId: P1
    field: title
    value: Final
    timestamp: 150
    deviceId: dev-b
    createdAt: 150
    createdByDeviceId: dev-b
`)

	payloads, err := LoadBatch(path)
	if err != nil {
		t.Fatalf("LoadBatch() failed: %v", err)
	}
	if len(payloads) != 2 {
		t.Fatalf("decoded %d payloads, expected 2", len(payloads))
	}

	if payloads[0].Op != model.OpCreate || payloads[0].Create == nil {
		t.Errorf("first payload not a create: %+v", payloads[0])
	}
	if got := *payloads[0].Create.Fields["title"]; got != "Draft" {
		t.Errorf("title = %q", got)
	}

	ch := payloads[1].FieldChange
	if ch == nil || ch.EntityID != "P1" || *ch.Value != "Final" || ch.Timestamp != 150 {
		t.Errorf("field change decoded wrong: %+v", ch)
	}
}

func TestLoadBatch_NullValue(t *testing.T) {
	path := writeBatch(t, `
- op: fieldChange
  model: paper
  fieldChange:
    entityId: P1
    field: title
    value: null
    timestamp: 150
    deviceId: dev-b
    createdAt: 150
    createdByDeviceId: dev-b
`)

	payloads, err := LoadBatch(path)
	if err != nil {
		t.Fatalf("LoadBatch() failed: %v", err)
	}
	if payloads[0].FieldChange.Value != nil {
		t.Errorf("null value decoded as %q", *payloads[0].FieldChange.Value)
	}
}

func TestLoadBatch_EmptyFile(t *testing.T) {
	path := writeBatch(t, "")

	payloads, err := LoadBatch(path)
	if err != nil {
		t.Fatalf("LoadBatch() failed: %v", err)
	}
	if len(payloads) != 0 {
		t.Errorf("expected empty batch, got %d payloads", len(payloads))
	}
}

func TestLoadBatch_SchemaViolation(t *testing.T) {
	path := writeBatch(t, `
- op: create
  model: paper
  create:
    id: P1
    createdAt: 100
`)

	if _, err := LoadBatch(path); err == nil {
		t.Error("expected schema violation for missing attribution")
	}
}

func TestLoadBatch_MalformedYAML(t *testing.T) {
	path := writeBatch(t, "- op: [unterminated")

	if _, err := LoadBatch(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadBatch_MissingFile(t *testing.T) {
	if _, err := LoadBatch(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
