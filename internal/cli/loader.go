package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Future-Scholars/paperlib-sync/internal/model"
	"github.com/Future-Scholars/paperlib-sync/internal/payload"
)

// LoadBatch reads a YAML batch file, validates it against the payload
// schema, and decodes it into typed payloads. Validation runs on the raw
// decoded document so schema errors mention the offending values rather
// than Go zero-value artifacts.
func LoadBatch(path string) ([]model.Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch: %w", err)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse batch %s: %w", path, err)
	}
	if raw == nil {
		return []model.Payload{}, nil
	}

	if err := payload.Validate(raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var payloads []model.Payload
	if err := yaml.Unmarshal(data, &payloads); err != nil {
		return nil, fmt.Errorf("decode batch %s: %w", path, err)
	}

	return payloads, nil
}
