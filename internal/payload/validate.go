// Package payload validates sync payload batches against an embedded CUE
// schema before anything reaches the engine. Schema validation catches
// malformed input (unknown ops, missing attribution, negative timestamps)
// with positioned error messages; the engine's own checks then enforce the
// semantic contracts (known kinds and fields, scope rules).
package payload

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaCUE string

var (
	schemaOnce sync.Once
	schemaVal  cue.Value
	schemaErr  error
)

// batchSchema compiles the embedded schema once and returns the #Batch
// definition.
func batchSchema() (cue.Value, error) {
	schemaOnce.Do(func() {
		ctx := cuecontext.New()
		v := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
		if err := v.Err(); err != nil {
			schemaErr = fmt.Errorf("compile payload schema: %w", err)
			return
		}
		schemaVal = v.LookupPath(cue.ParsePath("#Batch"))
		if err := schemaVal.Err(); err != nil {
			schemaErr = fmt.Errorf("lookup #Batch: %w", err)
		}
	})
	return schemaVal, schemaErr
}

// Validate checks a decoded batch (the result of unmarshaling YAML or JSON
// into plain Go values) against the schema. Returns all constraint
// violations joined into one error.
func Validate(batch any) error {
	schema, err := batchSchema()
	if err != nil {
		return err
	}

	ctx := schema.Context()
	data := ctx.Encode(batch)
	if err := data.Err(); err != nil {
		return fmt.Errorf("encode batch: %w", err)
	}

	unified := schema.Unify(data)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		var msgs []string
		for _, e := range cueerrors.Errors(err) {
			msgs = append(msgs, e.Error())
		}
		if len(msgs) == 1 {
			return fmt.Errorf("invalid batch: %s", msgs[0])
		}
		return fmt.Errorf("invalid batch: %d violations, first: %s", len(msgs), msgs[0])
	}

	return nil
}
