// Package schema validates state documents against the embedded CUE schema
// before they are signed or synced, so a malformed board never makes it to
// a remote target with a fresh integrity record attached.
package schema

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"

	"github.com/blackroad-os/statesync/internal/state"
)

//go:embed document.cue
var documentCUE string

var (
	compileOnce sync.Once
	compiled    cue.Value
	compileErr  error
)

// schemaValue compiles the embedded schema once. Compilation failure is a
// build defect, surfaced on first use rather than at init.
func schemaValue() (cue.Value, error) {
	compileOnce.Do(func() {
		ctx := cuecontext.New()
		compiled = ctx.CompileString(documentCUE, cue.Filename("document.cue"))
		if err := compiled.Err(); err != nil {
			compileErr = fmt.Errorf("compile document schema: %w", err)
		}
	})
	return compiled, compileErr
}

// ValidationError collects the individual schema violations for a document.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return fmt.Sprintf("schema: %s", e.Issues[0])
	}
	return fmt.Sprintf("schema: %d violations (first: %s)", len(e.Issues), e.Issues[0])
}

// Validate checks a state document against the embedded schema. Returns nil
// when the document conforms, a *ValidationError listing every violation
// otherwise.
func Validate(doc state.Document) error {
	data, err := doc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("schema: encode document: %w", err)
	}
	return ValidateBytes(data)
}

// ValidateBytes checks raw document JSON against the embedded schema.
func ValidateBytes(data []byte) error {
	schema, err := schemaValue()
	if err != nil {
		return err
	}

	expr, err := cuejson.Extract("document.json", data)
	if err != nil {
		return fmt.Errorf("schema: parse document: %w", err)
	}

	docVal := schema.Context().BuildExpr(expr)
	if err := docVal.Err(); err != nil {
		return fmt.Errorf("schema: build document: %w", err)
	}

	unified := schema.Unify(docVal)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		verr := &ValidationError{}
		for _, e := range cueerrors.Errors(err) {
			verr.Issues = append(verr.Issues, e.Error())
		}
		return verr
	}
	return nil
}
