// Package contact accepts contact form submissions: it validates the payload
// against a JSON Schema, assigns a receipt id and hands the submission to a
// Sink.
package contact

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "mem://contact/schema.json"

// Submission is a validated contact form.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Detail describes one invalid field.
type Detail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every problem found in a submission.
type ValidationError struct {
	Details []Detail
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		parts = append(parts, d.Field+": "+d.Message)
	}
	return "invalid submission: " + strings.Join(parts, "; ")
}

var fieldMessages = map[string]string{
	"name":    "Name must be at least 2 characters",
	"email":   "Invalid email address",
	"subject": "Subject must be at least 5 characters",
	"message": "Message must be at least 10 characters",
}

// fieldOrder fixes the order of reported details.
var fieldOrder = []string{"name", "email", "subject", "message"}

// Validator checks raw submissions against the embedded schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the embedded schema.
func NewValidator() (*Validator, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, errors.Wrap(err, "parse contact schema")
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat()
	if err := compiler.AddResource(schemaURL, doc); err != nil {
		return nil, errors.Wrap(err, "add contact schema")
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, errors.Wrap(err, "compile contact schema")
	}
	return &Validator{schema: schema}, nil
}

// Validate decodes raw and checks it. Schema violations are reported as a
// *ValidationError.
func (v *Validator) Validate(raw []byte) (Submission, error) {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return Submission{}, &ValidationError{Details: []Detail{{Field: "", Message: "Request body must be valid JSON"}}}
	}

	if err := v.schema.Validate(inst); err != nil {
		var verr *jsonschema.ValidationError
		if !errors.As(err, &verr) {
			return Submission{}, errors.Wrap(err, "validate submission")
		}
		return Submission{}, &ValidationError{Details: details(verr, inst)}
	}

	var sub Submission
	if err := json.Unmarshal(raw, &sub); err != nil {
		return Submission{}, errors.Wrap(err, "decode submission")
	}
	return sub, nil
}

// details flattens the validation tree into one entry per offending field.
func details(root *jsonschema.ValidationError, inst any) []Detail {
	bad := make(map[string]bool)
	var other bool

	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) > 0 {
			for _, c := range e.Causes {
				walk(c)
			}
			return
		}
		if len(e.InstanceLocation) > 0 {
			bad[e.InstanceLocation[0]] = true
			return
		}
		other = true
	}
	walk(root)

	obj, isObject := inst.(map[string]any)
	if other && isObject {
		// Root-level failures are missing required fields.
		for _, field := range fieldOrder {
			if _, ok := obj[field]; !ok {
				bad[field] = true
			}
		}
	}

	var out []Detail
	if !isObject {
		out = append(out, Detail{Field: "", Message: "Request body must be a JSON object"})
	}
	for _, field := range fieldOrder {
		if bad[field] {
			out = append(out, Detail{Field: field, Message: fieldMessages[field]})
			delete(bad, field)
		}
	}

	rest := make([]string, 0, len(bad))
	for field := range bad {
		rest = append(rest, field)
	}
	slices.Sort(rest)
	for _, field := range rest {
		out = append(out, Detail{Field: field, Message: "Invalid value"})
	}
	if len(out) == 0 {
		out = append(out, Detail{Field: "", Message: "Invalid form data"})
	}
	return out
}
