package envelope

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Version is the only JSON-RPC protocol version the envelope accepts.
const Version = "2.0"

// Envelope is the minimal wire-level message wrapper. All four fields are
// required; Params carries the method payload opaque to this package.
type Envelope struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// FieldError describes a single envelope violation tied to a field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e FieldError) Error() string {
	return fmt.Sprintf("envelope field %q: %s", e.Field, e.Message)
}

// Result is the outcome of validating a candidate envelope. Errors holds
// every violation found, in check order.
type Result struct {
	Valid  bool         `json:"valid"`
	Errors []FieldError `json:"errors,omitempty"`
}

// Err folds the result into a single error, or nil when valid.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	msgs := make([]string, len(r.Errors))
	for i, fe := range r.Errors {
		msgs[i] = fe.Error()
	}
	return fmt.Errorf("invalid envelope: %s", strings.Join(msgs, "; "))
}

// Validate parses raw JSON and validates the envelope shape. A candidate that
// is not valid JSON, or not a JSON object, fails with a single structural
// error; otherwise all field violations are collected.
func Validate(raw []byte) Result {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return Result{Errors: []FieldError{{Field: "", Message: "candidate is not valid JSON"}}}
	}
	return ValidateValue(v)
}

// ValidateValue validates an already-decoded candidate. It is pure,
// synchronous and side-effect free. Checks run in order and every violation
// is collected rather than short-circuited:
//
//  1. the candidate is an object
//  2. jsonrpc equals the literal "2.0"
//  3. id is a string
//  4. method is a string
//  5. params is present and is an object
func ValidateValue(v any) Result {
	obj, ok := v.(map[string]any)
	if !ok {
		return Result{Errors: []FieldError{{Field: "", Message: "candidate is not an object"}}}
	}

	var errs []FieldError

	if version, present := obj["jsonrpc"]; !present {
		errs = append(errs, FieldError{Field: "jsonrpc", Message: "required field is missing"})
	} else if s, isString := version.(string); !isString || s != Version {
		errs = append(errs, FieldError{Field: "jsonrpc", Message: fmt.Sprintf("must equal %q", Version)})
	}

	if id, present := obj["id"]; !present {
		errs = append(errs, FieldError{Field: "id", Message: "required field is missing"})
	} else if _, isString := id.(string); !isString {
		errs = append(errs, FieldError{Field: "id", Message: "must be a string"})
	}

	if method, present := obj["method"]; !present {
		errs = append(errs, FieldError{Field: "method", Message: "required field is missing"})
	} else if _, isString := method.(string); !isString {
		errs = append(errs, FieldError{Field: "method", Message: "must be a string"})
	}

	if params, present := obj["params"]; !present {
		errs = append(errs, FieldError{Field: "params", Message: "required field is missing"})
	} else if _, isObject := params.(map[string]any); !isObject {
		errs = append(errs, FieldError{Field: "params", Message: "must be an object"})
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

// Parse validates raw JSON and, on success, decodes it into an Envelope.
func Parse(raw []byte) (Envelope, Result) {
	res := Validate(raw)
	if !res.Valid {
		return Envelope{}, res
	}
	var env Envelope
	// Shape already validated; a decode failure here would be a programming error.
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, Result{Errors: []FieldError{{Field: "", Message: err.Error()}}}
	}
	return env, res
}
