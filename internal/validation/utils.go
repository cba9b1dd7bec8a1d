package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validatable is implemented by request payload types that know how to validate themselves.
type Validatable interface {
	Validate() error
}

var (
	// ErrEmptyBody means the request carried no body at all.
	ErrEmptyBody = errors.New("request body is empty")
	// ErrNotObject means the body is valid JSON but not an object.
	ErrNotObject = errors.New("request body is not a JSON object")
)

var validate = validator.New()

// Struct validates v against its `validate` struct tags.
func Struct(v any) error {
	return validate.Struct(v)
}

// DecodeObject parses body as a single JSON object.
//
// Numbers are kept as json.Number so amounts keep their literal text. Only a
// zero-length body yields ErrEmptyBody; whitespace is malformed JSON. A
// syntax error is returned as-is, and any other JSON value yields ErrNotObject.
func DecodeObject(body []byte) (map[string]any, error) {
	if len(body) == 0 {
		return nil, ErrEmptyBody
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}

	return obj, nil
}

// FirstMissing returns the first of fields absent from obj, in order.
// A field present with a null value counts as present.
func FirstMissing(obj map[string]any, fields ...string) (string, bool) {
	for _, f := range fields {
		if _, ok := obj[f]; !ok {
			return f, true
		}
	}
	return "", false
}

// Truthy reports whether v counts as set: not null, not false, not zero,
// and not an empty string, array or object.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

// FieldMessages converts validator errors into "field: reason" strings.
func FieldMessages(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		field := strings.ToLower(fe.Field())
		var msg string

		switch fe.Tag() {
		case "required":
			msg = "is required"
		case "min":
			if fe.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", fe.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", fe.Param())
			}
		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", fe.Param())
		default:
			if fe.Param() != "" {
				msg = fmt.Sprintf("%s:%s", fe.Tag(), fe.Param())
			} else {
				msg = fe.Tag()
			}
		}

		messages = append(messages, field+": "+msg)
	}

	return messages
}
