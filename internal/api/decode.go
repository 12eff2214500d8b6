package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jbweber/homelab/customercare/internal/apperror"
	"github.com/jbweber/homelab/customercare/internal/validation"
)

// bodyError is a request body that could not be read as JSON
type bodyError struct {
	msg string
}

func (e *bodyError) Error() string {
	return e.msg
}

// decodeAndValidate reads the request body into v and checks its tags. A
// field of the wrong JSON type is reported together with every other
// violation, replacing whatever the validator said about its zero value.
func decodeAndValidate(r *http.Request, v any, validator *validation.Validator) error {
	typeErrs, err := decodeJSON(r, v)
	if err != nil {
		return err
	}

	verr := apperror.NewValidationError()
	if err := validator.Struct(v); err != nil && !errors.As(err, &verr) {
		return err
	}
	for field, msg := range typeErrs {
		verr.FieldErrors[field] = msg
	}
	return verr.ErrOrNil()
}

// decodeJSON reads exactly one JSON value from the request body into v.
// Fields of the wrong JSON type are returned by wire name; anything else
// unreadable becomes a bodyError.
func decodeJSON(r *http.Request, v any) (map[string]string, error) {
	dec := json.NewDecoder(r.Body)
	typeErrs := map[string]string{}

	var typeErr *json.UnmarshalTypeError
	if err := dec.Decode(v); err != nil {
		if !errors.As(err, &typeErr) || typeErr.Field == "" {
			return nil, readError(err)
		}
		typeErrs[typeErr.Field] = fmt.Sprintf("must be a %s", typeErr.Type)
	}

	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, readError(err)
		}
		return nil, &bodyError{msg: "request body must contain a single JSON value"}
	}
	return typeErrs, nil
}

func readError(err error) error {
	var (
		syntaxErr *json.SyntaxError
		maxErr    *http.MaxBytesError
	)
	switch {
	case errors.Is(err, io.EOF):
		return &bodyError{msg: "request body is missing"}
	case errors.As(err, &syntaxErr):
		return &bodyError{msg: fmt.Sprintf("malformed JSON at offset %d: %v", syntaxErr.Offset, err)}
	case errors.As(err, &maxErr):
		return &bodyError{msg: fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit)}
	default:
		return &bodyError{msg: fmt.Sprintf("malformed JSON: %v", err)}
	}
}
