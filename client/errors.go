package client

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"github.com/shuleni/registra/core"
)

var (
	// ErrSessionExpired signals a 401; the stored principal has already been
	// cleared when it is returned.
	ErrSessionExpired = errors.New("session expired, please log in again")

	ErrPermissionDenied   = errors.New("insufficient permission")
	ErrNotFound           = errors.New("not found")
	ErrBackendUnreachable = errors.New("backend unreachable")

	errLoginFailed = errors.New("login failed")
)

// APIError is any server response that maps onto no more specific error.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server error: %d", e.Status)
}

// parseValidationBody maps a structured 400 payload onto a ValidationError.
// The backend answers either {"message": "..."} or a {field: message} map.
func parseValidationBody(body []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || len(raw) == 0 {
		return &APIError{Status: 400}
	}

	if msgRaw, ok := raw["message"]; ok {
		var msg string
		if err := json.Unmarshal(msgRaw, &msg); err == nil && msg != "" {
			return core.NewValidationError(errors.New(msg))
		}
	}

	fields := make([]string, 0, len(raw))
	for field := range raw {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	flds := make([]core.FieldError, 0, len(fields))
	for _, field := range fields {
		var msg string
		if err := json.Unmarshal(raw[field], &msg); err != nil {
			continue
		}
		flds = append(flds, core.FieldError{Field: field, Error: msg})
	}
	if len(flds) == 0 {
		return &APIError{Status: 400}
	}
	return core.NewValidationError(nil, flds...)
}
