package services

import (
	"errors"
	"strings"
)

// Sentinel errors let HTTP handlers map failures to distinct responses.
var (
	// ErrOrderNotFound is returned when an order id or number does not resolve.
	ErrOrderNotFound = errors.New("order not found")
	// ErrItemNotFound is returned when a requested menu item does not exist.
	ErrItemNotFound = errors.New("menu item not found")
	// ErrItemUnavailable is returned when a requested menu item exists but is
	// currently switched off. Deliberately distinct from ErrItemNotFound.
	ErrItemUnavailable = errors.New("menu item is not available")
	// ErrInvalidStatus is returned for a status outside the known set.
	ErrInvalidStatus = errors.New("invalid order status")
)

// FieldError pairs an input field with what is wrong with it.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the full list of field violations for a request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// AsValidation helps callers distinguish rule violations from infrastructure failures.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
