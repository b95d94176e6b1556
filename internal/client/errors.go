package client

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"facturador/internal/domain"
)

// DuplicateTaxIDMessage is the fixed text shown under the tax id field when
// the backend reports a duplicate-CUIT conflict.
const DuplicateTaxIDMessage = "El CUIT ingresado ya pertenece a un proveedor"

// totalMismatchMarker is the backend's cross-field message for a total that
// does not equal the sum of the line item subtotals.
const totalMismatchMarker = "no coincide con la suma de subtotales"

// ValidationError is a structured validation failure: one message per field,
// keyed the way the form renders them ("total", "issuerTaxId",
// "lineItems.2.subtotal", ...).
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("backend rejected %d field(s)", len(e.Fields))
}

// ConflictError is a domain conflict (e.g. duplicate tax id) routed by the
// translator to exactly one field.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s: %s", e.Field, e.Message)
}

// TransportError is a failure with no parseable field detail: a network
// error, an unexpected status, or an error body that is not the backend's
// structured shape. Callers fall back to a generic notification.
type TransportError struct {
	Status  int
	Message string
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("request failed (status %d): %s", e.Status, e.Message)
	}
	return "request failed: " + e.Message
}

// violation mirrors one entry of the backend's pydantic-style detail array.
// Location segments are strings for field names and numbers for indexes.
type violation struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

var valueErrorPrefix = regexp.MustCompile(`(?i)^value error,\s*`)

// DecodeFailure translates a failed response body into a typed error. The
// body is expected to be JSON of shape {"detail": ...}; anything else yields
// a TransportError.
func DecodeFailure(status int, body []byte) error {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return &TransportError{Status: status, Message: strings.TrimSpace(string(body))}
	}

	var violations []violation
	if err := json.Unmarshal(payload.Detail, &violations); err == nil {
		return &ValidationError{Fields: fieldErrors(violations)}
	}

	var conflict struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload.Detail, &conflict); err == nil && conflict.Message != "" {
		if strings.Contains(conflict.Message, "CUIT") {
			return &ConflictError{Field: domain.FieldIssuerTaxID, Message: DuplicateTaxIDMessage}
		}
		return &ConflictError{Field: domain.FieldIssuerLegalName, Message: conflict.Message}
	}

	return &TransportError{Status: status, Message: strings.TrimSpace(string(body))}
}

// fieldErrors maps each violation to a form field key. Entries are processed
// in order, so a later violation for the same key overwrites an earlier one.
func fieldErrors(violations []violation) map[string]string {
	fields := make(map[string]string, len(violations))
	for _, v := range violations {
		msg := valueErrorPrefix.ReplaceAllString(v.Msg, "")
		fields[fieldKey(v.Loc, msg)] = msg
	}
	return fields
}

// fieldKey turns a violation location path into the form's field key:
//
//	["body"]                          -> "total" (sum-mismatch cross check)
//	["body", "lineItems", 2, "subtotal"] -> "lineItems.2.subtotal"
//	["body", <field>]                 -> <field>
func fieldKey(loc []any, msg string) string {
	if len(loc) == 1 && segment(loc[0]) == "body" && strings.Contains(msg, totalMismatchMarker) {
		return domain.FieldTotal
	}
	if len(loc) >= 4 && segment(loc[0]) == "body" && segment(loc[1]) == "lineItems" {
		return fmt.Sprintf("lineItems.%s.%s", segment(loc[2]), segment(loc[3]))
	}
	if len(loc) == 0 {
		return ""
	}
	return segment(loc[len(loc)-1])
}

// segment renders one location path element; JSON numbers arrive as float64.
func segment(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.Itoa(int(s))
	default:
		return fmt.Sprint(s)
	}
}
