package controller

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	apperrors "orderdesk/internal/errors"
)

//go:embed order.schema.json
var orderSchemaJSON []byte

const orderSchemaURL = "https://orderdesk.local/schemas/order.schema.json"

// BodyValidator checks request bodies against the order JSON schema before they
// are decoded into domain types.
type BodyValidator struct {
	schema *jsonschema.Schema
}

func NewBodyValidator() (*BodyValidator, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(orderSchemaURL, bytes.NewReader(orderSchemaJSON)); err != nil {
		return nil, fmt.Errorf("order schema load failed: %w", err)
	}
	compiled, err := c.Compile(orderSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("order schema compile failed: %w", err)
	}
	return &BodyValidator{schema: compiled}, nil
}

// ValidateOrder returns a ValidationError listing every violated constraint.
func (v *BodyValidator) ValidateOrder(body []byte) error {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return apperrors.NewValidationError("invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
	}

	err := v.schema.Validate(doc)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return apperrors.NewValidationError("invalid order body", apperrors.ValidationDetail{
			Field:   "body",
			Message: err.Error(),
		})
	}
	return apperrors.NewValidationError("invalid order body", schemaDetails(ve)...)
}

func schemaDetails(ve *jsonschema.ValidationError) []apperrors.ValidationDetail {
	var details []apperrors.ValidationDetail
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   fieldName(e.InstanceLocation),
				Message: e.Message,
			})
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(ve)

	sort.SliceStable(details, func(i, j int) bool { return details[i].Field < details[j].Field })
	return details
}

// fieldName turns a JSON pointer such as /lines/0/price into lines.0.price.
func fieldName(pointer string) string {
	field := strings.Trim(pointer, "/")
	if field == "" {
		return "body"
	}
	return strings.ReplaceAll(field, "/", ".")
}
