// Package apperr defines the error model shared by every validation stage:
// stable machine-readable codes, path-addressed validation errors, and the
// sentinel errors used by the content loading layer.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the loading layer.
var (
	ErrNotFound             = errors.New("not found")
	ErrUnsupportedExtension = errors.New("unsupported file extension")
)

// Error codes for configuration (schema) validation. Plain value checks
// follow the <kind>.<rule> convention; structural rules carry their own
// semantic codes so callers never have to reclassify by path shape.
const (
	CodeRequired      = "any.required"
	CodeForbidden     = "any.forbidden"
	CodeOnly          = "any.only"
	CodeUnknown       = "object.unknown"
	CodeStringBase    = "string.base"
	CodeStringEmpty   = "string.empty"
	CodeNumberBase    = "number.base"
	CodeNumberInteger = "number.integer"
	CodeNumberMin     = "number.min"
	CodeNumberMax     = "number.max"
	CodeNumberMult    = "number.multiple"
	CodeBooleanBase   = "boolean.base"
	CodeObjectBase    = "object.base"
	CodeArrayBase     = "array.base"
	CodeDateBase      = "date.base"
	CodeObjectXor     = "object.xor"

	CodeModelNamePattern  = "model.name.pattern.match"
	CodeFieldNamePattern  = "field.name.pattern.match"
	CodeFieldNameUnique   = "field.name.unique"
	CodeModelNotFound     = "model.not.found"
	CodeModelWrongType    = "model.type.invalid"
	CodeExtendsNotFound   = "extends.not.found"
	CodeExtendsCircular   = "extends.circular"
	CodeGroupNotFound     = "fieldGroups.not.found"
	CodeConstDefault      = "const.default.conflict"
	CodeEnumOptions       = "enum.options.invalid"
	CodeStyleFieldInvalid = "style.field.invalid"
	CodeStyleValueInvalid = "style.value.invalid"

	CodeIsListFieldsForbidden = "isList.fields.forbidden"
	CodeIsListItemsRequired   = "isList.items.required"
	CodeItemsForbidden        = "items.forbidden"
	CodeLabelFieldNotFound    = "labelField.not.found"
	CodeLabelFieldNotSimple   = "labelField.not.simple"
	CodeVariantFieldNotFound  = "variantField.not.found"
	CodeVariantFieldNotEnum   = "variantField.not.enum"
)

// Error codes for content loading, matching, annotation and validation.
const (
	CodeFileNotFound              = "file.not.found"
	CodeFileReadError             = "file.read.error"
	CodeFileParseError            = "file.parse.error"
	CodeFileNotMatchedModel       = "file.not.matched.model"
	CodeFileMatchedMultipleModels = "file.matched.multiple.models"
	CodeObjectNotMatchedModel     = "object.not.matched.model"
	CodeFieldNotMatched           = "field.not.matched"
	CodeModelInvalid              = "model.invalid"
)

// FieldPath addresses a location inside a config or content tree. Segments
// are string keys or int array indexes.
type FieldPath []any

// String renders the path dot-separated, e.g. "models.post.fields.0.name".
func (p FieldPath) String() string {
	parts := make([]string, len(p))
	for i, seg := range p {
		parts[i] = fmt.Sprintf("%v", seg)
	}
	return strings.Join(parts, ".")
}

// Append returns a new path with extra segments added; the receiver is not
// modified (path prefixes are shared across recursive calls).
func (p FieldPath) Append(segs ...any) FieldPath {
	out := make(FieldPath, 0, len(p)+len(segs))
	out = append(out, p...)
	out = append(out, segs...)
	return out
}

// ValidationError is the stable error shape every pipeline stage emits.
// Errors accumulate; no stage aborts on the first one.
type ValidationError struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	FieldPath FieldPath `json:"fieldPath"`
	Value     any       `json:"value,omitempty"`
	ModelName string    `json:"modelName,omitempty"`
	FilePath  string    `json:"filePath,omitempty"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.FieldPath) == 0 {
		return fmt.Sprintf("%s: %s", e.Type, e.Message)
	}
	return fmt.Sprintf("%s: %s (at %s)", e.Type, e.Message, e.FieldPath)
}

// NewError creates a config-level validation error.
func NewError(code, message string, path FieldPath) *ValidationError {
	return &ValidationError{Type: code, Message: message, FieldPath: path}
}

// NewValueError creates a config-level validation error carrying the
// offending value.
func NewValueError(code, message string, path FieldPath, value any) *ValidationError {
	return &ValidationError{Type: code, Message: message, FieldPath: path, Value: value}
}

// NewContentError creates a content-level validation error with file and
// model context.
func NewContentError(code, message string, path FieldPath, value any, modelName, filePath string) *ValidationError {
	return &ValidationError{
		Type:      code,
		Message:   message,
		FieldPath: path,
		Value:     value,
		ModelName: modelName,
		FilePath:  filePath,
	}
}
