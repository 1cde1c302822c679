// Package content loads project content files, matches them to models,
// annotates nested objects with model identity, and validates values against
// the matched model's field schema.
package content

// MetadataKey is the key model-identity metadata is attached under, both on
// the root value of an item and on every nested object resolved through a
// polymorphic model field.
const MetadataKey = "__metadata"

// Metadata keys inside a __metadata map.
const (
	MetaModelName = "modelName"
	MetaFilePath  = "filePath"
	MetaError     = "error"
)

// Item is one loaded content file: its annotated data plus resolved model
// identity. ModelName is empty when no model matched (an unmodeled item).
// Items are never mutated after validation.
type Item struct {
	FilePath  string         `json:"filePath"`
	ModelName string         `json:"modelName,omitempty"`
	Data      map[string]any `json:"data"`
}

// HasModel reports whether the item resolved to a model.
func (it *Item) HasModel() bool {
	return it.ModelName != ""
}

// newMetadata builds a nested __metadata map. An empty modelName marshals
// as null so unresolved objects are visibly unresolved.
func newMetadata(modelName, errMsg string) map[string]any {
	meta := map[string]any{}
	if modelName == "" {
		meta[MetaModelName] = nil
	} else {
		meta[MetaModelName] = modelName
	}
	if errMsg != "" {
		meta[MetaError] = errMsg
	}
	return meta
}

// ObjectMeta reads the model name and error (if any) attached to a nested
// object. ok is false when the object carries no metadata.
func ObjectMeta(obj map[string]any) (modelName string, errMsg string, ok bool) {
	meta, isMap := obj[MetadataKey].(map[string]any)
	if !isMap {
		return "", "", false
	}
	if name, isStr := meta[MetaModelName].(string); isStr {
		modelName = name
	}
	if msg, isStr := meta[MetaError].(string); isStr {
		errMsg = msg
	}
	return modelName, errMsg, true
}
