package schema

// Predicates and lookups used across the validator, matcher, annotator and
// content schema builder.

// IsSimple reports whether the field holds a plain scalar value, i.e. is not
// a nested structure. Simple fields are the only valid labelField targets.
func (f *Field) IsSimple() bool {
	switch f.Type {
	case FieldObject, FieldModel, FieldReference, FieldList, FieldStyle:
		return false
	default:
		return true
	}
}

// FieldByName returns the model's field with the given name, or nil.
func (m *Model) FieldByName(name string) *Field {
	return fieldByName(m.Fields, name)
}

func fieldByName(fields []*Field, name string) *Field {
	for _, f := range fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// IsSingleInstance reports whether the model describes exactly one file.
// One rule applies everywhere: an explicit file path, or the singleInstance
// flag, makes a model single-instance.
func (m *Model) IsSingleInstance() bool {
	return m.File != "" || m.SingleInstance
}

// ListItems resolves the item field of a list field. An absent items spec
// defaults to string items.
func (f *Field) ListItems() *Field {
	if f.Type != FieldList {
		return nil
	}
	if f.Items != nil {
		return f.Items
	}
	return &Field{Type: FieldString, Name: f.Name}
}

// ContentFields returns the fields content is validated against: the model's
// own fields, or for isList data models a synthetic items wrapper.
func (m *Model) ContentFields() []*Field {
	if m.Type == ModelData && m.IsList {
		items := m.Items
		if items == nil {
			items = &Field{Type: FieldString, Name: "items"}
		}
		return []*Field{{Type: FieldList, Name: "items", Required: true, Items: items}}
	}
	return m.Fields
}

// LabelFieldOf resolves the model's labelField to a field, or nil.
func (m *Model) LabelFieldOf() *Field {
	if m.LabelField == "" {
		return nil
	}
	return m.FieldByName(m.LabelField)
}

// VariantFieldOf resolves the model's variantField to a field, or nil.
func (m *Model) VariantFieldOf() *Field {
	if m.VariantField == "" {
		return nil
	}
	return m.FieldByName(m.VariantField)
}

// DisplayLabel returns the field label, falling back to the field name.
func (f *Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// hasFieldGroup reports whether the group name exists in the field group
// list.
func hasFieldGroup(groups []FieldGroup, name string) bool {
	for _, g := range groups {
		if g.Name == name {
			return true
		}
	}
	return false
}
