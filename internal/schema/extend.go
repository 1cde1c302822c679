package schema

import (
	"fmt"
	"strings"

	"github.com/stencilcms/stencil/internal/apperr"
)

// ExtendModels resolves every extends declaration by merging the referenced
// super-model fields into the subclass. Inputs are read-only: the returned
// models are clones. Resolution is memoized per model so shared ancestors
// are computed once; circular extension chains and references to missing
// models are reported as errors, never as infinite recursion. Resolved
// models carry no extends property.
func ExtendModels(models []*Model) ([]*Model, []*apperr.ValidationError) {
	ext := &extender{
		byName:   make(map[string]*Model, len(models)),
		resolved: make(map[string]*Model, len(models)),
	}
	for _, m := range models {
		ext.byName[m.Name] = m
	}

	out := make([]*Model, 0, len(models))
	for _, m := range models {
		out = append(out, ext.resolve(m.Name, nil))
	}
	return out, ext.errors
}

type extender struct {
	byName   map[string]*Model
	resolved map[string]*Model
	errors   []*apperr.ValidationError
}

// resolve returns the fully extended model for name. chain is the path of
// model names currently being assembled, used for cycle detection.
func (e *extender) resolve(name string, chain []string) *Model {
	if done, ok := e.resolved[name]; ok {
		return done
	}
	for _, seen := range chain {
		if seen == name {
			cycle := append(append([]string(nil), chain...), name)
			e.errors = append(e.errors, apperr.NewValueError(
				apperr.CodeExtendsCircular,
				fmt.Sprintf("circular extends dependency: %s", strings.Join(cycle, " -> ")),
				apperr.FieldPath{"models", chain[0], "extends"}, name))
			broken := e.byName[name].Clone()
			broken.Invalid = true
			return broken
		}
	}

	model := e.byName[name].Clone()
	hadExtends := len(model.Extends) > 0
	chain = append(chain, name)

	for _, superName := range model.Extends {
		super, ok := e.byName[superName]
		if !ok {
			e.errors = append(e.errors, apperr.NewValueError(
				apperr.CodeExtendsNotFound,
				fmt.Sprintf("model %q extends non-existing model %q", name, superName),
				apperr.FieldPath{"models", name, "extends"}, superName))
			model.Invalid = true
			continue
		}
		if super.Type != ModelObject {
			e.errors = append(e.errors, apperr.NewValueError(
				apperr.CodeModelWrongType,
				fmt.Sprintf("model %q extends model %q of type %q, only object models can be extended", name, superName, super.Type),
				apperr.FieldPath{"models", name, "extends"}, superName))
			continue
		}
		resolved := e.resolve(superName, chain)
		mergeSuper(model, resolved)
		if resolved.Invalid {
			model.Invalid = true
		}
	}

	model.Extends = nil
	if hadExtends {
		// Config validation skipped the labelField/variantField checks for
		// this model because inherited fields were not visible yet; run them
		// now against the merged field set.
		e.checkLabelAndVariant(model)
	}
	e.resolved[name] = model
	return model
}

// checkLabelAndVariant verifies a labelField/variantField declaration against
// the fully merged field list of an extended model.
func (e *extender) checkLabelAndVariant(m *Model) {
	if m.LabelField != "" {
		target := fieldByName(m.Fields, m.LabelField)
		switch {
		case target == nil:
			e.errors = append(e.errors, apperr.NewValueError(
				apperr.CodeLabelFieldNotFound,
				fmt.Sprintf("labelField %q does not match any field name", m.LabelField),
				apperr.FieldPath{"models", m.Name, "labelField"}, m.LabelField))
			m.Invalid = true
		case !target.IsSimple():
			e.errors = append(e.errors, apperr.NewValueError(
				apperr.CodeLabelFieldNotSimple,
				fmt.Sprintf("labelField %q must reference a simple field, but field is of type %q", m.LabelField, target.Type),
				apperr.FieldPath{"models", m.Name, "labelField"}, m.LabelField))
			m.Invalid = true
		}
	}
	if m.VariantField != "" {
		target := fieldByName(m.Fields, m.VariantField)
		switch {
		case target == nil:
			e.errors = append(e.errors, apperr.NewValueError(
				apperr.CodeVariantFieldNotFound,
				fmt.Sprintf("variantField %q does not match any field name", m.VariantField),
				apperr.FieldPath{"models", m.Name, "variantField"}, m.VariantField))
			m.Invalid = true
		case target.Type != FieldEnum:
			e.errors = append(e.errors, apperr.NewValueError(
				apperr.CodeVariantFieldNotEnum,
				fmt.Sprintf("variantField %q must reference a field of type \"enum\", but field is of type %q", m.VariantField, target.Type),
				apperr.FieldPath{"models", m.Name, "variantField"}, m.VariantField))
			m.Invalid = true
		}
	}
}

// mergeSuper merges an already-resolved super model into sub. Super fields
// come before the sub's own fields; a same-named sub field wins but has its
// absent properties filled in from the super field.
func mergeSuper(sub *Model, super *Model) {
	merged := make([]*Field, 0, len(super.Fields)+len(sub.Fields))
	for _, superField := range super.Fields {
		if own := fieldByName(sub.Fields, superField.Name); own != nil {
			fillFieldDefaults(own, superField)
			continue
		}
		merged = append(merged, superField.Clone())
	}
	sub.Fields = append(merged, sub.Fields...)

	if !sub.HideContent {
		sub.HideContent = super.HideContent
	}
	if !sub.SingleInstance {
		sub.SingleInstance = super.SingleInstance
	}
	if sub.LabelField == "" {
		sub.LabelField = super.LabelField
	}
	if sub.VariantField == "" {
		sub.VariantField = super.VariantField
	}
	for _, group := range super.FieldGroups {
		if !hasFieldGroup(sub.FieldGroups, group.Name) {
			sub.FieldGroups = append(sub.FieldGroups, group)
		}
	}
}

// fillFieldDefaults copies super-field properties onto the sub field for
// every property the sub field leaves unset. The sub field's own settings
// are never overwritten.
func fillFieldDefaults(sub *Field, super *Field) {
	if sub.Type == "" {
		sub.Type = super.Type
	}
	if sub.Label == "" {
		sub.Label = super.Label
	}
	if sub.Description == "" {
		sub.Description = super.Description
	}
	if !sub.Required {
		sub.Required = super.Required
	}
	if !sub.Hidden {
		sub.Hidden = super.Hidden
	}
	if sub.Group == "" {
		sub.Group = super.Group
	}
	if sub.Const == nil {
		sub.Const = super.Const
	}
	if sub.Default == nil {
		sub.Default = super.Default
	}
	if sub.Number == nil && super.Number != nil {
		sub.Number = super.Clone().Number
	}
	if sub.Enum == nil && super.Enum != nil {
		sub.Enum = super.Clone().Enum
	}
	if sub.Object == nil && super.Object != nil {
		sub.Object = super.Clone().Object
	}
	if sub.Models == nil {
		sub.Models = cloneStrings(super.Models)
	}
	if sub.Styles == nil && super.Styles != nil {
		sub.Styles = super.Clone().Styles
	}
	if sub.Items == nil {
		sub.Items = super.Items.Clone()
	}
}
