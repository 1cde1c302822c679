package schema

// FieldType discriminates field definitions. The set is closed: every
// consumer (validator, extender, annotator, content schema) switches
// exhaustively over it.
type FieldType string

// Field types.
const (
	FieldString    FieldType = "string"
	FieldText      FieldType = "text"
	FieldMarkdown  FieldType = "markdown"
	FieldHTML      FieldType = "html"
	FieldDate      FieldType = "date"
	FieldBoolean   FieldType = "boolean"
	FieldColor     FieldType = "color"
	FieldImage     FieldType = "image"
	FieldFile      FieldType = "file"
	FieldURL       FieldType = "url"
	FieldSlug      FieldType = "slug"
	FieldNumber    FieldType = "number"
	FieldEnum      FieldType = "enum"
	FieldObject    FieldType = "object"
	FieldModel     FieldType = "model"
	FieldReference FieldType = "reference"
	FieldStyle     FieldType = "style"
	FieldList      FieldType = "list"
)

// FieldTypes lists every valid field type.
var FieldTypes = []FieldType{
	FieldString, FieldText, FieldMarkdown, FieldHTML, FieldDate, FieldBoolean,
	FieldColor, FieldImage, FieldFile, FieldURL, FieldSlug, FieldNumber,
	FieldEnum, FieldObject, FieldModel, FieldReference, FieldStyle, FieldList,
}

// Number subtypes.
const (
	NumberInt   = "int"
	NumberFloat = "float"
)

// Enum control types.
const (
	ControlDropdown   = "dropdown"
	ControlButtonGrp  = "button-group"
	ControlThumbnails = "thumbnails"
	ControlPalette    = "palette"
)

// Field is one named, typed attribute of a model or nested object. The
// per-type option structs are nil unless the type uses them.
type Field struct {
	Type        FieldType `yaml:"type" json:"type"`
	Name        string    `yaml:"name" json:"name"`
	Label       string    `yaml:"label,omitempty" json:"label,omitempty"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
	Required    bool      `yaml:"required,omitempty" json:"required,omitempty"`
	Hidden      bool      `yaml:"hidden,omitempty" json:"hidden,omitempty"`
	Group       string    `yaml:"group,omitempty" json:"group,omitempty"`
	Const       any       `yaml:"const,omitempty" json:"const,omitempty"`
	Default     any       `yaml:"default,omitempty" json:"default,omitempty"`

	Number *NumberOpts               `yaml:"-" json:"-"`
	Enum   *EnumOpts                 `yaml:"-" json:"-"`
	Object *ObjectOpts               `yaml:"-" json:"-"`
	Models []string                  `yaml:"models,omitempty" json:"models,omitempty"`
	Styles map[string]map[string]any `yaml:"styles,omitempty" json:"styles,omitempty"`
	Items  *Field                    `yaml:"items,omitempty" json:"items,omitempty"`
}

// NumberOpts carries number-field constraints. Nil pointers mean "not set".
type NumberOpts struct {
	Subtype string   `yaml:"subtype,omitempty" json:"subtype,omitempty"`
	Min     *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max     *float64 `yaml:"max,omitempty" json:"max,omitempty"`
	Step    *float64 `yaml:"step,omitempty" json:"step,omitempty"`
}

// EnumOption is one enum choice. Scalar options decode with Value only;
// object options add Label and the controlType-gated extras.
type EnumOption struct {
	Label           string `yaml:"label,omitempty" json:"label,omitempty"`
	Value           any    `yaml:"value" json:"value"`
	Thumbnail       string `yaml:"thumbnail,omitempty" json:"thumbnail,omitempty"`
	TextColor       string `yaml:"textColor,omitempty" json:"textColor,omitempty"`
	BackgroundColor string `yaml:"backgroundColor,omitempty" json:"backgroundColor,omitempty"`
	BorderColor     string `yaml:"borderColor,omitempty" json:"borderColor,omitempty"`
}

// EnumOpts carries enum-field options.
type EnumOpts struct {
	ControlType string       `yaml:"controlType,omitempty" json:"controlType,omitempty"`
	Options     []EnumOption `yaml:"options" json:"options"`
}

// ObjectOpts carries the nested field list of an object field.
type ObjectOpts struct {
	LabelField   string   `yaml:"labelField,omitempty" json:"labelField,omitempty"`
	VariantField string   `yaml:"variantField,omitempty" json:"variantField,omitempty"`
	Fields       []*Field `yaml:"fields" json:"fields"`
}

// Clone returns a deep copy of the field.
func (f *Field) Clone() *Field {
	if f == nil {
		return nil
	}
	out := *f
	out.Models = cloneStrings(f.Models)
	if f.Number != nil {
		n := *f.Number
		n.Min = cloneFloat(f.Number.Min)
		n.Max = cloneFloat(f.Number.Max)
		n.Step = cloneFloat(f.Number.Step)
		out.Number = &n
	}
	if f.Enum != nil {
		e := *f.Enum
		e.Options = append([]EnumOption(nil), f.Enum.Options...)
		out.Enum = &e
	}
	if f.Object != nil {
		o := *f.Object
		o.Fields = cloneFields(f.Object.Fields)
		out.Object = &o
	}
	if f.Styles != nil {
		styles := make(map[string]map[string]any, len(f.Styles))
		for key, props := range f.Styles {
			bag := make(map[string]any, len(props))
			for prop, val := range props {
				bag[prop] = val
			}
			styles[key] = bag
		}
		out.Styles = styles
	}
	out.Items = f.Items.Clone()
	return &out
}

func cloneFields(fields []*Field) []*Field {
	if fields == nil {
		return nil
	}
	out := make([]*Field, len(fields))
	for i, f := range fields {
		out[i] = f.Clone()
	}
	return out
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
