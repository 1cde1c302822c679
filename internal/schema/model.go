// Package schema defines the content model type system: models, fields, the
// configuration they live in, the structural validator, and the extends
// resolver. Raw configuration is an untyped map until ValidateConfig has
// checked it and decoded it into the types below.
package schema

// ModelType discriminates the four model kinds.
type ModelType string

// Model kinds.
const (
	ModelObject ModelType = "object"
	ModelData   ModelType = "data"
	ModelPage   ModelType = "page"
	ModelConfig ModelType = "config"
)

// ModelTypes lists every valid model kind.
var ModelTypes = []ModelType{ModelObject, ModelData, ModelPage, ModelConfig}

// FieldGroup tags a set of fields for UI grouping.
type FieldGroup struct {
	Name  string `yaml:"name" json:"name"`
	Label string `yaml:"label" json:"label"`
}

// Model is one named content entity definition. After ValidateConfig and
// ExtendModels it is fully normalized: Extends is resolved away, Match and
// Exclude are slices, and Invalid reflects structural validation.
type Model struct {
	Name         string       `yaml:"name" json:"name"`
	Type         ModelType    `yaml:"type" json:"type"`
	Label        string       `yaml:"label" json:"label"`
	Description  string       `yaml:"description,omitempty" json:"description,omitempty"`
	Extends      []string     `yaml:"extends,omitempty" json:"extends,omitempty"`
	LabelField   string       `yaml:"labelField,omitempty" json:"labelField,omitempty"`
	VariantField string       `yaml:"variantField,omitempty" json:"variantField,omitempty"`
	Groups       []string     `yaml:"groups,omitempty" json:"groups,omitempty"`
	FieldGroups  []FieldGroup `yaml:"fieldGroups,omitempty" json:"fieldGroups,omitempty"`
	Fields       []*Field     `yaml:"fields,omitempty" json:"fields,omitempty"`

	// data/page file matching.
	File           string   `yaml:"file,omitempty" json:"file,omitempty"`
	Folder         string   `yaml:"folder,omitempty" json:"folder,omitempty"`
	Match          []string `yaml:"match,omitempty" json:"match,omitempty"`
	Exclude        []string `yaml:"exclude,omitempty" json:"exclude,omitempty"`
	SingleInstance bool     `yaml:"singleInstance,omitempty" json:"singleInstance,omitempty"`
	HideContent    bool     `yaml:"hideContent,omitempty" json:"hideContent,omitempty"`

	// data list models.
	IsList bool   `yaml:"isList,omitempty" json:"isList,omitempty"`
	Items  *Field `yaml:"items,omitempty" json:"items,omitempty"`

	// Invalid is set when structural validation reported errors under this
	// model; content matched to it gets a single model.invalid error.
	Invalid bool `yaml:"-" json:"-"`
}

// Clone returns a deep copy of the model. The extender works on clones so
// its inputs stay read-only.
func (m *Model) Clone() *Model {
	if m == nil {
		return nil
	}
	out := *m
	out.Extends = cloneStrings(m.Extends)
	out.Groups = cloneStrings(m.Groups)
	out.Match = cloneStrings(m.Match)
	out.Exclude = cloneStrings(m.Exclude)
	out.FieldGroups = append([]FieldGroup(nil), m.FieldGroups...)
	out.Fields = cloneFields(m.Fields)
	out.Items = m.Items.Clone()
	return &out
}

// Assets configuration: how asset references in content resolve to files.
type Assets struct {
	ReferenceType string `yaml:"referenceType" json:"referenceType"`
	StaticDir     string `yaml:"staticDir,omitempty" json:"staticDir,omitempty"`
	UploadDir     string `yaml:"uploadDir,omitempty" json:"uploadDir,omitempty"`
	PublicPath    string `yaml:"publicPath,omitempty" json:"publicPath,omitempty"`
	AssetsDir     string `yaml:"assetsDir,omitempty" json:"assetsDir,omitempty"`
}

// Config is the normalized project configuration.
type Config struct {
	StackbitVersion string   `yaml:"stackbitVersion" json:"stackbitVersion"`
	SSGName         string   `yaml:"ssgName,omitempty" json:"ssgName,omitempty"`
	CMSName         string   `yaml:"cmsName,omitempty" json:"cmsName,omitempty"`
	Import          bool     `yaml:"-" json:"-"`
	StaticDir       string   `yaml:"staticDir,omitempty" json:"staticDir,omitempty"`
	UploadDir       string   `yaml:"uploadDir,omitempty" json:"uploadDir,omitempty"`
	PagesDir        string   `yaml:"pagesDir,omitempty" json:"pagesDir,omitempty"`
	DataDir         string   `yaml:"dataDir,omitempty" json:"dataDir,omitempty"`
	ExcludePages    []string `yaml:"excludePages,omitempty" json:"excludePages,omitempty"`
	Assets          *Assets  `yaml:"assets,omitempty" json:"assets,omitempty"`
	PageLayoutKey   string   `yaml:"pageLayoutKey,omitempty" json:"pageLayoutKey,omitempty"`
	ObjectTypeKey   string   `yaml:"objectTypeKey,omitempty" json:"objectTypeKey,omitempty"`
	Models          []*Model `yaml:"models,omitempty" json:"models,omitempty"`
}

// Default discriminator keys.
const (
	DefaultPageLayoutKey = "layout"
	DefaultObjectTypeKey = "type"
)

// LayoutKey returns the configured page layout discriminator key.
func (c *Config) LayoutKey() string {
	if c.PageLayoutKey != "" {
		return c.PageLayoutKey
	}
	return DefaultPageLayoutKey
}

// TypeKey returns the configured object type discriminator key.
func (c *Config) TypeKey() string {
	if c.ObjectTypeKey != "" {
		return c.ObjectTypeKey
	}
	return DefaultObjectTypeKey
}

// ModelByName returns the model with the given name, or nil.
func (c *Config) ModelByName(name string) *Model {
	for _, m := range c.Models {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// ModelsByType returns every model of the given kind, in config order.
func (c *Config) ModelsByType(t ModelType) []*Model {
	var out []*Model
	for _, m := range c.Models {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
