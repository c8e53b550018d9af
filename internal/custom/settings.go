// Package custom holds the customization settings tree and resolves class
// descriptions against it.
package custom

import (
	"fmt"
	"strings"

	"github.com/cmmoran/bindgen/internal/model"
	"github.com/cmmoran/bindgen/internal/naming"
)

// Direction limits the binding to one way of conversion. One-way bindings
// accept members that only have one accessor.
type Direction int

const (
	Both Direction = iota
	InputOnly
	OutputOnly
)

// String returns the configuration keyword of the direction.
func (d Direction) String() string {
	switch d {
	case InputOnly:
		return "input"
	case OutputOnly:
		return "output"
	default:
		return "both"
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "both", "":
		*d = Both
	case "input", "in":
		*d = InputOnly
	case "output", "out":
		*d = OutputOnly
	default:
		return fmt.Errorf("unknown binding direction %q", string(b))
	}
	return nil
}

// Nesting holds the options every level of the tree may set. Unset options
// fall back to the enclosing level.
type Nesting struct {
	PropertyAccess     Opt[bool]                  `yaml:"property_access,omitempty"`
	NameStyle          Opt[naming.Style]          `yaml:"name_style,omitempty"`
	NamespaceStyle     Opt[naming.NamespaceStyle] `yaml:"namespace_style,omitempty"`
	Namespace          Opt[string]                `yaml:"namespace,omitempty"`
	StripPrefixes      Opt[[]string]              `yaml:"strip_prefixes,omitempty"`
	StripSuffixes      Opt[[]string]              `yaml:"strip_suffixes,omitempty"`
	RequirePrimitives  Opt[bool]                  `yaml:"require_primitives,omitempty"`
	RequireObjects     Opt[bool]                  `yaml:"require_objects,omitempty"`
	ValueStyle         Opt[model.Style]           `yaml:"value_style,omitempty"`
	WrapCollections    Opt[bool]                  `yaml:"wrap_collections,omitempty"`
	UseSuper           Opt[bool]                  `yaml:"use_super,omitempty"`
	Direction          Opt[Direction]             `yaml:"direction,omitempty"`
	AbstractDefault    Opt[bool]                  `yaml:"abstract_default,omitempty"`
	ExcludeAnnotations Opt[[]string]              `yaml:"exclude_annotations,omitempty"`
}

// Global is the root of the settings tree.
type Global struct {
	Nesting  `yaml:",inline"`
	Packages []*Package             `yaml:"packages,omitempty"`
	Classes  []*Class               `yaml:"classes,omitempty"`
	Mappings []model.ExternalMapping `yaml:"mappings,omitempty"`
}

// Package customizes every class in a package and its subpackages.
type Package struct {
	Nesting `yaml:",inline"`
	Name    string   `yaml:"name"`
	Classes []*Class `yaml:"classes,omitempty"`
}

// Class customizes one class.
type Class struct {
	Nesting         `yaml:",inline"`
	Name            string      `yaml:"name"`
	ElementName     Opt[string] `yaml:"element_name,omitempty"`
	TypeName        Opt[string] `yaml:"type_name,omitempty"`
	ForceMapping    Opt[bool]   `yaml:"force_mapping,omitempty"`
	Abstract        Opt[bool]   `yaml:"abstract,omitempty"`
	Concrete        Opt[bool]   `yaml:"concrete,omitempty"`
	Includes        []string    `yaml:"includes,omitempty"`
	Excludes        []string    `yaml:"excludes,omitempty"`
	Requireds       []string    `yaml:"requireds,omitempty"`
	Optionals       []string    `yaml:"optionals,omitempty"`
	Elements        []string    `yaml:"elements,omitempty"`
	Attributes      []string    `yaml:"attributes,omitempty"`
	CreateType      Opt[string] `yaml:"create_type,omitempty"`
	Factory         Opt[string] `yaml:"factory,omitempty"`
	EnumValueMethod Opt[string] `yaml:"enum_value_method,omitempty"`
	Members         []*Member   `yaml:"members,omitempty"`
}

// Member customizes one field or property.
type Member struct {
	Name       string           `yaml:"name,omitempty"`
	Field      string           `yaml:"field,omitempty"`
	Property   string           `yaml:"property,omitempty"`
	XMLName    Opt[string]      `yaml:"xml_name,omitempty"`
	Style      Opt[model.Style] `yaml:"style,omitempty"`
	Required   Opt[bool]        `yaml:"required,omitempty"`
	ActualType Opt[string]      `yaml:"actual_type,omitempty"`
	ItemType   Opt[string]      `yaml:"item_type,omitempty"`
	ItemName   Opt[string]      `yaml:"item_name,omitempty"`
	CreateType Opt[string]      `yaml:"create_type,omitempty"`
	Factory    Opt[string]      `yaml:"factory,omitempty"`
	Wrapped    Opt[bool]        `yaml:"wrapped,omitempty"`
}

// key returns the name the member customization is matched by.
func (m *Member) key() string {
	switch {
	case m.Field != "":
		return m.Field
	case m.Property != "":
		return m.Property
	default:
		return m.Name
	}
}
