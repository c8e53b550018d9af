package model

import (
	"fmt"
	"strings"
)

// Style is the XML representation of a value member.
type Style int

const (
	StyleElement Style = iota
	StyleAttribute
	StyleText
)

// String returns the binding keyword for the style.
func (s Style) String() string {
	switch s {
	case StyleAttribute:
		return "attribute"
	case StyleText:
		return "text"
	default:
		return "element"
	}
}

// UnmarshalText parses "attribute", "element" or "text" (case-insensitive).
func (s *Style) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "attribute":
		*s = StyleAttribute
	case "element":
		*s = StyleElement
	case "text":
		*s = StyleText
	default:
		return fmt.Errorf("unknown value style %q", string(b))
	}
	return nil
}

// Kind is the working-type variant of a member, decided once when the
// member is resolved and carried with it afterwards.
type Kind int

const (
	KindStructure  Kind = iota // class content, referenced or inlined
	KindSimple                 // leaf value (primitives, strings, dates, ...)
	KindEnum                   // enum-like value class
	KindExternal               // type with a registered external mapping
	KindCollection             // array or collection of items
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindSimple:
		return "simple"
	case KindEnum:
		return "enum"
	case KindExternal:
		return "external"
	case KindCollection:
		return "collection"
	default:
		return "structure"
	}
}

// ClassDescriptor is the resolved, customized view of a class.
type ClassDescriptor struct {
	// Identity -------------------------------------------------------------
	Name       string
	SimpleName string
	Package    string

	// Shape ----------------------------------------------------------------
	Abstract     bool
	Interface    bool
	Enum         bool
	Instantiable bool // concrete-instantiable, or made so by a factory / create type
	Superclass   string
	Interfaces   []string
	Members      []*MemberDescriptor

	// Customization ----------------------------------------------------------
	Namespace       string
	ElementLocal    string // unqualified element name before uniqueness fixing
	TypeLocal       string // unqualified type name before uniqueness fixing
	ForceMapping    bool
	AbstractRequest *bool // nil when the class carries no explicit abstract setting
	ConcreteRequest *bool // nil when the class carries no explicit concrete setting
	AbstractDefault bool
	UseSuper        bool
	WrapCollections bool
	CreateType      string
	Factory         string
	EnumValueMethod string
}

// Member returns the member with the given base name, or nil.
func (c *ClassDescriptor) Member(base string) *MemberDescriptor {
	for _, m := range c.Members {
		if m.BaseName == base {
			return m
		}
	}
	return nil
}

// HasSuper reports whether the class has a superclass other than the root object type.
func (c *ClassDescriptor) HasSuper() bool {
	return c.Superclass != "" && c.Superclass != ObjectType
}

// MemberDescriptor is one field or property of a class.
type MemberDescriptor struct {
	// Identity -------------------------------------------------------------
	BaseName  string // code name with prefixes/suffixes stripped
	FieldName string // "" for property access
	GetName   string // read accessor
	SetName   string // write accessor
	Private   bool

	// Type -----------------------------------------------------------------
	StatedType  string
	WorkingType string // StatedType unless an actual type override is supplied
	Kind        Kind

	// Representation -------------------------------------------------------
	XMLName  string
	Style    Style
	Required bool

	// Collection -----------------------------------------------------------
	Collection bool
	ItemType   string
	ItemName   string
	Wrapped    bool

	// Creation -------------------------------------------------------------
	CreateType string
	Factory    string
}

// AccessKey identifies how the member is reached: the field name for field
// access, else the accessor pair.
func (m *MemberDescriptor) AccessKey() string {
	if m.FieldName != "" {
		return m.FieldName
	}
	return m.GetName + "/" + m.SetName
}

// BoundType returns the collection item type for collections, else the working type.
func (m *MemberDescriptor) BoundType() string {
	if m.Collection {
		return m.ItemType
	}
	return m.WorkingType
}

// ExternalMapping is a mapping defined outside the generated bindings that
// member types may refer to.
type ExternalMapping struct {
	Class       string `yaml:"class" json:"class"`
	TypeName    QName  `yaml:"type_name" json:"type_name"`
	ElementName QName  `yaml:"element_name" json:"element_name"`
}

// ObjectType is the root of the class hierarchy.
const ObjectType = "java.lang.Object"
