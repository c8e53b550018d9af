// Package binding holds the binding model produced by the generator: the
// mapping trees and the per-namespace documents that group them.
package binding

import "github.com/cmmoran/bindgen/internal/model"

// Node is an element of a mapping tree.
type Node interface {
	children() []Node
}

// Access names how a node reaches its value: a field, or a get/set pair.
// All empty means the node works on the enclosing object itself.
type Access struct {
	Field string
	Get   string
	Set   string
}

// Reference points at a top-level mapping: by type name for abstract
// mappings, by element name for concrete ones.
type Reference struct {
	Class    string
	Name     model.QName
	Abstract bool
}

// Mapping is a top-level mapping of one class. Abstract mappings are keyed
// by TypeName, concrete mappings by ElementName. A concrete mapping that
// extends another one names the extended class in Extends.
type Mapping struct {
	Class       string
	TypeName    model.QName
	ElementName model.QName
	Abstract    bool
	Extends     string
	CreateType  string
	Factory     string
	Children    []Node
}

func (m *Mapping) children() []Node { return m.Children }

// Add appends child nodes.
func (m *Mapping) Add(n ...Node) { m.Children = append(m.Children, n...) }

// Structure is nested object content. An empty Name makes it unwrapped; a
// non-nil Ref delegates the content to another mapping.
type Structure struct {
	Access
	Name     string
	Type     string
	Ref      *Reference
	Optional bool
	Children []Node
}

func (s *Structure) children() []Node { return s.Children }

// Add appends child nodes.
func (s *Structure) Add(n ...Node) { s.Children = append(s.Children, n...) }

// Value is a leaf value bound as an attribute, element or text.
type Value struct {
	Access
	Name            string
	Style           model.Style
	Type            string
	Optional        bool
	EnumValueMethod string
}

func (v *Value) children() []Node { return nil }

// Collection is a repeated value. ItemType delegates items to the mapping
// of that class; otherwise the single child describes each item.
type Collection struct {
	Access
	Name       string
	Type       string
	ItemType   string
	CreateType string
	Factory    string
	Optional   bool
	Children   []Node
}

func (c *Collection) children() []Node { return c.Children }

// Add appends child nodes.
func (c *Collection) Add(n ...Node) { c.Children = append(c.Children, n...) }

// Unwrapped reports whether the collection items appear directly in the
// parent content, without a wrapper element or a structured item.
func (c *Collection) Unwrapped() bool {
	if c.Name != "" {
		return false
	}
	for _, ch := range c.Children {
		if s, ok := ch.(*Structure); ok && s.Ref == nil {
			return false
		}
	}
	return true
}

// Walk calls fn for n and every node below it, depth first.
func Walk(n Node, fn func(Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.children() {
		Walk(c, fn)
	}
}
