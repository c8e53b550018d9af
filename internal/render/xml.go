// Package render turns binding documents into their output forms: binding
// XML, a Go lookup table of mapping details and content fingerprints.
package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/cmmoran/bindgen/internal/binding"
	"github.com/cmmoran/bindgen/internal/model"
)

const ownPrefix = "tns"

type xmlBinding struct {
	XMLName    xml.Name       `xml:"binding"`
	Name       string         `xml:"name,attr,omitempty"`
	Includes   []xmlInclude   `xml:"include"`
	Namespaces []xmlNamespace `xml:"namespace"`
	Formats    []xmlFormat    `xml:"format"`
	Mappings   []xmlMapping   `xml:"mapping"`
}

type xmlInclude struct {
	Path string `xml:"path,attr"`
}

type xmlNamespace struct {
	URI     string `xml:"uri,attr"`
	Prefix  string `xml:"prefix,attr,omitempty"`
	Default string `xml:"default,attr,omitempty"`
}

type xmlFormat struct {
	Type            string `xml:"type,attr"`
	EnumValueMethod string `xml:"enum-value-method,attr,omitempty"`
}

type xmlMapping struct {
	Class      string `xml:"class,attr"`
	Abstract   string `xml:"abstract,attr,omitempty"`
	TypeName   string `xml:"type-name,attr,omitempty"`
	Name       string `xml:"name,attr,omitempty"`
	Extends    string `xml:"extends,attr,omitempty"`
	CreateType string `xml:"create-type,attr,omitempty"`
	Factory    string `xml:"factory,attr,omitempty"`
	Children   []any  `xml:",any"`
}

type xmlStructure struct {
	XMLName  xml.Name `xml:"structure"`
	Name     string   `xml:"name,attr,omitempty"`
	Field    string   `xml:"field,attr,omitempty"`
	Get      string   `xml:"get-method,attr,omitempty"`
	Set      string   `xml:"set-method,attr,omitempty"`
	Type     string   `xml:"type,attr,omitempty"`
	MapAs    string   `xml:"map-as,attr,omitempty"`
	Usage    string   `xml:"usage,attr,omitempty"`
	Children []any    `xml:",any"`
}

type xmlValue struct {
	XMLName xml.Name `xml:"value"`
	Style   string   `xml:"style,attr,omitempty"`
	Name    string   `xml:"name,attr,omitempty"`
	Field   string   `xml:"field,attr,omitempty"`
	Get     string   `xml:"get-method,attr,omitempty"`
	Set     string   `xml:"set-method,attr,omitempty"`
	Usage   string   `xml:"usage,attr,omitempty"`
}

type xmlCollection struct {
	XMLName    xml.Name `xml:"collection"`
	Name       string   `xml:"name,attr,omitempty"`
	Field      string   `xml:"field,attr,omitempty"`
	Get        string   `xml:"get-method,attr,omitempty"`
	Set        string   `xml:"set-method,attr,omitempty"`
	CreateType string   `xml:"create-type,attr,omitempty"`
	Factory    string   `xml:"factory,attr,omitempty"`
	ItemType   string   `xml:"item-type,attr,omitempty"`
	Usage      string   `xml:"usage,attr,omitempty"`
	Children   []any    `xml:",any"`
}

// prefixes hands out namespace prefixes in first-use order. The namespace
// of the document itself is always declared first.
type prefixes struct {
	own   string
	order []string
	byNS  map[string]string
}

func newPrefixes(own string) *prefixes {
	p := &prefixes{own: own, byNS: map[string]string{}}
	if own != "" {
		p.order = append(p.order, own)
		p.byNS[own] = ownPrefix
	}
	return p
}

func (p *prefixes) qualify(q model.QName) string {
	if q.Namespace == "" {
		return q.Local
	}
	prefix, ok := p.byNS[q.Namespace]
	if !ok {
		prefix = "ns" + strconv.Itoa(len(p.byNS)+boolInt(p.own == ""))
		p.byNS[q.Namespace] = prefix
		p.order = append(p.order, q.Namespace)
	}
	return prefix + ":" + q.Local
}

func (p *prefixes) declarations() []xmlNamespace {
	out := make([]xmlNamespace, 0, len(p.order))
	for _, ns := range p.order {
		decl := xmlNamespace{URI: ns, Prefix: p.byNS[ns]}
		if ns == p.own {
			decl.Default = "elements"
		}
		out = append(out, decl)
	}
	return out
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// XML renders a binding document. Output depends only on the document, so
// equal documents render to equal bytes.
func XML(doc *binding.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil binding document")
	}
	p := newPrefixes(doc.Namespace)
	out := xmlBinding{Name: bindingName(doc.Name)}
	for _, inc := range doc.IncludeFiles {
		out.Includes = append(out.Includes, xmlInclude{Path: inc})
	}
	for _, f := range doc.Formats {
		out.Formats = append(out.Formats, xmlFormat{Type: f.Type, EnumValueMethod: f.EnumValueMethod})
	}
	for _, m := range doc.Mappings {
		xm := xmlMapping{
			Class:      m.Class,
			Extends:    m.Extends,
			CreateType: m.CreateType,
			Factory:    m.Factory,
		}
		if m.Abstract {
			xm.Abstract = "true"
			xm.TypeName = p.qualify(m.TypeName)
		} else {
			xm.Name = m.ElementName.Local
		}
		children, err := nodes(m.Children, p)
		if err != nil {
			return nil, fmt.Errorf("mapping %s: %w", m.Class, err)
		}
		xm.Children = children
		out.Mappings = append(out.Mappings, xm)
	}
	out.Namespaces = p.declarations()

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("failed to encode binding %s: %w", doc.Name, err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func nodes(in []binding.Node, p *prefixes) ([]any, error) {
	out := make([]any, 0, len(in))
	for _, n := range in {
		x, err := node(n, p)
		if err != nil {
			return nil, err
		}
		out = append(out, x)
	}
	return out, nil
}

func node(n binding.Node, p *prefixes) (any, error) {
	switch v := n.(type) {
	case *binding.Structure:
		x := xmlStructure{
			Name:  v.Name,
			Field: v.Field,
			Get:   v.Get,
			Set:   v.Set,
			Usage: usage(v.Optional),
		}
		switch {
		case v.Ref == nil:
			x.Type = v.Type
		case v.Ref.Abstract:
			x.MapAs = p.qualify(v.Ref.Name)
		default:
			x.MapAs = v.Ref.Class
		}
		children, err := nodes(v.Children, p)
		if err != nil {
			return nil, err
		}
		x.Children = children
		return x, nil
	case *binding.Value:
		x := xmlValue{
			Name:  v.Name,
			Field: v.Field,
			Get:   v.Get,
			Set:   v.Set,
			Usage: usage(v.Optional),
		}
		if v.Style != model.StyleElement {
			x.Style = v.Style.String()
		}
		return x, nil
	case *binding.Collection:
		x := xmlCollection{
			Name:       v.Name,
			Field:      v.Field,
			Get:        v.Get,
			Set:        v.Set,
			CreateType: v.CreateType,
			Factory:    v.Factory,
			ItemType:   v.ItemType,
			Usage:      usage(v.Optional),
		}
		children, err := nodes(v.Children, p)
		if err != nil {
			return nil, err
		}
		x.Children = children
		return x, nil
	}
	return nil, fmt.Errorf("unsupported binding node %T", n)
}

func usage(optional bool) string {
	if optional {
		return "optional"
	}
	return ""
}

// bindingName strips the file suffix from a document name.
func bindingName(file string) string {
	return strings.TrimSuffix(file, ".xml")
}
