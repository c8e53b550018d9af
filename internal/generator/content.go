package generator

import (
	"github.com/cmmoran/bindgen/internal/binding"
	"github.com/cmmoran/bindgen/internal/classinfo"
	"github.com/cmmoran/bindgen/internal/diagnostic"
	"github.com/cmmoran/bindgen/internal/model"
)

// container is a node that takes child nodes.
type container interface {
	Add(n ...binding.Node)
}

// fillStructure adds the content of a class to c: the inherited content,
// then one node per member.
func (s *Session) fillStructure(c container, desc *model.ClassDescriptor, doc *binding.Document) error {
	if s.inlining[desc.Name] {
		return model.Errorf(model.ErrInvariant, desc.Name, "", "class content inlined into itself")
	}
	s.inlining[desc.Name] = true
	defer delete(s.inlining, desc.Name)

	if err := s.addInherited(c, desc, doc); err != nil {
		return err
	}
	return s.addMemberBindings(c, desc, doc)
}

// addInherited adds the content a class inherits. A mapped superclass is
// referenced. An unmapped one is inlined, nested when the class has members
// of its own and substituted otherwise. Without a bound superclass the only
// mapped abstract interface it inherits, if any, is referenced.
func (s *Session) addInherited(c container, desc *model.ClassDescriptor, doc *binding.Document) error {
	if sup := s.analyzer.BoundSuper(desc); sup != "" {
		if sd := s.details[sup]; sd != nil {
			ref, _ := s.reference(sd, true)
			c.Add(&binding.Structure{Type: sup, Ref: ref})
			doc.AddDependency(sd.Namespace)
			return nil
		}
		supDesc, err := s.Descriptor(sup)
		if err != nil {
			return err
		}
		if len(desc.Members) == 0 {
			return s.fillStructure(c, supDesc, doc)
		}
		nested := &binding.Structure{Type: sup}
		if err := s.fillStructure(nested, supDesc, doc); err != nil {
			return err
		}
		c.Add(nested)
		return nil
	}

	var names []string
	for _, iface := range s.ancestorInterfaces(desc) {
		if id := s.details[iface]; id != nil && id.UseAbstract {
			names = append(names, iface)
		}
	}
	candidates := make([]*MappingDetail, 0, len(names))
	for _, name := range s.mostSpecific(names) {
		candidates = append(candidates, s.details[name])
	}
	switch len(candidates) {
	case 0:
	case 1:
		id := candidates[0]
		c.Add(&binding.Structure{Type: id.Class, Ref: &binding.Reference{Class: id.Class, Name: id.TypeName, Abstract: true}})
		doc.AddDependency(id.Namespace)
	default:
		s.diags.Warn(diagnostic.CodeMultipleInterfaces, desc.Name, "",
			"class implements %d mapped interfaces, none is referenced", len(candidates))
	}
	return nil
}

// reference returns the reference to a mapped class. Abstract mappings are
// referenced by type name unless the class heads an extension hierarchy, in
// which case the concrete element keeps subclasses substitutable. The flag
// reports whether the referencing node keeps its own element name.
func (s *Session) reference(d *MappingDetail, content bool) (*binding.Reference, bool) {
	if d.UseAbstract && (content || !d.UseConcrete || !d.Extended) {
		return &binding.Reference{Class: d.Class, Name: d.TypeName, Abstract: true}, true
	}
	return &binding.Reference{Class: d.Class, Name: d.ElementName}, false
}

// addMemberBindings adds one node per member of a class.
func (s *Session) addMemberBindings(c container, desc *model.ClassDescriptor, doc *binding.Document) error {
	var prev *binding.Collection
	for _, m := range desc.Members {
		var (
			node binding.Node
			err  error
		)
		switch m.Kind {
		case model.KindCollection:
			var col *binding.Collection
			if col, err = s.defineCollection(desc, m, doc); err != nil {
				return err
			}
			if col == nil {
				prev = nil
				continue
			}
			if col.Unwrapped() {
				if prev != nil && itemKey(prev) == itemKey(col) {
					return &model.TypeError{Kind: model.ErrStructuralAmbiguity, Type: itemKey(col), Class: desc.Name,
						Member: m.BaseName, Reason: "adjacent unwrapped collections with the same item type"}
				}
				prev = col
			} else {
				prev = nil
			}
			c.Add(col)
			continue
		case model.KindSimple, model.KindEnum:
			node, err = s.valueNode(m, doc)
		case model.KindExternal:
			node = s.externalNode(m, doc)
		default:
			node, err = s.structureNode(m, doc)
		}
		if err != nil {
			return err
		}
		prev = nil
		if node != nil {
			c.Add(node)
		}
	}
	return nil
}

func access(m *model.MemberDescriptor) binding.Access {
	return binding.Access{Field: m.FieldName, Get: m.GetName, Set: m.SetName}
}

// valueNode binds a simple or enum member.
func (s *Session) valueNode(m *model.MemberDescriptor, doc *binding.Document) (binding.Node, error) {
	v := &binding.Value{
		Access:   access(m),
		Name:     m.XMLName,
		Style:    m.Style,
		Type:     m.WorkingType,
		Optional: !m.Required,
	}
	if m.Style == model.StyleText {
		v.Name = ""
	}
	if m.Kind == model.KindEnum {
		method, err := s.enumFormat(m.WorkingType, doc)
		if err != nil {
			return nil, err
		}
		v.EnumValueMethod = method
	}
	return v, nil
}

// enumFormat registers the format of an enum converted through a value
// method and returns the method.
func (s *Session) enumFormat(enum string, doc *binding.Document) (string, error) {
	ed, err := s.Descriptor(enum)
	if err != nil {
		return "", err
	}
	if ed.EnumValueMethod == "" {
		return "", nil
	}
	doc.AddFormat(binding.Format{Type: enum, EnumValueMethod: ed.EnumValueMethod})
	return ed.EnumValueMethod, nil
}

// externalNode references a mapping defined outside the generated bindings.
func (s *Session) externalNode(m *model.MemberDescriptor, doc *binding.Document) binding.Node {
	ext, _ := s.resolver.External(m.WorkingType)
	st := &binding.Structure{Access: access(m), Type: m.WorkingType, Optional: !m.Required}
	if !ext.TypeName.IsZero() {
		st.Name = m.XMLName
		st.Ref = &binding.Reference{Class: ext.Class, Name: ext.TypeName, Abstract: true}
		doc.AddDependency(ext.TypeName.Namespace)
	} else {
		st.Ref = &binding.Reference{Class: ext.Class, Name: ext.ElementName}
		doc.AddDependency(ext.ElementName.Namespace)
	}
	return st
}

// structureNode binds a member holding another class: a reference when the
// class is mapped, else its content inlined.
func (s *Session) structureNode(m *model.MemberDescriptor, doc *binding.Document) (binding.Node, error) {
	t := m.WorkingType
	if !s.analyzer.Included(t) {
		return nil, nil
	}
	st := &binding.Structure{Access: access(m), Type: t, Optional: !m.Required}
	if td := s.details[t]; td != nil {
		ref, named := s.reference(td, false)
		st.Ref = ref
		if named {
			st.Name = m.XMLName
		}
		doc.AddDependency(td.Namespace)
		return st, nil
	}
	td, err := s.Descriptor(t)
	if err != nil {
		return nil, err
	}
	st.Name = m.XMLName
	if err := s.fillStructure(st, td, doc); err != nil {
		return nil, err
	}
	return st, nil
}

// defineCollection binds a collection member and describes its items.
// It returns nil when the item class was ignored.
func (s *Session) defineCollection(desc *model.ClassDescriptor, m *model.MemberDescriptor, doc *binding.Document) (*binding.Collection, error) {
	if m.ItemType == "" || m.ItemName == "" {
		return nil, model.Errorf(model.ErrInvariant, desc.Name, m.BaseName, "collection without item type or item name")
	}
	col := &binding.Collection{
		Access:     access(m),
		Type:       m.WorkingType,
		CreateType: m.CreateType,
		Factory:    m.Factory,
		Optional:   !m.Required,
	}
	if m.Wrapped {
		col.Name = m.XMLName
	}

	item := m.ItemType
	td := s.details[item]
	switch {
	case item == model.ObjectType:
		// untyped items carry their own mapping at runtime
	case td != nil && td.UseAbstract && !td.Extended:
		col.Add(&binding.Structure{
			Name: m.ItemName,
			Type: item,
			Ref:  &binding.Reference{Class: item, Name: td.TypeName, Abstract: true},
		})
		doc.AddDependency(td.Namespace)
	case td != nil:
		col.ItemType = item
		doc.AddDependency(td.Namespace)
	case s.IsExternal(item):
		ext, _ := s.resolver.External(item)
		col.ItemType = item
		if !ext.ElementName.IsZero() {
			doc.AddDependency(ext.ElementName.Namespace)
		} else {
			doc.AddDependency(ext.TypeName.Namespace)
		}
	case classinfo.IsSimple(item) || classinfo.IsEnum(s.provider, item):
		v := &binding.Value{Name: m.ItemName, Style: model.StyleElement, Type: item}
		if !classinfo.IsSimple(item) {
			method, err := s.enumFormat(item, doc)
			if err != nil {
				return nil, err
			}
			v.EnumValueMethod = method
		}
		col.Add(v)
	default:
		if !s.analyzer.Included(item) {
			return nil, nil
		}
		id, err := s.Descriptor(item)
		if err != nil {
			return nil, err
		}
		st := &binding.Structure{Name: m.ItemName, Type: item}
		if err := s.fillStructure(st, id, doc); err != nil {
			return nil, err
		}
		col.Add(st)
	}
	return col, nil
}

// itemKey identifies the item type of a collection node.
func itemKey(c *binding.Collection) string {
	if c.ItemType != "" {
		return c.ItemType
	}
	for _, ch := range c.Children {
		switch n := ch.(type) {
		case *binding.Structure:
			return n.Type
		case *binding.Value:
			return n.Type
		}
	}
	return model.ObjectType
}
