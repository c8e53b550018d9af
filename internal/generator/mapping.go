package generator

import (
	"github.com/cmmoran/bindgen/internal/binding"
	"github.com/cmmoran/bindgen/internal/classinfo"
	"github.com/cmmoran/bindgen/internal/diagnostic"
	"github.com/cmmoran/bindgen/internal/model"
)

// AddMappingDetails returns the mapping detail of a class, creating it on
// first use. Creation decides between abstract and concrete mappings,
// allocates unique names and links the class to the mapping it extends.
func (s *Session) AddMappingDetails(name string) (*MappingDetail, error) {
	if d, ok := s.details[name]; ok {
		return d, nil
	}
	desc, err := s.Descriptor(name)
	if err != nil {
		return nil, err
	}
	if desc.Enum {
		return nil, model.Errorf(model.ErrConfiguration, name, "", "enum classes are bound as values, not mappings")
	}
	d := &MappingDetail{
		Class:     name,
		Namespace: desc.Namespace,
		desc:      desc,
	}
	// registered before linking so cyclic extension stops here
	s.details[name] = d
	s.order = append(s.order, d)

	if err := s.decide(d); err != nil {
		return nil, err
	}
	d.Members = s.collectMembers(desc)

	if err := s.linkExtends(d); err != nil {
		return nil, err
	}
	s.allocateNames(d)
	s.log.Debug("mapping detail", "class", name,
		"abstract", d.UseAbstract, "concrete", d.UseConcrete, "extends", d.Extends)
	return d, nil
}

// decide applies the abstract/concrete decision table.
func (s *Session) decide(d *MappingDetail) error {
	desc := d.desc
	inDirect := s.refs != nil && s.refs.Direct.Has(desc.Name)
	inSuper := s.refs != nil && s.refs.Super.Has(desc.Name)
	hasSuper := s.analyzer.BoundSuper(desc) != ""

	if desc.AbstractRequest != nil {
		d.UseAbstract = *desc.AbstractRequest
	} else {
		d.UseAbstract = desc.AbstractDefault || !desc.Instantiable
	}
	explicitConcrete := desc.ConcreteRequest != nil && *desc.ConcreteRequest
	explicitNotAbstract := desc.AbstractRequest != nil && !*desc.AbstractRequest
	d.UseConcrete = desc.Instantiable &&
		(!desc.Abstract || explicitConcrete || hasSuper || inDirect || explicitNotAbstract)

	// superclasses of bound classes share their content through an
	// abstract mapping
	if inSuper {
		d.RequireAbstract()
	}
	if desc.ConcreteRequest != nil {
		if *desc.ConcreteRequest {
			if !desc.Instantiable {
				return model.Errorf(model.ErrConfiguration, desc.Name, "",
					"concrete mapping requested for a class that cannot be instantiated")
			}
			if err := d.RequireConcrete(); err != nil {
				return err
			}
		} else if err := d.SuppressConcrete(); err != nil {
			return err
		}
	}
	if !d.UseAbstract && !d.UseConcrete {
		s.diags.Warn(diagnostic.CodeAbstractFallback, desc.Name, "",
			"class has neither an abstract nor a concrete mapping, using an abstract mapping")
		d.UseAbstract = true
	}
	return nil
}

// collectMembers indexes the members of a class and its ancestors by access
// key. Members of the class win over inherited ones.
func (s *Session) collectMembers(desc *model.ClassDescriptor) map[string]*model.MemberDescriptor {
	members := make(map[string]*model.MemberDescriptor)
	seen := map[string]bool{}
	for cur := desc; cur != nil && !seen[cur.Name]; {
		seen[cur.Name] = true
		for _, m := range cur.Members {
			if _, ok := members[m.AccessKey()]; !ok {
				members[m.AccessKey()] = m
			}
		}
		if !cur.HasSuper() || classinfo.IsPlatform(cur.Superclass) {
			break
		}
		next, err := s.Descriptor(cur.Superclass)
		if err != nil {
			break
		}
		cur = next
	}
	return members
}

// linkExtends links a class to the mapped class it extends: its bound
// superclass when that has a mapping, else its only mapped abstract
// interface. Interfaces come from the class, its unbound superclasses and
// their super-interfaces; the most specific ones count.
func (s *Session) linkExtends(d *MappingDetail) error {
	desc := d.desc
	if sup := s.analyzer.BoundSuper(desc); sup != "" && s.mapped(sup) {
		sd, err := s.AddMappingDetails(sup)
		if err != nil {
			return err
		}
		sd.RequireAbstract()
		if err := sd.SetExtended(); err != nil {
			return err
		}
		s.allocateNames(sd)
		d.Extends = sup
		return nil
	}

	var candidates []string
	for _, iface := range s.ancestorInterfaces(desc) {
		if s.mapped(iface) {
			id, err := s.AddMappingDetails(iface)
			if err != nil {
				return err
			}
			if id.UseAbstract {
				candidates = append(candidates, iface)
			}
		}
	}
	candidates = s.mostSpecific(candidates)
	switch len(candidates) {
	case 0:
		return nil
	case 1:
		id := s.details[candidates[0]]
		if err := id.SetExtended(); err != nil {
			return err
		}
		s.allocateNames(id)
		d.Extends = candidates[0]
		return nil
	default:
		return model.Errorf(model.ErrConfiguration, desc.Name, "",
			"class implements several mapped interfaces %v; extension needs a single base", candidates)
	}
}

// ancestorInterfaces lists the interfaces a class inherits, nearest first:
// its own, those of its superclasses, then their super-interfaces.
func (s *Session) ancestorInterfaces(desc *model.ClassDescriptor) []string {
	seen := map[string]bool{desc.Name: true}
	queue := append([]string(nil), desc.Interfaces...)
	for sup := desc.Superclass; sup != "" && !classinfo.IsPlatform(sup) && !seen[sup]; {
		seen[sup] = true
		info, ok := s.provider.Lookup(sup)
		if !ok {
			break
		}
		queue = append(queue, info.Interfaces...)
		sup = info.Superclass
	}

	var out []string
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if seen[name] || classinfo.IsPlatform(name) {
			continue
		}
		seen[name] = true
		out = append(out, name)
		if info, ok := s.provider.Lookup(name); ok {
			queue = append(queue, info.Interfaces...)
		}
	}
	return out
}

// mostSpecific drops the interfaces another one of names extends.
func (s *Session) mostSpecific(names []string) []string {
	var out []string
	for _, name := range names {
		covered := false
		for _, other := range names {
			if other != name && classinfo.IsAssignable(s.provider, other, name) {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, name)
		}
	}
	return out
}

// mapped reports whether a class gets a top-level mapping in this run.
func (s *Session) mapped(name string) bool {
	if _, ok := s.details[name]; ok {
		return true
	}
	return s.refs != nil && s.refs.Direct.Has(name)
}

// allocateNames gives the detail unique names for the mappings it uses.
func (s *Session) allocateNames(d *MappingDetail) {
	if d.UseAbstract && d.TypeName.IsZero() {
		d.TypeName = s.names.FixTypeName(model.QName{Namespace: d.Namespace, Local: d.desc.TypeLocal})
	}
	if d.UseConcrete && d.ElementName.IsZero() {
		d.ElementName = s.names.FixElementName(model.QName{Namespace: d.Namespace, Local: d.desc.ElementLocal})
	}
}

// AddMapping builds the mapping tree of a class. It runs once per class;
// later calls return without touching the built tree. The mapping of an
// extended class is built first.
func (s *Session) AddMapping(name string) error {
	d, err := s.AddMappingDetails(name)
	if err != nil {
		return err
	}
	if d.Generated {
		return nil
	}
	d.Generated = true
	s.allocateNames(d)

	if d.Extends != "" {
		if err := s.AddMapping(d.Extends); err != nil {
			return err
		}
	}

	desc := d.desc
	doc := s.bindings.AddBinding(d.Namespace)
	if d.Extends != "" {
		doc.AddDependency(s.details[d.Extends].Namespace)
	}

	content := &binding.Mapping{
		Class:      desc.Name,
		CreateType: desc.CreateType,
		Factory:    desc.Factory,
	}
	if d.UseAbstract {
		content.Abstract = true
		content.TypeName = d.TypeName
	} else {
		content.ElementName = d.ElementName
		content.Extends = d.Extends
	}
	if err := s.fillStructure(content, desc, doc); err != nil {
		return err
	}
	doc.AddMapping(content)

	if d.UseAbstract && d.UseConcrete {
		wrapper := &binding.Mapping{
			Class:       desc.Name,
			ElementName: d.ElementName,
			Extends:     d.Extends,
			CreateType:  desc.CreateType,
			Factory:     desc.Factory,
		}
		wrapper.Add(&binding.Structure{
			Type: desc.Name,
			Ref:  &binding.Reference{Class: desc.Name, Name: d.TypeName, Abstract: true},
		})
		doc.AddMapping(wrapper)
	}
	return nil
}
