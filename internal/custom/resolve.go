package custom

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/cmmoran/bindgen/internal/classinfo"
	"github.com/cmmoran/bindgen/internal/diagnostic"
	"github.com/cmmoran/bindgen/internal/model"
	"github.com/cmmoran/bindgen/internal/naming"
)

// Resolver applies the settings tree to class descriptions.
type Resolver struct {
	global   *Global
	provider classinfo.Provider
	diags    *diagnostic.Diagnostics

	classes  map[string]*Class
	packages map[string]*Package
	external map[string]model.ExternalMapping
}

// NewResolver indexes the settings tree. Class settings listed under a
// package may use simple names.
func NewResolver(g *Global, p classinfo.Provider, d *diagnostic.Diagnostics) (*Resolver, error) {
	if g == nil {
		g = &Global{}
	}
	if d == nil {
		d = diagnostic.New(nil)
	}
	r := &Resolver{
		global:   g,
		provider: p,
		diags:    d,
		classes:  make(map[string]*Class),
		packages: make(map[string]*Package),
		external: make(map[string]model.ExternalMapping),
	}
	addClass := func(pkg string, c *Class) error {
		if c == nil || c.Name == "" {
			return fmt.Errorf("%w: class customization without a name", model.ErrConfiguration)
		}
		name := c.Name
		if pkg != "" && !strings.Contains(name, ".") {
			name = pkg + "." + name
		}
		if _, dup := r.classes[name]; dup {
			return fmt.Errorf("%w: duplicate customization for class %s", model.ErrConfiguration, name)
		}
		r.classes[name] = c
		return nil
	}
	for _, c := range g.Classes {
		if err := addClass("", c); err != nil {
			return nil, err
		}
	}
	for _, pkg := range g.Packages {
		if pkg == nil {
			continue
		}
		if _, dup := r.packages[pkg.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate customization for package %q", model.ErrConfiguration, pkg.Name)
		}
		r.packages[pkg.Name] = pkg
		for _, c := range pkg.Classes {
			if err := addClass(pkg.Name, c); err != nil {
				return nil, err
			}
		}
	}
	for _, m := range g.Mappings {
		if m.Class == "" {
			return nil, fmt.Errorf("%w: external mapping without a class", model.ErrConfiguration)
		}
		r.external[m.Class] = m
	}
	return r, nil
}

// External returns the registered external mapping for a class.
func (r *Resolver) External(name string) (model.ExternalMapping, bool) {
	m, ok := r.external[name]
	return m, ok
}

// Externals returns every registered external mapping ordered by class.
func (r *Resolver) Externals() []model.ExternalMapping {
	out := make([]model.ExternalMapping, 0, len(r.external))
	for _, m := range r.external {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Class < out[j].Class })
	return out
}

// Provider returns the class information provider.
func (r *Resolver) Provider() classinfo.Provider {
	return r.provider
}

// chainFor builds the settings layers applying to a class, most specific first.
func (r *Resolver) chainFor(className string) (chain, *Class, []*Package) {
	cls := r.classes[className]
	if cls == nil {
		cls = &Class{Name: className}
	}
	var pkgs []*Package
	for pkg := model.Package(className); pkg != ""; pkg = model.Package(pkg) {
		if p, ok := r.packages[pkg]; ok {
			pkgs = append(pkgs, p)
		}
	}
	if p, ok := r.packages[""]; ok {
		pkgs = append(pkgs, p)
	}
	c := chain{&cls.Nesting}
	for _, p := range pkgs {
		c = append(c, &p.Nesting)
	}
	c = append(c, &r.global.Nesting)
	return c, cls, pkgs
}

// Namespace returns the namespace URI classes of the package of className
// are bound in.
func (r *Resolver) Namespace(className string) string {
	c, cls, pkgs := r.chainFor(className)
	return r.namespace(c, cls, pkgs, model.Package(className))
}

func (r *Resolver) namespace(c chain, cls *Class, pkgs []*Package, pkg string) string {
	if ns, ok := cls.Namespace.Get(); ok {
		return ns
	}
	if len(pkgs) > 0 && pkgs[0].Name == pkg {
		if ns, ok := pkgs[0].Namespace.Get(); ok {
			return ns
		}
	}
	style := value(c, func(n *Nesting) Opt[naming.NamespaceStyle] { return n.NamespaceStyle }, naming.ByPackage)
	base := value(c, func(n *Nesting) Opt[string] { return n.Namespace }, "")
	return naming.DeriveNamespace(base, pkg, style)
}

// memberSeed is a member found by the access-mode scan, before customization.
type memberSeed struct {
	base   string
	field  *model.FieldInfo
	get    *model.MethodInfo
	set    *model.MethodInfo
	custom *Member
}

// Resolve builds the descriptor of one class.
func (r *Resolver) Resolve(ci *model.ClassInfo) (*model.ClassDescriptor, error) {
	if ci == nil {
		return nil, fmt.Errorf("%w: nil class info", model.ErrInvariant)
	}
	c, cls, pkgs := r.chainFor(ci.Name)

	if err := checkLists(ci.Name, cls); err != nil {
		return nil, err
	}

	style := value(c, func(n *Nesting) Opt[naming.Style] { return n.NameStyle }, naming.CamelCase)
	propertyAccess := value(c, func(n *Nesting) Opt[bool] { return n.PropertyAccess }, false)
	direction := value(c, func(n *Nesting) Opt[Direction] { return n.Direction }, Both)
	excludeAnn := value(c, func(n *Nesting) Opt[[]string] { return n.ExcludeAnnotations }, nil)
	prefixes := value(c, func(n *Nesting) Opt[[]string] { return n.StripPrefixes }, nil)
	suffixes := value(c, func(n *Nesting) Opt[[]string] { return n.StripSuffixes }, nil)

	if ci.Interface && !propertyAccess {
		r.diags.Warn(diagnostic.CodeInterfaceFieldMode, ci.Name, "",
			"interface bound with field access; no fields will be found")
	}

	fields, getters, setters, order := scan(ci, excludeAnn, prefixes, suffixes)

	seeds, err := r.seeds(ci, cls, propertyAccess, direction, fields, getters, setters, order)
	if err != nil {
		return nil, err
	}

	desc := &model.ClassDescriptor{
		Name:            ci.Name,
		SimpleName:      model.SimpleName(ci.Name),
		Package:         model.Package(ci.Name),
		Abstract:        ci.Abstract || ci.Interface,
		Interface:       ci.Interface,
		Enum:            ci.Enum,
		Superclass:      ci.Superclass,
		Interfaces:      append([]string(nil), ci.Interfaces...),
		Namespace:       r.namespace(c, cls, pkgs, model.Package(ci.Name)),
		ForceMapping:    cls.ForceMapping.Or(false),
		AbstractRequest: cls.Abstract.Ptr(),
		ConcreteRequest: cls.Concrete.Ptr(),
		AbstractDefault: value(c, func(n *Nesting) Opt[bool] { return n.AbstractDefault }, false),
		UseSuper:        value(c, func(n *Nesting) Opt[bool] { return n.UseSuper }, true),
		WrapCollections: value(c, func(n *Nesting) Opt[bool] { return n.WrapCollections }, false),
		CreateType:      cls.CreateType.Or(""),
		Factory:         cls.Factory.Or(""),
		EnumValueMethod: cls.EnumValueMethod.Or(""),
	}
	if desc.Superclass == model.ObjectType {
		desc.Superclass = ""
	}
	desc.Instantiable = (ci.Instantiable && !desc.Abstract) || desc.CreateType != "" || desc.Factory != ""
	local := naming.ConvertName(desc.SimpleName, style)
	desc.ElementLocal = cls.ElementName.Or(local)
	desc.TypeLocal = cls.TypeName.Or(local)

	for _, s := range seeds {
		m, err := r.member(ci.Name, c, cls, style, desc.WrapCollections, s)
		if err != nil {
			return nil, err
		}
		desc.Members = append(desc.Members, m)
	}
	return desc, nil
}

// scan collects the candidate fields and accessors of a class keyed by
// lower-cased base name, and the discovery order of the base names for
// each access mode.
func scan(ci *model.ClassInfo, excludeAnn, prefixes, suffixes []string) (
	fields map[string]*model.FieldInfo,
	getters, setters map[string]*model.MethodInfo,
	order map[bool][]string,
) {
	fields = make(map[string]*model.FieldInfo)
	getters = make(map[string]*model.MethodInfo)
	setters = make(map[string]*model.MethodInfo)
	order = map[bool][]string{}
	seen := map[bool]map[string]bool{false: {}, true: {}}
	note := func(prop bool, base string) {
		k := strings.ToLower(base)
		if !seen[prop][k] {
			seen[prop][k] = true
			order[prop] = append(order[prop], base)
		}
	}

	for i := range ci.Fields {
		f := &ci.Fields[i]
		if f.Static || f.Transient || annotationExcluded(f.Annotations, excludeAnn) {
			continue
		}
		base := fieldBaseName(f.Name, prefixes, suffixes)
		fields[strings.ToLower(base)] = f
		note(false, base)
	}
	for i := range ci.Methods {
		m := &ci.Methods[i]
		if m.Static || annotationExcluded(m.Annotations, excludeAnn) {
			continue
		}
		if base, ok := getterBase(m); ok {
			getters[strings.ToLower(base)] = m
			note(true, base)
		} else if base, ok := setterBase(m); ok {
			setters[strings.ToLower(base)] = m
			note(true, base)
		}
	}
	return fields, getters, setters, order
}

// seeds picks the members of a class in their final order.
func (r *Resolver) seeds(
	ci *model.ClassInfo,
	cls *Class,
	propertyAccess bool,
	direction Direction,
	fields map[string]*model.FieldInfo,
	getters, setters map[string]*model.MethodInfo,
	order map[bool][]string,
) ([]*memberSeed, error) {
	excluded := lowerSet(cls.Excludes)

	find := func(name string, prop bool) *memberSeed {
		k := strings.ToLower(name)
		if prop {
			g, s := getters[k], setters[k]
			if g == nil && s == nil {
				return nil
			}
			return &memberSeed{base: accessorBase(g, s), get: g, set: s}
		}
		if f := fields[k]; f != nil {
			return &memberSeed{base: fieldBase(f, name), field: f}
		}
		return nil
	}
	usable := func(s *memberSeed) bool {
		if s.field != nil {
			return true
		}
		switch direction {
		case OutputOnly:
			return s.get != nil
		case InputOnly:
			return s.set != nil
		default:
			return s.get != nil && s.set != nil
		}
	}

	var out []*memberSeed
	taken := map[string]bool{}
	if len(cls.Includes) > 0 {
		for _, name := range cls.Includes {
			s := find(name, propertyAccess)
			if s == nil {
				s = find(name, !propertyAccess)
			}
			if s == nil {
				return nil, model.Errorf(model.ErrConfiguration, ci.Name, name, "included member not found")
			}
			if !usable(s) {
				return nil, model.Errorf(model.ErrConfiguration, ci.Name, name,
					"included property lacks the accessors direction %s needs", direction)
			}
			out = append(out, s)
			taken[strings.ToLower(s.base)] = true
		}
	} else {
		for _, name := range order[propertyAccess] {
			k := strings.ToLower(name)
			if excluded[k] {
				continue
			}
			s := find(name, propertyAccess)
			if s == nil || !usable(s) {
				continue
			}
			out = append(out, s)
			taken[k] = true
		}
	}

	// pre-declared member customizations: attach to a scanned member, or
	// append the member they name
	for _, mc := range cls.Members {
		if mc == nil {
			continue
		}
		key := mc.key()
		if key == "" {
			return nil, model.Errorf(model.ErrConfiguration, ci.Name, "", "member customization without a name")
		}
		k := strings.ToLower(key)
		if excluded[k] {
			return nil, model.Errorf(model.ErrConfiguration, ci.Name, key, "member is both excluded and customized")
		}
		if s := matchSeed(out, mc); s != nil {
			s.custom = mc
			continue
		}
		var s *memberSeed
		switch {
		case mc.Field != "":
			s = find(mc.Field, false)
		case mc.Property != "":
			s = find(mc.Property, true)
		default:
			if s = find(key, propertyAccess); s == nil {
				s = find(key, !propertyAccess)
			}
		}
		if s == nil {
			return nil, model.Errorf(model.ErrConfiguration, ci.Name, key, "customized member not found")
		}
		if taken[strings.ToLower(s.base)] {
			return nil, model.Errorf(model.ErrConfiguration, ci.Name, key, "member customized more than once")
		}
		s.custom = mc
		taken[strings.ToLower(s.base)] = true
		out = append(out, s)
	}
	return out, nil
}

func matchSeed(seeds []*memberSeed, mc *Member) *memberSeed {
	for _, s := range seeds {
		switch {
		case mc.Field != "":
			if s.field != nil && strings.EqualFold(s.field.Name, mc.Field) {
				return s
			}
		case mc.Property != "":
			if s.field == nil && strings.EqualFold(s.base, mc.Property) {
				return s
			}
		default:
			if strings.EqualFold(s.base, mc.Name) || (s.field != nil && strings.EqualFold(s.field.Name, mc.Name)) {
				return s
			}
		}
	}
	return nil
}

// member builds the descriptor of one member.
func (r *Resolver) member(className string, c chain, cls *Class, style naming.Style, wrap bool, s *memberSeed) (*model.MemberDescriptor, error) {
	mc := s.custom
	if mc == nil {
		mc = &Member{}
	}
	m := &model.MemberDescriptor{BaseName: s.base}

	var signature string
	switch {
	case s.field != nil:
		m.FieldName = s.field.Name
		m.Private = s.field.Private
		m.StatedType = s.field.Type
		signature = s.field.Signature
	default:
		var getType, setType string
		if s.get != nil {
			m.GetName = s.get.Name
			getType = s.get.ReturnType
			signature = s.get.Signature
		}
		if s.set != nil {
			m.SetName = s.set.Name
			setType = s.set.ParamTypes[0]
			if signature == "" {
				signature = s.set.Signature
			}
		}
		m.StatedType = r.mostSpecific(getType, setType)
	}
	m.WorkingType = mc.ActualType.Or(m.StatedType)
	m.XMLName = mc.XMLName.Or(naming.ConvertName(s.base, style))

	p := r.provider
	m.Collection = classinfo.IsCollection(p, m.WorkingType)
	switch {
	case m.Collection:
		m.Kind = model.KindCollection
		m.ItemType = r.itemType(className, m, mc, signature)
		m.ItemName = mc.ItemName.Or(naming.DeriveItemName(m.XMLName, m.ItemType, style))
		m.Wrapped = mc.Wrapped.Or(wrap)
	case classinfo.IsSimple(m.WorkingType):
		m.Kind = model.KindSimple
	case classinfo.IsEnum(p, m.WorkingType):
		m.Kind = model.KindEnum
	default:
		if _, ok := r.external[m.WorkingType]; ok {
			m.Kind = model.KindExternal
		} else {
			m.Kind = model.KindStructure
		}
	}

	required, err := r.required(c, cls, m, mc)
	if err != nil {
		return nil, err
	}
	m.Required = required
	if m.Style, err = r.style(className, c, cls, m, mc); err != nil {
		return nil, err
	}

	m.CreateType = mc.CreateType.Or("")
	if m.CreateType == "" && m.Collection {
		m.CreateType = classinfo.DefaultCreateType(m.WorkingType)
	}
	m.Factory = mc.Factory.Or("")
	return m, nil
}

// mostSpecific chooses the member type when getter and setter disagree: the
// getter's type, unless the setter's type is a supertype of it.
func (r *Resolver) mostSpecific(getType, setType string) string {
	switch {
	case setType == "" || getType == setType:
		return getType
	case getType == "":
		return setType
	case classinfo.IsAssignable(r.provider, getType, setType):
		return setType
	default:
		return getType
	}
}

func (r *Resolver) itemType(className string, m *model.MemberDescriptor, mc *Member, signature string) string {
	if t, ok := mc.ItemType.Get(); ok {
		return t
	}
	if classinfo.IsArray(m.WorkingType) {
		return classinfo.ComponentType(m.WorkingType)
	}
	if signature == "" {
		r.diags.Info(diagnostic.CodeUntypedCollection, className, m.BaseName,
			"collection %s has no item type, using %s", m.WorkingType, model.ObjectType)
		return model.ObjectType
	}
	t, ok := ItemTypeFromSignature(signature)
	if !ok {
		r.diags.Warn(diagnostic.CodeAmbiguousGeneric, className, m.BaseName,
			"cannot determine item type from %q, using %s", signature, model.ObjectType)
		return model.ObjectType
	}
	return t
}

func (r *Resolver) required(c chain, cls *Class, m *model.MemberDescriptor, mc *Member) (bool, error) {
	if v, ok := mc.Required.Get(); ok {
		return v, nil
	}
	if containsFold(cls.Requireds, m.BaseName) {
		return true, nil
	}
	if containsFold(cls.Optionals, m.BaseName) {
		return false, nil
	}
	if classinfo.IsPrimitive(m.WorkingType) {
		return value(c, func(n *Nesting) Opt[bool] { return n.RequirePrimitives }, true), nil
	}
	return value(c, func(n *Nesting) Opt[bool] { return n.RequireObjects }, false), nil
}

func (r *Resolver) style(className string, c chain, cls *Class, m *model.MemberDescriptor, mc *Member) (model.Style, error) {
	isValue := m.Kind == model.KindSimple || m.Kind == model.KindEnum
	st, explicit := mc.Style.Get()
	if !explicit {
		switch {
		case containsFold(cls.Elements, m.BaseName):
			st, explicit = model.StyleElement, true
		case containsFold(cls.Attributes, m.BaseName):
			st, explicit = model.StyleAttribute, true
		}
	}
	if !isValue {
		if explicit && st != model.StyleElement {
			return st, model.Errorf(model.ErrConfiguration, className, m.BaseName,
				"%s style is only valid for simple values, %s is a %s", st, m.WorkingType, m.Kind)
		}
		return model.StyleElement, nil
	}
	if explicit {
		return st, nil
	}
	if v, ok := lookup(c, func(n *Nesting) Opt[model.Style] { return n.ValueStyle }).Get(); ok {
		return v, nil
	}
	if classinfo.IsString(m.WorkingType) {
		return model.StyleElement, nil
	}
	return model.StyleAttribute, nil
}

// checkLists rejects keyword lists that contradict each other.
func checkLists(className string, cls *Class) error {
	attrs := lowerSet(cls.Attributes)
	for _, e := range cls.Elements {
		if attrs[strings.ToLower(e)] {
			return model.Errorf(model.ErrConfiguration, className, e, "listed as both element and attribute")
		}
	}
	req := lowerSet(cls.Requireds)
	for _, o := range cls.Optionals {
		if req[strings.ToLower(o)] {
			return model.Errorf(model.ErrConfiguration, className, o, "listed as both required and optional")
		}
	}
	inc := lowerSet(cls.Includes)
	for _, e := range cls.Excludes {
		if inc[strings.ToLower(e)] {
			return model.Errorf(model.ErrConfiguration, className, e, "listed as both included and excluded")
		}
	}
	return nil
}

// fieldBaseName strips configured prefixes and suffixes from a field name
// and normalizes the leading case.
func fieldBaseName(name string, prefixes, suffixes []string) string {
	base := name
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(base, p) && len(base) > len(p) {
			base = base[len(p):]
			break
		}
	}
	for _, s := range suffixes {
		if s != "" && strings.HasSuffix(base, s) && len(base) > len(s) {
			base = base[:len(base)-len(s)]
			break
		}
	}
	return LeadingCase(base)
}

// fieldBase returns the base name a field seed is known by: the normalized
// name the lookup matched, falling back to the field name.
func fieldBase(f *model.FieldInfo, matched string) string {
	if matched != "" {
		return LeadingCase(matched)
	}
	return LeadingCase(f.Name)
}

func getterBase(m *model.MethodInfo) (string, bool) {
	if m.ArgCount != 0 || m.ReturnType == "" || m.ReturnType == "void" {
		return "", false
	}
	if rest, ok := accessorSuffix(m.Name, "get"); ok {
		return LeadingCase(rest), true
	}
	if rest, ok := accessorSuffix(m.Name, "is"); ok && (m.ReturnType == "boolean" || m.ReturnType == "java.lang.Boolean") {
		return LeadingCase(rest), true
	}
	return "", false
}

func setterBase(m *model.MethodInfo) (string, bool) {
	if m.ArgCount != 1 || len(m.ParamTypes) != 1 {
		return "", false
	}
	if rest, ok := accessorSuffix(m.Name, "set"); ok {
		return LeadingCase(rest), true
	}
	return "", false
}

func accessorSuffix(name, prefix string) (string, bool) {
	if !strings.HasPrefix(name, prefix) || len(name) == len(prefix) {
		return "", false
	}
	rest := name[len(prefix):]
	first := []rune(rest)[0]
	if !unicode.IsUpper(first) && first != '_' {
		return "", false
	}
	return rest, true
}

func accessorBase(g, s *model.MethodInfo) string {
	if g != nil {
		if b, ok := getterBase(g); ok {
			return b
		}
	}
	if s != nil {
		if b, ok := setterBase(s); ok {
			return b
		}
	}
	return ""
}

// LeadingCase lower-cases the first letter of a name unless the first two
// letters are both upper case ("Name" -> "name", "URLPath" stays).
func LeadingCase(name string) string {
	rs := []rune(name)
	if len(rs) == 0 {
		return name
	}
	if len(rs) > 1 && unicode.IsUpper(rs[0]) && unicode.IsUpper(rs[1]) {
		return name
	}
	rs[0] = unicode.ToLower(rs[0])
	return string(rs)
}

func lowerSet(names []string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[strings.ToLower(n)] = true
	}
	return out
}

func containsFold(names []string, name string) bool {
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}
