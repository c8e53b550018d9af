// Package javasrc reads class information straight from Java sources with
// tree-sitter, for projects that have no compiled class descriptions.
package javasrc

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"github.com/cmmoran/bindgen/internal/model"
)

// javaLang holds the java.lang classes usable without an import.
var javaLang = map[string]bool{
	"String": true, "Object": true, "Integer": true, "Long": true, "Short": true, "Byte": true,
	"Character": true, "Boolean": true, "Double": true, "Float": true, "Number": true, "Class": true,
	"Enum": true, "Iterable": true, "CharSequence": true, "Comparable": true, "Cloneable": true,
	"Runnable": true, "Throwable": true, "Exception": true, "RuntimeException": true, "Void": true,
	"StringBuilder": true,
}

// ParseSource parses one compilation unit and returns its classes,
// nested classes included.
func ParseSource(ctx context.Context, src []byte) ([]*model.ClassInfo, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(java.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}
	root := tree.RootNode()

	u := &unit{src: src, imports: map[string]string{}, local: map[string]string{}}
	var decls []*sitter.Node
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "package_declaration":
			if n := child.NamedChild(0); n != nil {
				u.pkg = n.Content(src)
			}
		case "import_declaration":
			u.addImport(child)
		case "class_declaration", "interface_declaration", "enum_declaration":
			decls = append(decls, child)
		}
	}
	// declared names first, so members may refer to classes declared later
	for _, d := range decls {
		u.declare(d, "")
	}
	var out []*model.ClassInfo
	for _, d := range decls {
		out = append(out, u.class(d, "", nil)...)
	}
	return out, nil
}

// unit is the parsing state of one compilation unit.
type unit struct {
	src     []byte
	pkg     string
	imports map[string]string // simple name -> qualified name
	local   map[string]string // declared simple or dotted name -> binary name
}

func (u *unit) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(u.src)
}

func (u *unit) addImport(n *sitter.Node) {
	if hasChild(n, "static") || hasChild(n, "asterisk") {
		return
	}
	name := u.text(n.NamedChild(0))
	if name == "" {
		return
	}
	u.imports[name[strings.LastIndexByte(name, '.')+1:]] = name
}

func (u *unit) qualify(simple string) string {
	if u.pkg == "" {
		return simple
	}
	return u.pkg + "." + simple
}

// declare registers the binary names of a type declaration and its nested
// declarations.
func (u *unit) declare(n *sitter.Node, outer string) {
	name := u.text(n.ChildByFieldName("name"))
	binary := u.qualify(name)
	dotted := name
	if outer != "" {
		binary = u.local[outer] + "$" + name
		dotted = outer + "." + name
		if _, taken := u.local[name]; !taken {
			u.local[name] = binary
		}
	}
	u.local[dotted] = binary
	for _, nested := range nestedDecls(n) {
		u.declare(nested, dotted)
	}
}

func nestedDecls(n *sitter.Node) []*sitter.Node {
	body := n.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	var out []*sitter.Node
	collect := func(b *sitter.Node) {
		for i := 0; i < int(b.NamedChildCount()); i++ {
			switch c := b.NamedChild(i); c.Type() {
			case "class_declaration", "interface_declaration", "enum_declaration":
				out = append(out, c)
			}
		}
	}
	collect(body)
	for i := 0; i < int(body.NamedChildCount()); i++ {
		if c := body.NamedChild(i); c.Type() == "enum_body_declarations" {
			collect(c)
		}
	}
	return out
}

// class builds the class information of a declaration and its nested
// declarations. typeVars holds the type variables in scope.
func (u *unit) class(n *sitter.Node, outer string, typeVars map[string]bool) []*model.ClassInfo {
	name := u.text(n.ChildByFieldName("name"))
	dotted := name
	if outer != "" {
		dotted = outer + "." + name
	}
	mods := u.modifiers(n)
	vars := scopeVars(typeVars, u.typeParams(n))

	ci := &model.ClassInfo{
		Name:        u.local[dotted],
		Annotations: mods.annotations,
	}
	switch n.Type() {
	case "interface_declaration":
		ci.Interface = true
		ci.Abstract = true
		if ext := childOfType(n, "extends_interfaces"); ext != nil {
			ci.Interfaces = u.typeList(ext, vars)
		}
	case "enum_declaration":
		ci.Enum = true
		if impl := n.ChildByFieldName("interfaces"); impl != nil {
			ci.Interfaces = u.typeList(impl, vars)
		}
	default:
		ci.Abstract = mods.has("abstract")
		if sup := n.ChildByFieldName("superclass"); sup != nil {
			ci.Superclass = u.erasure(sup.NamedChild(0), vars)
		}
		if ci.Superclass == model.ObjectType {
			ci.Superclass = ""
		}
		if impl := n.ChildByFieldName("interfaces"); impl != nil {
			ci.Interfaces = u.typeList(impl, vars)
		}
	}

	hasCtor, noArgCtor := false, false
	body := n.ChildByFieldName("body")
	members := []*sitter.Node{}
	if body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			c := body.NamedChild(i)
			if c.Type() == "enum_body_declarations" {
				for j := 0; j < int(c.NamedChildCount()); j++ {
					members = append(members, c.NamedChild(j))
				}
				continue
			}
			members = append(members, c)
		}
	}
	for _, c := range members {
		switch c.Type() {
		case "field_declaration", "constant_declaration":
			ci.Fields = append(ci.Fields, u.fields(c, vars, ci.Interface)...)
		case "method_declaration":
			ci.Methods = append(ci.Methods, u.method(c, vars, ci.Interface))
		case "constructor_declaration":
			hasCtor = true
			params := c.ChildByFieldName("parameters")
			if (params == nil || params.NamedChildCount() == 0) && !u.modifiers(c).has("private") {
				noArgCtor = true
			}
		}
	}
	static := outer == "" || mods.has("static") || n.Type() != "class_declaration"
	ci.Instantiable = n.Type() == "class_declaration" && !ci.Abstract && static && (!hasCtor || noArgCtor)

	out := []*model.ClassInfo{ci}
	for _, nested := range nestedDecls(n) {
		var inner map[string]bool
		if n.Type() == "class_declaration" && nested.Type() == "class_declaration" && !u.modifiers(nested).has("static") {
			inner = vars
		}
		out = append(out, u.class(nested, dotted, inner)...)
	}
	return out
}

func (u *unit) fields(n *sitter.Node, vars map[string]bool, inInterface bool) []model.FieldInfo {
	mods := u.modifiers(n)
	typeNode := n.ChildByFieldName("type")
	typ := u.erasure(typeNode, vars)
	sig := u.signature(typeNode, vars)
	var out []model.FieldInfo
	for i := 0; i < int(n.NamedChildCount()); i++ {
		d := n.NamedChild(i)
		if d.Type() != "variable_declarator" {
			continue
		}
		ft := typ
		if dims := d.ChildByFieldName("dimensions"); dims != nil {
			ft += strings.Repeat("[]", strings.Count(u.text(dims), "["))
		}
		out = append(out, model.FieldInfo{
			Name:        u.text(d.ChildByFieldName("name")),
			Type:        ft,
			Signature:   sig,
			Static:      inInterface || mods.has("static"),
			Transient:   mods.has("transient"),
			Final:       inInterface || mods.has("final"),
			Private:     mods.has("private"),
			Annotations: mods.annotations,
		})
	}
	return out
}

func (u *unit) method(n *sitter.Node, classVars map[string]bool, inInterface bool) model.MethodInfo {
	mods := u.modifiers(n)
	vars := scopeVars(classVars, u.typeParams(n))
	m := model.MethodInfo{
		Name:        u.text(n.ChildByFieldName("name")),
		ReturnType:  u.erasure(n.ChildByFieldName("type"), vars),
		Static:      mods.has("static"),
		Public:      inInterface || mods.has("public"),
		Annotations: mods.annotations,
	}
	var firstParam *sitter.Node
	if params := n.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			p := params.NamedChild(i)
			var pt string
			switch p.Type() {
			case "formal_parameter":
				pt = u.erasure(p.ChildByFieldName("type"), vars)
				if firstParam == nil {
					firstParam = p.ChildByFieldName("type")
				}
			case "spread_parameter":
				pt = u.erasure(p.NamedChild(0), vars) + "[]"
			default:
				continue
			}
			m.ParamTypes = append(m.ParamTypes, pt)
		}
	}
	m.ArgCount = len(m.ParamTypes)
	switch {
	case m.ArgCount == 0:
		m.Signature = u.signature(n.ChildByFieldName("type"), vars)
	case m.ArgCount == 1 && firstParam != nil:
		m.Signature = u.signature(firstParam, vars)
	}
	return m
}

// erasure returns the erased, qualified form of a type node.
func (u *unit) erasure(n *sitter.Node, vars map[string]bool) string {
	if n == nil {
		return ""
	}
	switch n.Type() {
	case "integral_type", "floating_point_type", "boolean_type", "void_type":
		return u.text(n)
	case "array_type":
		elem := n.ChildByFieldName("element")
		if elem == nil {
			elem = n.NamedChild(0)
		}
		dims := strings.Count(u.text(n.ChildByFieldName("dimensions")), "[")
		if dims == 0 {
			dims = 1
		}
		return u.erasure(elem, vars) + strings.Repeat("[]", dims)
	case "generic_type":
		return u.erasure(n.NamedChild(0), vars)
	case "type_identifier", "scoped_type_identifier":
		return u.resolve(u.text(n), vars)
	case "annotated_type":
		return u.erasure(n.NamedChild(int(n.NamedChildCount())-1), vars)
	default:
		return u.resolve(u.text(n), vars)
	}
}

// signature returns the generic form of a parameterized type node, or "".
func (u *unit) signature(n *sitter.Node, vars map[string]bool) string {
	if n == nil || n.Type() != "generic_type" {
		return ""
	}
	return u.generic(n, vars)
}

func (u *unit) generic(n *sitter.Node, vars map[string]bool) string {
	switch n.Type() {
	case "generic_type":
		args := childOfType(n, "type_arguments")
		base := u.erasure(n.NamedChild(0), vars)
		if args == nil {
			return base
		}
		parts := make([]string, 0, args.NamedChildCount())
		for i := 0; i < int(args.NamedChildCount()); i++ {
			parts = append(parts, u.generic(args.NamedChild(i), vars))
		}
		return base + "<" + strings.Join(parts, ",") + ">"
	case "wildcard":
		if n.NamedChildCount() == 0 {
			return "?"
		}
		bound := n.NamedChild(int(n.NamedChildCount()) - 1)
		switch {
		case hasChild(n, "super"):
			return "? super " + u.generic(bound, vars)
		default:
			return "? extends " + u.generic(bound, vars)
		}
	case "type_identifier":
		name := u.text(n)
		if vars[name] {
			return name
		}
		return u.resolve(name, vars)
	default:
		return u.erasure(n, vars)
	}
}

// resolve qualifies a type name: type variables erase to Object, then
// declared classes, imports, java.lang and finally the own package.
func (u *unit) resolve(name string, vars map[string]bool) string {
	if vars[name] {
		return model.ObjectType
	}
	if binary, ok := u.local[name]; ok {
		return binary
	}
	head, rest, dotted := strings.Cut(name, ".")
	if q, ok := u.imports[head]; ok {
		if dotted {
			return q + "$" + strings.ReplaceAll(rest, ".", "$")
		}
		return q
	}
	if dotted {
		return name
	}
	if javaLang[name] {
		return "java.lang." + name
	}
	return u.qualify(name)
}

func (u *unit) typeList(n *sitter.Node, vars map[string]bool) []string {
	list := childOfType(n, "type_list")
	if list == nil {
		list = n
	}
	var out []string
	for i := 0; i < int(list.NamedChildCount()); i++ {
		out = append(out, u.erasure(list.NamedChild(i), vars))
	}
	return out
}

func (u *unit) typeParams(n *sitter.Node) []string {
	tp := n.ChildByFieldName("type_parameters")
	if tp == nil {
		tp = childOfType(n, "type_parameters")
	}
	if tp == nil {
		return nil
	}
	var out []string
	for i := 0; i < int(tp.NamedChildCount()); i++ {
		if p := tp.NamedChild(i); p.Type() == "type_parameter" && p.NamedChildCount() > 0 {
			out = append(out, u.text(p.NamedChild(0)))
		}
	}
	return out
}

type modifiers struct {
	keywords    map[string]bool
	annotations []string
}

func (m modifiers) has(kw string) bool {
	return m.keywords[kw]
}

// modifiers reads the keywords and annotations of a declaration. Keywords
// are anonymous nodes, so all children are scanned.
func (u *unit) modifiers(n *sitter.Node) modifiers {
	out := modifiers{keywords: map[string]bool{}}
	mods := childOfType(n, "modifiers")
	if mods == nil {
		return out
	}
	for i := 0; i < int(mods.ChildCount()); i++ {
		c := mods.Child(i)
		switch c.Type() {
		case "marker_annotation", "annotation":
			out.annotations = append(out.annotations, u.text(c.ChildByFieldName("name")))
		default:
			out.keywords[c.Type()] = true
		}
	}
	return out
}

func childOfType(n *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.Type() == typ {
			return c
		}
	}
	return nil
}

func hasChild(n *sitter.Node, typ string) bool {
	return childOfType(n, typ) != nil
}

func scopeVars(outer map[string]bool, names []string) map[string]bool {
	if len(names) == 0 {
		return outer
	}
	out := make(map[string]bool, len(outer)+len(names))
	for k := range outer {
		out[k] = true
	}
	for _, n := range names {
		out[n] = true
	}
	return out
}
