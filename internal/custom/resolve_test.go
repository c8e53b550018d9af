package custom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/bindgen/internal/classinfo"
	"github.com/cmmoran/bindgen/internal/diagnostic"
	"github.com/cmmoran/bindgen/internal/model"
	"github.com/cmmoran/bindgen/internal/naming"
)

func orderInfo() *model.ClassInfo {
	return &model.ClassInfo{
		Name:         "com.example.Order",
		Instantiable: true,
		Fields: []model.FieldInfo{
			{Name: "id", Type: "long"},
			{Name: "customer", Type: "com.example.Customer"},
			{Name: "items", Type: "java.util.List", Signature: "java.util.List<com.example.LineItem>"},
			{Name: "note", Type: "java.lang.String"},
			{Name: "status", Type: "com.example.Status"},
			{Name: "COUNTER", Type: "int", Static: true},
			{Name: "cache", Type: "java.lang.Object", Transient: true},
		},
	}
}

func testProvider() classinfo.Static {
	return classinfo.NewStatic(
		orderInfo(),
		&model.ClassInfo{Name: "com.example.Customer", Instantiable: true},
		&model.ClassInfo{Name: "com.example.LineItem", Instantiable: true},
		&model.ClassInfo{Name: "com.example.Status", Enum: true},
	)
}

func resolve(t *testing.T, g *Global, ci *model.ClassInfo) (*model.ClassDescriptor, *diagnostic.Diagnostics, error) {
	t.Helper()
	d := diagnostic.New(nil)
	r, err := NewResolver(g, testProvider(), d)
	require.NoError(t, err)
	desc, err := r.Resolve(ci)
	return desc, d, err
}

func TestResolve_Defaults(t *testing.T) {
	desc, d, err := resolve(t, nil, orderInfo())
	require.NoError(t, err)
	assert.Empty(t, d.Warnings)

	assert.Equal(t, "Order", desc.SimpleName)
	assert.Equal(t, "order", desc.ElementLocal)
	assert.Equal(t, "order", desc.TypeLocal)
	assert.Equal(t, "http://example.com", desc.Namespace)
	assert.True(t, desc.Instantiable)
	assert.True(t, desc.UseSuper)

	require.Len(t, desc.Members, 5)
	names := make([]string, 0, len(desc.Members))
	for _, m := range desc.Members {
		names = append(names, m.BaseName)
	}
	assert.Equal(t, []string{"id", "customer", "items", "note", "status"}, names)

	id := desc.Member("id")
	assert.Equal(t, model.KindSimple, id.Kind)
	assert.Equal(t, model.StyleAttribute, id.Style)
	assert.True(t, id.Required, "primitives default to required")

	customer := desc.Member("customer")
	assert.Equal(t, model.KindStructure, customer.Kind)
	assert.Equal(t, model.StyleElement, customer.Style)
	assert.False(t, customer.Required)

	items := desc.Member("items")
	assert.Equal(t, model.KindCollection, items.Kind)
	assert.Equal(t, "com.example.LineItem", items.ItemType)
	assert.Equal(t, "item", items.ItemName)
	assert.Equal(t, "java.util.ArrayList", items.CreateType)
	assert.False(t, items.Wrapped)

	assert.Equal(t, model.StyleElement, desc.Member("note").Style, "strings default to elements")

	status := desc.Member("status")
	assert.Equal(t, model.KindEnum, status.Kind)
	assert.Equal(t, model.StyleAttribute, status.Style)
}

func TestResolve_Layers(t *testing.T) {
	g := &Global{
		Nesting: Nesting{
			NameStyle:      Some(naming.Hyphenated),
			RequireObjects: Some(true),
		},
		Packages: []*Package{{
			Name:    "com.example",
			Nesting: Nesting{Namespace: Some("urn:orders"), ValueStyle: Some(model.StyleElement)},
			Classes: []*Class{{
				Name:        "Order",
				ElementName: Some("purchase-order"),
				Excludes:    []string{"Note"},
				Attributes:  []string{"status"},
				Members: []*Member{
					{Name: "items", Wrapped: Some(true), ItemName: Some("line")},
					{Name: "customer", Required: Some(false)},
				},
			}},
		}},
	}
	desc, _, err := resolve(t, g, orderInfo())
	require.NoError(t, err)

	assert.Equal(t, "purchase-order", desc.ElementLocal)
	assert.Equal(t, "order", desc.TypeLocal)
	assert.Equal(t, "urn:orders", desc.Namespace)
	assert.Nil(t, desc.Member("note"))

	assert.Equal(t, model.StyleElement, desc.Member("id").Style, "package value style")
	assert.Equal(t, model.StyleAttribute, desc.Member("status").Style, "class attribute list wins")
	assert.False(t, desc.Member("customer").Required, "member setting wins")

	items := desc.Member("items")
	assert.True(t, items.Wrapped)
	assert.Equal(t, "line", items.ItemName)
	assert.True(t, items.Required, "global require_objects")
}

func TestResolve_PropertyAccess(t *testing.T) {
	ci := &model.ClassInfo{
		Name:         "com.example.Person",
		Instantiable: true,
		Methods: []model.MethodInfo{
			{Name: "getName", ReturnType: "java.lang.String"},
			{Name: "setName", ArgCount: 1, ParamTypes: []string{"java.lang.String"}},
			{Name: "isActive", ReturnType: "boolean"},
			{Name: "setActive", ArgCount: 1, ParamTypes: []string{"boolean"}},
			{Name: "getURLPath", ReturnType: "java.lang.String"},
			{Name: "setURLPath", ArgCount: 1, ParamTypes: []string{"java.lang.String"}},
			{Name: "getReadOnly", ReturnType: "java.lang.String"},
			{Name: "getTags", ReturnType: "java.util.ArrayList"},
			{Name: "setTags", ArgCount: 1, ParamTypes: []string{"java.util.List"}},
			{Name: "getter", ReturnType: "int"},
		},
	}
	g := &Global{Nesting: Nesting{PropertyAccess: Some(true)}}
	desc, _, err := resolve(t, g, ci)
	require.NoError(t, err)

	names := make([]string, 0, len(desc.Members))
	for _, m := range desc.Members {
		names = append(names, m.BaseName)
	}
	assert.Equal(t, []string{"name", "active", "URLPath", "tags"}, names)

	active := desc.Member("active")
	assert.Equal(t, "isActive", active.GetName)
	assert.Equal(t, "setActive", active.SetName)

	assert.Equal(t, "java.util.List", desc.Member("tags").StatedType, "setter supertype wins")

	g.Direction = Some(OutputOnly)
	desc, _, err = resolve(t, g, ci)
	require.NoError(t, err)
	assert.NotNil(t, desc.Member("readOnly"))
}

func TestResolve_StripAndAnnotations(t *testing.T) {
	ci := &model.ClassInfo{
		Name: "com.example.Legacy",
		Fields: []model.FieldInfo{
			{Name: "m_firstName", Type: "java.lang.String"},
			{Name: "m_secret", Type: "java.lang.String", Annotations: []string{"@javax.xml.bind.annotation.XmlTransient"}},
			{Name: "countValue", Type: "int"},
		},
	}
	g := &Global{Nesting: Nesting{
		StripPrefixes:      Some([]string{"m_"}),
		StripSuffixes:      Some([]string{"Value"}),
		ExcludeAnnotations: Some([]string{"XmlTransient"}),
	}}
	desc, _, err := resolve(t, g, ci)
	require.NoError(t, err)
	require.Len(t, desc.Members, 2)
	assert.Equal(t, "firstName", desc.Members[0].BaseName)
	assert.Equal(t, "m_firstName", desc.Members[0].FieldName)
	assert.Equal(t, "count", desc.Members[1].BaseName)
}

func TestResolve_CollectionItems(t *testing.T) {
	ci := &model.ClassInfo{
		Name: "com.example.Bag",
		Fields: []model.FieldInfo{
			{Name: "raw", Type: "java.util.List"},
			{Name: "wild", Type: "java.util.Set", Signature: "java.util.Set<?>"},
			{Name: "bounded", Type: "java.util.List", Signature: "java.util.List<? extends com.example.LineItem>"},
			{Name: "array", Type: "com.example.LineItem[]"},
			{Name: "override", Type: "java.util.List"},
		},
	}
	g := &Global{Classes: []*Class{{
		Name:    "com.example.Bag",
		Members: []*Member{{Name: "override", ItemType: Some("com.example.Customer")}},
	}}}
	desc, d, err := resolve(t, g, ci)
	require.NoError(t, err)

	assert.Equal(t, model.ObjectType, desc.Member("raw").ItemType)
	assert.Equal(t, model.ObjectType, desc.Member("wild").ItemType)
	assert.Equal(t, "java.util.HashSet", desc.Member("wild").CreateType)
	assert.Equal(t, "com.example.LineItem", desc.Member("bounded").ItemType)
	assert.Equal(t, "com.example.LineItem", desc.Member("array").ItemType)
	assert.Equal(t, "", desc.Member("array").CreateType)
	assert.Equal(t, "com.example.Customer", desc.Member("override").ItemType)

	require.Len(t, d.Warnings, 1)
	assert.Equal(t, diagnostic.CodeAmbiguousGeneric, d.Warnings[0].Code)
	assert.Equal(t, "wild", d.Warnings[0].Member)
}

func TestResolve_InterfaceFieldMode(t *testing.T) {
	ci := &model.ClassInfo{Name: "com.example.Named", Interface: true, Abstract: true}
	desc, d, err := resolve(t, nil, ci)
	require.NoError(t, err)
	assert.True(t, desc.Abstract)
	assert.False(t, desc.Instantiable)
	require.Len(t, d.Warnings, 1)
	assert.Equal(t, diagnostic.CodeInterfaceFieldMode, d.Warnings[0].Code)
}

func TestResolve_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name string
		cls  *Class
	}{
		{"element and attribute", &Class{Elements: []string{"id"}, Attributes: []string{"ID"}}},
		{"required and optional", &Class{Requireds: []string{"note"}, Optionals: []string{"note"}}},
		{"included and excluded", &Class{Includes: []string{"id"}, Excludes: []string{"id"}}},
		{"missing include", &Class{Includes: []string{"nope"}}},
		{"missing member", &Class{Members: []*Member{{Name: "nope"}}}},
		{"excluded and customized", &Class{Excludes: []string{"note"}, Members: []*Member{{Name: "note"}}}},
		{"attribute structure", &Class{Members: []*Member{{Name: "customer", Style: Some(model.StyleAttribute)}}}},
		{"text collection", &Class{Members: []*Member{{Name: "items", Style: Some(model.StyleText)}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cls.Name = "com.example.Order"
			_, _, err := resolve(t, &Global{Classes: []*Class{tt.cls}}, orderInfo())
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrConfiguration)
		})
	}
}

func TestResolve_Includes(t *testing.T) {
	g := &Global{Classes: []*Class{{Name: "com.example.Order", Includes: []string{"note", "id"}}}}
	desc, _, err := resolve(t, g, orderInfo())
	require.NoError(t, err)
	require.Len(t, desc.Members, 2)
	assert.Equal(t, "note", desc.Members[0].BaseName)
	assert.Equal(t, "id", desc.Members[1].BaseName)
}

func TestResolve_IncludedPropertyDirection(t *testing.T) {
	ci := &model.ClassInfo{
		Name:         "com.example.Report",
		Instantiable: true,
		Methods: []model.MethodInfo{
			{Name: "getTitle", ReturnType: "java.lang.String"},
			{Name: "setTitle", ArgCount: 1, ParamTypes: []string{"java.lang.String"}},
			{Name: "getTotal", ReturnType: "int"},
		},
	}
	cls := &Class{Name: "com.example.Report", Includes: []string{"title", "total"}}
	cls.PropertyAccess = Some(true)
	g := &Global{Classes: []*Class{cls}}

	_, _, err := resolve(t, g, ci)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrConfiguration)
	var te *model.TypeError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "total", te.Member)

	cls.Direction = Some(OutputOnly)
	desc, _, err := resolve(t, g, ci)
	require.NoError(t, err)
	require.Len(t, desc.Members, 2)
	assert.Equal(t, "getTotal", desc.Member("total").GetName)
}

func TestResolve_ExternalKind(t *testing.T) {
	g := &Global{Mappings: []model.ExternalMapping{{
		Class:    "com.example.Customer",
		TypeName: model.QName{Namespace: "urn:crm", Local: "customer"},
	}}}
	desc, _, err := resolve(t, g, orderInfo())
	require.NoError(t, err)
	assert.Equal(t, model.KindExternal, desc.Member("customer").Kind)
}

func TestNewResolver_Duplicates(t *testing.T) {
	g := &Global{
		Classes:  []*Class{{Name: "com.example.Order"}},
		Packages: []*Package{{Name: "com.example", Classes: []*Class{{Name: "Order"}}}},
	}
	_, err := NewResolver(g, testProvider(), nil)
	assert.ErrorIs(t, err, model.ErrConfiguration)
}

func TestLeadingCase(t *testing.T) {
	assert.Equal(t, "name", LeadingCase("Name"))
	assert.Equal(t, "URLPath", LeadingCase("URLPath"))
	assert.Equal(t, "x", LeadingCase("X"))
	assert.Equal(t, "", LeadingCase(""))
}
