package generator

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/bindgen/internal/binding"
	"github.com/cmmoran/bindgen/internal/classinfo"
	"github.com/cmmoran/bindgen/internal/custom"
	"github.com/cmmoran/bindgen/internal/diagnostic"
	"github.com/cmmoran/bindgen/internal/model"
)

const ns = "http://example.com"

func field(name, typ string) model.FieldInfo {
	return model.FieldInfo{Name: name, Type: typ, Private: true}
}

func listOf(name, item string) model.FieldInfo {
	return model.FieldInfo{Name: name, Type: "java.util.List", Signature: "java.util.List<" + item + ">", Private: true}
}

func concrete(name string, fields ...model.FieldInfo) *model.ClassInfo {
	return &model.ClassInfo{Name: name, Instantiable: true, Fields: fields}
}

func orderClasses() classinfo.Static {
	return classinfo.NewStatic(
		concrete("com.example.Order", listOf("items", "com.example.LineItem"), field("buyer", "com.example.Customer")),
		concrete("com.example.Invoice", field("customer", "com.example.Customer"), field("number", "java.lang.String")),
		concrete("com.example.LineItem", field("sku", "java.lang.String"), field("quantity", "int")),
		concrete("com.example.Customer", field("name", "java.lang.String")),
	)
}

func shapeClasses() classinfo.Static {
	return classinfo.NewStatic(
		&model.ClassInfo{Name: "com.example.Shape", Abstract: true, Fields: []model.FieldInfo{field("color", "java.lang.String")}},
		&model.ClassInfo{Name: "com.example.Circle", Superclass: "com.example.Shape", Instantiable: true,
			Fields: []model.FieldInfo{field("radius", "double")}},
		&model.ClassInfo{Name: "com.example.Square", Superclass: "com.example.Shape", Instantiable: true,
			Fields: []model.FieldInfo{field("side", "double")}},
	)
}

func generate(t *testing.T, p classinfo.Provider, g *custom.Global, roots ...string) (*Session, *binding.Document, error) {
	t.Helper()
	s, err := NewSession(p, g, diagnostic.New(nil))
	require.NoError(t, err)
	root, err := s.Generate(roots, "binding.xml")
	return s, root, err
}

func mappingsOf(doc *binding.Document, class string) []*binding.Mapping {
	var out []*binding.Mapping
	for _, m := range doc.Mappings {
		if m.Class == class {
			out = append(out, m)
		}
	}
	return out
}

func TestGenerate_OrderScenario(t *testing.T) {
	s, root, err := generate(t, orderClasses(), nil, "com.example.Order", "com.example.Invoice")
	require.NoError(t, err)

	assert.Equal(t, "binding.xml", root.Name)
	assert.Equal(t, ns, root.Namespace)
	assert.Len(t, s.Bindings().Documents(), 1)

	classes := make([]string, 0, len(root.Mappings))
	for _, m := range root.Mappings {
		classes = append(classes, m.Class)
	}
	assert.Equal(t, []string{"com.example.Order", "com.example.Invoice", "com.example.Customer"}, classes,
		"line items are inlined, customers are shared")

	order := root.Mapping("com.example.Order")
	require.NotNil(t, order, spew.Sdump(root))
	assert.False(t, order.Abstract)
	assert.Equal(t, model.QName{Namespace: ns, Local: "order"}, order.ElementName)
	require.Len(t, order.Children, 2)

	items, ok := order.Children[0].(*binding.Collection)
	require.True(t, ok)
	assert.Equal(t, "items", items.Field)
	assert.Equal(t, "", items.Name)
	assert.Equal(t, "java.util.ArrayList", items.CreateType)
	require.Len(t, items.Children, 1)
	line, ok := items.Children[0].(*binding.Structure)
	require.True(t, ok)
	assert.Nil(t, line.Ref)
	assert.Equal(t, "item", line.Name)
	assert.Equal(t, "com.example.LineItem", line.Type)
	require.Len(t, line.Children, 2)
	sku := line.Children[0].(*binding.Value)
	assert.Equal(t, model.StyleElement, sku.Style)
	quantity := line.Children[1].(*binding.Value)
	assert.Equal(t, model.StyleAttribute, quantity.Style)
	assert.False(t, quantity.Optional)

	buyer, ok := order.Children[1].(*binding.Structure)
	require.True(t, ok)
	require.NotNil(t, buyer.Ref)
	assert.Equal(t, "buyer", buyer.Field)
	assert.Equal(t, "", buyer.Name, "concrete references take the element name of the mapping")
	assert.Equal(t, &binding.Reference{Class: "com.example.Customer", Name: model.QName{Namespace: ns, Local: "customer"}}, buyer.Ref)
	assert.True(t, buyer.Optional)

	customer := s.Detail("com.example.Customer")
	require.NotNil(t, customer)
	assert.True(t, customer.UseConcrete)
	assert.False(t, customer.UseAbstract)
	assert.True(t, customer.Generated)
	assert.Nil(t, s.Detail("com.example.LineItem"))
	assert.Equal(t, 2, s.References().Counts["com.example.Customer"])
}

func TestGenerate_ShapeScenario(t *testing.T) {
	s, root, err := generate(t, shapeClasses(), nil, "com.example.Circle", "com.example.Square")
	require.NoError(t, err)

	shape := s.Detail("com.example.Shape")
	require.NotNil(t, shape)
	assert.True(t, shape.UseAbstract)
	assert.True(t, shape.Extended)
	assert.Equal(t, model.QName{Namespace: ns, Local: "shape"}, shape.TypeName)

	shapes := mappingsOf(root, "com.example.Shape")
	require.Len(t, shapes, 2)
	assert.True(t, shapes[0].Abstract)
	require.Len(t, shapes[0].Children, 1)
	assert.Equal(t, "color", shapes[0].Children[0].(*binding.Value).Name)
	assert.False(t, shapes[1].Abstract)
	assert.Equal(t, "shape", shapes[1].ElementName.Local)

	for _, tc := range []struct{ class, element, member string }{
		{"com.example.Circle", "circle", "radius"},
		{"com.example.Square", "square", "side"},
	} {
		ms := mappingsOf(root, tc.class)
		require.Len(t, ms, 1, tc.class)
		m := ms[0]
		assert.False(t, m.Abstract)
		assert.Equal(t, tc.element, m.ElementName.Local)
		assert.Equal(t, "com.example.Shape", m.Extends)
		require.Len(t, m.Children, 2)
		base := m.Children[0].(*binding.Structure)
		assert.Equal(t, &binding.Reference{Class: "com.example.Shape", Name: shape.TypeName, Abstract: true}, base.Ref)
		assert.Equal(t, tc.member, m.Children[1].(*binding.Value).Name)
	}

	assert.Equal(t, "com.example.Shape", root.Mappings[0].Class, "extended mappings come first")
}

func TestGenerate_InlinedSuperclass(t *testing.T) {
	p := shapeClasses()
	p.Add(&model.ClassInfo{Name: "com.example.Dot", Superclass: "com.example.Shape", Instantiable: true})

	_, root, err := generate(t, p, nil, "com.example.Circle")
	require.NoError(t, err)
	circle := root.Mapping("com.example.Circle")
	require.NotNil(t, circle)
	require.Len(t, circle.Children, 2)
	nested := circle.Children[0].(*binding.Structure)
	assert.Nil(t, nested.Ref)
	assert.Equal(t, "", nested.Name)
	assert.Equal(t, "com.example.Shape", nested.Type)
	require.Len(t, nested.Children, 1)

	_, root, err = generate(t, p, nil, "com.example.Dot")
	require.NoError(t, err)
	dot := root.Mapping("com.example.Dot")
	require.NotNil(t, dot)
	require.Len(t, dot.Children, 1, "a class without members takes its superclass content")
	assert.Equal(t, "color", dot.Children[0].(*binding.Value).Name)
}

func TestGenerate_InheritedInterface(t *testing.T) {
	t.Run("through an ignored superclass", func(t *testing.T) {
		p := classinfo.NewStatic(
			&model.ClassInfo{Name: "com.example.Named", Interface: true},
			&model.ClassInfo{Name: "com.example.Base", Abstract: true, Interfaces: []string{"com.example.Named"}},
			&model.ClassInfo{Name: "com.example.Thing", Superclass: "com.example.Base", Instantiable: true,
				Fields: []model.FieldInfo{field("v", "int")}},
		)
		s, root, err := generate(t, p, nil, "com.example.Named", "com.example.Thing")
		require.NoError(t, err)

		named := s.Detail("com.example.Named")
		require.NotNil(t, named)
		assert.Equal(t, "com.example.Named", s.Detail("com.example.Thing").Extends)

		thing := mappingsOf(root, "com.example.Thing")
		require.Len(t, thing, 1)
		assert.Equal(t, "com.example.Named", thing[0].Extends)
		require.Len(t, thing[0].Children, 2)
		st, ok := thing[0].Children[0].(*binding.Structure)
		require.True(t, ok)
		want := &binding.Reference{Class: "com.example.Named", Name: named.TypeName, Abstract: true}
		if diff := cmp.Diff(want, st.Ref); diff != "" {
			t.Errorf("inherited reference mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("most specific super-interface", func(t *testing.T) {
		p := classinfo.NewStatic(
			&model.ClassInfo{Name: "com.example.Named", Interface: true},
			&model.ClassInfo{Name: "com.example.Titled", Interface: true, Interfaces: []string{"com.example.Named"}},
			&model.ClassInfo{Name: "com.example.Book", Instantiable: true,
				Interfaces: []string{"com.example.Titled", "com.example.Named"},
				Fields:     []model.FieldInfo{field("v", "int")}},
		)
		s, _, err := generate(t, p, nil, "com.example.Named", "com.example.Titled", "com.example.Book")
		require.NoError(t, err)
		assert.Equal(t, "com.example.Titled", s.Detail("com.example.Book").Extends)
		assert.Equal(t, "com.example.Named", s.Detail("com.example.Titled").Extends)
	})
}

func TestGenerate_ContentlessCycleSkipped(t *testing.T) {
	p := classinfo.NewStatic(
		concrete("com.example.Root", field("a", "com.example.A"), field("v", "java.lang.String")),
		concrete("com.example.A", field("b", "com.example.B")),
		concrete("com.example.B", field("a", "com.example.A")),
	)
	_, root, err := generate(t, p, nil, "com.example.Root")
	require.NoError(t, err)
	assert.Empty(t, mappingsOf(root, "com.example.A"))
	assert.Empty(t, mappingsOf(root, "com.example.B"))
	r := mappingsOf(root, "com.example.Root")
	require.Len(t, r, 1)
	require.Len(t, r[0].Children, 1)
	assert.Equal(t, "v", r[0].Children[0].(*binding.Value).Name)
}

func TestAddMapping_Idempotent(t *testing.T) {
	s, root, err := generate(t, orderClasses(), nil, "com.example.Order", "com.example.Invoice")
	require.NoError(t, err)

	before := spew.Sdump(root.Mappings)
	require.NoError(t, s.AddMapping("com.example.Order"))
	require.NoError(t, s.AddMapping("com.example.Customer"))
	assert.Equal(t, before, spew.Sdump(root.Mappings))
	assert.Len(t, root.Mappings, 3)
}

func TestGenerate_CycleAndDiamond(t *testing.T) {
	p := classinfo.NewStatic(
		concrete("com.example.Root", field("a", "com.example.A"), field("b", "com.example.B")),
		concrete("com.example.A", field("b", "com.example.B"), field("c", "com.example.C"), field("name", "java.lang.String")),
		concrete("com.example.B", field("a", "com.example.A"), field("c", "com.example.C")),
		concrete("com.example.C", field("v", "java.lang.String")),
	)
	_, root, err := generate(t, p, nil, "com.example.Root")
	require.NoError(t, err)
	for _, class := range []string{"com.example.Root", "com.example.A", "com.example.B", "com.example.C"} {
		assert.Len(t, mappingsOf(root, class), 1, class)
	}
}

func TestGenerate_SingleReferenceCycle(t *testing.T) {
	p := classinfo.NewStatic(
		concrete("com.example.Root", field("a", "com.example.A")),
		concrete("com.example.A", field("b", "com.example.B")),
		concrete("com.example.B", field("a", "com.example.A"), field("v", "java.lang.String")),
	)
	_, root, err := generate(t, p, nil, "com.example.Root")
	require.NoError(t, err)
	assert.Len(t, mappingsOf(root, "com.example.A"), 1, "entry of the cycle is shared")
	assert.Empty(t, mappingsOf(root, "com.example.B"), "inside of the cycle is inlined")
}

func TestGenerate_NameUniqueness(t *testing.T) {
	p := classinfo.NewStatic(
		concrete("com.example.Item", field("v", "java.lang.String")),
		concrete("com.example.ITEM", field("v", "java.lang.String")),
		concrete("com.example.Item_", field("v", "java.lang.String")),
	)
	roots := []string{"com.example.Item", "com.example.ITEM", "com.example.Item_"}
	g := &custom.Global{Nesting: custom.Nesting{AbstractDefault: custom.Some(true)}}
	s, _, err := generate(t, p, g, roots...)
	require.NoError(t, err)

	types := map[model.QName]string{}
	elements := map[model.QName]string{}
	for _, d := range s.Details() {
		require.True(t, d.UseAbstract)
		require.True(t, d.UseConcrete)
		if other, dup := types[d.TypeName]; dup {
			t.Fatalf("type name %s shared by %s and %s", d.TypeName, other, d.Class)
		}
		types[d.TypeName] = d.Class
		if other, dup := elements[d.ElementName]; dup {
			t.Fatalf("element name %s shared by %s and %s", d.ElementName, other, d.Class)
		}
		elements[d.ElementName] = d.Class
	}
	assert.Equal(t, "item", s.Detail("com.example.Item").ElementName.Local)
	assert.Equal(t, "item1", s.Detail("com.example.ITEM").ElementName.Local)
	assert.Equal(t, "item2", s.Detail("com.example.Item_").ElementName.Local)
	assert.Equal(t, "item", s.Detail("com.example.Item").TypeName.Local, "types and elements are named independently")
}

func TestGenerate_ExternalNamesReserved(t *testing.T) {
	g := &custom.Global{Mappings: []model.ExternalMapping{{
		Class:       "org.other.Thing",
		ElementName: model.QName{Namespace: ns, Local: "customer"},
	}}}
	s, _, err := generate(t, orderClasses(), g, "com.example.Order", "com.example.Invoice")
	require.NoError(t, err)
	assert.Equal(t, "customer1", s.Detail("com.example.Customer").ElementName.Local)
}

func TestGenerate_AdjacentCollections(t *testing.T) {
	bag := func() classinfo.Static {
		return classinfo.NewStatic(concrete("com.example.Bag",
			listOf("names", "java.lang.String"),
			listOf("aliases", "java.lang.String"),
		))
	}
	_, _, err := generate(t, bag(), nil, "com.example.Bag")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrStructuralAmbiguity)
	var te *model.TypeError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "com.example.Bag", te.Class)
	assert.Equal(t, "aliases", te.Member)

	g := &custom.Global{Nesting: custom.Nesting{WrapCollections: custom.Some(true)}}
	_, _, err = generate(t, bag(), g, "com.example.Bag")
	assert.NoError(t, err)

	p := classinfo.NewStatic(concrete("com.example.Bag",
		listOf("names", "java.lang.String"),
		field("count", "int"),
		listOf("aliases", "java.lang.String"),
	))
	_, _, err = generate(t, p, nil, "com.example.Bag")
	assert.NoError(t, err, "collections separated by another member")
}

func TestGenerate_EnumFormats(t *testing.T) {
	p := classinfo.NewStatic(
		concrete("com.example.Ticket", field("status", "com.example.Status"), listOf("history", "com.example.Status")),
		&model.ClassInfo{Name: "com.example.Status", Enum: true},
	)
	g := &custom.Global{Classes: []*custom.Class{{Name: "com.example.Status", EnumValueMethod: custom.Some("code")}}}
	_, root, err := generate(t, p, g, "com.example.Ticket")
	require.NoError(t, err)

	assert.Equal(t, []binding.Format{{Type: "com.example.Status", EnumValueMethod: "code"}}, root.Formats)
	ticket := root.Mapping("com.example.Ticket")
	require.NotNil(t, ticket)
	status := ticket.Children[0].(*binding.Value)
	assert.Equal(t, "code", status.EnumValueMethod)
	history := ticket.Children[1].(*binding.Collection)
	require.Len(t, history.Children, 1)
	assert.Equal(t, "code", history.Children[0].(*binding.Value).EnumValueMethod)
}

func TestGenerate_AbstractItems(t *testing.T) {
	p := orderClasses()
	g := &custom.Global{Classes: []*custom.Class{{Name: "com.example.LineItem", Abstract: custom.Some(true)}}}
	s, root, err := generate(t, p, g, "com.example.Order", "com.example.Invoice")
	require.NoError(t, err)

	line := s.Detail("com.example.LineItem")
	require.NotNil(t, line, "abstract customization forces a mapping")
	assert.True(t, line.UseAbstract)

	items := root.Mapping("com.example.Order").Children[0].(*binding.Collection)
	require.Len(t, items.Children, 1)
	ref := items.Children[0].(*binding.Structure)
	assert.Equal(t, "item", ref.Name)
	assert.Equal(t, &binding.Reference{Class: "com.example.LineItem", Name: line.TypeName, Abstract: true}, ref.Ref)

	// concrete-only item classes are named by item type
	g = &custom.Global{Classes: []*custom.Class{{Name: "com.example.LineItem", ForceMapping: custom.Some(true)}}}
	_, root, err = generate(t, p, g, "com.example.Order", "com.example.Invoice")
	require.NoError(t, err)
	items = root.Mapping("com.example.Order").Children[0].(*binding.Collection)
	assert.Equal(t, "com.example.LineItem", items.ItemType)
	assert.Empty(t, items.Children)
}

func TestGenerate_MultipleNamespaces(t *testing.T) {
	p := classinfo.NewStatic(
		concrete("com.example.orders.Order", field("buyer", "com.example.crm.Customer")),
		concrete("com.example.crm.Customer", field("name", "java.lang.String")),
		concrete("com.example.billing.Invoice", field("customer", "com.example.crm.Customer")),
	)
	s, root, err := generate(t, p, nil, "com.example.orders.Order", "com.example.billing.Invoice")
	require.NoError(t, err)
	assert.True(t, root.Shell)

	docs := s.Bindings().Documents()
	names := make([]string, 0, len(docs))
	for _, d := range docs {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"binding.xml", "orders-binding.xml", "billing-binding.xml", "crm-binding.xml"}, names)

	orders, ok := s.Bindings().Binding("http://example.com/orders")
	require.True(t, ok)
	assert.Equal(t, []string{"http://example.com/crm"}, orders.Includes)
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name  string
		p     classinfo.Static
		g     *custom.Global
		roots []string
		kind  error
	}{
		{
			name:  "platform member",
			p:     classinfo.NewStatic(concrete("com.example.A", field("m", "java.util.Map"))),
			roots: []string{"com.example.A"},
			kind:  model.ErrUnresolvableType,
		},
		{
			name:  "unknown root",
			p:     classinfo.NewStatic(),
			roots: []string{"com.example.Nope"},
			kind:  model.ErrUnresolvableType,
		},
		{
			name:  "extended with suppressed concrete",
			p:     shapeClasses(),
			g:     &custom.Global{Classes: []*custom.Class{{Name: "com.example.Shape", Concrete: custom.Some(false)}}},
			roots: []string{"com.example.Circle", "com.example.Square"},
			kind:  model.ErrConfiguration,
		},
		{
			name: "several mapped interfaces",
			p: classinfo.NewStatic(
				&model.ClassInfo{Name: "com.example.I1", Interface: true},
				&model.ClassInfo{Name: "com.example.I2", Interface: true},
				&model.ClassInfo{Name: "com.example.X", Instantiable: true, Interfaces: []string{"com.example.I1", "com.example.I2"},
					Fields: []model.FieldInfo{field("v", "int")}},
			),
			roots: []string{"com.example.I1", "com.example.I2", "com.example.X"},
			kind:  model.ErrConfiguration,
		},
		{
			name:  "concrete for uninstantiable class",
			p:     shapeClasses(),
			g:     &custom.Global{Classes: []*custom.Class{{Name: "com.example.Shape", Concrete: custom.Some(true)}}},
			roots: []string{"com.example.Shape"},
			kind:  model.ErrConfiguration,
		},
		{
			name: "no roots",
			p:    orderClasses(),
			kind: model.ErrConfiguration,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSession(tt.p, tt.g, diagnostic.New(nil))
			require.NoError(t, err)
			_, err = s.Generate(tt.roots, "binding.xml")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestGenerate_FailureRecorded(t *testing.T) {
	d := diagnostic.New(nil)
	s, err := NewSession(classinfo.NewStatic(concrete("com.example.A", field("m", "java.util.Map"))), nil, d)
	require.NoError(t, err)
	_, err = s.Generate([]string{"com.example.A"}, "binding.xml")
	require.Error(t, err)
	require.True(t, d.HasErrors())
	assert.Equal(t, "unresolvable-type", d.Errors[0].Code)
}

func TestGenerate_AbstractFallback(t *testing.T) {
	g := &custom.Global{Classes: []*custom.Class{{
		Name:     "com.example.Customer",
		Abstract: custom.Some(false),
		Concrete: custom.Some(false),
	}}}
	s, _, err := generate(t, orderClasses(), g, "com.example.Customer")
	require.NoError(t, err)
	d := s.Detail("com.example.Customer")
	assert.True(t, d.UseAbstract)
	assert.False(t, d.UseConcrete)
	require.Len(t, s.Diagnostics().Warnings, 1)
	assert.Equal(t, diagnostic.CodeAbstractFallback, s.Diagnostics().Warnings[0].Code)
}

func TestGenerate_Deterministic(t *testing.T) {
	run := func() []*binding.Document {
		s, _, err := generate(t, orderClasses(), nil, "com.example.Order", "com.example.Invoice")
		require.NoError(t, err)
		return s.Bindings().Documents()
	}
	if diff := cmp.Diff(run(), run()); diff != "" {
		t.Fatalf("runs differ (-first +second):\n%s", diff)
	}
}

func TestMappingDetail_Flags(t *testing.T) {
	d := &MappingDetail{Class: "a.B"}
	require.NoError(t, d.SetExtended())
	assert.True(t, d.UseConcrete)
	assert.ErrorIs(t, d.SuppressConcrete(), model.ErrConfiguration)

	d = &MappingDetail{Class: "a.B", UseConcrete: true}
	require.NoError(t, d.SuppressConcrete())
	assert.False(t, d.UseConcrete)
	assert.ErrorIs(t, d.SetExtended(), model.ErrConfiguration)
	assert.ErrorIs(t, d.RequireConcrete(), model.ErrConfiguration)

	d = &MappingDetail{Class: "a.B", UseConcrete: true}
	d.RequireAbstract()
	assert.True(t, d.UseAbstract && d.UseConcrete, "both mappings is a valid state")
}
