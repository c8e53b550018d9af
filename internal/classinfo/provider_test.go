package classinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/bindgen/internal/model"
)

func testProvider() Static {
	return NewStatic(
		&model.ClassInfo{Name: "com.example.Shape", Abstract: true, Interfaces: []string{"com.example.Drawable"}},
		&model.ClassInfo{Name: "com.example.Circle", Superclass: "com.example.Shape", Instantiable: true},
		&model.ClassInfo{Name: "com.example.Drawable", Interface: true, Abstract: true},
		&model.ClassInfo{Name: "com.example.ItemList", Superclass: "java.util.ArrayList", Instantiable: true},
		&model.ClassInfo{Name: "com.example.Color", Enum: true},
	)
}

func TestIsAssignable(t *testing.T) {
	p := testProvider()
	tests := []struct {
		from, to string
		want     bool
	}{
		{"com.example.Circle", "com.example.Circle", true},
		{"com.example.Circle", "com.example.Shape", true},
		{"com.example.Circle", "com.example.Drawable", true},
		{"com.example.Shape", "com.example.Circle", false},
		{"com.example.Circle", model.ObjectType, true},
		{"int", model.ObjectType, false},
		{"java.util.ArrayList", CollectionType, true},
		{"com.example.ItemList", "java.util.List", true},
		{"com.example.Unknown", "com.example.Shape", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsAssignable(p, tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestIsCollection(t *testing.T) {
	p := testProvider()
	assert.True(t, IsCollection(p, "java.util.List"))
	assert.True(t, IsCollection(p, "java.util.TreeSet"))
	assert.True(t, IsCollection(p, "com.example.ItemList"))
	assert.True(t, IsCollection(p, "com.example.Circle[]"))
	assert.False(t, IsCollection(p, "byte[]"), "byte arrays are simple values")
	assert.False(t, IsCollection(p, "java.util.Map"))
	assert.False(t, IsCollection(p, "com.example.Circle"))
}

func TestBuiltins(t *testing.T) {
	assert.True(t, IsSimple("int"))
	assert.True(t, IsSimple("java.lang.String"))
	assert.True(t, IsSimple("java.time.LocalDate"))
	assert.False(t, IsSimple("com.example.Circle"))
	assert.True(t, IsPlatform("java.util.Map"))
	assert.True(t, IsPlatform("javax.xml.namespace.QName"))
	assert.False(t, IsPlatform("com.example.Circle"))
	assert.Equal(t, "java.util.ArrayList", DefaultCreateType("java.util.List"))
	assert.Equal(t, "", DefaultCreateType("java.util.ArrayList"))
	assert.True(t, IsEnum(testProvider(), "com.example.Color"))
}

func TestChain(t *testing.T) {
	a := NewStatic(&model.ClassInfo{Name: "a.A"})
	b := NewStatic(&model.ClassInfo{Name: "b.B"}, &model.ClassInfo{Name: "a.A", Abstract: true})
	c := Chain{nil, a, b}

	ci, ok := c.Lookup("a.A")
	require.True(t, ok)
	assert.False(t, ci.Abstract, "first provider wins")
	_, ok = c.Lookup("b.B")
	assert.True(t, ok)
	_, ok = c.Lookup("c.C")
	assert.False(t, ok)
}

func TestParse(t *testing.T) {
	data := []byte(`
classes:
  - name: com.example.Order
    instantiable: true
    superclass: java.lang.Object
    fields:
      - name: items
        type: java.util.List
        signature: java.util.List<com.example.LineItem>
    methods:
      - name: setBuyer
        param_types: [com.example.Customer]
  - name: com.example.Named
    interface: true
    instantiable: true
`)
	s, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, s, 2)

	order, ok := s.Lookup("com.example.Order")
	require.True(t, ok)
	assert.Equal(t, "", order.Superclass)
	require.Len(t, order.Methods, 1)
	assert.Equal(t, 1, order.Methods[0].ArgCount)
	assert.Equal(t, "void", order.Methods[0].ReturnType)
	assert.Equal(t, "java.util.List<com.example.LineItem>", order.Fields[0].Signature)

	named, _ := s.Lookup("com.example.Named")
	assert.True(t, named.Abstract)
	assert.False(t, named.Instantiable)

	_, err = Parse([]byte("classes:\n  - abstract: true\n"))
	assert.Error(t, err)
}
