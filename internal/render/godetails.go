package render

import (
	"bytes"
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/cmmoran/bindgen/internal/generator"
)

// GoDetails renders a Go source file declaring pkg with a lookup table of
// how each mapped class is bound.
func GoDetails(pkg string, details []*generator.MappingDetail) ([]byte, error) {
	if pkg == "" {
		return nil, fmt.Errorf("go details: package name is empty")
	}
	f := jen.NewFile(pkg)
	f.HeaderComment("Code generated by bindgen. DO NOT EDIT.")

	f.Comment("MappingDetail describes how a class is bound.")
	f.Type().Id("MappingDetail").Struct(
		jen.Id("Class").String(),
		jen.Id("Namespace").String(),
		jen.Id("TypeName").String(),
		jen.Id("ElementName").String(),
		jen.Id("Abstract").Bool(),
		jen.Id("Concrete").Bool(),
		jen.Id("Extended").Bool(),
		jen.Id("Extends").String(),
	)

	f.Comment("Details holds the mapping detail of every mapped class by class name.")
	f.Var().Id("Details").Op("=").Map(jen.String()).Id("MappingDetail").Values(jen.DictFunc(func(d jen.Dict) {
		for _, md := range details {
			fields := jen.Dict{
				jen.Id("Class"):     jen.Lit(md.Class),
				jen.Id("Namespace"): jen.Lit(md.Namespace),
			}
			if md.UseAbstract {
				fields[jen.Id("Abstract")] = jen.True()
				fields[jen.Id("TypeName")] = jen.Lit(md.TypeName.String())
			}
			if md.UseConcrete {
				fields[jen.Id("Concrete")] = jen.True()
				fields[jen.Id("ElementName")] = jen.Lit(md.ElementName.String())
			}
			if md.Extended {
				fields[jen.Id("Extended")] = jen.True()
			}
			if md.Extends != "" {
				fields[jen.Id("Extends")] = jen.Lit(md.Extends)
			}
			d[jen.Lit(md.Class)] = jen.Values(fields)
		}
	}))

	f.Comment("Lookup returns the mapping detail of a class.")
	f.Func().Id("Lookup").Params(jen.Id("class").String()).Params(jen.Id("MappingDetail"), jen.Bool()).Block(
		jen.List(jen.Id("d"), jen.Id("ok")).Op(":=").Id("Details").Index(jen.Id("class")),
		jen.Return(jen.Id("d"), jen.Id("ok")),
	)

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("failed to render go details: %w", err)
	}
	return buf.Bytes(), nil
}
