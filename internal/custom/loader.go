package custom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cmmoran/bindgen/internal/model"
)

// Load parses a customizations document. An empty document yields an empty
// tree that resolves every option to its default.
func Load(data []byte) (*Global, error) {
	g := &Global{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(g); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: parse customizations: %v", model.ErrConfiguration, err)
	}
	if err := validate(g); err != nil {
		return nil, err
	}
	return g, nil
}

func validate(g *Global) error {
	for i, p := range g.Packages {
		if p == nil {
			return fmt.Errorf("%w: packages[%d] is empty", model.ErrConfiguration, i)
		}
		p.Name = strings.TrimSpace(p.Name)
		for j, c := range p.Classes {
			if c == nil || strings.TrimSpace(c.Name) == "" {
				return fmt.Errorf("%w: packages[%d].classes[%d] has no name", model.ErrConfiguration, i, j)
			}
		}
	}
	for i, c := range g.Classes {
		if c == nil || strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("%w: classes[%d] has no name", model.ErrConfiguration, i)
		}
		if !strings.Contains(c.Name, ".") {
			return fmt.Errorf("%w: classes[%d] %q must be fully qualified outside a package", model.ErrConfiguration, i, c.Name)
		}
	}
	for i, m := range g.Mappings {
		if m.Class == "" {
			return fmt.Errorf("%w: mappings[%d] has no class", model.ErrConfiguration, i)
		}
		if m.TypeName.IsZero() && m.ElementName.IsZero() {
			return fmt.Errorf("%w: mapping for %s needs a type or element name", model.ErrConfiguration, m.Class)
		}
	}
	return nil
}
