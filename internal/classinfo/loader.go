package classinfo

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cmmoran/bindgen/internal/model"
)

// File is the on-disk form of a set of class descriptions.
type File struct {
	Classes []*model.ClassInfo `yaml:"classes" json:"classes"`
}

// Parse parses YAML class descriptions into a Static provider.
func Parse(data []byte) (Static, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse class descriptions: %w", err)
	}
	s := make(Static, len(f.Classes))
	for i, ci := range f.Classes {
		if ci == nil || ci.Name == "" {
			return nil, fmt.Errorf("class description %d has no name", i)
		}
		applyDefaults(ci)
		s.Add(ci)
	}
	return s, nil
}

// applyDefaults fills in values implied by others.
func applyDefaults(ci *model.ClassInfo) {
	if ci.Interface {
		ci.Abstract = true
		ci.Instantiable = false
	}
	if ci.Superclass == model.ObjectType {
		ci.Superclass = ""
	}
	for i := range ci.Methods {
		m := &ci.Methods[i]
		if m.ArgCount == 0 {
			m.ArgCount = len(m.ParamTypes)
		}
		if m.ReturnType == "" {
			m.ReturnType = "void"
		}
	}
}
