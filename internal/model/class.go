package model

// ClassInfo is the provider view of a single class. It is produced by a
// class information provider (YAML descriptions, Java sources, tests) and
// never mutated by the generator.
type ClassInfo struct {
	Name         string       `yaml:"name,omitempty" json:"name,omitempty"`                 // fully qualified, nested classes joined with '$'
	Abstract     bool         `yaml:"abstract,omitempty" json:"abstract,omitempty"`         // declared abstract (interfaces are abstract too)
	Interface    bool         `yaml:"interface,omitempty" json:"interface,omitempty"`       // interface declaration
	Enum         bool         `yaml:"enum,omitempty" json:"enum,omitempty"`                 // enum-like value class
	Instantiable bool         `yaml:"instantiable,omitempty" json:"instantiable,omitempty"` // concrete with a usable no-argument constructor
	Superclass   string       `yaml:"superclass,omitempty" json:"superclass,omitempty"`     // "" when the class has no superclass besides java.lang.Object
	Interfaces   []string     `yaml:"interfaces,omitempty" json:"interfaces,omitempty"`     // directly implemented or extended interfaces
	Fields       []FieldInfo  `yaml:"fields,omitempty" json:"fields,omitempty"`
	Methods      []MethodInfo `yaml:"methods,omitempty" json:"methods,omitempty"`
	Annotations  []string     `yaml:"annotations,omitempty" json:"annotations,omitempty"` // simple annotation names, without '@'
}

// FieldInfo describes a declared field.
type FieldInfo struct {
	Name        string   `yaml:"name,omitempty" json:"name,omitempty"`
	Type        string   `yaml:"type,omitempty" json:"type,omitempty"`           // erased type, arrays carry a trailing "[]"
	Signature   string   `yaml:"signature,omitempty" json:"signature,omitempty"` // generic form, e.g. "java.util.List<com.example.Item>"
	Static      bool     `yaml:"static,omitempty" json:"static,omitempty"`
	Transient   bool     `yaml:"transient,omitempty" json:"transient,omitempty"`
	Final       bool     `yaml:"final,omitempty" json:"final,omitempty"`
	Private     bool     `yaml:"private,omitempty" json:"private,omitempty"`
	Annotations []string `yaml:"annotations,omitempty" json:"annotations,omitempty"`
}

// MethodInfo describes a declared method.
type MethodInfo struct {
	Name        string   `yaml:"name,omitempty" json:"name,omitempty"`
	ArgCount    int      `yaml:"arg_count,omitempty" json:"arg_count,omitempty"`
	ParamTypes  []string `yaml:"param_types,omitempty" json:"param_types,omitempty"`
	ReturnType  string   `yaml:"return_type,omitempty" json:"return_type,omitempty"` // "void" for none
	Signature   string   `yaml:"signature,omitempty" json:"signature,omitempty"`     // generic form of the return type (getters) or first parameter (setters)
	Static      bool     `yaml:"static,omitempty" json:"static,omitempty"`
	Public      bool     `yaml:"public,omitempty" json:"public,omitempty"`
	Annotations []string `yaml:"annotations,omitempty" json:"annotations,omitempty"`
}

// Package returns the package portion of a fully qualified class name.
func Package(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[:i]
		}
	}
	return ""
}

// SimpleName returns the class name without its package. Nested class
// separators are kept so name conversion can drop them.
func SimpleName(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i+1:]
		}
	}
	return name
}
