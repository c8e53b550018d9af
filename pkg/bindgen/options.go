package bindgen

import (
	"fmt"
	"strings"
)

// Options control a generation run.
//
// Classes        – YAML class description files (paths or URLs)
// Sources        – directories of Java sources to read class information from
// Customizations – YAML customizations file; empty resolves every option to its default
// Roots          – fully qualified root classes
// RootName       – file name of the root binding document
// OutDir         – directory (or URL) the documents are written to
// GoPackage      – when set, a Go lookup table of mapping details is rendered into GoFile
type Options struct {
	Classes        []string `json:"classes,omitempty" yaml:"classes,omitempty" toml:"classes,omitempty" mapstructure:"classes,omitempty"`
	Sources        []string `json:"sources,omitempty" yaml:"sources,omitempty" toml:"sources,omitempty" mapstructure:"sources,omitempty"`
	Customizations string   `json:"customizations,omitempty" yaml:"customizations,omitempty" toml:"customizations,omitempty" mapstructure:"customizations,omitempty"`
	Roots          []string `json:"roots,omitempty" yaml:"roots,omitempty" toml:"roots,omitempty" mapstructure:"roots,omitempty"`
	RootName       string   `json:"root_name,omitempty" yaml:"root_name,omitempty" toml:"root_name,omitempty" mapstructure:"root_name,omitempty"`
	OutDir         string   `json:"out_dir,omitempty" yaml:"out_dir,omitempty" toml:"out_dir,omitempty" mapstructure:"out_dir,omitempty"`
	GoPackage      string   `json:"go_package,omitempty" yaml:"go_package,omitempty" toml:"go_package,omitempty" mapstructure:"go_package,omitempty"`
	GoFile         string   `json:"go_file,omitempty" yaml:"go_file,omitempty" toml:"go_file,omitempty" mapstructure:"go_file,omitempty"`
}

// NewOptions returns options with defaults applied.
func NewOptions(opts ...Option) *Options {
	o := &Options{
		RootName: "binding.xml",
		OutDir:   "binding",
		GoFile:   "mapping_details_gen.go",
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Normalize trims list values, fills empty settings with defaults and
// checks that the run has something to work on.
func (o *Options) Normalize() error {
	o.Classes = trimAll(o.Classes)
	o.Sources = trimAll(o.Sources)
	o.Roots = trimAll(o.Roots)
	if o.RootName == "" {
		o.RootName = "binding.xml"
	}
	if !strings.HasSuffix(o.RootName, ".xml") {
		o.RootName += ".xml"
	}
	if o.OutDir == "" {
		o.OutDir = "binding"
	}
	if o.GoFile == "" {
		o.GoFile = "mapping_details_gen.go"
	}
	if len(o.Roots) == 0 {
		return fmt.Errorf("no root classes given")
	}
	if len(o.Classes) == 0 && len(o.Sources) == 0 {
		return fmt.Errorf("no class descriptions or sources given")
	}
	return nil
}

func trimAll(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// functional option pattern ---------------------------------------------------

type Option func(*Options)

func WithClasses(urls ...string) Option  { return func(o *Options) { o.Classes = append(o.Classes, urls...) } }
func WithSources(dirs ...string) Option  { return func(o *Options) { o.Sources = append(o.Sources, dirs...) } }
func WithCustomizations(u string) Option { return func(o *Options) { o.Customizations = u } }
func WithRoots(names ...string) Option   { return func(o *Options) { o.Roots = append(o.Roots, names...) } }
func WithRootName(n string) Option       { return func(o *Options) { o.RootName = n } }
func WithOutDir(d string) Option         { return func(o *Options) { o.OutDir = d } }
func WithGoDetails(pkg, file string) Option {
	return func(o *Options) { o.GoPackage, o.GoFile = pkg, file }
}
