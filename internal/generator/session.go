// Package generator turns resolved class descriptors into binding
// mappings. A Session carries every cache of one generation run.
package generator

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmmoran/bindgen/internal/binding"
	"github.com/cmmoran/bindgen/internal/classinfo"
	"github.com/cmmoran/bindgen/internal/custom"
	"github.com/cmmoran/bindgen/internal/diagnostic"
	"github.com/cmmoran/bindgen/internal/model"
	"github.com/cmmoran/bindgen/internal/naming"
	"github.com/cmmoran/bindgen/internal/refgraph"
)

// Session is the context of one generation run.
type Session struct {
	provider classinfo.Provider
	resolver *custom.Resolver
	diags    *diagnostic.Diagnostics
	names    *naming.Registry
	analyzer *refgraph.Analyzer
	bindings *binding.Assembler
	refs     *refgraph.Result

	descriptors map[string]*model.ClassDescriptor
	details     map[string]*MappingDetail
	order       []*MappingDetail
	inlining    map[string]bool

	log *slog.Logger
}

// NewSession prepares a run over the classes of p with the customizations
// in g. External mapping names are reserved before any class is named.
func NewSession(p classinfo.Provider, g *custom.Global, d *diagnostic.Diagnostics) (*Session, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: no class information provider", model.ErrConfiguration)
	}
	if d == nil {
		d = diagnostic.New(nil)
	}
	r, err := custom.NewResolver(g, p, d)
	if err != nil {
		return nil, err
	}
	s := &Session{
		provider:    p,
		resolver:    r,
		diags:       d,
		names:       naming.NewRegistry(),
		bindings:    binding.NewAssembler(),
		descriptors: make(map[string]*model.ClassDescriptor),
		details:     make(map[string]*MappingDetail),
		inlining:    make(map[string]bool),
		log:         slog.Default().With("component", "generator"),
	}
	s.analyzer = refgraph.New(s, d)
	for _, ext := range r.Externals() {
		if !ext.TypeName.IsZero() {
			s.names.FixTypeName(ext.TypeName)
		}
		if !ext.ElementName.IsZero() {
			s.names.FixElementName(ext.ElementName)
		}
	}
	return s, nil
}

// Descriptor returns the resolved descriptor of a class, resolving it on
// first use.
func (s *Session) Descriptor(name string) (*model.ClassDescriptor, error) {
	if d, ok := s.descriptors[name]; ok {
		return d, nil
	}
	ci, ok := s.provider.Lookup(name)
	if !ok {
		return nil, &model.TypeError{Kind: model.ErrUnresolvableType, Type: name, Reason: "no class information"}
	}
	d, err := s.resolver.Resolve(ci)
	if err != nil {
		return nil, err
	}
	s.descriptors[name] = d
	return d, nil
}

// IsExternal reports whether a class has a registered external mapping.
func (s *Session) IsExternal(name string) bool {
	_, ok := s.resolver.External(name)
	return ok
}

// Detail returns the mapping detail of a class, or nil.
func (s *Session) Detail(name string) *MappingDetail {
	return s.details[name]
}

// Details returns every mapping detail in creation order.
func (s *Session) Details() []*MappingDetail {
	return append([]*MappingDetail(nil), s.order...)
}

// Bindings returns the assembler holding the binding documents.
func (s *Session) Bindings() *binding.Assembler {
	return s.bindings
}

// References returns the result of the reference expansion, once run.
func (s *Session) References() *refgraph.Result {
	return s.refs
}

// Diagnostics returns the diagnostics sink of the run.
func (s *Session) Diagnostics() *diagnostic.Diagnostics {
	return s.diags
}

// Generate builds the binding model for the root classes and returns the
// root document, named rootName. Any fatal condition aborts the run.
func (s *Session) Generate(roots []string, rootName string) (*binding.Document, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("%w: no root classes", model.ErrConfiguration)
	}
	if s.refs != nil {
		return nil, fmt.Errorf("%w: session already generated", model.ErrInvariant)
	}
	namespaces := make([]string, 0, len(roots))
	for _, r := range roots {
		d, err := s.Descriptor(r)
		if err != nil {
			return nil, s.fail(fmt.Errorf("root class %s: %w", r, err))
		}
		namespaces = append(namespaces, d.Namespace)
	}

	refs, err := s.analyzer.Expand(roots)
	if err != nil {
		return nil, s.fail(err)
	}
	s.refs = refs
	s.log.Debug("references analyzed", "direct", refs.Direct.Names(), "super", refs.Super.Names())

	for _, name := range refs.Direct.Names() {
		if _, err := s.AddMappingDetails(name); err != nil {
			return nil, s.fail(err)
		}
	}
	for _, name := range refs.Direct.Names() {
		if err := s.AddMapping(name); err != nil {
			return nil, s.fail(err)
		}
	}

	root, err := s.bindings.Finish(rootName, namespaces)
	if err != nil {
		return nil, s.fail(err)
	}
	s.log.Info("bindings generated", "mappings", len(s.order), "documents", len(s.bindings.Documents()))
	return root, nil
}

// fail records a fatal error under the code of its kind.
func (s *Session) fail(err error) error {
	code := "fatal"
	switch {
	case errors.Is(err, model.ErrUnresolvableType):
		code = "unresolvable-type"
	case errors.Is(err, model.ErrStructuralAmbiguity):
		code = "structural-ambiguity"
	case errors.Is(err, model.ErrConfiguration):
		code = "configuration"
	case errors.Is(err, model.ErrInvariant):
		code = "invariant"
	}
	return s.diags.Fail(code, err)
}
