// Package refgraph walks the class graph from the root classes, counts the
// places each class is referenced from and decides which classes need a
// top-level mapping of their own.
package refgraph

import (
	"errors"
	"log/slog"

	"github.com/cmmoran/bindgen/internal/classinfo"
	"github.com/cmmoran/bindgen/internal/diagnostic"
	"github.com/cmmoran/bindgen/internal/model"
)

// Source supplies resolved class descriptors. Descriptor returns an error
// wrapping model.ErrUnresolvableType for classes without class information.
type Source interface {
	Descriptor(name string) (*model.ClassDescriptor, error)
	IsExternal(name string) bool
}

// IncludeState is the relevance classification of a class.
type IncludeState int

const (
	Unvisited IncludeState = iota
	InProgress
	Included
	Ignored
)

// String returns the state name.
func (s IncludeState) String() string {
	switch s {
	case InProgress:
		return "in-progress"
	case Included:
		return "included"
	case Ignored:
		return "ignored"
	default:
		return "unvisited"
	}
}

type node struct {
	include  IncludeState
	expanded bool

	// depth is the position in the pending stack while under classification
	depth int
}

// Result is the outcome of an expansion.
type Result struct {
	// Counts holds the number of reference sites found for each class.
	Counts map[string]int
	// Direct holds the classes that get a top-level mapping: roots, classes
	// with mapping customizations and classes referenced more than once.
	Direct *NameSet
	// Super holds the classes used as superclasses of bound classes.
	Super *NameSet
	// Referenced holds every class reached through a member or superclass.
	Referenced *NameSet
}

// Analyzer classifies and expands classes. It keeps one node per class for
// the lifetime of a generation run.
type Analyzer struct {
	src   Source
	diags *diagnostic.Diagnostics
	nodes map[string]*node
	log   *slog.Logger

	// pending holds the classes under classification, outermost first
	pending []string
}

// New returns an analyzer reading descriptors from src.
func New(src Source, d *diagnostic.Diagnostics) *Analyzer {
	if d == nil {
		d = diagnostic.New(nil)
	}
	return &Analyzer{
		src:   src,
		diags: d,
		nodes: make(map[string]*node),
		log:   slog.Default().With("component", "refgraph"),
	}
}

func (a *Analyzer) node(name string) *node {
	n, ok := a.nodes[name]
	if !ok {
		n = &node{}
		a.nodes[name] = n
	}
	return n
}

// State returns the current include state of a class.
func (a *Analyzer) State(name string) IncludeState {
	if n, ok := a.nodes[name]; ok {
		return n.include
	}
	return Unvisited
}

// leaf reports whether a type is bound without walking a class: simple
// values, enums, external mappings and the root object type.
func (a *Analyzer) leaf(name string) bool {
	return name == model.ObjectType ||
		classinfo.IsSimple(name) ||
		a.src.IsExternal(name)
}

// CheckInclude decides whether a class is relevant to the binding. A class
// is relevant when it carries a mapping customization, when any member type
// is relevant, or when its superclass is relevant and superclasses are
// used. A cycle is relevant only when some class reachable from it has
// content; its classes are classified together once the first class of the
// cycle is decided. Unknown classes are relevant so that expansion reports
// them.
func (a *Analyzer) CheckInclude(name string) (bool, error) {
	relevant, _, err := a.check(name)
	return relevant, err
}

// settled is the low mark of a decision that depends on no class under
// classification.
const settled = int(^uint(0) >> 1)

// check classifies a class and returns, when the class was left pending, the
// depth of the earliest class under classification it reached.
func (a *Analyzer) check(name string) (bool, int, error) {
	if a.leaf(name) || classinfo.IsPlatform(name) {
		return true, settled, nil
	}
	n := a.node(name)
	switch n.include {
	case Included:
		return true, settled, nil
	case Ignored:
		return false, settled, nil
	case InProgress:
		return false, n.depth, nil
	}

	desc, err := a.src.Descriptor(name)
	if err != nil {
		if errors.Is(err, model.ErrUnresolvableType) {
			return true, settled, nil
		}
		return false, settled, err
	}
	if desc.Enum {
		n.include = Included
		return true, settled, nil
	}

	n.include = InProgress
	n.depth = len(a.pending)
	a.pending = append(a.pending, name)
	low := n.depth
	relevant := desc.ForceMapping || desc.AbstractRequest != nil || desc.ConcreteRequest != nil
	visit := func(t string) error {
		ok, l, err := a.check(t)
		if err != nil {
			return err
		}
		relevant = ok
		low = min(low, l)
		return nil
	}
	for _, m := range desc.Members {
		if relevant {
			break
		}
		switch m.Kind {
		case model.KindSimple, model.KindEnum, model.KindExternal:
			relevant = true
		default:
			if err := visit(m.BoundType()); err != nil {
				a.settle(n.depth, Unvisited)
				return false, settled, err
			}
		}
	}
	if !relevant {
		if sup := a.superOf(desc); sup != "" {
			if err := visit(sup); err != nil {
				a.settle(n.depth, Unvisited)
				return false, settled, err
			}
		}
	}
	switch {
	case relevant:
		// everything still pending above reaches this class
		a.settle(n.depth, Included)
		return true, settled, nil
	case low < n.depth:
		// decided with the cycle it belongs to
		return false, low, nil
	default:
		for _, p := range a.pending[n.depth:] {
			a.log.Debug("class ignored", "class", p)
		}
		a.settle(n.depth, Ignored)
		return false, settled, nil
	}
}

// settle gives every pending class from depth on its final state.
func (a *Analyzer) settle(depth int, state IncludeState) {
	for _, p := range a.pending[depth:] {
		a.nodes[p].include = state
	}
	a.pending = a.pending[:depth]
}

// Included reports whether a class was classified as relevant.
func (a *Analyzer) Included(name string) bool {
	ok, err := a.CheckInclude(name)
	return err == nil && ok
}

// superOf returns the superclass a class is bound with, or "".
func (a *Analyzer) superOf(desc *model.ClassDescriptor) string {
	if !desc.UseSuper || !desc.HasSuper() || classinfo.IsPlatform(desc.Superclass) {
		return ""
	}
	return desc.Superclass
}

// BoundSuper returns the relevant superclass a class is bound with, or ""
// when superclasses are not used, the superclass is a platform class or it
// was ignored.
func (a *Analyzer) BoundSuper(desc *model.ClassDescriptor) string {
	sup := a.superOf(desc)
	if sup == "" || !a.Included(sup) {
		return ""
	}
	return sup
}

// Expand walks the graph from roots, counting references and expanding
// every class on its first discovery.
func (a *Analyzer) Expand(roots []string) (*Result, error) {
	res := &Result{
		Counts:     make(map[string]int),
		Direct:     NewNameSet(),
		Super:      NewNameSet(),
		Referenced: NewNameSet(),
	}
	for _, r := range roots {
		res.Direct.Add(r)
	}
	for _, r := range roots {
		if err := a.expand(r, res); err != nil {
			return nil, err
		}
	}
	if err := a.flagMultipleReferences(res); err != nil {
		return nil, err
	}
	a.log.Debug("references expanded",
		"roots", len(roots), "referenced", res.Referenced.Len(), "direct", res.Direct.Len())
	return res, nil
}

func (a *Analyzer) expand(name string, res *Result) error {
	n := a.node(name)
	if n.expanded {
		return nil
	}
	n.expanded = true

	desc, err := a.src.Descriptor(name)
	if err != nil {
		return err
	}
	if desc.ForceMapping {
		res.Counts[name]++
	}
	if sup := a.BoundSuper(desc); sup != "" {
		res.Super.Add(sup)
		if err := a.reference(sup, res); err != nil {
			return err
		}
	}
	for _, m := range desc.Members {
		t := m.BoundType()
		switch {
		case m.Kind == model.KindSimple, m.Kind == model.KindEnum, m.Kind == model.KindExternal, a.leaf(t):
			continue
		case classinfo.IsPlatform(t):
			return &model.TypeError{Kind: model.ErrUnresolvableType, Type: t, Class: name, Member: m.BaseName,
				Reason: "platform type without a registered mapping"}
		}
		target, err := a.src.Descriptor(t)
		if err != nil {
			if errors.Is(err, model.ErrUnresolvableType) {
				return &model.TypeError{Kind: model.ErrUnresolvableType, Type: t, Class: name, Member: m.BaseName,
					Reason: "no class information"}
			}
			return err
		}
		if target.Enum {
			continue
		}
		ok, err := a.CheckInclude(t)
		if err != nil {
			return err
		}
		if !ok {
			a.diags.Warn(diagnostic.CodeIgnoredMember, name, m.BaseName,
				"member type %s has no bindable content, member skipped", t)
			continue
		}
		if err := a.reference(t, res); err != nil {
			return err
		}
	}
	return nil
}

// reference counts one reference site and expands the class on its first
// discovery.
func (a *Analyzer) reference(name string, res *Result) error {
	res.Referenced.Add(name)
	res.Counts[name]++
	if res.Counts[name] == 1 {
		return a.expand(name, res)
	}
	return nil
}

// flagMultipleReferences promotes classes referenced more than once and
// classes whose customization demands a mapping of their own.
func (a *Analyzer) flagMultipleReferences(res *Result) error {
	for _, name := range res.Referenced.Names() {
		if res.Counts[name] > 1 {
			res.Direct.Add(name)
			continue
		}
		desc, err := a.src.Descriptor(name)
		if err != nil {
			return err
		}
		if desc.ForceMapping || desc.AbstractRequest != nil || desc.ConcreteRequest != nil {
			res.Direct.Add(name)
		}
	}
	return nil
}
