package binding

import (
	"fmt"
	"strings"

	"github.com/cmmoran/bindgen/internal/model"
	"github.com/cmmoran/bindgen/internal/naming"
)

// Assembler groups mappings into one document per namespace.
type Assembler struct {
	docs     map[string]*Document
	order    []*Document
	root     *Document
	finished bool
}

// NewAssembler returns an empty assembler.
func NewAssembler() *Assembler {
	return &Assembler{docs: make(map[string]*Document)}
}

// AddBinding returns the document of a namespace, creating it on first use.
func (a *Assembler) AddBinding(ns string) *Document {
	if d, ok := a.docs[ns]; ok {
		return d
	}
	d := &Document{Namespace: ns}
	a.docs[ns] = d
	a.order = append(a.order, d)
	return d
}

// Binding returns the document of a namespace, if any.
func (a *Assembler) Binding(ns string) (*Document, bool) {
	d, ok := a.docs[ns]
	return d, ok
}

// Root returns the root document once finished.
func (a *Assembler) Root() *Document {
	return a.root
}

// Documents returns every document, the root first, then in creation order.
func (a *Assembler) Documents() []*Document {
	out := make([]*Document, 0, len(a.order)+1)
	if a.root != nil {
		out = append(out, a.root)
	}
	for _, d := range a.order {
		if d != a.root {
			out = append(out, d)
		}
	}
	return out
}

// Finish names every document and designates the root. When the root
// classes all live in one namespace, that namespace's document becomes the
// root; otherwise the root is a document without mappings that includes the
// documents of the root namespaces. Every document is reachable from the
// root through includes.
func (a *Assembler) Finish(rootName string, rootNamespaces []string) (*Document, error) {
	if a.finished {
		return nil, fmt.Errorf("%w: bindings already finished", model.ErrInvariant)
	}
	if rootName == "" {
		return nil, fmt.Errorf("%w: root binding name is empty", model.ErrConfiguration)
	}
	a.finished = true

	// every referenced namespace gets a document; the order slice grows
	// while it is walked
	for i := 0; i < len(a.order); i++ {
		for _, ns := range a.order[i].Includes {
			a.AddBinding(ns)
		}
	}

	covering := distinct(rootNamespaces)
	if len(covering) == 1 {
		a.root = a.AddBinding(covering[0])
	} else {
		a.root = &Document{Shell: true}
		for _, ns := range covering {
			a.AddBinding(ns)
			a.root.AddDependency(ns)
		}
	}
	a.root.Name = rootName

	names := naming.NewUniqueNameSet()
	names.Add(strings.TrimSuffix(rootName, bindingSuffix))
	for _, d := range a.order {
		if d == a.root {
			continue
		}
		d.Name = names.Add(fileStem(d.Namespace)) + bindingSuffix
	}

	reached := a.reachable()
	for _, d := range a.order {
		if d != a.root && !reached[d.Namespace] {
			a.root.AddDependency(d.Namespace)
		}
	}

	for _, d := range a.Documents() {
		d.IncludeFiles = d.IncludeFiles[:0]
		for _, ns := range d.Includes {
			d.IncludeFiles = append(d.IncludeFiles, a.docs[ns].Name)
		}
	}
	return a.root, nil
}

const bindingSuffix = "-binding.xml"

// reachable returns the namespaces reachable from the root through includes.
func (a *Assembler) reachable() map[string]bool {
	seen := map[string]bool{}
	if a.root != nil && a.docs[a.root.Namespace] == a.root {
		seen[a.root.Namespace] = true
	}
	queue := append([]string(nil), a.root.Includes...)
	for len(queue) > 0 {
		ns := queue[0]
		queue = queue[1:]
		if seen[ns] {
			continue
		}
		seen[ns] = true
		if d, ok := a.docs[ns]; ok {
			queue = append(queue, d.Includes...)
		}
	}
	return seen
}

// fileStem derives a file name stem from a namespace URI: its last path
// segment, with characters outside [A-Za-z0-9._-] replaced.
func fileStem(ns string) string {
	s := ns
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	s = strings.Trim(s, "/")
	if i := strings.LastIndexAny(s, "/:"); i >= 0 {
		s = s[i+1:]
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "default"
	}
	return b.String()
}

func distinct(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
