package naming

import (
	"strconv"

	"github.com/cmmoran/bindgen/internal/model"
)

// UniqueNameSet hands out names that have not been handed out before.
type UniqueNameSet struct {
	names map[string]struct{}
}

// NewUniqueNameSet returns an empty set.
func NewUniqueNameSet() *UniqueNameSet {
	return &UniqueNameSet{names: make(map[string]struct{})}
}

// Add returns name when it is free, else the first free name followed by a
// counter. Both the requested and the returned name are reserved.
func (s *UniqueNameSet) Add(name string) string {
	uniq := name
	for i := 1; s.Contains(uniq); i++ {
		uniq = name + strconv.Itoa(i)
	}
	s.names[name] = struct{}{}
	s.names[uniq] = struct{}{}
	return uniq
}

// Contains reports whether name is reserved.
func (s *UniqueNameSet) Contains(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Len returns the number of reserved names.
func (s *UniqueNameSet) Len() int {
	return len(s.names)
}

// Registry keeps type names and element names unique per namespace. The two
// categories are independent: a type and an element may share a name.
type Registry struct {
	types    map[string]*UniqueNameSet
	elements map[string]*UniqueNameSet
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types:    make(map[string]*UniqueNameSet),
		elements: make(map[string]*UniqueNameSet),
	}
}

// FixTypeName returns q, renamed if its local part is already used as a type
// name in its namespace.
func (r *Registry) FixTypeName(q model.QName) model.QName {
	return fixName(q, r.types)
}

// FixElementName returns q, renamed if its local part is already used as an
// element name in its namespace.
func (r *Registry) FixElementName(q model.QName) model.QName {
	return fixName(q, r.elements)
}

func fixName(q model.QName, sets map[string]*UniqueNameSet) model.QName {
	set, ok := sets[q.Namespace]
	if !ok {
		set = NewUniqueNameSet()
		sets[q.Namespace] = set
	}
	return model.QName{Namespace: q.Namespace, Local: set.Add(q.Local)}
}
