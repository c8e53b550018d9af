package refgraph

// NameSet is an insertion-ordered set of class names.
type NameSet struct {
	names []string
	index map[string]struct{}
}

// NewNameSet returns an empty set.
func NewNameSet() *NameSet {
	return &NameSet{index: make(map[string]struct{})}
}

// Add inserts name, reporting whether it was new.
func (s *NameSet) Add(name string) bool {
	if _, ok := s.index[name]; ok {
		return false
	}
	s.index[name] = struct{}{}
	s.names = append(s.names, name)
	return true
}

// Has reports whether name is in the set.
func (s *NameSet) Has(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[name]
	return ok
}

// Names returns the members in insertion order.
func (s *NameSet) Names() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.names...)
}

// Len returns the number of members.
func (s *NameSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}
