package binding

// Format is a named conversion registered on a document, used for enum
// values converted through an accessor.
type Format struct {
	Type            string
	EnumValueMethod string
}

// Document is the binding of one namespace.
type Document struct {
	Name      string
	Namespace string
	Mappings  []*Mapping
	Formats   []Format
	// Includes lists the namespaces this document depends on.
	Includes []string
	// IncludeFiles lists the file names of Includes once assembled.
	IncludeFiles []string
	// Shell marks a root document that only includes other documents.
	Shell bool
}

// AddMapping appends a mapping.
func (d *Document) AddMapping(m *Mapping) {
	d.Mappings = append(d.Mappings, m)
}

// AddFormat registers a format once per type.
func (d *Document) AddFormat(f Format) {
	for _, have := range d.Formats {
		if have.Type == f.Type {
			return
		}
	}
	d.Formats = append(d.Formats, f)
}

// AddDependency records a namespace whose document this one includes. A
// document never depends on itself.
func (d *Document) AddDependency(ns string) {
	if !d.Shell && ns == d.Namespace {
		return
	}
	for _, have := range d.Includes {
		if have == ns {
			return
		}
	}
	d.Includes = append(d.Includes, ns)
}

// Mapping returns the mapping of a class, or nil. With several mappings for
// one class (abstract and concrete) the first is returned.
func (d *Document) Mapping(class string) *Mapping {
	for _, m := range d.Mappings {
		if m.Class == class {
			return m
		}
	}
	return nil
}
