package model

// QName is a namespace qualified XML name.
type QName struct {
	Namespace string `yaml:"namespace,omitempty" json:"namespace,omitempty"`
	Local     string `yaml:"local" json:"local"`
}

// String returns the QName in {namespace}local format, or just local if no namespace.
func (q QName) String() string {
	if q.Namespace == "" {
		return q.Local
	}
	return "{" + q.Namespace + "}" + q.Local
}

// IsZero reports whether the name is unset.
func (q QName) IsZero() bool {
	return q.Local == ""
}
