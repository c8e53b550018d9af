package custom

import "gopkg.in/yaml.v3"

// Opt is an explicitly optional setting. The zero value is unset, so an
// absent key in a settings file never masks a value inherited from an outer
// level.
type Opt[T any] struct {
	val T
	ok  bool
}

// Some returns a set option holding v.
func Some[T any](v T) Opt[T] {
	return Opt[T]{val: v, ok: true}
}

// None returns an unset option.
func None[T any]() Opt[T] {
	return Opt[T]{}
}

// Get returns the value and whether it is set.
func (o Opt[T]) Get() (T, bool) {
	return o.val, o.ok
}

// IsSet reports whether the option holds a value.
func (o Opt[T]) IsSet() bool {
	return o.ok
}

// Or returns the value, or def when unset.
func (o Opt[T]) Or(def T) T {
	if o.ok {
		return o.val
	}
	return def
}

// Ptr returns a pointer to a copy of the value, or nil when unset.
func (o Opt[T]) Ptr() *T {
	if !o.ok {
		return nil
	}
	v := o.val
	return &v
}

// UnmarshalYAML implements yaml.Unmarshaler. An explicit null leaves the
// option unset.
func (o *Opt[T]) UnmarshalYAML(n *yaml.Node) error {
	if n.Tag == "!!null" {
		*o = Opt[T]{}
		return nil
	}
	var v T
	if err := n.Decode(&v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (o Opt[T]) MarshalYAML() (any, error) {
	if !o.ok {
		return nil, nil
	}
	return o.val, nil
}

// IsZero lets omitempty drop unset options.
func (o Opt[T]) IsZero() bool {
	return !o.ok
}

// First returns the first set option of layers, most specific first.
func First[T any](layers ...Opt[T]) Opt[T] {
	for _, l := range layers {
		if l.ok {
			return l
		}
	}
	return Opt[T]{}
}
