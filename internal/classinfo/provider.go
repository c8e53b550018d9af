// Package classinfo supplies class descriptions to the generator and holds
// the built-in knowledge about platform types.
package classinfo

import (
	"strings"

	"github.com/cmmoran/bindgen/internal/model"
)

// Provider looks up class descriptions by fully qualified name.
type Provider interface {
	Lookup(name string) (*model.ClassInfo, bool)
}

// Static is an in-memory Provider.
type Static map[string]*model.ClassInfo

// NewStatic returns a Static provider holding infos.
func NewStatic(infos ...*model.ClassInfo) Static {
	s := make(Static, len(infos))
	for _, ci := range infos {
		s.Add(ci)
	}
	return s
}

// Add registers ci, replacing any previous entry with the same name.
func (s Static) Add(ci *model.ClassInfo) {
	if ci == nil || ci.Name == "" {
		return
	}
	s[ci.Name] = ci
}

// Lookup implements Provider.
func (s Static) Lookup(name string) (*model.ClassInfo, bool) {
	ci, ok := s[name]
	return ci, ok
}

// Chain consults each provider in order.
type Chain []Provider

// Lookup implements Provider.
func (c Chain) Lookup(name string) (*model.ClassInfo, bool) {
	for _, p := range c {
		if p == nil {
			continue
		}
		if ci, ok := p.Lookup(name); ok {
			return ci, true
		}
	}
	return nil, false
}

// IsAssignable reports whether values of type from can be stored in type to,
// walking superclasses and interfaces through the provider and the built-in
// platform hierarchy.
func IsAssignable(p Provider, from, to string) bool {
	if from == to {
		return true
	}
	if to == model.ObjectType {
		return !IsPrimitive(from)
	}
	seen := map[string]bool{from: true}
	queue := []string{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range supertypes(p, cur) {
			if next == to {
				return true
			}
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

func supertypes(p Provider, name string) []string {
	if s, ok := platformSupers[name]; ok {
		return s
	}
	if p == nil {
		return nil
	}
	ci, ok := p.Lookup(name)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(ci.Interfaces)+1)
	if ci.Superclass != "" {
		out = append(out, ci.Superclass)
	}
	return append(out, ci.Interfaces...)
}

// IsArray reports whether name denotes an array type.
func IsArray(name string) bool {
	return strings.HasSuffix(name, "[]")
}

// ComponentType strips one array dimension.
func ComponentType(name string) string {
	return strings.TrimSuffix(name, "[]")
}

// IsCollection reports whether a type is bound as a repeated value: arrays
// (other than simple-valued byte and char arrays) and implementors of the
// collection interface.
func IsCollection(p Provider, name string) bool {
	if IsArray(name) {
		return !IsSimple(name)
	}
	return IsAssignable(p, name, CollectionType)
}

// IsEnum reports whether the provider describes name as an enum-like class.
func IsEnum(p Provider, name string) bool {
	if p == nil {
		return false
	}
	ci, ok := p.Lookup(name)
	return ok && ci.Enum
}
