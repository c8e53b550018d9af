package custom

// chain is the ordered list of setting layers that apply to one class, most
// specific first: class, enclosing packages (innermost first), global.
type chain []*Nesting

// value returns the first value set along the chain, or def.
func value[T any](c chain, get func(*Nesting) Opt[T], def T) T {
	return lookup(c, get).Or(def)
}

// lookup returns the first option set along the chain.
func lookup[T any](c chain, get func(*Nesting) Opt[T]) Opt[T] {
	layers := make([]Opt[T], 0, len(c))
	for _, n := range c {
		if n != nil {
			layers = append(layers, get(n))
		}
	}
	return First(layers...)
}
