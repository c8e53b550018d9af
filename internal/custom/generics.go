package custom

import "strings"

// ItemTypeFromSignature extracts the item type of a collection from its
// generic signature, e.g. "java.util.List<com.example.Item>". It fails for
// raw types, unbounded or lower-bounded wildcards, type variables and
// parameter lists with more than one argument.
func ItemTypeFromSignature(signature string) (string, bool) {
	open := strings.IndexByte(signature, '<')
	end := strings.LastIndexByte(signature, '>')
	if open < 0 || end < open {
		return "", false
	}
	args := splitTopLevel(signature[open+1 : end])
	if len(args) != 1 {
		return "", false
	}
	arg := strings.TrimSpace(args[0])
	switch {
	case arg == "?" || strings.HasPrefix(arg, "? super"):
		return "", false
	case strings.HasPrefix(arg, "? extends"):
		arg = strings.TrimSpace(strings.TrimPrefix(arg, "? extends"))
	}
	if i := strings.IndexByte(arg, '<'); i >= 0 {
		// nested parameterization: the erased outer type is the item
		arg = arg[:i] + arg[strings.LastIndexByte(arg, '>')+1:]
	}
	if arg == "" || isTypeVariable(arg) {
		return "", false
	}
	return arg, true
}

// splitTopLevel splits a type argument list on commas outside nested angle
// brackets.
func splitTopLevel(s string) []string {
	var (
		out   []string
		depth int
		start int
	)
	for i, r := range s {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	return append(out, s[start:])
}

// isTypeVariable treats unqualified, non-primitive names as type variables.
func isTypeVariable(name string) bool {
	base := strings.TrimSuffix(name, "[]")
	return !strings.Contains(base, ".")
}
