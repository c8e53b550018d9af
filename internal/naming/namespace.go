package naming

import (
	"fmt"
	"strings"
)

// NamespaceStyle selects how namespaces are derived for a package.
type NamespaceStyle int

const (
	ByPackage NamespaceStyle = iota
	Fixed
	NoNamespace
)

// String returns the configuration keyword of the style.
func (s NamespaceStyle) String() string {
	switch s {
	case Fixed:
		return "fixed"
	case NoNamespace:
		return "none"
	default:
		return "package"
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *NamespaceStyle) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "package", "by-package":
		*s = ByPackage
	case "fixed":
		*s = Fixed
	case "none":
		*s = NoNamespace
	default:
		return fmt.Errorf("unknown namespace style %q", string(b))
	}
	return nil
}

// DeriveNamespace returns the namespace URI for a package.
//
//	NoNamespace: ""
//	Fixed:       baseURI
//	ByPackage:   baseURI + "/" + last package segment, or without a base URI
//	             the reversed-domain form (com.example.foo -> http://example.com/foo)
func DeriveNamespace(baseURI, packagePath string, style NamespaceStyle) string {
	switch style {
	case NoNamespace:
		return ""
	case Fixed:
		return baseURI
	}
	segments := splitPackage(packagePath)
	if baseURI != "" {
		if len(segments) == 0 {
			return baseURI
		}
		return strings.TrimRight(baseURI, "/") + "/" + segments[len(segments)-1]
	}
	switch len(segments) {
	case 0:
		return ""
	case 1:
		return "http://" + segments[0]
	}
	ns := "http://" + segments[1] + "." + segments[0]
	if len(segments) > 2 {
		ns += "/" + strings.Join(segments[2:], "/")
	}
	return ns
}

func splitPackage(pkg string) []string {
	var out []string
	for _, s := range strings.Split(pkg, ".") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
