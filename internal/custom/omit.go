package custom

import "strings"

// annotationExcluded reports whether any of a member's annotations is in
// the configured exclusion list. Annotation names are compared without a
// leading '@' and without their package.
func annotationExcluded(annotations, excluded []string) bool {
	if len(annotations) == 0 || len(excluded) == 0 {
		return false
	}
	for _, a := range annotations {
		for _, e := range excluded {
			if annotationName(a) == annotationName(e) {
				return true
			}
		}
	}
	return false
}

// annotationName strips the '@', any arguments and the package of an
// annotation reference: "@javax.xml.bind.annotation.XmlTransient()" yields
// "XmlTransient".
func annotationName(a string) string {
	a = strings.TrimPrefix(strings.TrimSpace(a), "@")
	if i := strings.IndexByte(a, '('); i >= 0 {
		a = a[:i]
	}
	if i := strings.LastIndexByte(a, '.'); i >= 0 {
		a = a[i+1:]
	}
	return a
}
