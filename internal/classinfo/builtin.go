package classinfo

import "strings"

// CollectionType is the root collection interface.
const CollectionType = "java.util.Collection"

var primitives = map[string]struct{}{
	"boolean": {}, "byte": {}, "char": {}, "short": {}, "int": {}, "long": {}, "float": {}, "double": {},
}

var simpleTypes = map[string]struct{}{
	"java.lang.String": {}, "java.lang.Boolean": {}, "java.lang.Byte": {}, "java.lang.Character": {},
	"java.lang.Short": {}, "java.lang.Integer": {}, "java.lang.Long": {}, "java.lang.Float": {},
	"java.lang.Double": {}, "java.math.BigDecimal": {}, "java.math.BigInteger": {},
	"java.util.Date": {}, "java.sql.Date": {}, "java.sql.Time": {}, "java.sql.Timestamp": {},
	"java.time.LocalDate": {}, "java.time.LocalTime": {}, "java.time.LocalDateTime": {},
	"java.time.OffsetDateTime": {}, "java.time.ZonedDateTime": {}, "java.time.Instant": {},
	"java.time.Duration": {}, "java.net.URI": {}, "java.net.URL": {}, "java.util.UUID": {},
	"java.util.Locale": {}, "java.util.Currency": {}, "java.lang.Class": {},
	"byte[]": {}, "char[]": {},
}

// platformSupers is the slice of the JDK collection hierarchy the generator
// needs to recognize collections it has no class description for.
var platformSupers = map[string][]string{
	"java.util.Collection":                      {"java.lang.Iterable"},
	"java.util.List":                            {CollectionType},
	"java.util.Set":                             {CollectionType},
	"java.util.SortedSet":                       {"java.util.Set"},
	"java.util.NavigableSet":                    {"java.util.SortedSet"},
	"java.util.Queue":                           {CollectionType},
	"java.util.Deque":                           {"java.util.Queue"},
	"java.util.AbstractCollection":              {CollectionType},
	"java.util.AbstractList":                    {"java.util.AbstractCollection", "java.util.List"},
	"java.util.ArrayList":                       {"java.util.AbstractList", "java.util.List"},
	"java.util.LinkedList":                      {"java.util.AbstractList", "java.util.List", "java.util.Deque"},
	"java.util.Vector":                          {"java.util.AbstractList", "java.util.List"},
	"java.util.Stack":                           {"java.util.Vector"},
	"java.util.HashSet":                         {"java.util.AbstractCollection", "java.util.Set"},
	"java.util.LinkedHashSet":                   {"java.util.HashSet"},
	"java.util.TreeSet":                         {"java.util.AbstractCollection", "java.util.NavigableSet"},
	"java.util.ArrayDeque":                      {"java.util.AbstractCollection", "java.util.Deque"},
	"java.util.PriorityQueue":                   {"java.util.AbstractCollection", "java.util.Queue"},
	"java.util.concurrent.CopyOnWriteArrayList": {"java.util.List"},
}

var defaultCreateTypes = map[string]string{
	CollectionType:           "java.util.ArrayList",
	"java.util.List":         "java.util.ArrayList",
	"java.util.Set":          "java.util.HashSet",
	"java.util.SortedSet":    "java.util.TreeSet",
	"java.util.NavigableSet": "java.util.TreeSet",
	"java.util.Queue":        "java.util.ArrayDeque",
	"java.util.Deque":        "java.util.ArrayDeque",
}

// IsPrimitive reports whether name is a primitive type.
func IsPrimitive(name string) bool {
	_, ok := primitives[name]
	return ok
}

// IsSimple reports whether name is bound as a leaf text value.
func IsSimple(name string) bool {
	if IsPrimitive(name) {
		return true
	}
	_, ok := simpleTypes[name]
	return ok
}

// IsString reports whether name is the string type.
func IsString(name string) bool {
	return name == "java.lang.String"
}

// IsPlatform reports whether name lives in the platform's own packages,
// which can never be bound by walking their members.
func IsPlatform(name string) bool {
	return strings.HasPrefix(name, "java.") || strings.HasPrefix(name, "javax.") || strings.HasPrefix(name, "jdk.")
}

// DefaultCreateType returns the implementation used to create instances of a
// collection interface, or "" when the type can be created as is.
func DefaultCreateType(name string) string {
	return defaultCreateTypes[name]
}
