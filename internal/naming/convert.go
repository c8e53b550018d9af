// Package naming converts code identifiers into XML names, derives
// namespaces from packages and keeps generated names unique.
package naming

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"

	"github.com/cmmoran/bindgen/internal/model"
)

// Style is a name conversion style.
type Style int

const (
	CamelCase Style = iota
	UpperCamelCase
	Hyphenated
	Dotted
	Underscored
)

var styleNames = map[Style]string{
	CamelCase:      "camel-case",
	UpperCamelCase: "upper-camel-case",
	Hyphenated:     "hyphens",
	Dotted:         "dotted",
	Underscored:    "underscores",
}

// String returns the configuration keyword of the style.
func (s Style) String() string {
	if n, ok := styleNames[s]; ok {
		return n
	}
	return "unknown"
}

// ParseStyle parses a style keyword (case-insensitive).
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "camel-case", "camel":
		return CamelCase, nil
	case "upper-camel-case", "upper-camel":
		return UpperCamelCase, nil
	case "hyphens", "hyphenated":
		return Hyphenated, nil
	case "dotted", "dots":
		return Dotted, nil
	case "underscores", "underscored":
		return Underscored, nil
	}
	return CamelCase, fmt.Errorf("unknown name style %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Style) UnmarshalText(b []byte) error {
	v, err := ParseStyle(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ConvertName turns a class, field or accessor-derived identifier into an
// XML local name using style.
func ConvertName(name string, style Style) string {
	for strings.HasSuffix(name, "[]") {
		name = strings.TrimSuffix(name, "[]")
	}
	rs := []rune(name)
	start := 0
	for start < len(rs) && !isAlnum(rs[start]) {
		start++
	}
	if start == len(rs) {
		return "_"
	}
	words := splitWords(rs[start:])
	if len(words) == 0 {
		return "_"
	}

	var b strings.Builder
	for i, w := range words {
		switch style {
		case CamelCase:
			if i == 0 {
				b.WriteString(strings.ToLower(w))
			} else {
				b.WriteString(title(w))
			}
		case UpperCamelCase:
			b.WriteString(title(w))
		default:
			if i > 0 {
				b.WriteRune(separator(style))
			}
			b.WriteString(strings.ToLower(w))
		}
	}
	return b.String()
}

// splitWords breaks an identifier at underscores, other separators and
// upper-case transitions. '$' is dropped without starting a word.
func splitWords(rs []rune) []string {
	var (
		words     []string
		cur       []rune
		prevUpper bool
	)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	for i, r := range rs {
		switch {
		case r == '$':
			continue
		case !isAlnum(r):
			flush()
			prevUpper = false
			continue
		case unicode.IsUpper(r):
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if len(cur) > 0 && (!prevUpper || nextLower) {
				flush()
			}
			prevUpper = true
		default:
			prevUpper = false
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

func separator(style Style) rune {
	switch style {
	case Dotted:
		return '.'
	case Underscored:
		return '_'
	default:
		return '-'
	}
}

func title(w string) string {
	rs := []rune(strings.ToLower(w))
	rs[0] = unicode.ToUpper(rs[0])
	return string(rs)
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// sWords are singular nouns ending in s that the default inflection rules
// would strip.
const sWords = "canvas|atlas|bonus|lens|gas|bias|campus|census|corpus|focus|iris|plus|minus|apparatus"

func init() {
	inflection.AddSingular("("+sWords+")(es)?$", "${1}")
	inflection.AddPlural("("+sWords+")$", "${1}es")
}

// DeriveItemName picks the element name for the items of a collection: the
// singular of the collection name when it is a recognized plural, else the
// converted simple name of the item type, else "item". A name is a plural
// only when its singular pluralizes back to it.
func DeriveItemName(collectionName, itemType string, style Style) string {
	if collectionName != "" {
		single := inflection.Singular(collectionName)
		if single != "" && single != collectionName && inflection.Plural(single) == collectionName {
			return single
		}
	}
	if itemType != "" && itemType != model.ObjectType {
		return ConvertName(model.SimpleName(itemType), style)
	}
	return "item"
}
