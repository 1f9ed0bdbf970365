package revrange

import (
	"strings"
	"unicode"
)

// Separator splits the two sides of a range expression.
const Separator = ".."

// Range is the result of parsing a range expression. An empty field means
// the side is absent.
type Range struct {
	From string
	To   string
}

// IsEmpty reports whether the input was rejected.
func (r Range) IsEmpty() bool {
	return r.From == "" && r.To == ""
}

// IsSingle reports whether r names exactly one commit.
func (r Range) IsSingle() bool {
	return r.From == "" && r.To != ""
}

// IsRange reports whether both sides are present.
func (r Range) IsRange() bool {
	return r.From != "" && r.To != ""
}

// String renders r back into expression form. Rejected ranges render as "".
func (r Range) String() string {
	switch {
	case r.IsRange():
		return r.From + Separator + r.To
	case r.To != "":
		return r.To
	case r.From != "":
		return r.From + Separator
	default:
		return ""
	}
}

// Parse splits text into a Range. The history markers '~' and '^' are kept
// as part of the reference text.
func Parse(text string) Range {
	if !validChars(text) {
		return Range{}
	}
	if strings.HasPrefix(text, Separator) || strings.HasSuffix(text, Separator) {
		return Range{}
	}

	parts := strings.Split(text, Separator)
	switch len(parts) {
	case 1:
		return Range{To: text}
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return Range{}
		}
		return Range{From: parts[0], To: parts[1]}
	default:
		return Range{}
	}
}

// FromRefs builds a Range from separately supplied endpoints. Each endpoint
// must parse as a single reference on its own, and to is mandatory.
func FromRefs(from, to string) Range {
	if to == "" || !IsRef(to) {
		return Range{}
	}
	if from == "" {
		return Range{To: to}
	}
	if !IsRef(from) {
		return Range{}
	}
	return Range{From: from, To: to}
}

// IsRef reports whether text is acceptable as a single reference.
func IsRef(text string) bool {
	return Parse(text).IsSingle()
}

func validChars(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return false
		}
	}
	return true
}
