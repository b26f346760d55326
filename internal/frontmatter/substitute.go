package frontmatter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ErrUnknownSubstitution is returned when a {{ ... }} expression does not
// name one of the supported functions.
var ErrUnknownSubstitution = errors.New("unknown substitution")

// SubstitutionFunc renders a value for the given clock reading.
type SubstitutionFunc func(now time.Time) string

var (
	expressionPattern = regexp.MustCompile(`\{\{(.*?)\}\}`)
	callPattern       = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_.]*)\s*\(\s*\)\s*$`)
)

// Substitutions is the closed set of functions archetypes may call.
var Substitutions = map[string]SubstitutionFunc{
	"now":   func(t time.Time) string { return t.Format(time.RFC3339) },
	"today": func(t time.Time) string { return t.Format(time.DateOnly) },
	"year":  func(t time.Time) string { return t.Format("2006") },

	// Names used by archetypes written for the Python tool.
	"datetime.now": func(t time.Time) string { return t.Format(time.RFC3339) },
	"date.today":   func(t time.Time) string { return t.Format(time.DateOnly) },
}

// Substitute replaces the first {{ name() }} expression in header. Later
// expressions are left untouched. It reports whether a replacement happened.
func Substitute(header []byte, now time.Time) ([]byte, bool, error) {
	loc := expressionPattern.FindSubmatchIndex(header)
	if loc == nil {
		return header, false, nil
	}
	expr := string(header[loc[2]:loc[3]])
	m := callPattern.FindStringSubmatch(expr)
	if m == nil {
		return nil, false, fmt.Errorf("%w: %q", ErrUnknownSubstitution, strings.TrimSpace(expr))
	}
	fn, ok := Substitutions[m[1]]
	if !ok {
		return nil, false, fmt.Errorf("%w: %s()", ErrUnknownSubstitution, m[1])
	}
	return splice(header, loc, fn(now)), true, nil
}

// SubstituteKnown replaces the first expression that is a call to a known
// function. Any other {{ ... }} text, such as Go template syntax quoted in a
// title, is left as written.
func SubstituteKnown(header []byte, now time.Time) ([]byte, bool) {
	for _, loc := range expressionPattern.FindAllSubmatchIndex(header, -1) {
		m := callPattern.FindSubmatch(header[loc[2]:loc[3]])
		if m == nil {
			continue
		}
		if fn, ok := Substitutions[string(m[1])]; ok {
			return splice(header, loc, fn(now)), true
		}
	}
	return header, false
}

func splice(header []byte, loc []int, value string) []byte {
	out := make([]byte, 0, len(header))
	out = append(out, header[:loc[0]]...)
	out = append(out, value...)
	out = append(out, header[loc[1]:]...)
	return out
}
