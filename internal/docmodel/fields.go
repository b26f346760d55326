package docmodel

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
)

// Recognised front matter keys.
const (
	FieldTitle         = "title"
	FieldFeaturedImage = "featuredImage"
	FieldAuthor        = "author"
	FieldDate          = "date"
	FieldRSSFullText   = "rssFullText"
	FieldCategories    = "categories"
	FieldDescription   = "description"
)

var knownFields = map[string]bool{
	FieldTitle:         true,
	FieldFeaturedImage: true,
	FieldAuthor:        true,
	FieldDate:          true,
	FieldRSSFullText:   true,
	FieldCategories:    true,
	FieldDescription:   true,
}

func stringField(fields map[string]any, key string) (string, bool) {
	v, ok := fields[key]
	if !ok || v == nil {
		return "", false
	}
	switch s := v.(type) {
	case string:
		return s, true
	case fmt.Stringer:
		return s.String(), true
	default:
		return fmt.Sprint(v), true
	}
}

func boolField(fields map[string]any, key string, def bool) bool {
	switch v := fields[key].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return def
}

// dateField parses the date field. It returns now and true when the value is
// absent or unparseable.
func dateField(fields map[string]any, now time.Time) (time.Time, bool) {
	if now.IsZero() {
		now = time.Now()
	}
	switch v := fields[FieldDate].(type) {
	case time.Time:
		return v, false
	case string:
		if t, err := dateparse.ParseAny(strings.TrimSpace(v)); err == nil {
			return t, false
		}
	}
	return now, true
}

// listField accepts a YAML sequence or a single scalar.
func listField(fields map[string]any, key string) []string {
	switch v := fields[key].(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			if s := strings.TrimSpace(fmt.Sprint(item)); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return append([]string(nil), v...)
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return []string{s}
		}
	}
	return []string{}
}

func extraFields(fields map[string]any) map[string]any {
	extra := make(map[string]any)
	for k, v := range fields {
		if !knownFields[k] {
			extra[k] = v
		}
	}
	return extra
}

// CategorySlug turns a category name into a URL path segment: lower-cased,
// with every run of characters other than letters and digits replaced by a
// single hyphen.
func CategorySlug(name string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}
