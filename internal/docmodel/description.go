package docmodel

import (
	"strings"
	"unicode"

	stripmd "github.com/writeas/go-strip-markdown"
)

// DescriptionLength is the number of body characters considered when a
// description has to be derived.
const DescriptionLength = 280

// ExcerptLength caps the plain-text excerpt.
const ExcerptLength = 200

const (
	descriptionPunctuation = "\"'“” .,!?:;()[]/-\r\n"
	moreMarker             = "<!--more-->"
	ellipsis               = "..."
)

// DeriveDescription takes the first DescriptionLength characters of the raw
// markdown, keeps letters, digits and a fixed set of punctuation, and
// appends an ellipsis.
func DeriveDescription(body string) string {
	var b strings.Builder
	n := 0
	for _, r := range body {
		if n == DescriptionLength {
			break
		}
		n++
		if unicode.IsLetter(r) || unicode.IsNumber(r) || strings.ContainsRune(descriptionPunctuation, r) {
			b.WriteRune(r)
		}
	}
	b.WriteString(ellipsis)
	return b.String()
}

// Excerpt returns plain text for listings and feeds. Text before a
// <!--more--> marker is used when present. Computed on first call.
func (d *Document) Excerpt() string {
	d.excerptOnce.Do(func() {
		src := d.markdown
		if before, _, found := strings.Cut(src, moreMarker); found {
			d.excerpt = strings.Join(strings.Fields(stripmd.Strip(before)), " ")
			return
		}
		text := strings.Join(strings.Fields(stripmd.Strip(src)), " ")
		d.excerpt = truncateWords(text, ExcerptLength)
	})
	return d.excerpt
}

func truncateWords(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	cut := string(runes[:limit])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + ellipsis
}
