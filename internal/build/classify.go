package build

import (
	"path"
	"strings"

	"git.home.luguber.info/inful/victor/internal/theme"
)

// Collection names a listing group.
type Collection string

const (
	CollectionNone     Collection = ""
	CollectionPosts    Collection = "posts"
	CollectionProjects Collection = "projects"
)

// Variant selects the page template for a document.
type Variant int

const (
	VariantInfo Variant = iota
	VariantPost
)

func (v Variant) String() string {
	if v == VariantPost {
		return "post"
	}
	return "info"
}

// Classification is where a document belongs and how it is rendered.
type Classification struct {
	Collection Collection
	Variant    Variant
}

// Template is the theme page used to render the document.
func (c Classification) Template() string {
	if c.Variant == VariantPost {
		return theme.PagePost
	}
	return theme.PageInfo
}

// Classify maps a slash-separated path relative to the content root to its
// collection and template variant. Only files inside a top-level posts or
// projects directory belong to a collection; a file named posts.md does not.
func Classify(rel string) Classification {
	rel = strings.TrimPrefix(path.Clean("/"+rel), "/")
	first, rest, nested := strings.Cut(rel, "/")
	if !nested || rest == "" {
		return Classification{}
	}
	switch Collection(first) {
	case CollectionPosts:
		return Classification{Collection: CollectionPosts, Variant: VariantPost}
	case CollectionProjects:
		return Classification{Collection: CollectionProjects, Variant: VariantPost}
	default:
		return Classification{}
	}
}
