package build

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"git.home.luguber.info/inful/victor/internal/docmodel"
	"git.home.luguber.info/inful/victor/internal/logfields"
	"git.home.luguber.info/inful/victor/internal/pagination"
)

// Listings groups converted documents for the listing pages.
type Listings struct {
	// Posts and Projects are sorted by date, newest first.
	Posts      []*docmodel.Document
	Projects   []*docmodel.Document
	PostPages  []pagination.Page[*docmodel.Document]
	Categories []Category
}

// Category is one taxonomy term with its documents, newest first.
type Category struct {
	Name      string
	Slug      string
	Documents []*docmodel.Document
}

// URL is the category page location relative to the site root.
func (c Category) URL() string { return "categories/" + c.Slug + "/" }

// PostsPageURL is the location of the zero-based posts listing page i,
// relative to the site root.
func PostsPageURL(i int) string {
	if i == 0 {
		return "posts/"
	}
	return fmt.Sprintf("posts/%d/", i)
}

// SortByDateDesc orders documents newest first. Documents with equal
// dates keep their relative order.
func SortByDateDesc(docs []*docmodel.Document) {
	slices.SortStableFunc(docs, func(a, b *docmodel.Document) int {
		return b.Date().Compare(a.Date())
	})
}

// stageAggregateListings partitions documents by collection, sorts and
// paginates them, and groups them by category.
func stageAggregateListings(_ context.Context, bs *BuildState) error {
	l := &Listings{}
	for _, e := range bs.Entries {
		switch e.Class.Collection {
		case CollectionPosts:
			l.Posts = append(l.Posts, e.Doc)
		case CollectionProjects:
			l.Projects = append(l.Projects, e.Doc)
		}
	}
	SortByDateDesc(l.Posts)
	SortByDateDesc(l.Projects)

	pages, err := pagination.Paginate(l.Posts, bs.Config.Pagination.PageSize, PostsPageURL)
	if err != nil {
		return newFatalStageError(StageAggregateListings, err)
	}
	if len(pages) == 0 {
		// An empty first page keeps the posts link working.
		pages = []pagination.Page[*docmodel.Document]{{Index: 0, Total: 1}}
	}
	l.PostPages = pages

	if bs.Config.Build.Categories {
		l.Categories = groupCategories(bs.Entries)
	}

	bs.Listings = l
	bs.logger.Debug("listings aggregated",
		logfields.Collection(string(CollectionPosts)), logfields.Count(len(l.Posts)),
		logfields.Page(len(l.PostPages)))
	bs.logger.Debug("listings aggregated",
		logfields.Collection(string(CollectionProjects)), logfields.Count(len(l.Projects)))
	return nil
}

// groupCategories collects documents by category slug. The first spelling
// seen names the category. Categories are ordered by slug.
func groupCategories(entries []entry) []Category {
	bySlug := make(map[string]*Category)
	for _, e := range entries {
		seen := make(map[string]bool)
		for _, name := range e.Doc.Categories() {
			slug := docmodel.CategorySlug(name)
			if slug == "" || seen[slug] {
				continue
			}
			seen[slug] = true
			c, ok := bySlug[slug]
			if !ok {
				c = &Category{Name: name, Slug: slug}
				bySlug[slug] = c
			}
			c.Documents = append(c.Documents, e.Doc)
		}
	}

	out := make([]Category, 0, len(bySlug))
	for _, c := range bySlug {
		SortByDateDesc(c.Documents)
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}
