package build

import (
	"context"
	"path"

	"git.home.luguber.info/inful/victor/internal/logfields"
	"git.home.luguber.info/inful/victor/internal/theme"
)

// RecentPosts is how many posts the home page lists.
const RecentPosts = 5

// Listing page titles.
const (
	PostsTitle    = "Posts"
	ProjectsTitle = "Projects"
)

// stageRenderPages renders the home page and every listing page.
func stageRenderPages(ctx context.Context, bs *BuildState) error {
	l := bs.Listings

	recent := l.Posts[:min(RecentPosts, len(l.Posts))]
	if err := bs.renderPage(StageRenderPages, theme.PageIndex, "index.html", PageContext{
		Site:  bs.Site,
		Posts: recent,
	}); err != nil {
		return newFatalStageError(StageRenderPages, err)
	}

	for _, p := range l.PostPages {
		if err := ctx.Err(); err != nil {
			return newCanceledStageError(StageRenderPages, err)
		}
		data := PageContext{
			Site:       bs.Site,
			PageTitle:  PostsTitle,
			Posts:      p.Items,
			PageNumber: p.Number(),
			PageCount:  p.Total,
		}
		if p.Prev != nil {
			data.PrevPage = bs.Site.URL(p.Prev.URL)
		}
		if p.Next != nil {
			data.NextPage = bs.Site.URL(p.Next.URL)
		}
		if err := bs.renderPage(StageRenderPages, theme.PagePostList, path.Join(PostsPageURL(p.Index), "index.html"), data); err != nil {
			return newFatalStageError(StageRenderPages, err)
		}
	}
	bs.Report.ListingPages[string(CollectionPosts)] = len(l.PostPages)

	if err := bs.renderPage(StageRenderPages, theme.PageProjectList, "projects/index.html", PageContext{
		Site:       bs.Site,
		PageTitle:  ProjectsTitle,
		Posts:      l.Projects,
		PageNumber: 1,
		PageCount:  1,
	}); err != nil {
		return newFatalStageError(StageRenderPages, err)
	}
	bs.Report.ListingPages[string(CollectionProjects)] = 1

	for _, c := range l.Categories {
		if err := ctx.Err(); err != nil {
			return newCanceledStageError(StageRenderPages, err)
		}
		if err := bs.renderPage(StageRenderPages, theme.PageCategoryTerm, path.Join(c.URL(), "index.html"), PageContext{
			Site:       bs.Site,
			PageTitle:  c.Name,
			Posts:      c.Documents,
			PageNumber: 1,
			PageCount:  1,
		}); err != nil {
			return newFatalStageError(StageRenderPages, err)
		}
	}
	if len(l.Categories) > 0 {
		bs.Report.ListingPages["categories"] = len(l.Categories)
	}
	return nil
}

func (bs *BuildState) renderPage(stage StageName, page, rel string, data PageContext) error {
	out, err := bs.render(page, data)
	if err != nil {
		return err
	}
	if err := bs.writeOutput(stage, rel, out, page); err != nil {
		return err
	}
	bs.logger.Debug("page rendered", logfields.Template(page), logfields.Path(rel))
	return nil
}
