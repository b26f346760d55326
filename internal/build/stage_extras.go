package build

import "context"

// stageWriteExtras writes the posts feed and the sitemap when enabled and
// the base URL is absolute.
func stageWriteExtras(_ context.Context, bs *BuildState) error {
	if bs.writeFeed {
		data, err := renderFeed(bs.Config, bs.Listings.Posts, bs.now)
		if err != nil {
			return newFatalStageError(StageWriteExtras, encodeFailed("feed", err))
		}
		if err := bs.writeOutput(StageWriteExtras, FeedFile, data, "feed"); err != nil {
			return newFatalStageError(StageWriteExtras, err)
		}
	}
	if bs.writeSitemap {
		data, err := renderSitemap(bs.sitemapEntries())
		if err != nil {
			return newFatalStageError(StageWriteExtras, encodeFailed("sitemap", err))
		}
		if err := bs.writeOutput(StageWriteExtras, SitemapFile, data, "sitemap"); err != nil {
			return newFatalStageError(StageWriteExtras, err)
		}
	}
	return nil
}
