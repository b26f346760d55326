package build

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/victor/internal/config"
	ferrors "git.home.luguber.info/inful/victor/internal/foundation/errors"
	"git.home.luguber.info/inful/victor/internal/metrics"
)

const siteConfig = `title: Field Notes
description: A test site
navbar:
  - name: Posts
    url: /posts/
  - name: Code
    url: https://example.org/code
index:
  socialLinks:
    github: ""
    linkedin: abc
`

const absoluteBaseURL = "base_url: https://example.com\n"

var buildClock = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testConfig() *config.SiteConfig {
	cfg := config.Defaults()
	cfg.Title = "Field Notes"
	return cfg
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// newProject lays out a site with 20 dated posts, 2 projects and one loose
// page.
func newProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "config.yaml"), siteConfig)
	for i := 1; i <= 20; i++ {
		writeFile(t, filepath.Join(root, "content", "posts", fmt.Sprintf("post-%02d.md", i)), fmt.Sprintf(
			"---\ntitle: Post %02d\ndate: 2024-01-%02d\ncategories: [notes]\n---\nBody of post %d.\n", i, i, i))
	}
	writeFile(t, filepath.Join(root, "content", "projects", "alpha.md"), "---\ntitle: Alpha\ndate: 2023-05-01\n---\nAlpha project.\n")
	writeFile(t, filepath.Join(root, "content", "projects", "beta.md"), "---\ntitle: Beta\ndate: 2023-06-01\nfeaturedImage: /img/beta.png\n---\nBeta project.\n")
	writeFile(t, filepath.Join(root, "content", "about.md"), "---\ntitle: About\n---\n## Who\n\nMe.\n")
	return root
}

func newPipeline(root string, opts ...Option) *Pipeline {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(Options{Root: root, Now: func() time.Time { return buildClock }}, append([]Option{WithLogger(logger)}, opts...)...)
}

func parseHTML(t *testing.T, path string) *html.Node {
	t.Helper()
	// #nosec G304 -- test output
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	doc, err := html.Parse(f)
	require.NoError(t, err)
	return doc
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" && strings.Contains(" "+a.Val+" ", " "+class+" ") {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

// findAll returns every element below n matching pred, in document order.
func findAll(n *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && pred(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// listedTitles returns the link texts of a post-list page in order.
func listedTitles(t *testing.T, path string) []string {
	t.Helper()
	var out []string
	for _, ul := range findAll(parseHTML(t, path), func(n *html.Node) bool { return n.Data == "ul" && hasClass(n, "post-list") }) {
		for _, a := range findAll(ul, func(n *html.Node) bool { return n.Data == "a" }) {
			out = append(out, textOf(a))
		}
	}
	return out
}

func titleOf(t *testing.T, path string) string {
	t.Helper()
	nodes := findAll(parseHTML(t, path), func(n *html.Node) bool { return n.Data == "title" })
	require.Len(t, nodes, 1)
	return textOf(nodes[0])
}

func postTitles(from, to int) []string {
	var out []string
	for i := from; i >= to; i-- {
		out = append(out, fmt.Sprintf("Post %02d", i))
	}
	return out
}

func TestRun_EndToEnd(t *testing.T) {
	root := newProject(t)
	report, err := newPipeline(root).Run(context.Background())
	require.NoError(t, err)
	out := filepath.Join(root, "public")

	assert.Equal(t, OutcomeSuccess, report.Outcome)
	assert.Equal(t, 23, report.DocumentsDiscovered)
	assert.Equal(t, 23, report.DocumentsRendered)
	assert.Zero(t, report.DocumentsSkipped)
	assert.Equal(t, 2, report.ListingPages["posts"])
	assert.Equal(t, 1, report.ListingPages["projects"])
	assert.NotEmpty(t, report.BuildID)
	for _, st := range defaultStages() {
		assert.Equal(t, 1, report.StageCounts[st.Name].Success, st.Name)
	}

	// Posts: 16 newest on the first page, the remaining 4 on the second.
	assert.Equal(t, postTitles(20, 5), listedTitles(t, filepath.Join(out, "posts", "index.html")))
	assert.Equal(t, postTitles(4, 1), listedTitles(t, filepath.Join(out, "posts", "1", "index.html")))
	assert.NoFileExists(t, filepath.Join(out, "posts", "2", "index.html"))

	first := parseHTML(t, filepath.Join(out, "posts", "index.html"))
	assert.Empty(t, findAll(first, func(n *html.Node) bool { return hasClass(n, "prev") }))
	next := findAll(first, func(n *html.Node) bool { return hasClass(n, "next") })
	require.Len(t, next, 1)
	assert.Equal(t, "/posts/1/", attr(next[0], "href"))

	second := parseHTML(t, filepath.Join(out, "posts", "1", "index.html"))
	assert.Empty(t, findAll(second, func(n *html.Node) bool { return hasClass(n, "next") }))
	prev := findAll(second, func(n *html.Node) bool { return hasClass(n, "prev") })
	require.Len(t, prev, 1)
	assert.Equal(t, "/posts/", attr(prev[0], "href"))

	// Projects: single listing, newest first.
	projects := findAll(parseHTML(t, filepath.Join(out, "projects", "index.html")), func(n *html.Node) bool { return n.Data == "h2" })
	require.Len(t, projects, 2)
	assert.Equal(t, "Beta", textOf(projects[0]))
	assert.Equal(t, "Alpha", textOf(projects[1]))

	// The loose file is an info page with its source copied alongside.
	about := parseHTML(t, filepath.Join(out, "about", "index.html"))
	assert.Len(t, findAll(about, func(n *html.Node) bool { return n.Data == "article" && hasClass(n, "page") }), 1)
	anchors := findAll(about, func(n *html.Node) bool { return n.Data == "a" && hasClass(n, "anchor") })
	require.Len(t, anchors, 1)
	assert.Equal(t, "who", attr(anchors[0], "id"))
	src, err := os.ReadFile(filepath.Join(out, "about", "index.md"))
	require.NoError(t, err)
	assert.Equal(t, "---\ntitle: About\n---\n## Who\n\nMe.\n", string(src))

	// Post pages use the post template.
	post := parseHTML(t, filepath.Join(out, "posts", "post-03", "index.html"))
	assert.Len(t, findAll(post, func(n *html.Node) bool { return n.Data == "article" && hasClass(n, "post") }), 1)
	assert.FileExists(t, filepath.Join(out, "posts", "post-03", "index.md"))
	assert.Len(t, findAll(parseHTML(t, filepath.Join(out, "projects", "beta", "index.html")),
		func(n *html.Node) bool { return n.Data == "img" && hasClass(n, "post-hero") }), 1)
	assert.Empty(t, findAll(post, func(n *html.Node) bool { return n.Data == "img" && hasClass(n, "post-hero") }))

	// Every page carries the site title from the configuration.
	for _, page := range []string{"index.html", "posts/index.html", "posts/1/index.html", "projects/index.html", "about/index.html"} {
		assert.Contains(t, titleOf(t, filepath.Join(out, filepath.FromSlash(page))), "Field Notes", page)
	}

	// Home page: only the non-empty social link, external nav links kept.
	home := parseHTML(t, filepath.Join(out, "index.html"))
	social := findAll(home, func(n *html.Node) bool { return n.Data == "ul" && hasClass(n, "social-links") })
	require.Len(t, social, 1)
	links := findAll(social[0], func(n *html.Node) bool { return n.Data == "a" })
	require.Len(t, links, 1)
	assert.Equal(t, "https://www.linkedin.com/in/abc", attr(links[0], "href"))
	navLinks := findAll(home, func(n *html.Node) bool { return n.Data == "a" && attr(n, "href") == "https://example.org/code" })
	assert.Len(t, navLinks, 1)

	// Extras. The default base URL is relative, so feed and sitemap are
	// skipped with a warning issue.
	assert.FileExists(t, filepath.Join(out, "assets", "style.css"))
	assert.FileExists(t, filepath.Join(out, "categories", "notes", "index.html"))
	assert.NoFileExists(t, filepath.Join(out, SitemapFile))
	assert.NoFileExists(t, filepath.Join(out, FeedFile))
	assert.Equal(t, []ReportIssueCode{IssueRelativeBaseURL}, issueCodes(report))
}

func issueCodes(r *BuildReport) []ReportIssueCode {
	var codes []ReportIssueCode
	for _, is := range r.Issues {
		codes = append(codes, is.Code)
	}
	return codes
}

func TestRun_RelativeBaseURLSkipsFeedAndSitemap(t *testing.T) {
	for _, base := range []string{"/", "/blog/", "example.com", "ftp://example.com/"} {
		t.Run(base, func(t *testing.T) {
			root := newProject(t)
			writeFile(t, filepath.Join(root, "config.yaml"), siteConfig+"base_url: "+base+"\n")

			report, err := newPipeline(root).Run(context.Background())
			require.NoError(t, err)
			out := filepath.Join(root, "public")
			assert.NoFileExists(t, filepath.Join(out, FeedFile))
			assert.NoFileExists(t, filepath.Join(out, SitemapFile))
			require.Len(t, report.Issues, 1)
			assert.Equal(t, IssueRelativeBaseURL, report.Issues[0].Code)
			assert.Equal(t, SeverityWarning, report.Issues[0].Severity)
			assert.Equal(t, StageLoadConfig, report.Issues[0].Stage)

			home, err := os.ReadFile(filepath.Join(out, "index.html"))
			require.NoError(t, err)
			assert.NotContains(t, string(home), "application/rss+xml")
		})
	}
}

func TestRun_ResetsOutput(t *testing.T) {
	root := newProject(t)
	stale := filepath.Join(root, "public", "stale.html")
	writeFile(t, stale, "old")

	_, err := newPipeline(root).Run(context.Background())
	require.NoError(t, err)
	assert.NoFileExists(t, stale)
}

func TestRun_BadDocumentsAreSkipped(t *testing.T) {
	root := newProject(t)
	writeFile(t, filepath.Join(root, "content", "posts", "broken.md"), "title: no delimiters\n")
	writeFile(t, filepath.Join(root, "content", "posts", "untitled.md"), "---\nauthor: x\n---\nbody\n")

	report, err := newPipeline(root).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, OutcomeWarning, report.Outcome)
	assert.Equal(t, 25, report.DocumentsDiscovered)
	assert.Equal(t, 23, report.DocumentsRendered)
	assert.Equal(t, 2, report.DocumentsSkipped)
	assert.Equal(t, StageErrorWarning, report.StageErrorKinds[StageConvertContent])

	codes := map[string]ReportIssueCode{}
	for _, is := range report.Issues {
		codes[is.Path] = is.Code
	}
	assert.Equal(t, IssueMalformedDocument, codes["posts/broken.md"])
	assert.Equal(t, IssueMissingField, codes["posts/untitled.md"])

	out := filepath.Join(root, "public")
	assert.NoDirExists(t, filepath.Join(out, "posts", "broken"))
	assert.FileExists(t, filepath.Join(out, "posts", "index.html"))
	assert.Len(t, listedTitles(t, filepath.Join(out, "posts", "index.html")), 16)
}

func TestRun_TemplateFailureSkipsDocument(t *testing.T) {
	root := newProject(t)
	writeFile(t, filepath.Join(root, "layouts", "info.html"),
		`{{template "base" .}}{{define "main"}}{{.Post.NoSuchField}}{{end}}`)

	report, err := newPipeline(root).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.DocumentsSkipped)
	assert.Equal(t, []string{"info.html"}, report.TemplateOverrides)
	assert.Contains(t, issueCodes(report), IssueTemplateExecution)
	assert.NoFileExists(t, filepath.Join(root, "public", "about", "index.html"))
}

func TestRun_OutputWriteFailureIsFatal(t *testing.T) {
	root := newProject(t)
	// A static file named like a page directory blocks about/index.html.
	writeFile(t, filepath.Join(root, "static", "about"), "x")

	report, err := newPipeline(root).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutputWriteFailure))
	assert.Equal(t, ferrors.CategoryFileSystem, ferrors.GetCategory(err))
	assert.Equal(t, ferrors.SeverityFatal, ferrors.GetSeverity(err))
	assert.Equal(t, OutcomeFailed, report.Outcome)
	assert.Equal(t, 1, report.StageCounts[StageConvertContent].Fatal)
	assert.Contains(t, issueCodes(report), IssueOutputWrite)
	assert.Zero(t, report.DocumentsSkipped, "write failures are not per-document skips")
}

func TestEncodeFailedIsFatalBuildError(t *testing.T) {
	err := encodeFailed("feed", errors.New("bad char"))
	c, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, ferrors.CategoryBuild, c.Category())
	assert.True(t, c.IsFatal())
	assert.Contains(t, err.Error(), "failed to encode feed: bad char")
}

func TestRun_ConfigMissing(t *testing.T) {
	root := newProject(t)
	require.NoError(t, os.Remove(filepath.Join(root, "config.yaml")))

	report, err := newPipeline(root).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrConfigNotFound))
	assert.Equal(t, OutcomeFailed, report.Outcome)
	assert.Equal(t, 1, report.StageCounts[StageLoadConfig].Fatal)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, IssueConfig, report.Issues[0].Code)

	c, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	assert.Contains(t, c.Hint(), "victor init")
}

func TestRun_ConfigFieldMissing(t *testing.T) {
	root := newProject(t)
	writeFile(t, filepath.Join(root, "config.yaml"), "title: x\n")

	_, err := newPipeline(root).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrConfigFieldMissing))
	assert.Contains(t, err.Error(), "index.socialLinks")
}

func TestRun_ContentRootMissing(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "config.yaml"), siteConfig)

	_, err := newPipeline(root).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrContentRootMissing))
	assert.Equal(t, ferrors.CategoryNotFound, ferrors.GetCategory(err))
}

func TestRun_EmptyContentStillRendersListings(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "config.yaml"), siteConfig)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "content"), 0o755))

	report, err := newPipeline(root).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.ListingPages["posts"])
	assert.FileExists(t, filepath.Join(root, "public", "posts", "index.html"))
	assert.FileExists(t, filepath.Join(root, "public", "projects", "index.html"))
	assert.Contains(t, issueCodes(report), IssueNoContent)
}

func TestRun_RefusesUnsafeOutputDir(t *testing.T) {
	root := newProject(t)
	p := New(Options{Root: root, OutputDir: "."}, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsafeOutputDir))
	assert.FileExists(t, filepath.Join(root, "config.yaml"), "project must be left intact")

	p = New(Options{Root: root, ContentDir: "public/content"})
	_, err = p.Run(context.Background())
	assert.True(t, errors.Is(err, ErrUnsafeOutputDir))
}

func TestRun_StaticFilesOverrideThemeAssets(t *testing.T) {
	root := newProject(t)
	writeFile(t, filepath.Join(root, "static", "assets", "style.css"), "body{}")
	writeFile(t, filepath.Join(root, "static", "robots.txt"), "User-agent: *")

	_, err := newPipeline(root).Run(context.Background())
	require.NoError(t, err)

	css, err := os.ReadFile(filepath.Join(root, "public", "assets", "style.css"))
	require.NoError(t, err)
	assert.Equal(t, "body{}", string(css))
	assert.FileExists(t, filepath.Join(root, "public", "robots.txt"))
}

func TestRun_IgnorePatterns(t *testing.T) {
	root := newProject(t)
	writeFile(t, filepath.Join(root, "config.yaml"), siteConfig+"build:\n  ignore: [\"drafts/**\"]\n")
	writeFile(t, filepath.Join(root, "content", "drafts", "wip.md"), "no front matter at all")

	report, err := newPipeline(root).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 23, report.DocumentsDiscovered)
	assert.Equal(t, OutcomeSuccess, report.Outcome)
}

func TestRun_BaseURLOverride(t *testing.T) {
	root := newProject(t)
	writeFile(t, filepath.Join(root, "config.yaml"), siteConfig+"base_url: https://example.com/site\n")

	_, err := newPipeline(root).Run(context.Background())
	require.NoError(t, err)
	home, err := os.ReadFile(filepath.Join(root, "public", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(home), `href="https://example.com/site/assets/style.css"`)

	p := New(Options{Root: root, BaseURL: "/", LiveReload: true}, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	_, err = p.Run(context.Background())
	require.NoError(t, err)
	home, err = os.ReadFile(filepath.Join(root, "public", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(home), `href="/assets/style.css"`)
	assert.Contains(t, string(home), `src="/livereload.js"`)
}

func TestRun_Canceled(t *testing.T) {
	root := newProject(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := newPipeline(root).Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, OutcomeCanceled, report.Outcome)
}

func TestRun_Feed(t *testing.T) {
	root := newProject(t)
	writeFile(t, filepath.Join(root, "config.yaml"), siteConfig+absoluteBaseURL)
	writeFile(t, filepath.Join(root, "content", "posts", "short.md"),
		"---\ntitle: Short\ndate: 2024-02-01\nrssFullText: false\ndescription: Just the gist\n---\n**Long** body\n")

	_, err := newPipeline(root).Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "public", FeedFile))
	require.NoError(t, err)
	var feed rssXML
	require.NoError(t, xml.Unmarshal(data, &feed))

	assert.Equal(t, "2.0", feed.Version)
	assert.Equal(t, "Field Notes", feed.Channel.Title)
	require.Len(t, feed.Channel.Items, 21)
	assert.Equal(t, "Short", feed.Channel.Items[0].Title)
	assert.Equal(t, "Just the gist", feed.Channel.Items[0].Description)
	assert.Equal(t, "https://example.com/posts/short/", feed.Channel.Items[0].Link)
	assert.Equal(t, "Post 20", feed.Channel.Items[1].Title)
	assert.Contains(t, feed.Channel.Items[1].Description, "<p>Body of post 20.</p>")

	home, err := os.ReadFile(filepath.Join(root, "public", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(home), `href="https://example.com/index.xml"`)
	assert.Equal(t, []string{"notes"}, feed.Channel.Items[1].Categories)
}

func TestRun_FeedAndSitemapCanBeDisabled(t *testing.T) {
	root := newProject(t)
	writeFile(t, filepath.Join(root, "config.yaml"), siteConfig+"build:\n  feed: false\n  sitemap: false\n  categories: false\n")

	report, err := newPipeline(root).Run(context.Background())
	require.NoError(t, err)
	out := filepath.Join(root, "public")
	assert.NoFileExists(t, filepath.Join(out, FeedFile))
	assert.NoFileExists(t, filepath.Join(out, SitemapFile))
	assert.NoDirExists(t, filepath.Join(out, "categories"))
	assert.Empty(t, report.Issues, "a relative base URL is fine without feed or sitemap")

	home, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	assert.NotContains(t, string(home), "application/rss+xml")
}

func TestRun_Sitemap(t *testing.T) {
	root := newProject(t)
	writeFile(t, filepath.Join(root, "config.yaml"), siteConfig+absoluteBaseURL)
	report, err := newPipeline(root).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Issues)

	data, err := os.ReadFile(filepath.Join(root, "public", SitemapFile))
	require.NoError(t, err)
	var set sitemapURLSet
	require.NoError(t, xml.Unmarshal(data, &set))

	locs := map[string]string{}
	for _, u := range set.URLs {
		locs[u.Loc] = u.LastMod
	}
	// home + 23 documents + 2 posts pages + projects + 1 category
	assert.Len(t, set.URLs, 28)
	assert.Equal(t, "2024-01-03", locs["https://example.com/posts/post-03/"])
	lastmod, ok := locs["https://example.com/about/"]
	require.True(t, ok)
	assert.Empty(t, lastmod, "undated documents carry no lastmod")
	assert.Contains(t, locs, "https://example.com/")
	assert.Contains(t, locs, "https://example.com/posts/1/")
	assert.Contains(t, locs, "https://example.com/categories/notes/")
}

func TestRun_OutputCollisionIsReported(t *testing.T) {
	root := newProject(t)
	// posts/1.md renders to posts/1/index.html, the second listing page.
	writeFile(t, filepath.Join(root, "content", "posts", "1.md"), "---\ntitle: One\ndate: 2000-01-01\n---\n")

	report, err := newPipeline(root).Run(context.Background())
	require.NoError(t, err)
	var found bool
	for _, is := range report.Issues {
		if is.Code == IssueOutputCollision && is.Path == "posts/1/index.html" {
			found = true
		}
	}
	assert.True(t, found, "collision must be reported: %+v", report.Issues)
}

type recordingRecorder struct {
	metrics.NoopRecorder
	stages   []string
	outcome  metrics.BuildOutcomeLabel
	rendered int
	pages    map[string]int
}

func (r *recordingRecorder) ObserveStageDuration(stage string, _ time.Duration) {
	r.stages = append(r.stages, stage)
}
func (r *recordingRecorder) IncBuildOutcome(o metrics.BuildOutcomeLabel) { r.outcome = o }
func (r *recordingRecorder) IncDocuments(res metrics.DocumentResult, n int) {
	if res == metrics.DocumentRendered {
		r.rendered += n
	}
}
func (r *recordingRecorder) SetListingPages(c string, n int) {
	if r.pages == nil {
		r.pages = map[string]int{}
	}
	r.pages[c] = n
}

func TestRun_RecordsMetrics(t *testing.T) {
	root := newProject(t)
	rec := &recordingRecorder{}
	_, err := newPipeline(root, WithRecorder(rec)).Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, rec.stages, len(defaultStages()))
	assert.Equal(t, metrics.BuildOutcomeSuccess, rec.outcome)
	assert.Equal(t, 23, rec.rendered)
	assert.Equal(t, 2, rec.pages["posts"])
}

func TestReport_Persist(t *testing.T) {
	root := newProject(t)
	report, err := newPipeline(root).Run(context.Background())
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, report.Persist(dir))

	b, err := os.ReadFile(filepath.Join(dir, ReportJSONFile))
	require.NoError(t, err)
	var parsed map[string]any
	require.NoError(t, json.Unmarshal(b, &parsed))
	assert.Equal(t, "success", parsed["outcome"])
	assert.Equal(t, float64(23), parsed["documents_rendered"])
	assert.Equal(t, report.BuildID, parsed["build_id"])
	assert.NotNil(t, parsed["issues"])

	txt, err := os.ReadFile(filepath.Join(dir, ReportTextFile))
	require.NoError(t, err)
	assert.Equal(t, report.Summary()+"\n", string(txt))
	assert.Contains(t, report.Summary(), "rendered=23")
	assert.NoFileExists(t, filepath.Join(dir, ReportJSONFile+".tmp"))
}
