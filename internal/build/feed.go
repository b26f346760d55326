package build

import (
	"bytes"
	"encoding/xml"
	"time"

	"git.home.luguber.info/inful/victor/internal/config"
	"git.home.luguber.info/inful/victor/internal/docmodel"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Generator     string    `xml:"generator"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	Author      string   `xml:"author,omitempty"`
	Categories  []string `xml:"category"`
	PubDate     string   `xml:"pubDate"`
	GUID        string   `xml:"guid"`
}

// renderFeed builds an RSS 2.0 document for posts, newest first. Items
// carry the full body HTML unless the post sets rssFullText to false, in
// which case the description is used.
func renderFeed(cfg *config.SiteConfig, posts []*docmodel.Document, built time.Time) ([]byte, error) {
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		link := cfg.URL(p.URL())
		desc := p.Description()
		if p.RSSFullText() {
			desc = string(p.BodyHTML())
		}
		items = append(items, rssItem{
			Title:       p.Title(),
			Link:        link,
			Description: desc,
			Author:      p.Author(),
			Categories:  p.Categories(),
			PubDate:     p.Date().Format(time.RFC1123Z),
			GUID:        link,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:         cfg.Title,
			Link:          cfg.URL(""),
			Description:   cfg.Description,
			Generator:     "victor",
			LastBuildDate: built.Format(time.RFC1123Z),
			Items:         items,
		},
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(feed); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
