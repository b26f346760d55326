package build

import (
	"bytes"
	"encoding/xml"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// sitemapEntries lists the home page, every rendered document, and every
// listing page, in that order.
func (bs *BuildState) sitemapEntries() []sitemapURL {
	urls := []sitemapURL{{Loc: bs.Site.URL("")}}
	for _, e := range bs.Entries {
		lastmod := ""
		if !e.Doc.DateDefaulted() {
			lastmod = e.Doc.Date().Format("2006-01-02")
		}
		urls = append(urls, sitemapURL{Loc: bs.Site.URL(e.Doc.URL()), LastMod: lastmod})
	}
	for _, p := range bs.Listings.PostPages {
		urls = append(urls, sitemapURL{Loc: bs.Site.URL(PostsPageURL(p.Index))})
	}
	urls = append(urls, sitemapURL{Loc: bs.Site.URL("projects/")})
	for _, c := range bs.Listings.Categories {
		urls = append(urls, sitemapURL{Loc: bs.Site.URL(c.URL())})
	}
	return urls
}

func renderSitemap(urls []sitemapURL) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(sitemapURLSet{XMLNS: sitemapNS, URLs: urls}); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
