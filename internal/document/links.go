package document

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Link is an anchor of the document with its href resolved against the
// document base URL.
type Link struct {
	Text string
	URL  *url.URL
}

// BaseURL returns the URL relative references resolve against: the first
// <base href> when present, otherwise the document URL.
func (d *Document) BaseURL() *url.URL {
	base := d.URL()
	if href, ok := d.doc.Find("base[href]").First().Attr("href"); ok {
		if u, err := base.Parse(strings.TrimSpace(href)); err == nil {
			return u
		}
	}
	return base
}

// Links returns every <a href> of the document as an absolute URL. Hrefs
// that do not parse and non navigable schemes such as javascript: or data:
// are skipped.
func (d *Document) Links() []Link {
	base := d.BaseURL()

	var links []Link
	d.doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		u, err := base.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}

		switch u.Scheme {
		case "http", "https", "ftp", "mailto":
		default:
			return
		}

		links = append(links, Link{
			Text: strings.Join(strings.Fields(s.Text()), " "),
			URL:  u,
		})
	})

	return links
}
