package document

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/dyatlov/go-opengraph/opengraph"
	"golang.org/x/net/html/charset"

	"github.com/xtruder/fromurl/internal/cookies"
	"github.com/xtruder/fromurl/internal/web"
)

// Constructor builds Documents for a web.Acquirer.
var Constructor web.Constructor[*Document] = web.ConstructorFunc[*Document](New)

// Document is a parsed HTML or XML document together with the parameters it
// was fetched with.
type Document struct {
	doc    *goquery.Document
	source []byte
	params web.Params

	ogOnce sync.Once
	og     *opengraph.OpenGraph
	ogErr  error
}

// New decodes body using the declared charset and parses it. An empty body
// yields an empty document.
func New(body []byte, params web.Params) (*Document, error) {
	source, err := decode(body, params.ContentType)
	if err != nil {
		return nil, fmt.Errorf("error decoding document: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("error parsing document: %w", err)
	}
	doc.Url = params.URL

	return &Document{
		doc:    doc,
		source: source,
		params: params,
	}, nil
}

func decode(body []byte, contentType string) ([]byte, error) {
	if len(body) == 0 {
		return nil, nil
	}

	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

// Serialize renders the document tree back to markup.
func (d *Document) Serialize() (string, error) {
	return d.doc.Html()
}

// URL returns the final URL of the document.
func (d *Document) URL() *url.URL {
	u := *d.params.URL
	return &u
}

func (d *Document) Location() Location {
	return locationOf(d.params.URL)
}

// Cookie returns the cookies that currently apply to the document URL, as
// document.cookie would: HttpOnly cookies are left out.
func (d *Document) Cookie() string {
	return cookies.DocumentCookie(d.params.CookieJar, d.params.URL)
}

func (d *Document) CookieJar() cookies.Jar {
	return d.params.CookieJar
}

func (d *Document) Referrer() string {
	return d.params.Referrer
}

func (d *Document) ContentType() string {
	return d.params.ContentType
}

// Hops returns the redirect chain the document was fetched through.
func (d *Document) Hops() []web.Hop {
	return d.params.Hops
}

func (d *Document) Title() string {
	return strings.TrimSpace(d.doc.Find("title").First().Text())
}

func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// OpenGraph returns the Open Graph metadata of the document, falling back to
// <title> and <meta name="description"> when the og: tags are missing.
func (d *Document) OpenGraph() (*opengraph.OpenGraph, error) {
	d.ogOnce.Do(func() {
		og := opengraph.NewOpenGraph()
		if err := og.ProcessHTML(bytes.NewReader(d.source)); err != nil {
			d.ogErr = fmt.Errorf("error reading open graph metadata: %w", err)
			return
		}

		if og.Title == "" {
			og.Title = d.Title()
		}
		if og.Description == "" {
			if content, ok := d.doc.Find(`meta[name="description"]`).Attr("content"); ok {
				og.Description = strings.TrimSpace(content)
			}
		}
		if og.URL == "" {
			og.URL = d.params.URL.String()
		}

		d.og = og
	})

	return d.og, d.ogErr
}
