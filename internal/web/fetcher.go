// URL acquisition: validation, redirect walking, content-type gating and
// document construction.

package web

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/xtruder/fromurl/internal/cookies"
)

const (
	DefaultUserAgent = "fromurl/1.0"
	DefaultAccept    = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.1"
)

// Config contains configuration shared by every acquisition of an Acquirer
type Config struct {
	// MaxRedirects caps the number of redirects followed per acquisition.
	// Zero means DefaultMaxRedirects.
	MaxRedirects int
	// MaxBodyBytes caps the terminal response body. Zero means no limit.
	MaxBodyBytes int64
	UserAgent    string
	Accept       string
}

// Acquirer fetches URLs and builds documents of type D from them
type Acquirer[D any] struct {
	transport   Transport
	constructor Constructor[D]
	config      Config
}

// NewAcquirer creates a new acquirer
func NewAcquirer[D any](transport Transport, constructor Constructor[D], cfg Config) *Acquirer[D] {
	if cfg.MaxRedirects <= 0 {
		cfg.MaxRedirects = DefaultMaxRedirects
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Accept == "" {
		cfg.Accept = DefaultAccept
	}

	return &Acquirer[D]{
		transport:   transport,
		constructor: constructor,
		config:      cfg,
	}
}

// Acquire fetches rawURL, follows its redirects and hands the terminal
// response to the constructor. Validation, transport, status and content
// type failures are returned as *Error; constructor errors are returned as
// they are.
func (a *Acquirer[D]) Acquire(ctx context.Context, rawURL string, opts *FetchOptions) (D, error) {
	var zero D

	if opts == nil {
		opts = &FetchOptions{}
	}

	target, referrer, err := validate(rawURL, opts)
	if err != nil {
		return zero, err
	}

	jar := cookies.Ensure(opts.CookieJar)

	w := &walker{
		transport:    a.transport,
		jar:          jar,
		referrer:     referrer,
		header:       a.header(),
		maxRedirects: a.config.MaxRedirects,
		maxBodyBytes: a.config.MaxBodyBytes,
	}

	slog.Debug("acquiring document", "url", target.Redacted(), "referrer", referrer)

	hops, body, err := w.walk(ctx, target)
	if err != nil {
		slog.Debug("acquisition failed", "url", target.Redacted(), "hops", len(hops), "error", err)
		return zero, err
	}

	terminal := hops[len(hops)-1]
	contentType := terminal.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultContentType
	}
	if err := validateContentType(contentType); err != nil {
		return zero, err
	}

	params := Params{
		URL:         finalURL(target, terminal.RequestURL),
		ContentType: contentType,
		Referrer:    hops[0].ReferrerSent,
		CookieJar:   jar,
		Hops:        hops,
	}

	slog.Debug("constructing document",
		"url", params.URL.Redacted(),
		"content_type", contentType,
		"hops", len(hops),
		"bytes", len(body))

	return a.constructor.Construct(body, params)
}

func (a *Acquirer[D]) header() http.Header {
	header := make(http.Header)
	header.Set("User-Agent", a.config.UserAgent)
	header.Set("Accept", a.config.Accept)
	return header
}

// validate checks everything that can be checked before any I/O.
func validate(rawURL string, opts *FetchOptions) (*url.URL, string, error) {
	target, err := parseFetchable(rawURL)
	if err != nil {
		return nil, "", invalidURL(rawURL, err)
	}

	if opts.URL != "" {
		return nil, "", invalidOption("url")
	}
	if opts.ContentType != "" {
		return nil, "", invalidOption("contentType")
	}

	referrer, err := parseReferrer(opts.Referrer)
	if err != nil {
		return nil, "", err
	}

	return target, referrer, nil
}
