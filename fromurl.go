// Package fromurl fetches a URL, follows its redirects and parses the
// terminal response into a document.
//
//	doc, err := fromurl.Acquire(ctx, "https://example.com/#top", &fromurl.Options{
//		Referrer: "https://example.org/",
//	})
package fromurl

import (
	"context"

	"github.com/xtruder/fromurl/internal/cookies"
	"github.com/xtruder/fromurl/internal/document"
	"github.com/xtruder/fromurl/internal/web"
)

type (
	Options   = web.FetchOptions
	Config    = web.Config
	Error     = web.Error
	Hop       = web.Hop
	Document  = document.Document
	Location  = document.Location
	Jar       = cookies.Jar
	MemoryJar = cookies.MemoryJar
	Future    = web.Future[*document.Document]
)

var (
	ErrInvalidURL             = web.ErrInvalidURL
	ErrInvalidReferrer        = web.ErrInvalidReferrer
	ErrInvalidOption          = web.ErrInvalidOption
	ErrFetchFailed            = web.ErrFetchFailed
	ErrUnsupportedContentType = web.ErrUnsupportedContentType
	ErrTooManyRedirects       = web.ErrTooManyRedirects
)

var defaultAcquirer = New(Config{})

// New creates an acquirer with its own transport.
func New(cfg Config) *web.Acquirer[*Document] {
	return web.NewAcquirer(web.NewTransport(web.TransportConfig{}), document.Constructor, cfg)
}

// NewJar creates an empty cookie jar that can be shared between calls.
func NewJar() *MemoryJar {
	return cookies.New()
}

// Acquire fetches rawURL and returns the parsed document.
func Acquire(ctx context.Context, rawURL string, opts *Options) (*Document, error) {
	return defaultAcquirer.Acquire(ctx, rawURL, opts)
}

// AcquireAsync is Acquire without blocking the caller.
func AcquireAsync(ctx context.Context, rawURL string, opts *Options) *Future {
	return defaultAcquirer.AcquireAsync(ctx, rawURL, opts)
}
