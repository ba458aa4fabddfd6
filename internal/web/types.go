package web

import (
	"net/http"
	"net/url"

	"github.com/xtruder/fromurl/internal/cookies"
)

// Transport issues a single HTTP request. Implementations must not follow
// redirects; the redirect walker does that itself.
type Transport interface {
	Do(req *http.Request) (*http.Response, error)
}

// Constructor turns a fetched body into a document of type D.
type Constructor[D any] interface {
	Construct(body []byte, params Params) (D, error)
}

// ConstructorFunc adapts a plain function to Constructor.
type ConstructorFunc[D any] func(body []byte, params Params) (D, error)

func (f ConstructorFunc[D]) Construct(body []byte, params Params) (D, error) {
	return f(body, params)
}

// FetchOptions shapes a single acquisition.
type FetchOptions struct {
	// Referrer is sent as the Referer header of the first request. It must be
	// an absolute URL.
	Referrer string
	// CookieJar is shared by every hop and by the resulting document. A fresh
	// jar is created when nil.
	CookieJar cookies.Jar

	// URL and ContentType are derived from the response and may not be
	// supplied. Setting either fails the acquisition with ErrInvalidOption.
	URL         string
	ContentType string
}

// Hop is one request/response exchange of a redirect chain.
type Hop struct {
	RequestURL   *url.URL
	ReferrerSent string
	StatusCode   int
	Header       http.Header
	Location     string
}

// Params are the document construction parameters resolved from a fetch.
type Params struct {
	URL         *url.URL
	ContentType string
	Referrer    string
	CookieJar   cookies.Jar
	Hops        []Hop
}
