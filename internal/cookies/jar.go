package cookies

import (
	"errors"
	"fmt"
	"iter"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"
)

// Jar is an origin scoped cookie store.
type Jar interface {
	// CookieHeaderFor returns the Cookie header value for a request to u, or
	// an empty string when no cookie applies.
	CookieHeaderFor(u *url.URL) string
	// StoreSetCookie stores one Set-Cookie header line received from u.
	StoreSetCookie(u *url.URL, line string) error
}

var ErrMalformedCookie = errors.New("malformed Set-Cookie line")

// Entry is a cookie as it was stored, with Max-Age already turned into an
// absolute expiry.
type Entry struct {
	URL       string `json:"url"`
	SetCookie string `json:"set_cookie"`

	expires time.Time
}

// Expired reports whether the entry has expired at t.
func (e Entry) Expired(t time.Time) bool {
	return !e.expires.IsZero() && !e.expires.After(t)
}

// MemoryJar is an in-memory Jar backed by net/http/cookiejar. It is safe for
// concurrent use.
type MemoryJar struct {
	jar *cookiejar.Jar
	// script holds the cookies a page script can read, HttpOnly ones excluded.
	script *cookiejar.Jar
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]Entry
}

// New creates an empty jar that uses the public suffix list to reject
// cookies set on registrable suffixes.
func New() *MemoryJar {
	return &MemoryJar{
		jar:     newCookieJar(),
		script:  newCookieJar(),
		now:     time.Now,
		entries: make(map[string]Entry),
	}
}

func newCookieJar() *cookiejar.Jar {
	// cookiejar.New never fails
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	return jar
}

func (j *MemoryJar) CookieHeaderFor(u *url.URL) string {
	return joinCookies(j.jar.Cookies(u))
}

// DocumentCookieFor is CookieHeaderFor without HttpOnly cookies.
func (j *MemoryJar) DocumentCookieFor(u *url.URL) string {
	return joinCookies(j.script.Cookies(u))
}

func joinCookies(cookies []*http.Cookie) string {
	if len(cookies) == 0 {
		return ""
	}

	pairs := make([]string, 0, len(cookies))
	for _, c := range cookies {
		pairs = append(pairs, c.Name+"="+c.Value)
	}
	return strings.Join(pairs, "; ")
}

func (j *MemoryJar) StoreSetCookie(u *url.URL, line string) error {
	c, err := http.ParseSetCookie(line)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedCookie, err)
	}

	now := j.now()
	if c.MaxAge > 0 {
		c.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		c.RawExpires = ""
		c.MaxAge = 0
	}

	j.jar.SetCookies(u, []*http.Cookie{c})
	if c.HttpOnly {
		// an HttpOnly cookie replaces any script visible one with the same id
		hidden := *c
		hidden.MaxAge = -1
		j.script.SetCookies(u, []*http.Cookie{&hidden})
	} else {
		j.script.SetCookies(u, []*http.Cookie{c})
	}
	j.record(u, c, now)
	return nil
}

// Set stores a cookie that did not come from a Set-Cookie line, such as one
// supplied on the command line.
func (j *MemoryJar) Set(u *url.URL, name, value string) error {
	return j.StoreSetCookie(u, (&http.Cookie{Name: name, Value: value}).String())
}

func (j *MemoryJar) record(u *url.URL, c *http.Cookie, now time.Time) {
	origin := *u
	origin.User = nil
	origin.RawQuery = ""
	origin.Fragment = ""
	origin.RawFragment = ""

	key := cookieID(u, c)

	j.mu.Lock()
	defer j.mu.Unlock()

	if c.MaxAge < 0 || (!c.Expires.IsZero() && !c.Expires.After(now)) {
		delete(j.entries, key)
		return
	}

	j.entries[key] = Entry{
		URL:       origin.String(),
		SetCookie: c.String(),
		expires:   c.Expires,
	}
}

// cookieID identifies a cookie the way cookiejar does: by domain (or host for
// host-only cookies), effective path and name.
func cookieID(u *url.URL, c *http.Cookie) string {
	domain := strings.ToLower(strings.TrimPrefix(c.Domain, "."))
	if domain == "" {
		domain = strings.ToLower(u.Hostname())
	}

	path := c.Path
	if path == "" || path[0] != '/' {
		path = defaultPath(u.Path)
	}

	return strings.Join([]string{domain, path, c.Name}, "|")
}

// defaultPath is the cookie path used when Set-Cookie carries none: the
// directory of the request path.
func defaultPath(p string) string {
	if p == "" || p[0] != '/' {
		return "/"
	}
	i := strings.LastIndex(p, "/")
	if i == 0 {
		return "/"
	}
	return p[:i]
}

// All yields every cookie the jar has recorded, including expired ones.
func (j *MemoryJar) All() iter.Seq[Entry] {
	j.mu.Lock()
	entries := make([]Entry, 0, len(j.entries))
	for _, e := range j.entries {
		entries = append(entries, e)
	}
	j.mu.Unlock()

	return func(yield func(Entry) bool) {
		for _, e := range entries {
			if !yield(e) {
				return
			}
		}
	}
}
