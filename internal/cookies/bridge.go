package cookies

import (
	"log/slog"
	"net/http"
	"net/url"
)

// PrepareRequestHeaders returns the cookie headers for a request to u. The
// result is empty when jar is nil or holds nothing for u.
func PrepareRequestHeaders(jar Jar, u *url.URL) http.Header {
	header := make(http.Header)
	if jar == nil {
		return header
	}

	if value := jar.CookieHeaderFor(u); value != "" {
		header.Set("Cookie", value)
	}
	return header
}

// AbsorbResponse stores every Set-Cookie line of a response from u. Lines
// the jar rejects are dropped.
func AbsorbResponse(jar Jar, u *url.URL, lines []string) {
	if jar == nil {
		return
	}

	for _, line := range lines {
		if err := jar.StoreSetCookie(u, line); err != nil {
			slog.Debug("dropping cookie", "url", u.Redacted(), "error", err)
		}
	}
}

// DocumentCookie returns the cookie string a script on u would see. Jars that
// cannot tell HttpOnly cookies apart return their full Cookie header.
func DocumentCookie(jar Jar, u *url.URL) string {
	if jar == nil {
		return ""
	}
	if dj, ok := jar.(interface{ DocumentCookieFor(*url.URL) string }); ok {
		return dj.DocumentCookieFor(u)
	}
	return jar.CookieHeaderFor(u)
}

// Ensure returns jar, or a new MemoryJar when jar is nil.
func Ensure(jar Jar) Jar {
	if jar != nil {
		return jar
	}
	return New()
}
