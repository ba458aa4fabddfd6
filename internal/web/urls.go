package web

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// defaultPorts lists the schemes whose URLs always carry an authority.
var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
	"ws":    "80",
	"wss":   "443",
	"ftp":   "21",
}

func isHTTPScheme(scheme string) bool {
	return scheme == "http" || scheme == "https"
}

// parseAbsolute parses raw as an absolute URL and canonicalizes it, so that
// "http:example.com" and "HTTP://Example.com:80" both become
// "http://example.com/".
func parseAbsolute(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty URL")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" {
		return nil, errors.New("not an absolute URL")
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if _, special := defaultPorts[u.Scheme]; special && u.Host == "" {
		// Special schemes ignore any slashes between the scheme and the host.
		rest := strings.TrimLeft(raw[len(u.Scheme)+1:], `/\`)
		u, err = url.Parse(u.Scheme + "://" + rest)
		if err != nil {
			return nil, err
		}
	}

	if err := canonicalize(u); err != nil {
		return nil, err
	}
	return u, nil
}

// ParseURL parses raw the way Acquire does: an absolute http or https URL
// in canonical form.
func ParseURL(raw string) (*url.URL, error) {
	return parseFetchable(raw)
}

// parseFetchable parses a URL that the transport can request.
func parseFetchable(raw string) (*url.URL, error) {
	u, err := parseAbsolute(raw)
	if err != nil {
		return nil, err
	}
	if !isHTTPScheme(u.Scheme) {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	return u, nil
}

// resolveLocation resolves a Location header against the URL that produced it.
func resolveLocation(base *url.URL, location string) (*url.URL, error) {
	next, err := base.Parse(strings.TrimSpace(location))
	if err != nil {
		return nil, err
	}
	next.Scheme = strings.ToLower(next.Scheme)
	if !isHTTPScheme(next.Scheme) {
		return nil, fmt.Errorf("unsupported redirect scheme %q", next.Scheme)
	}
	if err := canonicalize(next); err != nil {
		return nil, err
	}
	return next, nil
}

func canonicalize(u *url.URL) error {
	port, special := defaultPorts[u.Scheme]
	if !special {
		return nil
	}
	if u.Hostname() == "" {
		return errors.New("missing host")
	}

	host := strings.ToLower(u.Hostname())
	if p := u.Port(); p != "" && p != port {
		u.Host = net.JoinHostPort(host, p)
	} else if strings.Contains(host, ":") {
		u.Host = "[" + host + "]"
	} else {
		u.Host = host
	}

	if u.Opaque == "" && u.Path == "" {
		u.Path = "/"
		u.RawPath = ""
	}
	return nil
}

// wireURL returns u without the parts that are never sent to a server.
func wireURL(u *url.URL) *url.URL {
	out := *u
	out.Fragment = ""
	out.RawFragment = ""
	return &out
}

// finalURL re-attaches the original fragment to the terminal URL unless a
// redirect already supplied one.
func finalURL(original, terminal *url.URL) *url.URL {
	out := *terminal
	if out.Fragment == "" && original.Fragment != "" {
		out.Fragment = original.Fragment
		out.RawFragment = original.RawFragment
	}
	return &out
}
