package document

import "net/url"

// Location is the window.location view of a document URL.
type Location struct {
	Href     string
	Protocol string
	Host     string
	Hostname string
	Port     string
	Pathname string
	Search   string
	Hash     string
	Origin   string
}

func locationOf(u *url.URL) Location {
	l := Location{
		Href:     u.String(),
		Protocol: u.Scheme + ":",
		Host:     u.Host,
		Hostname: u.Hostname(),
		Port:     u.Port(),
		Pathname: u.EscapedPath(),
		Origin:   u.Scheme + "://" + u.Host,
	}

	if l.Pathname == "" {
		l.Pathname = "/"
	}
	if u.RawQuery != "" {
		l.Search = "?" + u.RawQuery
	}
	if u.Fragment != "" {
		l.Hash = "#" + u.EscapedFragment()
	}

	return l
}
