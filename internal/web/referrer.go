package web

import (
	"net/url"
)

// parseReferrer validates a caller supplied referrer and returns its
// canonical serialization, which is then sent as is. An empty referrer means
// no Referer header.
func parseReferrer(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	u, err := parseAbsolute(raw)
	if err != nil {
		return "", invalidReferrer(raw, err)
	}
	return u.String(), nil
}

// effectiveReferrer returns the Referer value for the next hop. Once a
// redirect has been followed the previous request URL always wins over the
// caller's referrer, even when it equals the next URL.
func effectiveReferrer(userReferrer string, previous *url.URL) string {
	if previous == nil {
		return userReferrer
	}
	return referrerString(previous)
}

func referrerString(u *url.URL) string {
	out := wireURL(u)
	out.User = nil
	return out.String()
}
