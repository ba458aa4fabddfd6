package web

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAbsolute(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http:example.com", "http://example.com/"},
		{"http:/example.com/a", "http://example.com/a"},
		{`https:\\example.com`, "https://example.com/"},
		{"HTTP://Example.COM:80/a?b=c#d", "http://example.com/a?b=c#d"},
		{"https://example.com:443", "https://example.com/"},
		{"https://example.com:8443", "https://example.com:8443/"},
		{"http://[::1]:80/x", "http://[::1]/x"},
		{"  http://example.com/path  ", "http://example.com/path"},
		{"about:blank", "about:blank"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			u, err := parseAbsolute(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, u.String())
		})
	}
}

func TestParseAbsoluteErrors(t *testing.T) {
	for _, in := range []string{"", "   ", "example.com", "/path", "?q", "http://", "http:", "http://exa mple.com/"} {
		t.Run(in, func(t *testing.T) {
			_, err := parseAbsolute(in)
			assert.Error(t, err)
		})
	}
}

func TestParseURL(t *testing.T) {
	u, err := ParseURL("http:example.com")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/", u.String())

	_, err = ParseURL("about:blank")
	assert.Error(t, err)

	_, err = ParseURL("ftp://example.com/")
	assert.Error(t, err)
}

func TestResolveLocation(t *testing.T) {
	base, err := url.Parse("http://example.com/dir/page?q=1#frag")
	require.NoError(t, err)

	tests := []struct {
		location string
		want     string
	}{
		{"/abs", "http://example.com/abs"},
		{"rel", "http://example.com/dir/rel"},
		{"../up", "http://example.com/up"},
		{"?other", "http://example.com/dir/page?other"},
		{"//other.example/x", "http://other.example/x"},
		{"https://Secure.example", "https://secure.example/"},
		{"/with#own", "http://example.com/with#own"},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			next, err := resolveLocation(base, tt.location)
			require.NoError(t, err)
			assert.Equal(t, tt.want, next.String())
		})
	}

	_, err = resolveLocation(base, "ftp://example.com/file")
	assert.Error(t, err)
	_, err = resolveLocation(base, "http://")
	assert.Error(t, err)
}

func TestFinalURL(t *testing.T) {
	parse := func(raw string) *url.URL {
		u, err := url.Parse(raw)
		require.NoError(t, err)
		return u
	}

	assert.Equal(t, "http://b.example/#top",
		finalURL(parse("http://a.example/#top"), parse("http://b.example/")).String())
	assert.Equal(t, "http://b.example/#own",
		finalURL(parse("http://a.example/#top"), parse("http://b.example/#own")).String())
	assert.Equal(t, "http://b.example/",
		finalURL(parse("http://a.example/"), parse("http://b.example/")).String())
}

func TestWireURL(t *testing.T) {
	u, err := url.Parse("http://example.com/a?b#c")
	require.NoError(t, err)

	assert.Equal(t, "http://example.com/a?b", wireURL(u).String())
	assert.Equal(t, "c", u.Fragment)
}
