package cookies

import (
	"fmt"
	"net/url"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestCookieHeaderFor(t *testing.T) {
	jar := New()
	u := mustParse(t, "http://example.com/")

	assert.Empty(t, jar.CookieHeaderFor(u))

	require.NoError(t, jar.StoreSetCookie(u, "a=1"))
	require.NoError(t, jar.StoreSetCookie(u, "b=2; Path=/; HttpOnly"))

	assert.Equal(t, "a=1; b=2", jar.CookieHeaderFor(u))
}

func TestCookieScope(t *testing.T) {
	jar := New()

	require.NoError(t, jar.StoreSetCookie(mustParse(t, "http://a.example.com/"), "host=only"))
	require.NoError(t, jar.StoreSetCookie(mustParse(t, "http://a.example.com/"), "shared=yes; Domain=example.com"))
	require.NoError(t, jar.StoreSetCookie(mustParse(t, "http://a.example.com/"), "deep=1; Path=/deep"))
	require.NoError(t, jar.StoreSetCookie(mustParse(t, "https://a.example.com/"), "secure=1; Secure"))

	assert.Equal(t, "host=only; shared=yes", jar.CookieHeaderFor(mustParse(t, "http://a.example.com/")))
	assert.Equal(t, "shared=yes", jar.CookieHeaderFor(mustParse(t, "http://b.example.com/")))
	assert.Equal(t, "deep=1; host=only; shared=yes", jar.CookieHeaderFor(mustParse(t, "http://a.example.com/deep/x")))
	assert.Contains(t, jar.CookieHeaderFor(mustParse(t, "https://a.example.com/")), "secure=1")
	assert.Empty(t, jar.CookieHeaderFor(mustParse(t, "http://other.test/")))
}

func TestDocumentCookieFor(t *testing.T) {
	jar := New()
	u := mustParse(t, "http://example.com/")

	require.NoError(t, jar.StoreSetCookie(u, "visible=1"))
	require.NoError(t, jar.StoreSetCookie(u, "session=abc; HttpOnly"))
	assert.Equal(t, "visible=1; session=abc", jar.CookieHeaderFor(u))
	assert.Equal(t, "visible=1", jar.DocumentCookieFor(u))

	// the same cookie turning HttpOnly disappears from the script view
	require.NoError(t, jar.StoreSetCookie(u, "visible=2; HttpOnly"))
	assert.Equal(t, "visible=2; session=abc", jar.CookieHeaderFor(u))
	assert.Empty(t, jar.DocumentCookieFor(u))

	require.NoError(t, jar.StoreSetCookie(u, "session=; Max-Age=-1"))
	require.NoError(t, jar.StoreSetCookie(u, "visible=3"))
	assert.Equal(t, "visible=3", jar.CookieHeaderFor(u))
	assert.Equal(t, "visible=3", jar.DocumentCookieFor(u))
}

func TestRecordDistinguishesPaths(t *testing.T) {
	jar := New()

	require.NoError(t, jar.StoreSetCookie(mustParse(t, "http://example.com/a/x"), "id=1"))
	require.NoError(t, jar.StoreSetCookie(mustParse(t, "http://example.com/b/y"), "id=2"))
	require.NoError(t, jar.StoreSetCookie(mustParse(t, "http://example.com/a/z"), "id=3"))
	require.NoError(t, jar.StoreSetCookie(mustParse(t, "http://example.com/c"), "id=4; Path=/a"))

	assert.Len(t, slices.Collect(jar.All()), 2)
	assert.Equal(t, "id=4", jar.CookieHeaderFor(mustParse(t, "http://example.com/a/")))
	assert.Equal(t, "id=2", jar.CookieHeaderFor(mustParse(t, "http://example.com/b/")))
}

func TestStoreSetCookieMalformed(t *testing.T) {
	jar := New()
	u := mustParse(t, "http://example.com/")

	for _, line := range []string{"", "=value", "no equals sign"} {
		err := jar.StoreSetCookie(u, line)
		assert.ErrorIs(t, err, ErrMalformedCookie, line)
	}
	assert.Empty(t, jar.CookieHeaderFor(u))
	assert.Empty(t, slices.Collect(jar.All()))
}

func TestStoreSetCookieDeletes(t *testing.T) {
	jar := New()
	u := mustParse(t, "http://example.com/")

	require.NoError(t, jar.StoreSetCookie(u, "session=abc"))
	require.Equal(t, "session=abc", jar.CookieHeaderFor(u))

	require.NoError(t, jar.StoreSetCookie(u, "session=; Max-Age=-1"))
	assert.Empty(t, jar.CookieHeaderFor(u))
	assert.Empty(t, slices.Collect(jar.All()))

	require.NoError(t, jar.StoreSetCookie(u, "other=1"))
	require.NoError(t, jar.StoreSetCookie(u, "other=1; Expires=Thu, 01 Jan 1970 00:00:00 GMT"))
	assert.Empty(t, jar.CookieHeaderFor(u))
	assert.Empty(t, slices.Collect(jar.All()))
}

func TestStoreSetCookieMaxAge(t *testing.T) {
	jar := New()
	now := time.Now()
	jar.now = func() time.Time { return now }
	u := mustParse(t, "http://example.com/")

	require.NoError(t, jar.StoreSetCookie(u, "token=x; Max-Age=60"))

	entries := slices.Collect(jar.All())
	require.Len(t, entries, 1)
	assert.Equal(t, "http://example.com/", entries[0].URL)
	assert.NotContains(t, entries[0].SetCookie, "Max-Age")
	assert.Contains(t, entries[0].SetCookie, "Expires=")
	assert.False(t, entries[0].Expired(now))
	assert.True(t, entries[0].Expired(now.Add(2*time.Minute)))
}

func TestSet(t *testing.T) {
	jar := New()
	u := mustParse(t, "http://example.com/page?q=1#frag")

	require.NoError(t, jar.Set(u, "foo", "bar"))
	assert.Equal(t, "foo=bar", jar.CookieHeaderFor(mustParse(t, "http://example.com/")))

	entries := slices.Collect(jar.All())
	require.Len(t, entries, 1)
	assert.Equal(t, "http://example.com/page", entries[0].URL)
}

func TestJarConcurrentUse(t *testing.T) {
	jar := New()
	u := mustParse(t, "http://example.com/")

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, jar.StoreSetCookie(u, fmt.Sprintf("c%d=%d", i, i)))
			jar.CookieHeaderFor(u)
		}()
	}
	wg.Wait()

	assert.Len(t, slices.Collect(jar.All()), 20)
}
