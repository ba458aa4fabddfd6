package cookies

import (
	"cmp"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"slices"

	"github.com/xtruder/fromurl/internal/x"
)

// Save writes the live cookies of jar to cache under name.
func Save(cache x.Cache, name string, jar *MemoryJar) error {
	now := jar.now()
	live := x.Filter(jar.All(), func(e Entry) bool {
		return !e.Expired(now)
	})

	entries := slices.SortedFunc(live, func(a, b Entry) int {
		return cmp.Or(cmp.Compare(a.URL, b.URL), cmp.Compare(a.SetCookie, b.SetCookie))
	})

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding cookie jar: %w", err)
	}

	if err := cache.Set(jarKey(name), string(data)); err != nil {
		return fmt.Errorf("error saving cookie jar %q: %w", name, err)
	}

	slog.Debug("saved cookie jar", "name", name, "cookies", len(entries))
	return nil
}

// Load reads the jar saved under name. A jar that was never saved loads
// empty. Entries that no longer parse are skipped.
func Load(cache x.Cache, name string) (*MemoryJar, error) {
	jar := New()

	content, ok := cache.Get(jarKey(name))
	if !ok {
		return jar, nil
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(content), &entries); err != nil {
		return nil, fmt.Errorf("error decoding cookie jar %q: %w", name, err)
	}

	for _, e := range entries {
		u, err := url.Parse(e.URL)
		if err != nil {
			slog.Warn("skipping saved cookie", "name", name, "url", e.URL, "error", err)
			continue
		}
		if err := jar.StoreSetCookie(u, e.SetCookie); err != nil {
			slog.Warn("skipping saved cookie", "name", name, "url", e.URL, "error", err)
		}
	}

	slog.Debug("loaded cookie jar", "name", name, "cookies", len(entries))
	return jar, nil
}

func jarKey(name string) string {
	return x.Key("cookie-jar", name)
}
