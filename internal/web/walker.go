package web

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/xtruder/fromurl/internal/cookies"
)

// DefaultMaxRedirects bounds a redirect chain when Config.MaxRedirects is 0.
const DefaultMaxRedirects = 20

// walker follows a redirect chain one hop at a time.
type walker struct {
	transport    Transport
	jar          cookies.Jar
	referrer     string
	header       http.Header
	maxRedirects int
	maxBodyBytes int64
}

// walk requests target and every redirect after it. On success it returns
// all hops, the last being the terminal response, and the terminal body.
func (w *walker) walk(ctx context.Context, target *url.URL) ([]Hop, []byte, error) {
	var (
		hops     []Hop
		previous *url.URL
		current  = target
	)

	for {
		referrer := effectiveReferrer(w.referrer, previous)

		resp, err := w.do(ctx, current, referrer)
		if err != nil {
			return hops, nil, fetchFailed(0, err)
		}

		hop := Hop{
			RequestURL:   current,
			ReferrerSent: referrer,
			StatusCode:   resp.StatusCode,
			Header:       resp.Header,
			Location:     resp.Header.Get("Location"),
		}
		hops = append(hops, hop)
		cookies.AbsorbResponse(w.jar, current, resp.Header.Values("Set-Cookie"))

		if isRedirect(resp.StatusCode) && hop.Location != "" {
			drain(resp.Body)

			if len(hops) > w.maxRedirects {
				return hops, nil, fetchFailed(resp.StatusCode,
					fmt.Errorf("%w: exceeded %d hops (last URL: %s)", ErrTooManyRedirects, w.maxRedirects, current.Redacted()))
			}

			next, err := resolveLocation(current, hop.Location)
			if err != nil {
				return hops, nil, fetchFailed(resp.StatusCode, fmt.Errorf("invalid redirect location %q: %w", hop.Location, err))
			}

			slog.Debug("following redirect", "status", resp.StatusCode, "from", current.Redacted(), "to", next.Redacted())
			previous, current = current, next
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			drain(resp.Body)
			return hops, nil, fetchFailed(resp.StatusCode,
				fmt.Errorf("%s responded with status %d", current.Redacted(), resp.StatusCode))
		}

		body, err := w.readBody(resp.Body)
		if err != nil {
			return hops, nil, fetchFailed(resp.StatusCode, err)
		}
		return hops, body, nil
	}
}

func (w *walker) do(ctx context.Context, u *url.URL, referrer string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, wireURL(u).String(), nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	for key, values := range w.header {
		req.Header[key] = append([]string(nil), values...)
	}
	for key, values := range cookies.PrepareRequestHeaders(w.jar, u) {
		req.Header[key] = values
	}
	if referrer != "" {
		req.Header.Set("Referer", referrer)
	}

	return w.transport.Do(req)
}

func (w *walker) readBody(body io.ReadCloser) ([]byte, error) {
	defer body.Close()

	if w.maxBodyBytes <= 0 {
		data, err := io.ReadAll(body)
		if err != nil {
			return nil, fmt.Errorf("error reading response: %w", err)
		}
		return data, nil
	}

	data, err := io.ReadAll(io.LimitReader(body, w.maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}
	if int64(len(data)) > w.maxBodyBytes {
		return nil, fmt.Errorf("response body exceeds %d bytes", w.maxBodyBytes)
	}
	return data, nil
}

func isRedirect(status int) bool {
	return status >= 300 && status <= 399
}

func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
	body.Close()
}
