package crawl

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// HTTPFetcher returns a Fetcher backed by net/http, following up to
// maxRedirects 3xx responses with a Location header and refusing to follow
// more than that.
func HTTPFetcher(client *http.Client) Fetcher {
	if client == nil {
		client = &http.Client{}
	} else {
		clone := *client
		client = &clone
	}

	// Redirects are followed manually in fetchWithRedirects so the hop count
	// can be bounded; net/http's own following must be disabled.
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return func(ctx context.Context, uri string) (int, string, []byte, error) {
		resp, err := fetchWithRedirects(ctx, client, uri, maxRedirects)
		if err != nil {
			return 0, "", nil, err
		}

		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return 0, "", nil, err
		}

		return resp.StatusCode, resp.Header.Get("Content-Type"), body, nil
	}
}

func fetchWithRedirects(ctx context.Context, client *http.Client, uri string, hopsLeft int) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 300 || resp.StatusCode >= 400 {
		return resp, nil
	}

	location := resp.Header.Get("Location")

	resp.Body.Close()

	if location == "" {
		return nil, fmt.Errorf("crawl: %d redirect without Location header", resp.StatusCode)
	}

	if hopsLeft <= 0 {
		return nil, fmt.Errorf("crawl: exceeded %d redirects fetching %s", maxRedirects, uri)
	}

	return fetchWithRedirects(ctx, client, location, hopsLeft-1)
}
