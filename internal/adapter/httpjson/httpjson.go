// Package httpjson performs the GET-and-decode round trip shared by every
// provider client.
package httpjson

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// maxErrorBody caps how much of a failed response body is quoted in errors.
const maxErrorBody = 512

// Get issues a GET to fullURL with the given headers and decodes a 200 JSON
// response into dst. provider names the upstream API in error messages.
func Get(ctx context.Context, client *http.Client, provider, fullURL string, header http.Header, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", provider, redactURL(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%s API error: status %d: %s", provider, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s response: %w", provider, err)
	}
	return nil
}

// redactURL drops the query string from a transport error's URL. Some
// providers take their API key as a query parameter, and the error ends up in
// the logs.
func redactURL(err error) error {
	var uerr *url.Error
	if !errors.As(err, &uerr) {
		return err
	}
	u, perr := url.Parse(uerr.URL)
	if perr != nil {
		return &url.Error{Op: uerr.Op, URL: "<redacted>", Err: uerr.Err}
	}
	if u.RawQuery != "" {
		u.RawQuery = "<redacted>"
	}
	u.User = nil
	return &url.Error{Op: uerr.Op, URL: u.String(), Err: uerr.Err}
}
