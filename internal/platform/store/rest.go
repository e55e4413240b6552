package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// RESTClient talks to a PostgREST-style hosted data service. Every filter is
// carried as a query parameter; this binding never interpolates values into
// paths or SQL, so parameterization is guaranteed by construction.
type RESTClient struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

var _ Client = (*RESTClient)(nil)

// NewRESTClient creates a REST binding for the data service at baseURL.
// The http.Client must carry a timeout (see platform/http.NewHTTPClient).
func NewRESTClient(baseURL, apiKey string, hc *http.Client) *RESTClient {
	return &RESTClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		hc:      hc,
	}
}

// Do issues a single request against the data service.
func (c *RESTClient) Do(ctx context.Context, method Method, resource string, params Params, body any, out any) (int64, error) {
	q := url.Values{}
	wantCount := false
	for k, v := range params {
		if k == ParamCount {
			wantCount = v == CountExact
			continue
		}
		q.Set(k, v)
	}

	u := fmt.Sprintf("%s/%s", c.baseURL, resource)
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return -1, &RequestError{Method: method, Resource: resource, Err: fmt.Errorf("encode body: %w", err)}
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, string(method), u, reader)
	if err != nil {
		return -1, &RequestError{Method: method, Resource: resource, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Mutations return the affected rows so repositories can detect
	// missing records without a second round trip.
	prefer := []string{}
	if method == MethodPost || method == MethodPatch || method == MethodDelete {
		prefer = append(prefer, "return=representation")
	}
	if wantCount {
		prefer = append(prefer, "count=exact")
	}
	if len(prefer) > 0 {
		req.Header.Set("Prefer", strings.Join(prefer, ","))
	}

	res, err := c.hc.Do(req)
	if err != nil {
		// Network-level failures (timeout, reset, DNS) are retryable.
		return -1, &RequestError{Method: method, Resource: resource, Transient: true, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		reqErr := &RequestError{
			Method:   method,
			Resource: resource,
			Status:   res.StatusCode,
			Err:      fmt.Errorf("%s", strings.TrimSpace(string(msg))),
		}
		switch {
		case res.StatusCode == http.StatusNotFound:
			reqErr.Err = ErrNotFound
		case res.StatusCode == http.StatusConflict:
			reqErr.Err = ErrConflict
		case res.StatusCode == http.StatusRequestTimeout,
			res.StatusCode == http.StatusTooManyRequests,
			res.StatusCode >= 500:
			reqErr.Transient = true
		}
		return -1, reqErr
	}

	total := int64(-1)
	if wantCount {
		total = parseContentRange(res.Header.Get("Content-Range"))
	}

	if out != nil && res.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return -1, &RequestError{Method: method, Resource: resource, Status: res.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return total, nil
}

// parseContentRange extracts the total from a "0-24/3573" style header.
// Returns -1 when the header is missing or the total is unknown ("*").
func parseContentRange(h string) int64 {
	idx := strings.LastIndex(h, "/")
	if idx < 0 {
		return -1
	}
	n, err := strconv.ParseInt(h[idx+1:], 10, 64)
	if err != nil {
		return -1
	}
	return n
}
