package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// HTTPTransport posts each request as JSON to Endpoint.
type HTTPTransport struct {
	Endpoint string
	Client   *http.Client // http.DefaultClient when nil
	Header   http.Header
}

func (t *HTTPTransport) RoundTrip(ctx context.Context, req *Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	for k, vs := range t.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}
	httpResp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	var resp Response
	// Servers may report GraphQL errors with a 4xx status; keep those.
	if err := json.Unmarshal(data, &resp); err != nil || (httpResp.StatusCode != http.StatusOK && len(resp.Errors) == 0) {
		return nil, fmt.Errorf("unexpected response %s", httpResp.Status)
	}
	return &resp, nil
}

func (t *HTTPTransport) Close() error { return nil }
