package proxy

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/http2"
)

// OriginClient forwards a single split bucket's request to the upstream
// GraphQL origin, stripping accept-encoding the way api/request.rs does
// ("Encoding is a bitch, just don't do it for now") so the origin never
// hands back a compressed body the proxy would need to decode again
// before merging it.
type OriginClient struct {
	URL    string
	Client *http.Client
}

// NewOriginClient builds an OriginClient with a bounded-timeout HTTP
// client suitable for the proxy's per-bucket fan-out. The transport is
// configured for HTTP/2 so the concurrent per-bucket requests a split
// produces share one connection to the origin instead of opening one
// TCP connection per bucket.
func NewOriginClient(url string) *OriginClient {
	transport := &http.Transport{}
	// Origins that don't speak h2 simply ignore this; ConfigureTransport
	// only adds an ALPN negotiation path, it never requires TLS-upgrade.
	_ = http2.ConfigureTransport(transport)
	return &OriginClient{
		URL:    url,
		Client: &http.Client{Timeout: 30 * time.Second, Transport: transport},
	}
}

// Send posts body to the origin, forwarding headers (minus
// accept-encoding) from the inbound client request, and returns the raw
// response body, status, and headers.
func (c *OriginClient) Send(ctx context.Context, headers http.Header, body []byte) ([]byte, int, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return nil, 0, nil, err
	}
	req.Header = headers.Clone()
	req.Header.Del("Accept-Encoding")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, nil, err
	}
	return data, resp.StatusCode, resp.Header, nil
}
