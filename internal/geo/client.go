// Package geo derives best-effort location hints for incoming leads.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/intlakaa/internal/config"
)

// Client resolves client IPs to country names over an ipapi.co compatible
// HTTP API.
type Client struct {
	client    *http.Client
	urlFormat string
	enabled   bool
}

type lookupResponse struct {
	CountryName string `json:"country_name"`
	Error       bool   `json:"error"`
	Reason      string `json:"reason"`
}

func NewClient(cfg config.GeoIPConfig) *Client {
	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
		urlFormat: cfg.URL,
		enabled:   cfg.Enabled,
	}
}

// Country returns the country name for ip. Private, loopback and unparsable
// addresses resolve to "" without a network call.
func (c *Client) Country(ctx context.Context, ip string) (string, error) {
	if !c.enabled || !Routable(ip) {
		return "", nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(c.urlFormat, ip), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "intlakaa-server")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var out lookupResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if out.Error {
		return "", fmt.Errorf("lookup failed: %s", out.Reason)
	}
	return strings.TrimSpace(out.CountryName), nil
}

// Routable reports whether ip is a public unicast address.
func Routable(ip string) bool {
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		return false
	}
	return !(parsed.IsPrivate() || parsed.IsLoopback() || parsed.IsUnspecified() ||
		parsed.IsLinkLocalUnicast() || parsed.IsMulticast())
}
