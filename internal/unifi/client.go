// Package unifi implements a client for the UniFi Network Controller
// Integration v1 REST API, covering the zone-based firewall endpoints that
// exist on real hardware. Speculative ZBF endpoints that were probed and
// found absent live in the deprecated package instead.
package unifi

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claytono/unifi-zbf-mcp/internal/apierr"
	"github.com/sirupsen/logrus"
)

// APIType selects between a local gateway and the UniFi cloud API.
type APIType string

const (
	// APITypeLocal targets the controller's on-device API. Paths must be
	// prefixed with /proxy/network; omitting the prefix is a known defect.
	APITypeLocal APIType = "local"
	// APITypeCloud targets api.ui.com. The cloud API lacks ZBF support on
	// most accounts but the addressing is kept for parity with sites/clients.
	APITypeCloud APIType = "cloud"
)

const (
	localBasePath = "/proxy/network/integration/v1"
	cloudBasePath = "/integration/v1"
	cloudHost     = "https://api.ui.com"

	defaultTimeout = 30 * time.Second
	// pageLimit is the page size requested from paginated list endpoints.
	pageLimit = 200
)

// ClientConfig holds configuration for the controller client.
type ClientConfig struct {
	// Host is the controller base URL, e.g. "https://192.168.1.1".
	// Ignored for APITypeCloud.
	Host string
	// APIKey is sent as the X-API-Key header on every request.
	APIKey string
	// Type selects local vs cloud addressing. Defaults to APITypeLocal.
	Type APIType
	// VerifySSL controls TLS certificate verification. Local gateways
	// present self-signed certificates, so this is commonly false. The
	// scheme stays https either way.
	VerifySSL bool
	// Timeout bounds each HTTP exchange. Defaults to 30s. A caller context
	// with an earlier deadline takes precedence.
	Timeout time.Duration
	// Logger receives request-level debug logging. Optional.
	Logger logrus.FieldLogger
}

// Client is a stateless HTTP client for the Integration v1 API. It holds no
// state across calls besides connection and auth configuration, so it is safe
// for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     logrus.FieldLogger
}

// NewClient creates a controller client from configuration.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	apiType := cfg.Type
	if apiType == "" {
		apiType = APITypeLocal
	}

	var baseURL string
	switch apiType {
	case APITypeCloud:
		baseURL = cloudHost + cloudBasePath
	case APITypeLocal:
		if cfg.Host == "" {
			return nil, fmt.Errorf("host is required for a local controller")
		}
		host, err := normalizeHost(cfg.Host)
		if err != nil {
			return nil, err
		}
		baseURL = host + localBasePath
	default:
		return nil, fmt.Errorf("unknown API type %q", apiType)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: !cfg.VerifySSL, //nolint:gosec // self-signed local gateways
		},
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		logger: logger,
	}, nil
}

// normalizeHost forces an https scheme and strips any trailing slash. The
// scheme is https even when certificate verification is disabled; local
// gateways never serve the API over plain http.
func normalizeHost(host string) (string, error) {
	host = strings.TrimSuffix(host, "/")
	switch {
	case strings.HasPrefix(host, "https://"):
		// already correct
	case strings.HasPrefix(host, "http://"):
		host = "https://" + strings.TrimPrefix(host, "http://")
	default:
		host = "https://" + host
	}
	if _, err := url.Parse(host); err != nil {
		return "", fmt.Errorf("invalid controller host %q: %w", host, err)
	}
	return host, nil
}

// BaseURL returns the resolved API base URL, mainly for logging.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do performs one request/response exchange. Controller errors are translated
// into the apierr taxonomy; a non-2xx response is never silently swallowed.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apierr.FromTransport(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apierr.FromTransport(err)
	}

	c.logger.WithFields(logrus.Fields{
		"method":   method,
		"path":     path,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("controller request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apierr.FromStatus(resp.StatusCode, method, path, controllerMessage(raw))
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode controller response: %w", err)
		}
	}
	return nil
}

// controllerMessage extracts a human-readable diagnostic from an error body.
// The Integration API returns {"statusCode": ..., "message": "..."}; older
// code paths use {"error": "..."}.
func controllerMessage(raw []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return ""
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	return envelope.Error
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// page is the envelope returned by paginated Integration v1 list endpoints.
type page[T any] struct {
	Offset     int `json:"offset"`
	Limit      int `json:"limit"`
	Count      int `json:"count"`
	TotalCount int `json:"totalCount"`
	Data       []T `json:"data"`
}

// listAll follows pagination until all pages are consumed, returning one
// concatenated, order-preserving slice.
func listAll[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var all []T
	offset := 0
	for {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		var pg page[T]
		paged := fmt.Sprintf("%s%soffset=%d&limit=%d", path, sep, offset, pageLimit)
		if err := c.get(ctx, paged, &pg); err != nil {
			return nil, err
		}
		all = append(all, pg.Data...)
		offset += pg.Count
		if pg.Count == 0 || offset >= pg.TotalCount {
			return all, nil
		}
	}
}
