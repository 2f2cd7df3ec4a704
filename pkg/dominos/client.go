package dominos

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	contractx "github.com/marova/sliceline/ordering/contract"
)

const maxResponseSizeBytes = 8 << 20

type Config struct {
	Market         string        `envconfig:"MARKET" split_words:"true" default:"ca"`
	Timeout        time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"15s"`
	OrderBaseURL   string        `envconfig:"ORDER_BASE_URL" split_words:"true"`
	TrackerBaseURL string        `envconfig:"TRACKER_BASE_URL" split_words:"true"`
}

// Client talks to the vendor ordering API. It satisfies
// contract.VendorOrderingClient. Calls carry the configured timeout and are
// never retried; PlaceOrder in particular is strictly non-idempotent.
type Client struct {
	market     Market
	orderBase  string
	trackBase  string
	httpClient *http.Client
}

var _ contractx.VendorOrderingClient = (*Client)(nil)

// ClientOption customizes Client.
type ClientOption func(*Client)

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	market, err := ParseMarket(cfg.Market)
	if err != nil {
		return nil, err
	}

	orderBase := strings.TrimRight(strings.TrimSpace(cfg.OrderBaseURL), "/")
	if orderBase == "" {
		orderBase = market.orderBaseURL()
	}
	if _, err := url.ParseRequestURI(orderBase); err != nil {
		return nil, fmt.Errorf("invalid order base url: %w", err)
	}

	trackBase := strings.TrimRight(strings.TrimSpace(cfg.TrackerBaseURL), "/")
	if trackBase == "" {
		trackBase = market.trackerBaseURL()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := &Client{
		market:    market,
		orderBase: orderBase,
		trackBase: trackBase,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

func MustNew(cfg Config, opts ...ClientOption) *Client {
	client, err := NewClient(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return client
}

func (c *Client) Market() Market {
	return c.market
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, rawURL string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	for k, v := range c.market.headers() {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute vendor request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return fmt.Errorf("read vendor response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("vendor http status=%d body=%s", resp.StatusCode, truncate(raw, 512))
	}
	if out == nil {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode vendor response: %w", err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

var errEmptyStoreID = errors.New("store id is empty")
