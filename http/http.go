package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/snowgift/snow-gift/config"
)

const userAgent = "Mozilla/5.0 (compatible; snow-gift; +https://github.com/snowgift/snow-gift)"

type Client struct {
	StdClient *http.Client
}

func New(cfg *config.Config) *Client {
	// Thread safe
	stdClient := &http.Client{}
	if cfg.Timeout != 0 {
		logrus.Debugf("HTTP request timeout is set to %d seconds", cfg.Timeout)
		stdClient.Timeout = time.Duration(cfg.Timeout) * time.Second
	}

	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			logrus.Warnf("Failed to parse proxy URL: %s, error: %v, using system proxy", cfg.Proxy, err)
		} else {
			logrus.Debugf("Using proxy %s", cfg.Proxy)
			stdClient.Transport = &http.Transport{
				Proxy: http.ProxyURL(proxyURL),
			}
		}
	}
	return &Client{stdClient}
}

// NewWithClient wraps an existing std client, mostly for tests.
func NewWithClient(stdClient *http.Client) *Client {
	if stdClient == nil {
		stdClient = http.DefaultClient
	}
	return &Client{stdClient}
}

func (c *Client) Get(ctx context.Context, rawURL string, params map[string]string) ([]byte, error) {
	if params != nil {
		parsedURL, err := url.Parse(rawURL)
		if err != nil {
			return nil, errors.Wrapf(err, "parse url %s", rawURL)
		}
		query := parsedURL.Query()
		for k, v := range params {
			query.Set(k, v)
		}
		parsedURL.RawQuery = query.Encode()
		rawURL = parsedURL.String()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Add("Cache-Control", "no-store")
	req.Header.Add("Cache-Control", "must-revalidate")
	return c.do(req)
}

// PostJSON sends body encoded as JSON and returns the raw response body.
func (c *Client) PostJSON(ctx context.Context, rawURL string, body interface{}) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "marshal request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.StdClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if !(resp.StatusCode >= 200 && resp.StatusCode < 300) {
		// Most non-200 responses have valid json body
		return respBytes, &ResponseError{Status: resp.Status, StatusCode: resp.StatusCode, Body: respBytes}
	}
	return respBytes, nil
}

type ResponseError struct {
	Status     string
	StatusCode int
	Body       []byte
}

func (e *ResponseError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200]
	}
	return "HTTP " + e.Status + ", body " + string(body)
}
