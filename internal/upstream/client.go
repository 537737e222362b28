package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/rs/zerolog/log"

	"loghistory-backend/config"
	"loghistory-backend/internal/model"
	"loghistory-backend/internal/repository"
)

// APIError is a non-2xx answer from an upstream API.
type APIError struct {
	URL        string
	StatusCode int
	Body       string // first 512 bytes
}

func (e *APIError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d: %s", e.URL, e.StatusCode, e.Body)
}

type client struct {
	httpClient *http.Client
	cfg        config.UpstreamConfig
}

func NewEntityRepository(cfg *config.Config) repository.EntityRepository {
	return NewClient(cfg.Upstream, nil)
}

// NewClient builds the upstream client. A nil httpClient gets a pooled
// transport with the configured timeout.
func NewClient(cfg config.UpstreamConfig, httpClient *http.Client) repository.EntityRepository {
	if httpClient == nil {
		transport := &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: 10 * time.Second,
			DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
			TLSHandshakeTimeout:   5 * time.Second,
		}
		httpClient = &http.Client{Transport: transport, Timeout: cfg.Timeout}
	}
	return &client{httpClient: httpClient, cfg: cfg}
}

func (c *client) Products(ctx context.Context) ([]model.RawEntity, error) {
	return fetchList[model.RawEntity](ctx, c, c.cfg.ProductsPath, "products")
}

func (c *client) Suppliers(ctx context.Context) ([]model.RawEntity, error) {
	return fetchList[model.RawEntity](ctx, c, c.cfg.SuppliersPath, "suppliers")
}

func (c *client) Jobs(ctx context.Context) ([]model.RawEntity, error) {
	return fetchList[model.RawEntity](ctx, c, c.cfg.JobsPath, "jobs")
}

func (c *client) ProductList(ctx context.Context) ([]model.Product, error) {
	return fetchList[model.Product](ctx, c, c.cfg.ProductsPath, "products")
}

func (c *client) ExcelUploads(ctx context.Context) ([]model.ExcelUploadRecord, error) {
	return fetchList[model.ExcelUploadRecord](ctx, c, c.cfg.ExcelUploadsPath, "uploads")
}

func fetchList[T any](ctx context.Context, c *client, path, key string) ([]T, error) {
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	items, err := DecodeList[T](body, key)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return items, nil
}

// get performs a GET with the configured retry budget. Client errors are not retried.
func (c *client) get(ctx context.Context, path string) ([]byte, error) {
	url := strings.TrimRight(c.cfg.BaseURL, "/") + path
	var body []byte

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			log.Warn().Err(err).Str("url", url).Msg("Upstream request failed")
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			snippet := string(data)
			if len(snippet) > 512 {
				snippet = snippet[:512]
			}
			apiErr := &APIError{URL: url, StatusCode: resp.StatusCode, Body: snippet}
			if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
				return apiErr
			}
			return backoff.Permanent(apiErr)
		}
		body = data
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	if c.cfg.RetryInitialInterval > 0 {
		policy.InitialInterval = c.cfg.RetryInitialInterval
		policy.Reset()
	}
	retries := backoff.WithMaxRetries(policy, uint64(c.cfg.RetryAttempts))
	if err := backoff.Retry(operation, backoff.WithContext(retries, ctx)); err != nil {
		return nil, err
	}
	log.Debug().Str("url", url).Int("bytes", len(body)).Msg("Upstream response received")
	return body, nil
}

// DecodeList accepts either a bare JSON array or an object carrying the array
// under key. Anything else, including a missing key or null, is an input shape error.
func DecodeList[T any](body []byte, key string) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, model.ErrInputShape
	}

	if trimmed[0] == '{' {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, err
		}
		raw, ok := envelope[key]
		if !ok {
			return nil, fmt.Errorf("%w: no %q array", model.ErrInputShape, key)
		}
		trimmed = bytes.TrimSpace(raw)
	}
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, model.ErrInputShape
	}

	items := make([]T, 0)
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, err
	}
	return items, nil
}
