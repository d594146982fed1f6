// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package messagestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/guestmap/internal/breaker"
	"github.com/tomtom215/guestmap/internal/config"
	"github.com/tomtom215/guestmap/internal/logging"
	"github.com/tomtom215/guestmap/internal/metrics"
	"github.com/tomtom215/guestmap/internal/models"
	"github.com/tomtom215/guestmap/internal/validation"
)

const (
	serviceName = "message-service"

	// maxResponseBytes bounds a single response body.
	maxResponseBytes = 8 << 20

	// maxErrorBodyBytes bounds the body excerpt kept in a StatusError.
	maxErrorBodyBytes = 512
)

// ErrNotArray is returned when the list response is not a JSON array.
var ErrNotArray = errors.New("message list is not a JSON array")

// ErrNotConfigured is returned when no message service URL is set.
var ErrNotConfigured = errors.New("message service URL is not configured")

// Store is the message service contract used by view sessions.
type Store interface {
	List(ctx context.Context) ([]models.Message, error)
	Create(ctx context.Context, msg models.NewMessage) (models.Message, error)
}

// Ensure Client implements Store
var _ Store = (*Client)(nil)

// StatusError is a non-2xx response from the message service.
type StatusError struct {
	Method     string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("message service %s returned status %d", e.Method, e.StatusCode)
	}
	return fmt.Sprintf("message service %s returned status %d: %s", e.Method, e.StatusCode, e.Body)
}

// clientError reports whether err is a 4xx StatusError.
func clientError(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode >= 400 && se.StatusCode < 500
}

// Client talks to the message service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	breaker *breaker.Breaker[[]byte]
}

// NewClient creates a client for cfg.BaseURL. A nil httpClient uses a
// dedicated client without its own timeout; deadlines come from cfg.Timeout.
func NewClient(cfg config.MessagesConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: strings.TrimSpace(cfg.BaseURL),
		http:    httpClient,
		timeout: timeout,
		breaker: breaker.New[[]byte](breaker.Settings{
			Name:                serviceName,
			ConsecutiveFailures: cfg.BreakerFailures,
			Timeout:             cfg.BreakerTimeout,
			IsSuccessful:        clientError,
		}),
	}
}

// BaseURL returns the collection URL used for both operations.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// BreakerState reports the message service circuit breaker state.
func (c *Client) BreakerState() string {
	return c.breaker.State()
}

// List fetches every message. Malformed records are dropped.
func (c *Client) List(ctx context.Context) ([]models.Message, error) {
	body, err := c.do(ctx, "list", http.MethodGet, nil)
	if err != nil {
		metrics.RecordMessageFetch(err, 0, 0)
		return nil, fmt.Errorf("list messages: %w", err)
	}

	messages, decodeRejects, validationRejects, err := decodeList(ctx, body)
	metrics.RecordMessageFetch(err, decodeRejects, validationRejects)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	if decodeRejects+validationRejects > 0 {
		logging.Ctx(ctx).Warn().
			Int("accepted", len(messages)).
			Int("decode_rejects", decodeRejects).
			Int("validation_rejects", validationRejects).
			Msg("Dropped malformed message records")
	}
	return messages, nil
}

// Create stores a new message and returns the record the service created.
func (c *Client) Create(ctx context.Context, msg models.NewMessage) (models.Message, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return models.Message{}, fmt.Errorf("encode message: %w", err)
	}

	body, err := c.do(ctx, "create", http.MethodPost, payload)
	if err != nil {
		return models.Message{}, fmt.Errorf("create message: %w", err)
	}

	var created models.Message
	if err := json.Unmarshal(body, &created); err != nil {
		return models.Message{}, fmt.Errorf("create message: decode response: %w", err)
	}
	return created, nil
}

// do runs one request under the breaker and returns the response body.
func (c *Client) do(ctx context.Context, operation, method string, payload []byte) ([]byte, error) {
	if c.baseURL == "" {
		return nil, ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.RecordExternalCall(serviceName, operation, time.Since(start))
	}()

	return c.breaker.Execute(func() ([]byte, error) {
		var reqBody io.Reader = http.NoBody
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL, reqBody)
		if err != nil {
			return nil, fmt.Errorf("create request failed: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
			return nil, &StatusError{
				Method:     method,
				StatusCode: resp.StatusCode,
				Body:       strings.TrimSpace(string(excerpt)),
			}
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		return body, nil
	})
}

// decodeList decodes the list body record by record.
func decodeList(ctx context.Context, body []byte) (messages []models.Message, decodeRejects, validationRejects int, err error) {
	// A literal null would otherwise decode without error.
	if trimmed := bytes.TrimSpace(body); len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, 0, 0, ErrNotArray
	}
	var records []json.RawMessage
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, 0, 0, fmt.Errorf("%w: %w", ErrNotArray, err)
	}

	log := logging.Ctx(ctx)
	messages = make([]models.Message, 0, len(records))
	for i, raw := range records {
		var m models.Message
		if err := json.Unmarshal(raw, &m); err != nil {
			decodeRejects++
			log.Debug().Err(err).Int("index", i).Msg("Skipping undecodable message record")
			continue
		}
		if err := validation.ValidateMessage(&m); err != nil {
			validationRejects++
			log.Debug().Err(err).Int("index", i).Str("id", string(m.ID)).Msg("Skipping invalid message record")
			continue
		}
		messages = append(messages, m)
	}
	return messages, decodeRejects, validationRejects, nil
}
