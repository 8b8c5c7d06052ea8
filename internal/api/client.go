// Package api is the JSON-over-HTTP client for the survey backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mujeralerta/diagnostico/internal/domain"
)

// Config holds the client settings.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	// MaxRetries applies to GET requests only. Writes are never retried:
	// a resubmission is the respondent's decision.
	MaxRetries int
}

// Client talks to the survey backend.
type Client struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewClient creates a Client. A nil observer discards events.
func NewClient(cfg Config, observer Observer) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

// GetInstrument returns the raw instrument payload. Shape handling is left
// to the instrument package.
func (c *Client) GetInstrument(ctx context.Context) (map[string]any, error) {
	var raw map[string]any
	if err := c.do(ctx, http.MethodGet, "/api/instrumento", nil, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: instrument is not an object", ErrInvalidResponse)
	}
	return raw, nil
}

// ListCentros returns up to limit centers. A non-positive limit omits the
// parameter and lets the backend decide.
func (c *Client) ListCentros(ctx context.Context, limit int) ([]domain.Centro, error) {
	path := "/api/centros"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var out []domain.Centro
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListGeneros returns the gender catalog.
func (c *Client) ListGeneros(ctx context.Context) ([]domain.Genero, error) {
	var out []domain.Genero
	if err := c.do(ctx, http.MethodGet, "/api/generos", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateEncuesta creates a survey instance and returns its identifier.
func (c *Client) CreateEncuesta(ctx context.Context, req domain.NewEncuesta) (string, error) {
	var resp struct {
		EncuestaID string `json:"encuesta_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/encuestas", req, &resp); err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.EncuestaID) == "" {
		return "", fmt.Errorf("%w: missing encuesta_id", ErrInvalidResponse)
	}
	return resp.EncuestaID, nil
}

// SubmitRespuestas sends the final answers and returns how many the
// backend stored.
func (c *Client) SubmitRespuestas(ctx context.Context, sub domain.RespuestasSubmission) (int, error) {
	var resp struct {
		OK       bool `json:"ok"`
		Inserted int  `json:"inserted"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/respuestas", sub, &resp); err != nil {
		return 0, err
	}
	return resp.Inserted, nil
}

// GetResumen returns the per-survey summary.
func (c *Client) GetResumen(ctx context.Context, encuestaID string) (domain.Resumen, error) {
	var out domain.Resumen
	path := "/api/encuestas/" + url.PathEscape(encuestaID) + "/resumen"
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return domain.Resumen{}, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	start := time.Now()
	requestID := uuid.New().String()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		payload = data
	}

	attempts := 1
	if method == http.MethodGet {
		attempts += c.cfg.MaxRetries
	}

	var (
		lastErr error
		status  int
		tried   int
	)
	for i := 0; i < attempts; i++ {
		tried++
		status, lastErr = c.doRequest(ctx, method, path, requestID, payload, out)
		if lastErr == nil || !retryable(lastErr) || ctx.Err() != nil {
			break
		}
	}

	event := CallEvent{
		Method:    method,
		Path:      path,
		RequestID: requestID,
		Status:    status,
		LatencyMs: time.Since(start).Milliseconds(),
		Attempts:  tried,
		Success:   lastErr == nil,
	}

	if lastErr != nil {
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			lastErr = ErrTimeout
		case ctx.Err() != nil:
			lastErr = ctx.Err()
		case isConnectionError(lastErr):
			lastErr = fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
		}
		event.ErrorCode = errorCode(lastErr)
	}
	c.observer.OnCallComplete(event)
	return lastErr
}

func (c *Client) doRequest(ctx context.Context, method, path, requestID string, payload []byte, out any) (int, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if c.cfg.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return 0, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return httpResp.StatusCode, fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return httpResp.StatusCode, &StatusError{Code: httpResp.StatusCode, Body: string(respBody)}
	}
	if httpResp.StatusCode == http.StatusNoContent || out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return httpResp.StatusCode, nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return httpResp.StatusCode, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return httpResp.StatusCode, nil
}

func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 500
	}
	return isConnectionError(err)
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	var se *StatusError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidResponse):
		return "INVALID_RESPONSE"
	case errors.As(err, &se):
		return "HTTP_" + strconv.Itoa(se.Code)
	default:
		return "UNKNOWN"
	}
}
