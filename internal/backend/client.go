// Package backend is the REST client for the document extraction API.
// It owns the wire shapes and the error taxonomy; callers never see raw
// HTTP statuses or response bodies.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"logidocs/internal/entity"
	"logidocs/internal/reconcile"
)

// Client talks to the extraction backend under <base>/... (the base URL
// includes the /api/v1 prefix, matching the deployed service).
type Client struct {
	baseURL string
	hc      *http.Client
	longHC  *http.Client // no hard timeout; extraction is bounded by ctx
	logger  *slog.Logger
}

// New returns a client for the given base URL. timeout caps every
// request except Extract, which honors its context instead (extraction
// runs long).
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
		longHC:  &http.Client{},
		logger:  logger,
	}
}

// Health checks the API and reports its database status.
func (c *Client) Health(ctx context.Context) (*entity.HealthStatus, error) {
	var out entity.HealthStatus
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Extract uploads a PDF and returns the backend's structured read of
// it. The returned field map is validated against the shipment schema
// before it reaches a review session.
func (c *Client) Extract(ctx context.Context, filename string, r io.Reader) (*entity.ExtractionResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("build multipart: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finish multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/extract", &body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	raw, err := c.send(c.longHC, req, "extract")
	if err != nil {
		return nil, err
	}
	var out entity.ExtractionResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode extract response: %w", err)
	}
	if out.IsValid {
		if err := reconcile.ValidateFieldMap(out.StructuredFields); err != nil {
			return nil, &Error{Kind: KindValidation, Op: "extract", Detail: "malformed structured fields", Err: err}
		}
	}
	return &out, nil
}

// Save persists the reviewed fields for a document.
func (c *Client) Save(ctx context.Context, req entity.SaveRequest) (*entity.SaveResponse, error) {
	var out entity.SaveResponse
	if err := c.doJSON(ctx, http.MethodPost, "/save", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LogModelQuality posts one audit entry to the model-log collaborator.
func (c *Client) LogModelQuality(ctx context.Context, entry entity.ModelLogEntry) error {
	return c.doJSON(ctx, http.MethodPost, "/model-log", entry, nil)
}

// ListDocuments returns the saved documents table.
func (c *Client) ListDocuments(ctx context.Context) (*entity.DocumentList, error) {
	var out entity.DocumentList
	if err := c.doJSON(ctx, http.MethodGet, "/documents", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDocument returns one document with all fields.
func (c *Client) GetDocument(ctx context.Context, id int64) (*entity.Document, error) {
	var out entity.Document
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/documents/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteDocument removes one document.
func (c *Client) DeleteDocument(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/documents/%d", id), nil, nil)
}

// doJSON sends an optional JSON body and decodes a JSON response into
// out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	op := strings.TrimLeft(path, "/")
	var rd io.Reader
	if body != nil {
		bs, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		rd = bytes.NewReader(bs)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	raw, err := c.send(c.hc, req, op)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

// send executes one request with request-id logging and classifies any
// failure. Non-2xx responses become *Error with the backend's detail
// string when the body carries one.
func (c *Client) send(hc *http.Client, req *http.Request, op string) ([]byte, error) {
	reqID := uuid.New().String()
	start := time.Now()

	c.logger.Info("backend.http.request",
		"req_id", reqID,
		"method", req.Method,
		"url", req.URL.String(),
	)

	resp, err := hc.Do(req)
	if err != nil {
		c.logger.Error("backend.http.send_error", "req_id", reqID, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, &Error{Kind: KindTransient, Op: op, Err: err}
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.logger.Warn("backend.http.response_body_close_error", "req_id", reqID, "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)

	c.logger.Info("backend.http.response",
		"req_id", reqID,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		return nil, &Error{
			Kind:   classify(resp.StatusCode),
			Op:     op,
			Status: resp.StatusCode,
			Detail: errorDetail(raw),
		}
	}
	return raw, nil
}

// errorDetail pulls the backend's {"detail": "..."} message out of an
// error body, falling back to the raw text.
func errorDetail(raw []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return strings.TrimSpace(string(raw))
}
