// Package client is the REST client for the invoice backend. Every failure
// body is decoded exactly once, here, into one of three typed errors
// (ValidationError, ConflictError, TransportError); nothing downstream
// re-parses response bodies.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"

	"facturador/internal/config"
	"facturador/internal/domain"
)

// Client talks to the invoice backend over HTTP.
type Client struct {
	baseURL     string
	uploadField string
	httpc       *http.Client
}

// New creates a Client from API configuration.
func New(cfg *config.APIConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	field := cfg.UploadField
	if field == "" {
		field = "file"
	}
	return &Client{
		baseURL:     cfg.BaseURL,
		uploadField: field,
		httpc:       &http.Client{Timeout: timeout},
	}
}

// NewWithEndpoint creates a Client pointing at a custom base URL (for testing).
func NewWithEndpoint(baseURL string) *Client {
	return New(&config.APIConfig{BaseURL: baseURL})
}

// Upload sends one document to the extraction service as a multipart form
// with a single file field and returns the extracted invoice fields.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (*domain.Invoice, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(c.uploadField, filename)
	if err != nil {
		return nil, fmt.Errorf("building multipart form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart form: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/invoices/upload", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var inv domain.Invoice
	if err := c.do(req, &inv); err != nil {
		return nil, fmt.Errorf("uploading invoice: %w", err)
	}
	// The extraction service occasionally omits the items array entirely.
	if inv.LineItems == nil {
		inv.LineItems = []domain.LineItem{}
	}
	return &inv, nil
}

// Create persists a new invoice. The payload must carry no ID.
func (c *Client) Create(ctx context.Context, inv *domain.Invoice) error {
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/invoices", inv)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// List fetches every stored invoice in backend order.
func (c *Client) List(ctx context.Context) ([]domain.Invoice, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/invoices", nil)
	if err != nil {
		return nil, err
	}
	var invoices []domain.Invoice
	if err := c.do(req, &invoices); err != nil {
		return nil, fmt.Errorf("fetching invoices: %w", err)
	}
	return invoices, nil
}

// Get fetches a single invoice by id.
func (c *Client) Get(ctx context.Context, id int64) (*domain.Invoice, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/invoices/%d", id), nil)
	if err != nil {
		return nil, err
	}
	var inv domain.Invoice
	if err := c.do(req, &inv); err != nil {
		return nil, fmt.Errorf("fetching invoice %d: %w", id, err)
	}
	return &inv, nil
}

// Update replaces a stored invoice. The payload must include the ID.
func (c *Client) Update(ctx context.Context, inv *domain.Invoice) error {
	req, err := c.newJSONRequest(ctx, http.MethodPut, fmt.Sprintf("/invoices/%d", inv.ID), inv)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// Delete removes a stored invoice.
func (c *Client) Delete(ctx context.Context, id int64) error {
	req, err := c.newRequest(ctx, http.MethodDelete, fmt.Sprintf("/invoices/%d", id), nil)
	if err != nil {
		return err
	}
	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("deleting invoice %d: %w", id, err)
	}
	return nil
}

// Export streams the backend's export of the stored collection into w.
func (c *Client) Export(ctx context.Context, format string, w io.Writer) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/invoices/export?format="+format, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return &TransportError{Message: fmt.Sprintf("could not export invoices as %s: %v", format, err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("could not export invoices as %s", format),
		}
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("writing %s export: %w", format, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.New().String())
	return req, nil
}

func (c *Client) newJSONRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}
	req, err := c.newRequest(ctx, method, path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// do executes the request. A non-2xx response is turned into a typed error
// by DecodeFailure; a 2xx response body is decoded into out when out is
// non-nil.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return &TransportError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w (status %d)", domain.ErrNotFound, resp.StatusCode)
		}
		return DecodeFailure(resp.StatusCode, body)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
