package xlinkapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"xlink-template-picker/internal/gallery"
)

const (
	templatesPath = "/api/templates/"
	selectPath    = "/api/templates/select/"

	maxErrorBody = 4 << 10
)

type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func New(opts Options) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

type templatesResponse struct {
	Templates []gallery.Template `json:"templates"`
}

// FetchTemplates returns the remote catalog. An absent list decodes as empty.
func (c *Client) FetchTemplates(ctx context.Context) ([]gallery.Template, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+templatesPath, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")

	var out templatesResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out.Templates, nil
}

// SaveSelection posts the confirmed selection. Any 2xx status is success.
func (c *Client) SaveSelection(ctx context.Context, sel gallery.Selection) error {
	body, err := json.Marshal(sel)
	if err != nil {
		return fmt.Errorf("encode selection: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+selectPath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("content-type", "application/json")

	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method:     req.Method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	c.logger.Debug("xlink api", "method", req.Method, "url", req.URL.String(), "status", resp.StatusCode)

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}
