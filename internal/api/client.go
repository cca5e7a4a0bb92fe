package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/WajidKarimm/legalease-ai/internal/logger"
	"github.com/WajidKarimm/legalease-ai/internal/monitor"
)

// UploadField is the multipart field name carrying the document
const UploadField = "document"

// maxErrorBody bounds how much of a failed response is kept for logs
const maxErrorBody = 4096

// TokenSource supplies the bearer token for a request. An empty token
// sends no Authorization header.
type TokenSource interface {
	AuthToken(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource with a fixed value
type StaticToken string

func (t StaticToken) AuthToken(context.Context) (string, error) {
	return string(t), nil
}

// File is a document to upload
type File struct {
	Name        string
	ContentType string
	Content     io.Reader
}

// Options configures a Client
type Options struct {
	BaseURL string

	// Timeout bounds each request; zero leaves only the caller's context
	Timeout time.Duration

	HTTPClient *http.Client
	Tokens     TokenSource
	Logger     *logger.Logger
	Recorder   *monitor.Recorder
	UserAgent  string
}

// Client talks to the analysis backend
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	tokens    TokenSource
	log       *logger.Logger
	recorder  *monitor.Recorder
	userAgent string
}

// New creates a client for opts.BaseURL
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("api: base URL is required")
	}
	baseURL, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("api: invalid base URL: %w", err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Client{
		baseURL:   baseURL,
		http:      httpClient,
		tokens:    opts.Tokens,
		log:       log.WithComponent("api"),
		recorder:  opts.Recorder,
		userAgent: opts.UserAgent,
	}, nil
}

// BaseURL returns the configured backend address
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Get issues GET path and decodes the JSON response into out
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

// Post sends body as JSON to path and decodes the JSON response into out
func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		rerr := newRequestError(KindEncode, http.MethodPost, path, "failed to encode request body", err)
		c.logFailure(rerr)
		return rerr
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(data), "application/json", out)
}

// Upload sends file as multipart form data under the "document" field
func (c *Client) Upload(ctx context.Context, path string, file File, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		UploadField, escapeQuotes(file.Name)))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err == nil && file.Content != nil {
		_, err = io.Copy(part, file.Content)
	}
	if err == nil {
		err = mw.Close()
	}
	if err != nil {
		rerr := newRequestError(KindEncode, http.MethodPost, path, "failed to build multipart body", err)
		c.logFailure(rerr)
		return rerr
	}

	return c.do(ctx, http.MethodPost, path, &buf, mw.FormDataContentType(), out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) (err error) {
	start := time.Now()
	defer func() {
		c.recorder.ObserveRequest(method, path, err, time.Since(start))
		if err != nil {
			c.logFailure(err)
		}
	}()

	endpoint, err := c.resolve(path)
	if err != nil {
		return newRequestError(KindEncode, method, path, "invalid request path", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return newRequestError(KindEncode, method, path, "failed to create request", err)
	}
	if err := c.setHeaders(ctx, req, contentType); err != nil {
		return newRequestError(KindNetwork, method, path, "failed to resolve auth token", err)
	}

	c.log.DebugWithFields("request", []logger.Field{
		logger.F("method", method), logger.Path(path), logger.F("request_id", req.Header.Get("X-Request-ID")),
	})

	resp, err := c.http.Do(req)
	if err != nil {
		return newRequestError(KindNetwork, method, path, "request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newStatusError(method, path, resp.StatusCode, string(raw))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return newRequestError(KindDecode, method, path, "failed to decode response", err)
	}
	return nil
}

// resolve joins path, which may carry a query string, onto the base URL
func (c *Client) resolve(path string) (string, error) {
	rawPath, rawQuery, _ := strings.Cut(path, "?")
	u := c.baseURL.JoinPath(rawPath)
	if rawQuery != "" {
		q, err := url.ParseQuery(rawQuery)
		if err != nil {
			return "", err
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func (c *Client) setHeaders(ctx context.Context, req *http.Request, contentType string) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	if c.tokens == nil {
		return nil
	}
	token, err := c.tokens.AuthToken(ctx)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

func (c *Client) logFailure(err error) {
	var re *RequestError
	if !errors.As(err, &re) {
		c.log.ErrorWithFields("request failed", []logger.Field{logger.Error(err)})
		return
	}

	fields := []logger.Field{
		logger.F("method", re.Method),
		logger.Path(re.Path),
		logger.F("kind", re.Kind),
	}
	if re.StatusCode > 0 {
		fields = append(fields, logger.Status(re.StatusCode))
	}
	if re.Cause != nil {
		fields = append(fields, logger.Error(re.Cause))
	}
	c.log.ErrorWithFields(re.Message, fields)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
