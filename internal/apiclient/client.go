package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"merchantportal/internal/domain"
)

const (
	DefaultTimeout     = 30 * time.Second
	DefaultAttempts    = 3
	DefaultRetryDelay  = 250 * time.Millisecond
	maxErrorBodyLength = 2048
)

type tokenKey struct{}

// WithToken attaches the bearer token that outgoing requests made with ctx will carry.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func TokenFrom(ctx context.Context) string {
	tok, _ := ctx.Value(tokenKey{}).(string)
	return tok
}

type options struct {
	timeout    time.Duration
	attempts   int
	retryDelay time.Duration
	limiter    *rate.Limiter
	registerer prometheus.Registerer
	transport  http.RoundTripper
}

type Option func(*options)

func WithTimeout(d time.Duration) Option { return func(o *options) { o.timeout = d } }

// WithRetry overrides the attempt budget and the first backoff delay.
func WithRetry(attempts int, base time.Duration) Option {
	return func(o *options) {
		o.attempts = attempts
		o.retryDelay = base
	}
}

// WithRateLimit caps outbound requests per second. A zero limit disables it.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(o *options) {
		if perSecond <= 0 {
			o.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		o.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

func WithTransport(rt http.RoundTripper) Option { return func(o *options) { o.transport = rt } }

// Client talks to the backend REST API.
type Client struct {
	base    *url.URL
	http    *http.Client
	Metrics *Metrics
}

func New(baseURL string, opts ...Option) (*Client, error) {
	o := options{
		timeout:    DefaultTimeout,
		attempts:   DefaultAttempts,
		retryDelay: DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(&o)
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("apiclient: bad base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("apiclient: base url %q needs scheme and host", baseURL)
	}
	if o.attempts < 1 {
		o.attempts = 1
	}
	inner := o.transport
	if inner == nil {
		inner = http.DefaultTransport
	}
	m := NewMetrics(o.registerer)

	var rt http.RoundTripper = &metricsTransport{next: inner, m: m}
	rt = &retryTransport{next: rt, attempts: o.attempts, baseDelay: o.retryDelay, limiter: o.limiter}
	rt = &authTransport{next: rt}

	return &Client{
		base:    base,
		http:    &http.Client{Transport: rt, Timeout: o.timeout},
		Metrics: m,
	}, nil
}

// WithTimeout returns a copy sharing transports but with a different overall timeout.
func (c *Client) WithTimeout(d time.Duration) *Client {
	hc := *c.http
	hc.Timeout = d
	return &Client{base: c.base, http: &hc, Metrics: c.Metrics}
}

func (c *Client) resolve(path string) (*url.URL, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, err
	}
	return c.base.ResolveReference(ref), nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	u, err := c.resolve(path)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

func (c *Client) send(req *http.Request, path string, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLength))
		return &StatusError{Method: req.Method, Path: path, StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("apiclient: decode %s: %w", path, err)
	}
	return nil
}

// Do sends body as JSON and decodes the response into out (if non-nil).
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	ct := ""
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("apiclient: encode %s: %w", path, err)
		}
		rdr = bytes.NewReader(b)
		ct = "application/json"
	}
	req, err := c.newRequest(ctx, method, path, rdr, ct)
	if err != nil {
		return err
	}
	return c.send(req, path, out)
}

// Exec sends a request whose response payload does not matter. An envelope
// reporting isSuccess=false is still an error.
func (c *Client) Exec(ctx context.Context, method, path string, body any) error {
	var raw json.RawMessage
	if err := c.Do(ctx, method, path, body, &raw); err != nil {
		return err
	}
	return checkEnvelope(path, raw)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Exec(ctx, http.MethodDelete, path, nil)
}

func checkEnvelope(path string, raw json.RawMessage) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}
	var env struct {
		IsSuccess *bool  `json:"isSuccess"`
		Error     string `json:"error"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil
	}
	if env.IsSuccess != nil && !*env.IsSuccess {
		return &EnvelopeError{Path: path, Message: env.Error}
	}
	return nil
}

func envelope[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var (
		env  domain.ApiResponse[T]
		zero T
	)
	if err := c.Do(ctx, method, path, body, &env); err != nil {
		return zero, err
	}
	if !env.IsSuccess {
		return zero, &EnvelopeError{Path: path, Message: env.Error}
	}
	return env.Data, nil
}

func bare[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var out T
	err := c.Do(ctx, method, path, body, &out)
	return out, err
}

// Get decodes an ApiResponse envelope and returns its data.
func Get[T any](ctx context.Context, c *Client, path string) (T, error) {
	return envelope[T](ctx, c, http.MethodGet, path, nil)
}

func Post[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	return envelope[T](ctx, c, http.MethodPost, path, body)
}

func Put[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	return envelope[T](ctx, c, http.MethodPut, path, body)
}

// GetRaw decodes a bare (non-enveloped) payload.
func GetRaw[T any](ctx context.Context, c *Client, path string) (T, error) {
	return bare[T](ctx, c, http.MethodGet, path, nil)
}

func PostRaw[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	return bare[T](ctx, c, http.MethodPost, path, body)
}

func PutRaw[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	return bare[T](ctx, c, http.MethodPut, path, body)
}

// FilePart is a file carried in a multipart upload.
type FilePart struct {
	Field       string
	FileName    string
	ContentType string
	Content     []byte
}

// Upload posts a multipart form and decodes the enveloped response.
func Upload[T any](ctx context.Context, c *Client, path string, fields map[string]string, file FilePart) (T, error) {
	var (
		zero T
		buf  bytes.Buffer
	)
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return zero, err
		}
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{"name": file.Field, "filename": file.FileName}))
	ct := file.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)
	part, err := mw.CreatePart(h)
	if err != nil {
		return zero, err
	}
	if _, err := part.Write(file.Content); err != nil {
		return zero, err
	}
	if err := mw.Close(); err != nil {
		return zero, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(buf.Bytes()), mw.FormDataContentType())
	if err != nil {
		return zero, err
	}
	var env domain.ApiResponse[T]
	if err := c.send(req, path, &env); err != nil {
		return zero, err
	}
	if !env.IsSuccess {
		return zero, &EnvelopeError{Path: path, Message: env.Error}
	}
	return env.Data, nil
}

// Download is a binary payload proxied from the backend unchanged.
type Download struct {
	Content     []byte
	ContentType string
	FileName    string
}

func (c *Client) Download(ctx context.Context, path string) (*Download, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "*/*")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLength))
		return nil, &StatusError{Method: req.Method, Path: path, StatusCode: resp.StatusCode, Body: string(b)}
	}
	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	d := &Download{Content: content, ContentType: resp.Header.Get("Content-Type")}
	if d.ContentType == "" {
		d.ContentType = "application/octet-stream"
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			d.FileName = params["filename"]
		}
	}
	return d, nil
}
