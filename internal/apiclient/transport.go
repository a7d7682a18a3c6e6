package apiclient

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	applog "merchantportal/internal/log"
)

// authTransport adds the bearer token carried by the request context.
type authTransport struct {
	next http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	tok := TokenFrom(req.Context())
	if tok == "" {
		applog.Warn("api.token.missing", nil, map[string]any{"method": req.Method, "path": req.URL.Path})
		return t.next.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", "Bearer "+tok)
	return t.next.RoundTrip(r)
}

// IsTransient reports whether a status code is worth retrying.
func IsTransient(code int) bool {
	switch code {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

var (
	errTransientStatus = errors.New("apiclient: transient status")
	errBodyNotReplay   = errors.New("apiclient: request body cannot be replayed")
)

// retryTransport retries network failures and transient statuses with
// exponential backoff. The last response is returned once attempts run out.
type retryTransport struct {
	next      http.RoundTripper
	attempts  int
	baseDelay time.Duration
	limiter   *rate.Limiter
}

func (t *retryTransport) policy() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = t.baseDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = t.baseDelay << uint(t.attempts)
	b.MaxElapsedTime = 0
	b.Reset()
	return backoff.WithMaxRetries(b, uint64(t.attempts-1))
}

func (t *retryTransport) attemptRequest(req *http.Request, attempt int) (*http.Request, error) {
	if attempt == 1 || req.Body == nil || req.Body == http.NoBody {
		return req, nil
	}
	if req.GetBody == nil {
		return nil, errBodyNotReplay
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	r := req.Clone(req.Context())
	r.Body = body
	return r, nil
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	var (
		resp    *http.Response
		attempt int
	)
	op := func() error {
		attempt++
		if resp != nil {
			drain(resp)
			resp = nil
		}
		r, err := t.attemptRequest(req, attempt)
		if err != nil {
			return backoff.Permanent(err)
		}
		if t.limiter != nil {
			if err := t.limiter.Wait(ctx); err != nil {
				return backoff.Permanent(err)
			}
		}
		out, err := t.next.RoundTrip(r)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		resp = out
		if IsTransient(out.StatusCode) {
			return errTransientStatus
		}
		return nil
	}
	notify := func(err error, wait time.Duration) {
		fields := map[string]any{"method": req.Method, "path": req.URL.Path, "attempt": attempt, "wait_ms": wait.Milliseconds()}
		if resp != nil {
			fields["status"] = resp.StatusCode
		}
		applog.Warn("api.retry", err, fields)
	}

	err := backoff.RetryNotify(op, backoff.WithContext(t.policy(), ctx), notify)
	switch {
	case err == nil:
		return resp, nil
	case errors.Is(err, errTransientStatus) && resp != nil:
		return resp, nil
	default:
		if resp != nil {
			drain(resp)
		}
		return nil, err
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}
