package apiclient_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchantportal/internal/apiclient"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

var errConnReset = errors.New("read tcp: connection reset by peer")

func jsonResponse(r *http.Request, code int, body string) *http.Response {
	return &http.Response{
		StatusCode: code,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    r,
	}
}

func fakeClient(t *testing.T, rt http.RoundTripper, base time.Duration) *apiclient.Client {
	t.Helper()
	c, err := apiclient.New("http://backend.test/", apiclient.WithRetry(3, base), apiclient.WithTransport(rt))
	require.NoError(t, err)
	return c
}

func TestNetworkErrorIsRetried(t *testing.T) {
	var calls int32
	c := fakeClient(t, roundTripFunc(func(r *http.Request) (*http.Response, error) {
		if atomic.AddInt32(&calls, 1) < 3 {
			return nil, errConnReset
		}
		return jsonResponse(r, http.StatusOK, `{"isSuccess":true,"data":"pong"}`), nil
	}), time.Millisecond)

	got, err := apiclient.Get[string](context.Background(), c, "api/v1/ping")
	require.NoError(t, err)
	assert.Equal(t, "pong", got)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestNetworkErrorGivesUpAfterThreeAttempts(t *testing.T) {
	var calls int32
	c := fakeClient(t, roundTripFunc(func(r *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return nil, errConnReset
	}), time.Millisecond)

	err := c.Do(context.Background(), http.MethodGet, "api/v1/ping", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errConnReset)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestCancelledContextStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var calls int32
	c := fakeClient(t, roundTripFunc(func(r *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		cancel()
		return nil, errConnReset
	}), time.Millisecond)

	err := c.Do(ctx, http.MethodGet, "api/v1/ping", nil, nil)
	require.Error(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestCancelDuringBackoffReturnsPromptly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var calls int32
	c := fakeClient(t, roundTripFunc(func(r *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		time.AfterFunc(20*time.Millisecond, cancel)
		return jsonResponse(r, http.StatusServiceUnavailable, `{}`), nil
	}), time.Minute)

	start := time.Now()
	err := c.Do(ctx, http.MethodGet, "api/v1/ping", nil, nil)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 10*time.Second)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}
