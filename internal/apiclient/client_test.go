package apiclient_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchantportal/internal/apiclient"
	applog "merchantportal/internal/log"
)

func newClient(t *testing.T, srv *httptest.Server, opts ...apiclient.Option) *apiclient.Client {
	t.Helper()
	opts = append([]apiclient.Option{apiclient.WithRetry(3, time.Millisecond)}, opts...)
	c, err := apiclient.New(srv.URL+"/", opts...)
	require.NoError(t, err)
	return c
}

func TestRetryStopsAfterThreeAttemptsOnTransientStatus(t *testing.T) {
	for _, code := range []int{408, 429, 502, 503, 504} {
		var hits int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			w.WriteHeader(code)
		}))
		c := newClient(t, srv)

		err := c.Do(context.Background(), http.MethodGet, "api/v1/ping", nil, nil)
		srv.Close()

		var se *apiclient.StatusError
		require.ErrorAs(t, err, &se, "code %d", code)
		assert.Equal(t, code, se.StatusCode)
		assert.EqualValues(t, 3, atomic.LoadInt32(&hits), "code %d", code)
	}
}

func TestNonTransientStatusIsNotRetried(t *testing.T) {
	for _, code := range []int{400, 401, 404, 500} {
		var hits int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			w.WriteHeader(code)
		}))
		c := newClient(t, srv)

		err := c.Do(context.Background(), http.MethodGet, "api/v1/ping", nil, nil)
		srv.Close()

		require.Error(t, err)
		assert.EqualValues(t, 1, atomic.LoadInt32(&hits), "code %d", code)
	}
}

func TestRetryRecoversAndReplaysBody(t *testing.T) {
	var hits int32
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(b))
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"isSuccess":true,"data":{"name":"ok"}}`))
	}))
	defer srv.Close()
	c := newClient(t, srv)

	out, err := apiclient.Post[struct {
		Name string `json:"name"`
	}](context.Background(), c, "api/v1/thing", map[string]string{"a": "b"})
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Name)
	assert.EqualValues(t, 2, hits)
	require.Len(t, bodies, 2)
	assert.Equal(t, bodies[0], bodies[1])
	assert.JSONEq(t, `{"a":"b"}`, bodies[1])
}

func TestBearerTokenFromContext(t *testing.T) {
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"isSuccess":true,"data":1}`))
	}))
	defer srv.Close()
	c := newClient(t, srv)

	var buf bytes.Buffer
	old := applog.SetOutput(&buf)
	defer applog.Restore(old)

	_, err := apiclient.Get[int](apiclient.WithToken(context.Background(), "tok-123"), c, "api/v1/x")
	require.NoError(t, err)
	_, err = apiclient.Get[int](context.Background(), c, "api/v1/x")
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "Bearer tok-123", got[0])
	assert.Empty(t, got[1])
	assert.Contains(t, buf.String(), `"action":"api.token.missing"`)
}

func TestEnvelopeFailureIsTyped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"isSuccess":false,"error":"merchant not found"}`))
	}))
	defer srv.Close()
	c := newClient(t, srv)

	_, err := apiclient.Get[map[string]any](context.Background(), c, "api/v1/merchant/1")
	var ee *apiclient.EnvelopeError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "merchant not found", apiclient.Message(err))

	err = c.Exec(context.Background(), http.MethodPut, "api/v1/merchant/1", map[string]string{})
	require.ErrorAs(t, err, &ee)
}

func TestNotFoundHelper(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	c := newClient(t, srv)

	_, err := apiclient.GetRaw[[]int](context.Background(), c, "api/v1/nothing")
	assert.True(t, apiclient.IsNotFound(err))
	assert.False(t, apiclient.IsUnauthorized(err))
}

func TestUploadSendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		b, _ := io.ReadAll(f)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"isSuccess": true,
			"data":      map[string]any{"fileName": hdr.Filename, "blobUrl": "https://blob/" + string(b) + "?m=" + r.FormValue("merchantId")},
		})
	}))
	defer srv.Close()
	c := newClient(t, srv)

	out, err := apiclient.Upload[struct {
		BlobURL string `json:"blobUrl"`
	}](context.Background(), c, "api/v1/files/merchant/upload", map[string]string{"merchantId": "m1"},
		apiclient.FilePart{Field: "file", FileName: "a.png", ContentType: "image/png", Content: []byte("xyz")})
	require.NoError(t, err)
	assert.Equal(t, "https://blob/xyz?m=m1", out.BlobURL)
}

func TestDownloadKeepsContentTypeAndName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="license.pdf"`)
		_, _ = w.Write([]byte("%PDF"))
	}))
	defer srv.Close()
	c := newClient(t, srv)

	d, err := c.Download(context.Background(), "api/merchantdocument/1/download")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", d.ContentType)
	assert.Equal(t, "license.pdf", d.FileName)
	assert.Equal(t, "%PDF", string(d.Content))
}

func TestMetricsCountEveryAttempt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	reg := prometheus.NewRegistry()
	c := newClient(t, srv, apiclient.WithRegisterer(reg))

	_ = c.Do(context.Background(), http.MethodGet, "api/v1/merchant/3fa85f64-5717-4562-b3fc-2c963f66afa6", nil, nil)

	n := testutil.ToFloat64(c.Metrics.Requests.WithLabelValues("GET", "/api/v1/merchant/:id", "502"))
	assert.Equal(t, float64(3), n)
}

func TestNewRejectsRelativeBase(t *testing.T) {
	_, err := apiclient.New("localhost:5000")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "scheme") || strings.Contains(err.Error(), "bad base"))
}
