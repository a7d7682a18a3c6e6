package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"merchantportal/internal/apiclient"
	"merchantportal/internal/config"
	"merchantportal/internal/domain"
	"merchantportal/internal/http/handlers"
	"merchantportal/internal/i18n"
	applog "merchantportal/internal/log"
	"merchantportal/internal/repos"
	"merchantportal/internal/services"
)

const templatesDir = "../../web/templates"

// portal is the full route table in front of a fake backend, with sessions in miniredis.
type portal struct {
	app      *fiber.App
	sessions *services.SessionService
}

func newPortal(t *testing.T, backend http.HandlerFunc) *portal {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	api, err := apiclient.New(srv.URL+"/", apiclient.WithRetry(1, time.Millisecond))
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	sessions := services.NewSessionService(repos.NewRedisSessionRepo(rdb, time.Hour), time.Hour)

	app := fiber.New(fiber.Config{Views: handlers.NewEngine(templatesDir)})
	app.Use(requestid.New())
	handlers.NewDeps(api, sessions, config.Config{}, i18n.NewBundle(nil)).Routes(app)
	return &portal{app: app, sessions: sessions}
}

func token(t *testing.T, ttl time.Duration) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(ttl).Unix(),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return tok
}

// signIn stores an authenticated session and returns its sid.
func (p *portal) signIn(t *testing.T, sess domain.Session) string {
	t.Helper()
	sess.ID = "sid-" + uuid.NewString()
	if sess.UserID == "" {
		sess.UserID = uuid.NewString()
	}
	if sess.JwtToken == "" {
		sess.JwtToken = token(t, time.Hour)
	}
	if sess.UserRole == "" {
		sess.UserRole = domain.RoleMerchantOwner
	}
	require.NoError(t, p.sessions.Save(t.Context(), &sess))
	return sess.ID
}

func (p *portal) do(t *testing.T, req *http.Request, sid string) *http.Response {
	t.Helper()
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := p.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (p *portal) get(t *testing.T, path, sid string) *http.Response {
	return p.do(t, httptest.NewRequest(http.MethodGet, path, nil), sid)
}

func (p *portal) postForm(t *testing.T, path, sid string, form url.Values) *http.Response {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return p.do(t, req, sid)
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func cookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ok writes a successful backend envelope.
func ok(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"isSuccess": true, "data": data})
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	UserID string         `json:"user_id"`
	Err    string         `json:"err"`
	Fields map[string]any `json:"fields"`
}

// captureLogs swaps the application log sink for the duration of fn.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	old := applog.SetOutput(&lockedWriter{w: &buf, mu: &mu})
	defer applog.Restore(old)

	fn()

	mu.Lock()
	defer mu.Unlock()
	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}

type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}
