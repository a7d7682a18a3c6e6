package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	logger = zerolog.New(os.Stdout)
)

// Init configures the sink. Development gets the console writer, production raw JSON lines.
func Init(pretty bool, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	SetOutput(w)
}

// SetOutput swaps the sink and returns the previous logger so callers can restore it.
func SetOutput(w io.Writer) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	old := logger
	logger = zerolog.New(w)
	return old
}

// Restore puts back a logger returned by SetOutput.
func Restore(l zerolog.Logger) {
	mu.Lock()
	logger = l
	mu.Unlock()
}

func write(level string, c *fiber.Ctx, action string, err error, fields map[string]any) {
	mu.RLock()
	l := logger
	mu.RUnlock()

	e := l.Log().
		Str("ts", time.Now().UTC().Format(time.RFC3339)).
		Str("level", level).
		Str("action", action)
	if c != nil {
		e = e.Str("ip", c.IP()).
			Str("method", c.Method()).
			Str("path", c.Path())
		if st := c.Response().StatusCode(); st != 0 {
			e = e.Int("status", st)
		}
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			e = e.Str("req_id", rid)
		}
		if uid, ok := c.Locals("user_id").(string); ok && uid != "" {
			e = e.Str("user_id", uid)
		}
	}
	if err != nil {
		e = e.Str("err", err.Error())
	}
	if len(fields) > 0 {
		e = e.Interface("fields", fields)
	}
	e.Send()
}

func Info(c *fiber.Ctx, action string, fields map[string]any) { write("info", c, action, nil, fields) }
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	write("audit", c, action, nil, fields)
}
func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write("warn", c, action, nil, fields)
}
func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write("error", c, action, err, fields)
}

// Warn logs outside a request, e.g. from the API client transports.
func Warn(action string, err error, fields map[string]any) { write("warn", nil, action, err, fields) }
