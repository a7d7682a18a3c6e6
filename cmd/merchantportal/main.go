package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"merchantportal/internal/apiclient"
	"merchantportal/internal/config"
	"merchantportal/internal/http/handlers"
	"merchantportal/internal/i18n"
	applog "merchantportal/internal/log"
	"merchantportal/internal/repos"
	"merchantportal/internal/services"
)

const purgeInterval = 15 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Optional file logging
	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			out = io.MultiWriter(os.Stdout, f)
			log.SetOutput(out)
		}
	}
	applog.Init(cfg.Environment() == config.Development, out)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeStore()
	sessions := services.NewSessionService(store, cfg.SessionIdleTimeout)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	api, err := apiclient.New(cfg.APIBaseURL,
		apiclient.WithTimeout(cfg.APITimeout),
		apiclient.WithRateLimit(cfg.APIRateLimit, cfg.APIRateBurst),
		apiclient.WithRegisterer(reg),
	)
	if err != nil {
		log.Fatal(err)
	}

	bundle, err := i18n.Load(cfg.LocalesDir)
	if err != nil {
		log.Fatal(err)
	}

	// Templates & app
	engine := handlers.NewEngine(cfg.TemplatesDir)
	engine.Reload(cfg.Environment() == config.Development)

	app := fiber.New(fiber.Config{
		Views:        engine,
		BodyLimit:    12 << 20,
		ErrorHandler: handlers.ErrorHandler,
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{Output: out}))
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := string(c.Request().URI().Path())
			return strings.HasPrefix(p, "/static/") || p == "/healthz" || p == "/metrics"
		},
	}))
	app.Use(csrf.New(csrf.Config{
		Extractor:      handlers.CSRFToken,
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   cfg.CookieSecure,
		CookieHTTPOnly: true,
		ErrorHandler:   handlers.CSRFFailed,
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})

	// ---------- Static assets & ops ----------
	app.Static("/static", "./web/static")
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// ---------- App handlers ----------
	deps := handlers.NewDeps(api, sessions, cfg, bundle)
	deps.Routes(app)

	app.Use(handlers.NotFound)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("[shutdown] %v", err)
		}
	}()

	log.Printf("[http] listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

// openStore picks the session backend. The SQLite store also gets a purge loop for
// expired rows; Redis expires keys itself.
func openStore(ctx context.Context, cfg config.Config) (repos.SessionStore, func(), error) {
	if cfg.SessionStore == "redis" {
		rdb, err := repos.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("[session] redis store at %s", cfg.RedisURL)
		return repos.NewRedisSessionRepo(rdb, cfg.SessionIdleTimeout), func() { _ = rdb.Close() }, nil
	}
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		return nil, nil, err
	}
	repo := repos.NewSessionRepo(db)
	go func() {
		t := time.NewTicker(purgeInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if n, err := repo.PurgeExpired(ctx); err != nil {
					applog.Warn("session.purge.fail", err, nil)
				} else if n > 0 {
					applog.Info(nil, "session.purge", map[string]any{"removed": n})
				}
			}
		}
	}()
	log.Printf("[session] sqlite store at %s", cfg.DBDSN)
	return repo, func() { _ = db.Close() }, nil
}
