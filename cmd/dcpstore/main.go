package main

import (
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"dcpstore/internal/catalog"
	"dcpstore/internal/config"
	"dcpstore/internal/http/handlers"
	applog "dcpstore/internal/log"
	"dcpstore/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	// Inability to open the durable store aborts the process.
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	cat := catalog.Default()
	deps := handlers.NewDeps(db, cat)

	engine := html.New("./web/templates", ".html")

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			// Never leak internals; API callers get JSON, pages get a friendly screen.
			if strings.HasPrefix(c.Path(), "/api/") {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "something went wrong"})
			}
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	// Attach user to context if logged in (for templates/headers)
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if st := deps.Auth.CurrentSession(sid); st.LoggedIn {
				c.Locals("user", st.User)
			}
		}
		return c.Next()
	})
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := string(c.Request().URI().Path())
			return strings.HasPrefix(p, "/static/") || strings.HasPrefix(p, "/images/")
		},
	}))

	// ---------- Static assets ----------
	staticDir := cfg.StaticDir
	if !filepath.IsAbs(staticDir) {
		if abs, err := filepath.Abs(staticDir); err == nil {
			staticDir = abs
		}
	}
	app.Static("/static", staticDir)
	// Guarded product images to avoid traversal
	imagesDir := filepath.Join(staticDir, "images")
	app.Get("/images/*", func(c *fiber.Ctx) error {
		path := c.Params("*")
		rawLower := strings.ToLower(path)
		if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
			applog.Security(c, "images.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		clean := filepath.Clean(path)
		if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
			applog.Security(c, "images.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendFile(filepath.Join(imagesDir, clean), true)
	})

	// ---------- Pages ----------
	app.Get("/", deps.PageHandler.Home)
	app.Get("/search", limiter.New(limiter.Config{Max: 20, Expiration: time.Minute}), deps.PageHandler.Search)
	app.Get("/product/:id", deps.PageHandler.Product)
	app.Get("/login", deps.PageHandler.LoginForm)
	app.Get("/register", deps.PageHandler.RegisterForm)
	app.Get("/cart", deps.PageHandler.CartPage)

	// ---------- JSON API ----------
	authLimiter := limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.auth.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, retry later"})
		},
	})
	app.Post("/api/register", authLimiter, deps.AuthHandler.Register)
	app.Post("/api/login", authLimiter, deps.AuthHandler.Login)
	app.Post("/api/logout", deps.AuthHandler.Logout)
	app.Get("/api/session", deps.AuthHandler.Session)

	cart := app.Group("/api/cart", handlers.RequireUser(deps.Auth))
	cart.Get("/", deps.CartHandler.Get)
	cart.Post("/add", deps.CartHandler.Add)
	cart.Put("/update", deps.CartHandler.Update)
	cart.Delete("/clear", deps.CartHandler.Clear)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), "/api/") {
			return c.Status(404).JSON(fiber.Map{"error": "not found"})
		}
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	// Graceful shutdown: close the store on SIGINT/SIGTERM
	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		_ = app.Shutdown()
		_ = db.Close()
	}()

	log.Fatal(app.Listen(":" + cfg.Port))
}
