package main

import (
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront/internal/config"
	"storefront/internal/http/handlers"
	applog "storefront/internal/log"
	"storefront/internal/metrics"
	"storefront/internal/repos"
)

func main() {
	cfg := config.Load()

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	m := metrics.Registry("storefront")

	deps, err := handlers.NewDeps(db, cfg, m)
	if err != nil {
		log.Fatal(err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			m.Errors.WithLabelValues("http").Inc()
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())

	// ---------- Media ----------
	mediaDir := cfg.MediaDir
	if !filepath.IsAbs(mediaDir) {
		if abs, err := filepath.Abs(mediaDir); err == nil {
			mediaDir = abs
		}
	}
	log.Printf("[static] /media -> %s", mediaDir)

	// Guarded media to avoid traversal
	app.Get("/media/*", func(c *fiber.Ctx) error {
		path := c.Params("*")
		rawLower := strings.ToLower(path)
		if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		clean := filepath.Clean(path)
		if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendFile(filepath.Join(mediaDir, clean), true)
	})

	// ---------- Routes ----------
	requireOwner := handlers.RequireOwner(deps.Auth)
	codeLimiter := func() fiber.Handler {
		return limiter.New(limiter.Config{
			Max:        10,
			Expiration: time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				applog.Security(c, "rate.code.hit", nil)
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
			},
		})
	}

	// Owner auth (login throttled)
	app.Post("/auth/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many attempts. Please try again later."})
		},
	}), deps.AuthHandler.Login)
	app.Get("/auth/check", deps.AuthHandler.Check)
	app.Post("/auth/logout", deps.AuthHandler.Logout)

	// Legacy device verification
	app.Post("/verify/request", codeLimiter(), deps.VerifyHandler.Request)
	app.Post("/verify/code", deps.VerifyHandler.Code)
	app.Post("/customer/onboard", deps.VerifyHandler.Onboard)
	app.Get("/customer/check", deps.VerifyHandler.Check)

	// Phone flow
	app.Post("/phone-auth", codeLimiter(), deps.PhoneHandler.Start)
	app.Post("/phone-auth/verify", deps.PhoneHandler.VerifyCode)

	// External identity flow
	app.Get("/identity-user", deps.ExternalHandler.Get)
	app.Post("/identity-user/request-code", codeLimiter(), deps.ExternalHandler.RequestCode)
	app.Post("/identity-user", deps.ExternalHandler.Create)

	// Products
	app.Get("/products", deps.ProductHandler.List)
	app.Post("/products", requireOwner, deps.ProductHandler.Create)
	app.Delete("/products/:id", requireOwner, deps.ProductHandler.Delete)

	// Inquiries & customer orders
	app.Get("/inquiry", requireOwner, deps.InquiryHandler.ListForOwner)
	app.Post("/inquiry", deps.InquiryHandler.Create)
	app.Delete("/inquiry", requireOwner, deps.InquiryHandler.Acknowledge)
	app.Get("/orders", deps.InquiryHandler.ListOrders)
	app.Delete("/orders", deps.InquiryHandler.CancelOrder)

	// Owner inbox
	app.Get("/inbox", requireOwner, deps.InboxHandler.List)
	app.Patch("/inbox", requireOwner, deps.InboxHandler.Update)
	app.Delete("/inbox", requireOwner, deps.InboxHandler.Delete)

	// Health, metrics & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
