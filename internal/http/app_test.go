package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"storefront/internal/config"
	"storefront/internal/http/handlers"
	"storefront/internal/repos"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Port:              "0",
		DBDSN:             ":memory:",
		MediaDir:          t.TempDir(),
		AppEnv:            "test",
		OwnerUsername:     "admin@store.com",
		OwnerPassword:     "admin123",
		IdentityJWTSecret: "test-identity-secret",
		EchoCodes:         true,
		CodeTTL:           10 * time.Minute,
	}
}

// newTestApp wires the full route table against an in-memory database,
// mirroring main minus rate limiters and metrics.
func newTestApp(t *testing.T, cfg config.Config) (*fiber.App, *sqlx.DB) {
	t.Helper()

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	deps, err := handlers.NewDeps(db, cfg, nil)
	if err != nil {
		t.Fatalf("build deps: %v", err)
	}

	app := fiber.New()
	requireOwner := handlers.RequireOwner(deps.Auth)

	app.Post("/auth/login", deps.AuthHandler.Login)
	app.Get("/auth/check", deps.AuthHandler.Check)
	app.Post("/auth/logout", deps.AuthHandler.Logout)

	app.Post("/verify/request", deps.VerifyHandler.Request)
	app.Post("/verify/code", deps.VerifyHandler.Code)
	app.Post("/customer/onboard", deps.VerifyHandler.Onboard)
	app.Get("/customer/check", deps.VerifyHandler.Check)

	app.Post("/phone-auth", deps.PhoneHandler.Start)
	app.Post("/phone-auth/verify", deps.PhoneHandler.VerifyCode)

	app.Get("/identity-user", deps.ExternalHandler.Get)
	app.Post("/identity-user/request-code", deps.ExternalHandler.RequestCode)
	app.Post("/identity-user", deps.ExternalHandler.Create)

	app.Get("/products", deps.ProductHandler.List)
	app.Post("/products", requireOwner, deps.ProductHandler.Create)
	app.Delete("/products/:id", requireOwner, deps.ProductHandler.Delete)

	app.Get("/inquiry", requireOwner, deps.InquiryHandler.ListForOwner)
	app.Post("/inquiry", deps.InquiryHandler.Create)
	app.Delete("/inquiry", requireOwner, deps.InquiryHandler.Acknowledge)
	app.Get("/orders", deps.InquiryHandler.ListOrders)
	app.Delete("/orders", deps.InquiryHandler.CancelOrder)

	app.Get("/inbox", requireOwner, deps.InboxHandler.List)
	app.Patch("/inbox", requireOwner, deps.InboxHandler.Update)
	app.Delete("/inbox", requireOwner, deps.InboxHandler.Delete)

	return app, db
}

func jsonReq(method, target string, body any, cookies ...*http.Cookie) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal %q: %v", b, err)
	}
	return out
}

func extractCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name && c.Value != "" {
			return c
		}
	}
	return nil
}

// loginOwner authenticates with the configured owner credentials and
// returns the session cookie.
func loginOwner(t *testing.T, app *fiber.App) *http.Cookie {
	t.Helper()
	resp, err := app.Test(jsonReq("POST", "/auth/login",
		map[string]string{"username": "admin@store.com", "password": "admin123"}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("owner login: got %d", resp.StatusCode)
	}
	ck := extractCookie(resp, "owner_session")
	if ck == nil {
		t.Fatal("owner session cookie missing")
	}
	return ck
}

// signupPhone walks a new phone through the code challenge and returns
// the session cookie.
func signupPhone(t *testing.T, app *fiber.App, phone, name string) *http.Cookie {
	t.Helper()
	resp, err := app.Test(jsonReq("POST", "/phone-auth", map[string]string{"phone": phone}))
	if err != nil {
		t.Fatal(err)
	}
	body := decodeBody(t, resp)
	code, _ := body["code"].(string)
	if code == "" {
		t.Fatalf("no code echoed for new phone: %v", body)
	}

	resp, err = app.Test(jsonReq("POST", "/phone-auth/verify",
		map[string]string{"phone": phone, "code": code, "name": name}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("phone verify: got %d", resp.StatusCode)
	}
	ck := extractCookie(resp, "customer_phone")
	if ck == nil {
		t.Fatal("customer phone cookie missing")
	}
	return ck
}
