package handlers_test

import (
	"net/http"
	"testing"
)

// A new phone gets a code challenge; the same phone afterwards logs in
// immediately with no code.
func TestPhoneSignupThenTrustOnFirstUse(t *testing.T) {
	app, _ := newTestApp(t, testConfig(t))

	resp, err := app.Test(jsonReq("POST", "/phone-auth", map[string]string{"phone": "+1555"}))
	if err != nil {
		t.Fatal(err)
	}
	body := decodeBody(t, resp)
	if body["isNewUser"] != true || body["loggedIn"] != false {
		t.Fatalf("want new-user challenge, got %v", body)
	}
	code, _ := body["code"].(string)
	if len(code) != 4 {
		t.Fatalf("want echoed 4-digit code, got %q", code)
	}

	resp, err = app.Test(jsonReq("POST", "/phone-auth/verify",
		map[string]string{"phone": "+1555", "code": code, "name": "Ann"}))
	if err != nil {
		t.Fatal(err)
	}
	body = decodeBody(t, resp)
	if body["success"] != true {
		t.Fatalf("verify failed: %v", body)
	}
	user, _ := body["user"].(map[string]any)
	if user["name"] != "Ann" || user["phone"] != "+1555" {
		t.Fatalf("bad user payload: %v", body)
	}
	if extractCookie(resp, "customer_phone") == nil {
		t.Fatal("phone session cookie missing")
	}

	// Returning user: logged in directly, no code issued.
	resp, err = app.Test(jsonReq("POST", "/phone-auth", map[string]string{"phone": "+1555"}))
	if err != nil {
		t.Fatal(err)
	}
	body = decodeBody(t, resp)
	if body["isNewUser"] != false || body["loggedIn"] != true {
		t.Fatalf("want direct login for returning phone, got %v", body)
	}
	if _, hasCode := body["code"]; hasCode {
		t.Fatal("no code should be issued for a returning phone")
	}
}

func TestPhoneVerifyWrongCode(t *testing.T) {
	app, _ := newTestApp(t, testConfig(t))

	resp, err := app.Test(jsonReq("POST", "/phone-auth", map[string]string{"phone": "+1666"}))
	if err != nil {
		t.Fatal(err)
	}
	code := decodeBody(t, resp)["code"].(string)
	wrong := "0000"
	if wrong == code {
		wrong = "0001"
	}

	resp, err = app.Test(jsonReq("POST", "/phone-auth/verify",
		map[string]string{"phone": "+1666", "code": wrong, "name": "Bob"}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400 for wrong code, got %d", resp.StatusCode)
	}
}

func TestPhoneVerifyNewUserNeedsName(t *testing.T) {
	app, _ := newTestApp(t, testConfig(t))

	resp, err := app.Test(jsonReq("POST", "/phone-auth", map[string]string{"phone": "+1777"}))
	if err != nil {
		t.Fatal(err)
	}
	code := decodeBody(t, resp)["code"].(string)

	resp, err = app.Test(jsonReq("POST", "/phone-auth/verify",
		map[string]string{"phone": "+1777", "code": code}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400 when name missing for new user, got %d", resp.StatusCode)
	}
}

func TestPhoneAuthRejectsMissingPhone(t *testing.T) {
	app, _ := newTestApp(t, testConfig(t))

	resp, err := app.Test(jsonReq("POST", "/phone-auth", map[string]string{}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400 for missing phone, got %d", resp.StatusCode)
	}
}
