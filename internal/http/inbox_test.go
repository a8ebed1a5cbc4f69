package handlers_test

import (
	"net/http"
	"testing"
)

func TestInboxOwnerOnly(t *testing.T) {
	app, _ := newTestApp(t, testConfig(t))

	for _, tc := range []struct {
		method string
		body   any
	}{
		{"GET", nil},
		{"PATCH", map[string]any{"action": "markAllRead"}},
		{"DELETE", map[string]any{"messageId": 1}},
	} {
		resp, err := app.Test(jsonReq(tc.method, "/inbox", tc.body))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s /inbox: want 401, got %d", tc.method, resp.StatusCode)
		}
	}
}

func TestInboxReadStateAndDelete(t *testing.T) {
	app, _ := newTestApp(t, testConfig(t))
	owner := loginOwner(t, app)

	// Each signup leaves a verification message behind.
	signupPhone(t, app, "+15550110", "Ann")
	signupPhone(t, app, "+15550111", "Bo")

	resp, err := app.Test(jsonReq("GET", "/inbox", nil, owner))
	if err != nil {
		t.Fatal(err)
	}
	body := decodeBody(t, resp)
	messages := body["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("want 2 messages, got %d", len(messages))
	}
	if body["unreadCount"].(float64) != 2 {
		t.Fatalf("want unreadCount 2, got %v", body["unreadCount"])
	}
	first := messages[0].(map[string]any)
	if first["type"] != "verification" || first["is_read"] != false {
		t.Fatalf("unexpected message shape: %v", first)
	}
	firstID := int64(first["id"].(float64))

	resp, err = app.Test(jsonReq("PATCH", "/inbox",
		map[string]any{"action": "markRead", "messageId": firstID}, owner))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("markRead: got %d", resp.StatusCode)
	}

	resp, err = app.Test(jsonReq("GET", "/inbox", nil, owner))
	if err != nil {
		t.Fatal(err)
	}
	if body := decodeBody(t, resp); body["unreadCount"].(float64) != 1 {
		t.Fatalf("want unreadCount 1 after markRead, got %v", body["unreadCount"])
	}

	resp, err = app.Test(jsonReq("PATCH", "/inbox",
		map[string]any{"action": "markAllRead"}, owner))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("markAllRead: got %d", resp.StatusCode)
	}

	resp, err = app.Test(jsonReq("GET", "/inbox", nil, owner))
	if err != nil {
		t.Fatal(err)
	}
	if body := decodeBody(t, resp); body["unreadCount"].(float64) != 0 {
		t.Fatalf("want unreadCount 0 after markAllRead, got %v", body["unreadCount"])
	}

	resp, err = app.Test(jsonReq("DELETE", "/inbox",
		map[string]any{"messageId": firstID}, owner))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: got %d", resp.StatusCode)
	}

	resp, err = app.Test(jsonReq("GET", "/inbox", nil, owner))
	if err != nil {
		t.Fatal(err)
	}
	if body := decodeBody(t, resp); len(body["messages"].([]any)) != 1 {
		t.Fatalf("want 1 message after delete, got %v", body)
	}

	// Deleting again is a 404, the row is gone.
	resp, err = app.Test(jsonReq("DELETE", "/inbox",
		map[string]any{"messageId": firstID}, owner))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("want 404 for missing message, got %d", resp.StatusCode)
	}
}

func TestInboxInvalidAction(t *testing.T) {
	app, _ := newTestApp(t, testConfig(t))
	owner := loginOwner(t, app)

	resp, err := app.Test(jsonReq("PATCH", "/inbox",
		map[string]any{"action": "archive", "messageId": 1}, owner))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400 for unknown action, got %d", resp.StatusCode)
	}
}
