package services_test

import (
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"storefront/internal/repos"
	"storefront/internal/services"
)

func memDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newVerifyService(t *testing.T, db *sqlx.DB, ttl time.Duration) *services.VerifyService {
	t.Helper()
	inbox := services.NewInboxService(repos.NewInboxRepo(db), nil)
	return services.NewVerifyService(repos.NewPendingRepo(db), inbox, nil, ttl)
}

func TestGenerateCodeRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		code := services.GenerateCode()
		if len(code) != 4 || code[0] == '0' {
			t.Fatalf("bad code %q", code)
		}
	}
}

func TestRequestCodeReplacesPending(t *testing.T) {
	db := memDB(t)
	svc := newVerifyService(t, db, 10*time.Minute)

	first, err := svc.RequestCode("dev_abc", "device")
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.RequestCode("dev_abc", "device")
	if err != nil {
		t.Fatal(err)
	}

	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM pending_verifications WHERE subject_id='dev_abc'`); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("want exactly one pending row, got %d", n)
	}

	if first != second {
		if ok, _ := svc.VerifyCode("dev_abc", first); ok {
			t.Fatal("replaced code still verifies")
		}
	}
	if ok, err := svc.VerifyCode("dev_abc", second); err != nil || !ok {
		t.Fatalf("latest code rejected: ok=%v err=%v", ok, err)
	}
}

func TestVerifyCodeDoesNotConsume(t *testing.T) {
	db := memDB(t)
	svc := newVerifyService(t, db, 10*time.Minute)

	code, err := svc.RequestCode("+15550130", "phone")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if ok, err := svc.VerifyCode("+15550130", code); err != nil || !ok {
			t.Fatalf("attempt %d: ok=%v err=%v", i, ok, err)
		}
	}

	if err := svc.Consume("+15550130"); err != nil {
		t.Fatal(err)
	}
	if ok, err := svc.VerifyCode("+15550130", code); err != nil || ok {
		t.Fatalf("consumed code still verifies: ok=%v err=%v", ok, err)
	}
}

func TestVerifyCodeUnknownAndMismatch(t *testing.T) {
	db := memDB(t)
	svc := newVerifyService(t, db, 10*time.Minute)

	// Unknown subject and wrong code both come back as a plain false.
	if ok, err := svc.VerifyCode("nobody", "1234"); err != nil || ok {
		t.Fatalf("unknown subject: ok=%v err=%v", ok, err)
	}

	code, err := svc.RequestCode("dev_xyz", "device")
	if err != nil {
		t.Fatal(err)
	}
	wrong := "1234"
	if wrong == code {
		wrong = "4321"
	}
	if ok, err := svc.VerifyCode("dev_xyz", wrong); err != nil || ok {
		t.Fatalf("wrong code: ok=%v err=%v", ok, err)
	}
}

func TestVerifyCodeExpiry(t *testing.T) {
	db := memDB(t)
	svc := newVerifyService(t, db, 10*time.Minute)

	code, err := svc.RequestCode("dev_old", "device")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(
		`UPDATE pending_verifications SET created_at=datetime('now','-11 minutes') WHERE subject_id='dev_old'`); err != nil {
		t.Fatal(err)
	}
	if ok, err := svc.VerifyCode("dev_old", code); err != nil || ok {
		t.Fatalf("expired code accepted: ok=%v err=%v", ok, err)
	}

	// TTL zero means codes never age out.
	eternal := newVerifyService(t, db, 0)
	code, err = eternal.RequestCode("dev_forever", "device")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(
		`UPDATE pending_verifications SET created_at=datetime('now','-2 days') WHERE subject_id='dev_forever'`); err != nil {
		t.Fatal(err)
	}
	if ok, err := eternal.VerifyCode("dev_forever", code); err != nil || !ok {
		t.Fatalf("ttl-less code rejected: ok=%v err=%v", ok, err)
	}
}

func TestRequestCodePostsInboxMessage(t *testing.T) {
	db := memDB(t)
	inboxRepo := repos.NewInboxRepo(db)
	inbox := services.NewInboxService(inboxRepo, nil)
	svc := services.NewVerifyService(repos.NewPendingRepo(db), inbox, nil, 10*time.Minute)

	code, err := svc.RequestCode("dev_longdeviceid", "device")
	if err != nil {
		t.Fatal(err)
	}

	messages, err := inboxRepo.ListAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(messages) != 1 {
		t.Fatalf("want 1 inbox message, got %d", len(messages))
	}
	m := messages[0]
	if m.Type != "verification" || m.Title != "New Verification Request" {
		t.Fatalf("unexpected message: %+v", m)
	}
	if !strings.Contains(m.Content, code) {
		t.Fatalf("code missing from message content: %q", m.Content)
	}
	// Long subject ids are truncated in the human-readable body.
	if strings.Contains(m.Content, "dev_longdeviceid") {
		t.Fatalf("full subject leaked into content: %q", m.Content)
	}
}
