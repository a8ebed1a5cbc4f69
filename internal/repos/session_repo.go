package repos

import (
	"time"

	"github.com/jmoiron/sqlx"
)

type SessionRepo struct{ db *sqlx.DB }

func NewSessionRepo(db *sqlx.DB) *SessionRepo { return &SessionRepo{db: db} }

// Create stores an owner session token with its expiry. Expired rows are
// pruned opportunistically on each login.
func (r *SessionRepo) Create(token string, ttl time.Duration) error {
	expires := time.Now().UTC().Add(ttl).Format("2006-01-02 15:04:05")
	_, _ = r.db.Exec(`DELETE FROM owner_sessions WHERE expires_at < datetime('now')`)
	_, err := r.db.Exec(`INSERT INTO owner_sessions(token, expires_at) VALUES(?,?)`, token, expires)
	return err
}

// Valid reports whether the token refers to a live owner session.
func (r *SessionRepo) Valid(token string) (bool, error) {
	var n int
	err := r.db.Get(&n,
		`SELECT COUNT(*) FROM owner_sessions WHERE token=? AND expires_at >= datetime('now')`, token)
	return n > 0, err
}

func (r *SessionRepo) Delete(token string) error {
	_, err := r.db.Exec(`DELETE FROM owner_sessions WHERE token=?`, token)
	return err
}
