package repos

import (
	"storefront/internal/domain"

	"github.com/jmoiron/sqlx"
)

type PhoneRepo struct{ db *sqlx.DB }

func NewPhoneRepo(db *sqlx.DB) *PhoneRepo { return &PhoneRepo{db: db} }

func (r *PhoneRepo) Get(phone string) (domain.PhoneUser, error) {
	var u domain.PhoneUser
	err := r.db.Get(&u, `SELECT id, phone, name, created_at FROM phone_users WHERE phone=?`, phone)
	return u, err
}

func (r *PhoneRepo) Exists(phone string) (bool, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM phone_users WHERE phone=?`, phone)
	return n > 0, err
}

// CreateVerified consumes the pending code and creates the phone user
// atomically. First successful verification is the only time a phone
// row is created; later logins skip verification entirely.
func (r *PhoneRepo) CreateVerified(phone, name string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM pending_verifications WHERE subject_id=?`, phone); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO phone_users(phone, name) VALUES(?,?)`, phone, name); err != nil {
		return err
	}
	return tx.Commit()
}
