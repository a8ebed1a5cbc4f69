package repos

import (
	"storefront/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ExternalRepo struct{ db *sqlx.DB }

func NewExternalRepo(db *sqlx.DB) *ExternalRepo { return &ExternalRepo{db: db} }

func (r *ExternalRepo) Get(externalID string) (domain.ExternalUser, error) {
	var u domain.ExternalUser
	err := r.db.Get(&u,
		`SELECT id, external_id, email, name, phone, created_at FROM external_users WHERE external_id=?`,
		externalID)
	return u, err
}

func (r *ExternalRepo) Exists(externalID string) (bool, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM external_users WHERE external_id=?`, externalID)
	return n > 0, err
}

// CreateVerified consumes the pending code bound to the given subject and
// registers the external identity atomically.
func (r *ExternalRepo) CreateVerified(subjectID, externalID, email, name, phone string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM pending_verifications WHERE subject_id=?`, subjectID); err != nil {
		return err
	}
	if _, err := tx.Exec(
		`INSERT INTO external_users(external_id, email, name, phone) VALUES(?,?,?,?)`,
		externalID, email, name, phone); err != nil {
		return err
	}
	return tx.Commit()
}
