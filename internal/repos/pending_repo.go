package repos

import (
	"storefront/internal/domain"

	"github.com/jmoiron/sqlx"
)

type PendingRepo struct{ db *sqlx.DB }

func NewPendingRepo(db *sqlx.DB) *PendingRepo { return &PendingRepo{db: db} }

// Replace installs a fresh code for the subject, dropping any prior one.
// Last writer wins on concurrent requests for the same subject.
func (r *PendingRepo) Replace(subjectID, code string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM pending_verifications WHERE subject_id=?`, subjectID); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO pending_verifications(subject_id, code) VALUES(?,?)`, subjectID, code); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PendingRepo) Find(subjectID string) (domain.PendingVerification, error) {
	var p domain.PendingVerification
	err := r.db.Get(&p, `SELECT id, subject_id, code, created_at FROM pending_verifications WHERE subject_id=?`, subjectID)
	return p, err
}

func (r *PendingRepo) Delete(subjectID string) error {
	_, err := r.db.Exec(`DELETE FROM pending_verifications WHERE subject_id=?`, subjectID)
	return err
}
