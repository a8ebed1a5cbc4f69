package repos

import (
	"storefront/internal/domain"

	"github.com/jmoiron/sqlx"
)

type InboxRepo struct{ db *sqlx.DB }

func NewInboxRepo(db *sqlx.DB) *InboxRepo { return &InboxRepo{db: db} }

// Insert appends a message; new messages are always unread.
func (r *InboxRepo) Insert(msgType, title, content, metadata string) (int64, error) {
	res, err := r.db.Exec(
		`INSERT INTO owner_messages(type, title, content, metadata) VALUES(?,?,?,NULLIF(?,''))`,
		msgType, title, content, metadata)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *InboxRepo) ListAll() ([]domain.OwnerMessage, error) {
	out := []domain.OwnerMessage{}
	err := r.db.Select(&out, `
      SELECT id, type, title, content, COALESCE(metadata,'') AS metadata, is_read, created_at
      FROM owner_messages ORDER BY created_at DESC, id DESC`)
	return out, err
}

func (r *InboxRepo) UnreadCount() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM owner_messages WHERE is_read=0`)
	return n, err
}

func (r *InboxRepo) MarkRead(id int64) error {
	_, err := r.db.Exec(`UPDATE owner_messages SET is_read=1 WHERE id=?`, id)
	return err
}

func (r *InboxRepo) MarkAllRead() error {
	_, err := r.db.Exec(`UPDATE owner_messages SET is_read=1`)
	return err
}

func (r *InboxRepo) Delete(id int64) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM owner_messages WHERE id=?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
