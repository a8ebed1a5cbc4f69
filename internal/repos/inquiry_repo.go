package repos

import (
	"storefront/internal/domain"

	"github.com/jmoiron/sqlx"
)

type InquiryRepo struct{ db *sqlx.DB }

func NewInquiryRepo(db *sqlx.DB) *InquiryRepo { return &InquiryRepo{db: db} }

const inquiryCols = `
  id, customer_name, customer_phone, product_name, COALESCE(product_id,0) AS product_id,
  quantity, COALESCE(collection_date,'') AS collection_date,
  COALESCE(collection_time,'') AS collection_time, created_at`

func (r *InquiryRepo) Create(in domain.Inquiry) (int64, error) {
	res, err := r.db.Exec(`
      INSERT INTO inquiries(customer_name, customer_phone, product_name, product_id,
                            quantity, collection_date, collection_time)
      VALUES(?,?,?,?,?,NULLIF(?,''),NULLIF(?,''))`,
		in.CustomerName, in.CustomerPhone, in.ProductName, in.ProductID,
		in.Quantity, in.CollectionDate, in.CollectionTime)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *InquiryRepo) ListAll() ([]domain.Inquiry, error) {
	out := []domain.Inquiry{}
	err := r.db.Select(&out, `SELECT`+inquiryCols+` FROM inquiries ORDER BY created_at DESC, id DESC`)
	return out, err
}

func (r *InquiryRepo) ListByPhone(phone string) ([]domain.Inquiry, error) {
	out := []domain.Inquiry{}
	err := r.db.Select(&out,
		`SELECT`+inquiryCols+` FROM inquiries WHERE customer_phone=? ORDER BY created_at DESC, id DESC`,
		phone)
	return out, err
}

// GetForPhone returns the inquiry only when it belongs to the given phone.
func (r *InquiryRepo) GetForPhone(id int64, phone string) (domain.Inquiry, error) {
	var in domain.Inquiry
	err := r.db.Get(&in, `SELECT`+inquiryCols+` FROM inquiries WHERE id=? AND customer_phone=?`, id, phone)
	return in, err
}

func (r *InquiryRepo) Delete(id int64) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM inquiries WHERE id=?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *InquiryRepo) DeleteForPhone(id int64, phone string) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM inquiries WHERE id=? AND customer_phone=?`, id, phone)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
