package repos

import (
	"storefront/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  id, name, COALESCE(description,'') AS description, price,
  COALESCE(image_path,'') AS image_path, created_at`

// List returns products newest-first. A non-empty q filters on
// name/description, case-insensitive.
func (r *ProductRepo) List(q string) ([]domain.Product, error) {
	out := []domain.Product{}
	if q == "" {
		err := r.db.Select(&out, `SELECT`+productCols+` FROM products ORDER BY created_at DESC, id DESC`)
		return out, err
	}
	like := "%" + q + "%"
	err := r.db.Select(&out, `
      SELECT`+productCols+`
      FROM products
      WHERE LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)
      ORDER BY created_at DESC, id DESC`, like, like)
	return out, err
}

func (r *ProductRepo) Get(id int64) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT`+productCols+` FROM products WHERE id=?`, id)
	return p, err
}

func (r *ProductRepo) Create(name, description string, price float64, imagePath string) (int64, error) {
	res, err := r.db.Exec(
		`INSERT INTO products(name, description, price, image_path) VALUES(?,?,?,NULLIF(?,''))`,
		name, description, price, imagePath)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Delete removes the product row. Historical inquiries keep their
// denormalized product name; nothing cascades.
func (r *ProductRepo) Delete(id int64) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM products WHERE id=?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
