package services

import (
	"database/sql"
	"errors"
	"fmt"
	"mime/multipart"

	"storefront/internal/blob"
	"storefront/internal/domain"
	"storefront/internal/repos"
)

type CatalogService struct {
	Products *repos.ProductRepo
	Images   *blob.Store
}

func NewCatalogService(products *repos.ProductRepo, images *blob.Store) *CatalogService {
	return &CatalogService{Products: products, Images: images}
}

func (s *CatalogService) List(q string) ([]domain.Product, error) {
	return s.Products.List(q)
}

func (s *CatalogService) Get(id int64) (domain.Product, error) {
	p, err := s.Products.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	return p, err
}

// Create stores the optional image first, then the row. An image write
// that succeeds before a failed insert leaves an orphaned file; the blob
// store has no transactional link to the row.
func (s *CatalogService) Create(name, description string, price float64, image *multipart.FileHeader) (int64, error) {
	if name == "" || price < 0 {
		return 0, ErrValidation
	}

	var imagePath string
	if image != nil && image.Size > 0 {
		p, err := s.Images.Save(image)
		if err != nil {
			return 0, fmt.Errorf("save product image: %w", err)
		}
		imagePath = p
	}

	id, err := s.Products.Create(name, description, price, imagePath)
	if err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}
	return id, nil
}

// Delete removes the product. Image cleanup is best-effort; the row
// deletion is authoritative and proceeds regardless.
func (s *CatalogService) Delete(id int64) error {
	p, err := s.Products.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load product: %w", err)
	}

	if p.ImagePath != "" {
		_ = s.Images.Delete(p.ImagePath)
	}

	ok, err := s.Products.Delete(id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
