package services

import (
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/metrics"
	"storefront/internal/repos"
)

// InquiryInput is what a customer submits when requesting contact.
type InquiryInput struct {
	ProductID      int64
	ProductName    string
	Quantity       *int64
	CollectionDate string
	CollectionTime string
}

type InquiryService struct {
	Inquiries *repos.InquiryRepo
	Inbox     *InboxService
	M         *metrics.Metrics
	// RequireCollection makes the collection slot mandatory; some
	// deployments take contact requests without an appointment.
	RequireCollection bool
}

func NewInquiryService(inquiries *repos.InquiryRepo, inbox *InboxService, m *metrics.Metrics, requireCollection bool) *InquiryService {
	return &InquiryService{Inquiries: inquiries, Inbox: inbox, M: m, RequireCollection: requireCollection}
}

// Create records a customer's interest and notifies the owner. The caller
// must already hold a resolved Customer identity.
func (s *InquiryService) Create(ident domain.Identity, in InquiryInput) (int64, error) {
	if !ident.IsCustomer() {
		return 0, ErrAuth
	}
	if in.ProductID == 0 || in.ProductName == "" {
		return 0, ErrValidation
	}
	if in.Quantity != nil && *in.Quantity < 1 {
		return 0, ErrValidation
	}
	if s.RequireCollection && (in.CollectionDate == "" || in.CollectionTime == "") {
		return 0, ErrValidation
	}

	inq := domain.Inquiry{
		CustomerName:   ident.Name,
		CustomerPhone:  ident.Phone,
		ProductName:    in.ProductName,
		ProductID:      in.ProductID,
		Quantity:       in.Quantity,
		CollectionDate: in.CollectionDate,
		CollectionTime: in.CollectionTime,
	}
	id, err := s.Inquiries.Create(inq)
	if err != nil {
		return 0, fmt.Errorf("insert inquiry: %w", err)
	}
	inq.ID = id

	if err := s.Inbox.NotifyInquiry(inq); err != nil {
		return 0, err
	}
	if s.M != nil {
		s.M.Inquiries.WithLabelValues("created").Inc()
	}
	return id, nil
}

// ListAll is the owner view, newest-first.
func (s *InquiryService) ListAll() ([]domain.Inquiry, error) { return s.Inquiries.ListAll() }

// ListForCustomer lists a phone customer's own inquiries, newest-first.
// Only the phone scheme supports self-service order views.
func (s *InquiryService) ListForCustomer(phone string) ([]domain.Inquiry, error) {
	return s.Inquiries.ListByPhone(phone)
}

// Acknowledge deletes the inquiry; there is no retained resolved state.
func (s *InquiryService) Acknowledge(id int64) error {
	ok, err := s.Inquiries.Delete(id)
	if err != nil {
		return fmt.Errorf("delete inquiry: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	if s.M != nil {
		s.M.Inquiries.WithLabelValues("acknowledged").Inc()
	}
	return nil
}

// Cancel lets a phone customer withdraw their own inquiry and tells the
// owner. Inquiries belonging to anyone else look absent.
func (s *InquiryService) Cancel(id int64, phone string) error {
	inq, err := s.Inquiries.GetForPhone(id, phone)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load inquiry: %w", err)
	}

	ok, err := s.Inquiries.DeleteForPhone(id, phone)
	if err != nil {
		return fmt.Errorf("delete inquiry: %w", err)
	}
	if !ok {
		return ErrNotFound
	}

	if err := s.Inbox.NotifyCancellation(inq); err != nil {
		return err
	}
	if s.M != nil {
		s.M.Inquiries.WithLabelValues("canceled").Inc()
	}
	return nil
}
