package services

import (
	"encoding/json"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/metrics"
	"storefront/internal/repos"
)

// InboxService is the sole notification surface: verification codes and
// inquiry events reach the owner only as durable inbox rows. A real
// email/SMS transport would hang off this service.
type InboxService struct {
	Inbox *repos.InboxRepo
	M     *metrics.Metrics
}

func NewInboxService(inbox *repos.InboxRepo, m *metrics.Metrics) *InboxService {
	return &InboxService{Inbox: inbox, M: m}
}

func (s *InboxService) Post(msgType, title, content string, metadata map[string]any) error {
	var meta string
	if len(metadata) > 0 {
		b, err := json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
		meta = string(b)
	}
	if _, err := s.Inbox.Insert(msgType, title, content, meta); err != nil {
		return fmt.Errorf("insert owner message: %w", err)
	}
	if s.M != nil {
		s.M.InboxMessages.WithLabelValues(msgType).Inc()
	}
	return nil
}

func (s *InboxService) List() ([]domain.OwnerMessage, error) { return s.Inbox.ListAll() }

func (s *InboxService) UnreadCount() (int, error) { return s.Inbox.UnreadCount() }

func (s *InboxService) MarkRead(id int64) error { return s.Inbox.MarkRead(id) }

func (s *InboxService) MarkAllRead() error { return s.Inbox.MarkAllRead() }

func (s *InboxService) Delete(id int64) error {
	ok, err := s.Inbox.Delete(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// NotifyVerificationCode delivers a new code to the owner. The inbox row
// is the only persisted copy of the code.
func (s *InboxService) NotifyVerificationCode(subjectID, code string) error {
	short := subjectID
	if len(short) > 8 {
		short = short[:8] + "..."
	}
	content := fmt.Sprintf(
		"A new customer is requesting access to your store.\n\nVerification Code: %s\n\nSubject: %s",
		code, short)
	return s.Post(domain.MessageTypeVerification, "New Verification Request", content,
		map[string]any{"code": code, "subjectId": subjectID})
}

func (s *InboxService) NotifyInquiry(in domain.Inquiry) error {
	content := fmt.Sprintf("%s is interested in %q.\n\nContact them at: %s",
		in.CustomerName, in.ProductName, in.CustomerPhone)
	if in.Quantity != nil {
		content += fmt.Sprintf("\nQuantity: %d", *in.Quantity)
	}
	if in.CollectionDate != "" || in.CollectionTime != "" {
		content += fmt.Sprintf("\nCollection: %s %s", in.CollectionDate, in.CollectionTime)
	}
	return s.Post(domain.MessageTypeInquiry, "Product Inquiry: "+in.ProductName, content,
		map[string]any{
			"customerName":  in.CustomerName,
			"customerPhone": in.CustomerPhone,
			"productName":   in.ProductName,
		})
}

func (s *InboxService) NotifyCancellation(in domain.Inquiry) error {
	qty := int64(1)
	if in.Quantity != nil {
		qty = *in.Quantity
	}
	content := fmt.Sprintf("%s canceled their order for %dx %q.\n\nContact: %s",
		in.CustomerName, qty, in.ProductName, in.CustomerPhone)
	return s.Post(domain.MessageTypeInquiry, "Order Canceled: "+in.ProductName, content,
		map[string]any{
			"customerName":  in.CustomerName,
			"customerPhone": in.CustomerPhone,
			"productName":   in.ProductName,
			"quantity":      qty,
		})
}
