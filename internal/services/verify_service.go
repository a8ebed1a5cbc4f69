package services

import (
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"storefront/internal/metrics"
	"storefront/internal/repos"
)

// VerifyService issues and checks short-lived numeric codes bound to a
// subject identifier (device id, phone number, or ext_<id>). Checking and
// consuming are separate calls: the legacy device flow verifies the code
// once at /verify/code and again at onboarding, and only onboarding consumes.
type VerifyService struct {
	Pending *repos.PendingRepo
	Inbox   *InboxService
	M       *metrics.Metrics
	// TTL bounds code validity; zero means codes live until replaced or
	// consumed, matching the original behavior.
	TTL time.Duration
}

func NewVerifyService(pending *repos.PendingRepo, inbox *InboxService, m *metrics.Metrics, ttl time.Duration) *VerifyService {
	return &VerifyService{Pending: pending, Inbox: inbox, M: m, TTL: ttl}
}

// GenerateCode returns a uniform 4-digit code in [1000,9999].
func GenerateCode() string {
	return strconv.Itoa(1000 + rand.IntN(9000))
}

// RequestCode replaces any pending code for the subject and posts the new
// one to the owner inbox. Exactly one pending row exists afterwards.
func (s *VerifyService) RequestCode(subjectID, scheme string) (string, error) {
	code := GenerateCode()
	if err := s.Pending.Replace(subjectID, code); err != nil {
		return "", fmt.Errorf("store pending verification: %w", err)
	}
	if err := s.Inbox.NotifyVerificationCode(subjectID, code); err != nil {
		return "", err
	}
	if s.M != nil {
		s.M.CodesIssued.WithLabelValues(scheme).Inc()
	}
	return code, nil
}

// VerifyCode reports whether the submitted code matches the live pending
// code for the subject. Unknown subjects and wrong codes are
// indistinguishable. Does not consume the code.
func (s *VerifyService) VerifyCode(subjectID, submitted string) (bool, error) {
	p, err := s.Pending.Find(subjectID)
	if errors.Is(err, sql.ErrNoRows) {
		s.count("miss")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load pending verification: %w", err)
	}
	if p.Code != submitted {
		s.count("mismatch")
		return false, nil
	}
	if s.TTL > 0 {
		issued, err := time.Parse("2006-01-02 15:04:05", p.CreatedAt)
		if err == nil && time.Since(issued.UTC()) > s.TTL {
			s.count("expired")
			return false, nil
		}
	}
	s.count("ok")
	return true, nil
}

// Consume deletes the pending code once onboarding succeeds.
func (s *VerifyService) Consume(subjectID string) error {
	return s.Pending.Delete(subjectID)
}

func (s *VerifyService) count(outcome string) {
	if s.M != nil {
		s.M.CodeVerifications.WithLabelValues(outcome).Inc()
	}
}
