package services

import (
	"storefront/internal/domain"
	"storefront/internal/repos"

	"github.com/golang-jwt/jwt/v5"
)

// Credentials carries everything a request may present to prove who it is.
type Credentials struct {
	OwnerToken    string // owner_session cookie
	IdentityToken string // bearer token from the external identity provider
	Phone         string // customer_phone cookie
	DeviceID      string // device_id cookie
}

// IdentityService unifies the three customer onboarding schemes and the
// owner login into one resolution chain. It is the only place that knows
// which scheme produced a customer profile.
type IdentityService struct {
	Auth      *AuthService
	Devices   *repos.DeviceRepo
	Phones    *repos.PhoneRepo
	Externals *repos.ExternalRepo

	jwtSecret []byte
}

func NewIdentityService(auth *AuthService, devices *repos.DeviceRepo, phones *repos.PhoneRepo,
	externals *repos.ExternalRepo, jwtSecret string) *IdentityService {
	return &IdentityService{
		Auth:      auth,
		Devices:   devices,
		Phones:    phones,
		Externals: externals,
		jwtSecret: []byte(jwtSecret),
	}
}

// ExternalSubject validates the identity-provider token and returns the
// external user id from its subject claim. An invalid token is treated
// exactly like an absent one.
func (s *IdentityService) ExternalSubject(token string) (string, bool) {
	if token == "" {
		return "", false
	}
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return "", false
	}
	sub, err := parsed.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", false
	}
	return sub, true
}

// Resolve maps request credentials to exactly one identity. First match
// wins; an authenticated-but-unregistered external identity resolves to
// Anonymous without falling through to the cookie schemes, so the caller
// can redirect it to onboarding.
func (s *IdentityService) Resolve(cr Credentials) domain.Identity {
	if s.Auth.ValidSession(cr.OwnerToken) {
		return domain.Owner()
	}

	if extID, ok := s.ExternalSubject(cr.IdentityToken); ok {
		if u, err := s.Externals.Get(extID); err == nil {
			return domain.Customer(u.Name, u.Phone)
		}
		return domain.Anonymous()
	}

	if cr.Phone != "" {
		if u, err := s.Phones.Get(cr.Phone); err == nil {
			return domain.Customer(u.Name, u.Phone)
		}
	}

	if cr.DeviceID != "" {
		if d, err := s.Devices.Get(cr.DeviceID); err == nil && d.Onboarded() {
			return domain.Customer(d.Name, d.Phone)
		}
	}

	return domain.Anonymous()
}
