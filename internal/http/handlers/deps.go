package handlers

import (
	"storefront/internal/blob"
	"storefront/internal/config"
	"storefront/internal/metrics"
	"storefront/internal/repos"
	"storefront/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	AuthHandler     *AuthHandler
	VerifyHandler   *VerifyHandler
	PhoneHandler    *PhoneHandler
	ExternalHandler *ExternalHandler
	ProductHandler  *ProductHandler
	InquiryHandler  *InquiryHandler
	InboxHandler    *InboxHandler

	Auth *services.AuthService
}

func NewDeps(db *sqlx.DB, cfg config.Config, m *metrics.Metrics) (*Deps, error) {
	productRepo := repos.NewProductRepo(db)
	deviceRepo := repos.NewDeviceRepo(db)
	phoneRepo := repos.NewPhoneRepo(db)
	externalRepo := repos.NewExternalRepo(db)
	pendingRepo := repos.NewPendingRepo(db)
	inquiryRepo := repos.NewInquiryRepo(db)
	inboxRepo := repos.NewInboxRepo(db)
	sessionRepo := repos.NewSessionRepo(db)

	authSvc, err := services.NewAuthService(sessionRepo, cfg.OwnerUsername, cfg.OwnerPassword)
	if err != nil {
		return nil, err
	}
	inboxSvc := services.NewInboxService(inboxRepo, m)
	verifySvc := services.NewVerifyService(pendingRepo, inboxSvc, m, cfg.CodeTTL)
	identitySvc := services.NewIdentityService(authSvc, deviceRepo, phoneRepo, externalRepo, cfg.IdentityJWTSecret)
	catalogSvc := services.NewCatalogService(productRepo, blob.New(cfg.MediaDir))
	inquirySvc := services.NewInquiryService(inquiryRepo, inboxSvc, m, cfg.RequireCollection)

	secure := cfg.Production()
	return &Deps{
		AuthHandler: &AuthHandler{Auth: authSvc, Secure: secure},
		VerifyHandler: &VerifyHandler{
			Verify: verifySvc, Devices: deviceRepo, Phones: phoneRepo,
			EchoCodes: cfg.EchoCodes, Secure: secure,
		},
		PhoneHandler: &PhoneHandler{
			Verify: verifySvc, Phones: phoneRepo,
			EchoCodes: cfg.EchoCodes, Secure: secure,
		},
		ExternalHandler: &ExternalHandler{
			Identity: identitySvc, Verify: verifySvc, Externals: externalRepo,
			EchoCodes: cfg.EchoCodes,
		},
		ProductHandler: &ProductHandler{Catalog: catalogSvc},
		InquiryHandler: &InquiryHandler{Identity: identitySvc, Inquiries: inquirySvc, Phones: phoneRepo},
		InboxHandler:   &InboxHandler{Inbox: inboxSvc},
		Auth:           authSvc,
	}, nil
}
