// Package mocks provides gomock implementations of the ports used by the service layer.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	repo := mocks.NewMockProjectRepository(ctrl)
//	repo.EXPECT().Delete(gomock.Any(), int64(7)).Return("Logo Acme", nil)
package mocks

// Content repositories, the site settings store, the contact repository, the content cache
// and the outbound collaborators (mailer, object store, webhook).
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=ports_mock.go github.com/damedesign/portfolio/internal/ports ProjectRepository,FAQRepository,TestimonialRepository,LogoRepository,AboutRepository,SiteSettingsStore,ContactRepository,ContentCache,Mailer,ObjectStore,ContactWebhook
