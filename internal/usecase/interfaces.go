package usecase

import (
	"context"

	"github.com/xavierca1/plouf-crm/internal/entity"
	"github.com/xavierca1/plouf-crm/internal/infra/integration/crm"
)

// AuthGateway is the account side of the CRM backend.
type AuthGateway interface {
	Authenticate(ctx context.Context, username, password string) (string, error)
	Me(ctx context.Context, token string) (*entity.User, error)
	UpdateMe(ctx context.Context, token string, u entity.User) error
	ChangePassword(ctx context.Context, token, oldPassword, newPassword string) (entity.PasswordChangeResult, error)
}

// ContactGateway reads and writes contact records.
type ContactGateway interface {
	ListContacts(ctx context.Context, token string, q crm.ContactsQuery) (*crm.ContactsPage, error)
	UpdateContact(ctx context.Context, token string, c entity.Contact) error
	NextProspect(ctx context.Context, token string) (*entity.Contact, error)
}

// StatsGateway serves the read-only aggregate endpoints.
type StatsGateway interface {
	Stats(ctx context.Context, token string) (*entity.Stats, error)
	HomeMetrics(ctx context.Context, token string) (*entity.HomeMetrics, error)
}

// TokenStore persists the bearer token between requests.
type TokenStore interface {
	Token() (string, bool)
	Save(token string)
	Clear()
}
