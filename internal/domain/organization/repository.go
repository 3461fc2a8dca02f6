package organization

import "context"

type OrganizationRepository interface {
	Create(ctx context.Context, name string) (Organization, error)
	GetByID(ctx context.Context, id string) (Organization, error)
	UpdateName(ctx context.Context, id string, name string) (Organization, error)
	ListIDs(ctx context.Context) ([]string, error)
}
