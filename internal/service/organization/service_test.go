package organization

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/organization"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/jwt/jwttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrgRepo struct {
	organization.OrganizationRepository
	org organization.Organization
}

func (f *fakeOrgRepo) GetByID(ctx context.Context, id string) (organization.Organization, error) {
	if id != f.org.ID {
		return organization.Organization{}, organization.ErrOrganizationNotFound
	}
	return f.org, nil
}

func (f *fakeOrgRepo) UpdateName(ctx context.Context, id string, name string) (organization.Organization, error) {
	if id != f.org.ID {
		return organization.Organization{}, organization.ErrOrganizationNotFound
	}
	f.org.Name = name
	return f.org, nil
}

type fakeUserRepo struct {
	user.UserRepository
	users []user.User
}

func (f *fakeUserRepo) ListByOrganization(ctx context.Context, organizationID string, roles ...user.Role) ([]user.User, error) {
	var out []user.User
	for _, u := range f.users {
		if u.OrganizationID == organizationID {
			out = append(out, u)
		}
	}
	return out, nil
}

func newService() (*fakeOrgRepo, organization.OrganizationService) {
	orgs := &fakeOrgRepo{org: organization.Organization{ID: "org-1", Name: "Acme", CreatedAt: time.Now()}}
	googleID := "g-1"
	users := &fakeUserRepo{users: []user.User{
		{ID: "u-1", OrganizationID: "org-1", Name: "Ana", Email: "ana@acme.com", Role: user.RoleOwner, OAuthProviderID: &googleID},
		{ID: "u-2", OrganizationID: "org-1", Name: "Bia", Email: "bia@acme.com", Role: user.RoleViewer},
		{ID: "u-3", OrganizationID: "org-2", Name: "Caio", Email: "caio@other.com", Role: user.RoleOwner},
	}}
	return orgs, NewOrganizationService(orgs, users)
}

func TestOrganizationService_GetMine(t *testing.T) {
	_, svc := newService()
	ctx := jwttest.Context(t, context.Background(), "u-2", "org-1", user.RoleViewer)

	resp, err := svc.GetMine(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Acme", resp.Name)
}

func TestOrganizationService_UpdateMine(t *testing.T) {
	orgs, svc := newService()

	ownerCtx := jwttest.Context(t, context.Background(), "u-1", "org-1", user.RoleOwner)
	resp, err := svc.UpdateMine(ownerCtx, organization.UpdateOrganizationRequest{Name: "  Acme Brasil "})
	require.NoError(t, err)
	assert.Equal(t, "Acme Brasil", resp.Name)
	assert.Equal(t, "Acme Brasil", orgs.org.Name)

	hrCtx := jwttest.Context(t, context.Background(), "u-4", "org-1", user.RoleHR)
	_, err = svc.UpdateMine(hrCtx, organization.UpdateOrganizationRequest{Name: "Hijack"})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
}

func TestOrganizationService_ListMembers(t *testing.T) {
	_, svc := newService()
	ctx := jwttest.Context(t, context.Background(), "u-1", "org-1", user.RoleOwner)

	members, err := svc.ListMembers(ctx)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.True(t, members[0].GoogleLinked)
	assert.Equal(t, "viewer", members[1].Role)
}
