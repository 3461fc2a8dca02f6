package invitation

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/config"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/invitation"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/organization"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/jwt/jwttest"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const invID = "44444444-4444-4444-8444-444444444444"

type fakeInvitationRepo struct {
	invitation.InvitationRepository
	byID map[string]invitation.Invitation
}

func (f *fakeInvitationRepo) Create(ctx context.Context, inv invitation.Invitation) (invitation.Invitation, error) {
	inv.ID = invID
	inv.CreatedAt = time.Now()
	f.byID[inv.ID] = inv
	return inv, nil
}

func (f *fakeInvitationRepo) GetByTokenWithDetails(ctx context.Context, token string) (invitation.InvitationWithDetails, error) {
	for _, inv := range f.byID {
		if inv.Token == token {
			return invitation.InvitationWithDetails{Invitation: inv, OrganizationName: "Acme", InviterName: "Ana"}, nil
		}
	}
	return invitation.InvitationWithDetails{}, invitation.ErrInvitationNotFound
}

func (f *fakeInvitationRepo) GetByID(ctx context.Context, organizationID, id string) (invitation.Invitation, error) {
	inv, ok := f.byID[id]
	if !ok || inv.OrganizationID != organizationID {
		return invitation.Invitation{}, invitation.ErrInvitationNotFound
	}
	return inv, nil
}

func (f *fakeInvitationRepo) ExistsPendingByEmail(ctx context.Context, email, organizationID string) (bool, error) {
	for _, inv := range f.byID {
		if inv.Email == email && inv.OrganizationID == organizationID && inv.Status == invitation.StatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeInvitationRepo) MarkAccepted(ctx context.Context, id string) error {
	inv := f.byID[id]
	if inv.Status != invitation.StatusPending {
		return invitation.ErrInvitationNotFound
	}
	inv.Status = invitation.StatusAccepted
	f.byID[id] = inv
	return nil
}

func (f *fakeInvitationRepo) MarkRevoked(ctx context.Context, id string) error {
	inv := f.byID[id]
	inv.Status = invitation.StatusRevoked
	f.byID[id] = inv
	return nil
}

type fakeUserRepo struct {
	user.UserRepository
	users []user.User
}

func (f *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	u.ID = "u-new"
	f.users = append(f.users, u)
	return u, nil
}

type fakeOrgRepo struct {
	organization.OrganizationRepository
}

func (fakeOrgRepo) GetByID(ctx context.Context, id string) (organization.Organization, error) {
	return organization.Organization{ID: id, Name: "Acme"}, nil
}

type sentInvite struct {
	to, inviter, org, link string
}

type fakeMailer struct {
	email.EmailService
	sent []sentInvite
}

func (f *fakeMailer) SendInvitation(to, inviteeName, inviterName, organizationName, role, invitationLink, expiresAt string) error {
	f.sent = append(f.sent, sentInvite{to: to, inviter: inviterName, org: organizationName, link: invitationLink})
	return nil
}

type fixture struct {
	mock        pgxmock.PgxPoolIface
	svc         *InvitationServiceImpl
	invitations *fakeInvitationRepo
	users       *fakeUserRepo
	mailer      *fakeMailer
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	f := fixture{
		mock:        mock,
		invitations: &fakeInvitationRepo{byID: make(map[string]invitation.Invitation)},
		users:       &fakeUserRepo{users: []user.User{{ID: "u-owner", OrganizationID: "org-1", Name: "Ana", Email: "ana@acme.com", Role: user.RoleOwner}}},
		mailer:      &fakeMailer{},
	}
	svc := NewInvitationService(database.New(mock), f.invitations, f.users, fakeOrgRepo{}, f.mailer, config.InvitationConfig{BaseURL: "https://app.acme.com"})
	f.svc = svc.(*InvitationServiceImpl)
	f.svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return f
}

func ownerCtx(t *testing.T) context.Context {
	return jwttest.Context(t, context.Background(), "u-owner", "org-1", user.RoleOwner)
}

func TestCreate_SendsLinkWithToken(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Create(ownerCtx(t), invitation.CreateRequest{Email: " Bia@Acme.com", Name: "Bia", Role: user.RoleHR})
	require.NoError(t, err)
	assert.Equal(t, "bia@acme.com", resp.Email)
	assert.Equal(t, invitation.StatusPending, resp.Status)
	assert.Equal(t, time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC), resp.ExpiresAt)

	stored := f.invitations.byID[invID]
	assert.Len(t, stored.Token, 64)

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "https://app.acme.com/invite/"+stored.Token, f.mailer.sent[0].link)
	assert.Equal(t, "Ana", f.mailer.sent[0].inviter)
	assert.Equal(t, "Acme", f.mailer.sent[0].org)

	_, err = f.svc.Create(ownerCtx(t), invitation.CreateRequest{Email: "bia@acme.com", Role: user.RoleViewer})
	assert.ErrorIs(t, err, invitation.ErrEmailAlreadyInvited)
}

func TestCreate_Rejections(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(ownerCtx(t), invitation.CreateRequest{Email: "x@acme.com", Role: user.RoleOwner})
	assert.ErrorIs(t, err, invitation.ErrCannotInviteOwner)

	_, err = f.svc.Create(ownerCtx(t), invitation.CreateRequest{Email: "ana@acme.com", Role: user.RoleHR})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)

	hr := jwttest.Context(t, context.Background(), "u-hr", "org-1", user.RoleHR)
	_, err = f.svc.Create(hr, invitation.CreateRequest{Email: "x@acme.com", Role: user.RoleViewer})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
}

func seed(f fixture, status invitation.Status, expires time.Time) {
	f.invitations.byID[invID] = invitation.Invitation{
		ID: invID, OrganizationID: "org-1", Email: "bia@acme.com", Name: "Bia", Token: "tok",
		Role: user.RoleViewer, Status: status, ExpiresAt: expires,
	}
}

func TestGetByToken_States(t *testing.T) {
	f := newFixture(t)
	future := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)

	seed(f, invitation.StatusPending, future)
	detail, err := f.svc.GetByToken(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "Acme", detail.OrganizationName)

	seed(f, invitation.StatusPending, time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC))
	_, err = f.svc.GetByToken(context.Background(), "tok")
	assert.ErrorIs(t, err, invitation.ErrInvitationExpired)

	seed(f, invitation.StatusAccepted, future)
	_, err = f.svc.GetByToken(context.Background(), "tok")
	assert.ErrorIs(t, err, invitation.ErrInvitationAlreadyUsed)

	seed(f, invitation.StatusRevoked, future)
	_, err = f.svc.GetByToken(context.Background(), "tok")
	assert.ErrorIs(t, err, invitation.ErrInvitationRevoked)

	_, err = f.svc.GetByToken(context.Background(), "unknown")
	assert.ErrorIs(t, err, invitation.ErrInvitationNotFound)
}

func TestAccept_CreatesUser(t *testing.T) {
	f := newFixture(t)
	seed(f, invitation.StatusPending, time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC))
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	resp, err := f.svc.Accept(context.Background(), invitation.AcceptRequest{Token: "tok", Password: "s3cret-pass", ConfirmPassword: "s3cret-pass"})
	require.NoError(t, err)
	require.NoError(t, f.mock.ExpectationsWereMet())
	assert.Equal(t, "u-new", resp.UserID)
	assert.Equal(t, user.RoleViewer, resp.Role)
	assert.Equal(t, "Acme", resp.OrganizationName)

	created := f.users.users[len(f.users.users)-1]
	assert.Equal(t, "Bia", created.Name)
	assert.Equal(t, "org-1", created.OrganizationID)
	require.NotNil(t, created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*created.PasswordHash), []byte("s3cret-pass")))
	assert.True(t, strings.HasPrefix(*created.PasswordHash, "$2"))
	assert.Equal(t, invitation.StatusAccepted, f.invitations.byID[invID].Status)

	_, err = f.svc.Accept(context.Background(), invitation.AcceptRequest{Token: "tok", Password: "s3cret-pass", ConfirmPassword: "s3cret-pass"})
	assert.ErrorIs(t, err, invitation.ErrInvitationAlreadyUsed)
}

func TestRevoke(t *testing.T) {
	f := newFixture(t)
	seed(f, invitation.StatusPending, time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC))

	require.NoError(t, f.svc.Revoke(ownerCtx(t), invID))
	assert.Equal(t, invitation.StatusRevoked, f.invitations.byID[invID].Status)
	assert.ErrorIs(t, f.svc.Revoke(ownerCtx(t), invID), invitation.ErrInvitationRevoked)

	seed(f, invitation.StatusAccepted, time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, f.svc.Revoke(ownerCtx(t), invID), invitation.ErrCannotRevokeAccepted)

	other := jwttest.Context(t, context.Background(), "u-x", "org-2", user.RoleOwner)
	assert.ErrorIs(t, f.svc.Revoke(other, invID), invitation.ErrInvitationNotFound)
}
