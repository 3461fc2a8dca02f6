package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/jwt/jwttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	statsErr error
	gotToday time.Time
	gotYear  int
	gotUntil time.Time
}

func (f *fakeRepo) GetEmployeeStats(ctx context.Context, organizationID string, today time.Time) (dashboard.EmployeeStats, error) {
	f.gotToday = today
	return dashboard.EmployeeStats{Active: 10, Inactive: 2, BirthdaysThisMonth: 3, NewLast30Days: 1}, f.statsErr
}

func (f *fakeRepo) GetShipmentStatusCounts(ctx context.Context, organizationID string, year int) ([]dashboard.ShipmentStatusCount, error) {
	f.gotYear = year
	return []dashboard.ShipmentStatusCount{{Status: "pending", Count: 4}, {Status: "delivered", Count: 6}}, nil
}

func (f *fakeRepo) GetDueShipments(ctx context.Context, organizationID string, until time.Time, limit int) ([]dashboard.DueShipment, error) {
	f.gotUntil = until
	return []dashboard.DueShipment{{
		ShipmentID: "s-1", EmployeeName: "Ana", Status: "pending",
		TriggerDate: time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), BirthdayDate: time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
	}}, nil
}

type fakeEmployees struct {
	employee.EmployeeService
}

func (fakeEmployees) UpcomingBirthdays(ctx context.Context, req employee.UpcomingBirthdaysRequest) ([]employee.UpcomingBirthdayResponse, error) {
	return []employee.UpcomingBirthdayResponse{{FullName: "Ana", DaysUntil: 11}}, nil
}

type fakeNotifications struct {
	notification.Service
	gotUser string
}

func (f *fakeNotifications) GetUnreadCount(ctx context.Context, userID string) (int, error) {
	f.gotUser = userID
	return 5, nil
}

func TestGetDashboard(t *testing.T) {
	repo := &fakeRepo{}
	notes := &fakeNotifications{}
	svc := NewDashboardService(repo, fakeEmployees{}, notes, time.FixedZone("BRT", -3*60*60)).(*DashboardServiceImpl)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 1, 30, 0, 0, time.UTC) }

	ctx := jwttest.Context(t, context.Background(), "u-7", "org-1", user.RoleViewer)
	got, err := svc.GetDashboard(ctx)
	require.NoError(t, err)

	// 01:30 UTC is still May 31 in Brazil
	assert.Equal(t, time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC), repo.gotToday)
	assert.Equal(t, time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC), repo.gotUntil)
	assert.Equal(t, 2025, repo.gotYear)
	assert.Equal(t, "u-7", notes.gotUser)

	assert.Equal(t, int64(10), got.EmployeeSummary.ActiveEmployees)
	assert.Equal(t, dashboard.ShipmentSummaryResponse{Year: 2025, Pending: 4, Delivered: 6}, got.ShipmentSummary)
	require.Len(t, got.DueSoon, 1)
	assert.Equal(t, "2025-06-03", got.DueSoon[0].TriggerDate)
	assert.Len(t, got.UpcomingBirthdays, 1)
	assert.Equal(t, 5, got.UnreadNotification)
	assert.Equal(t, "2025-05-31T22:30:00-03:00", got.GeneratedAt)
}

func TestGetDashboard_PropagatesErrors(t *testing.T) {
	svc := NewDashboardService(&fakeRepo{statsErr: errors.New("db down")}, fakeEmployees{}, &fakeNotifications{}, nil)

	ctx := jwttest.Context(t, context.Background(), "u-7", "org-1", user.RoleOwner)
	_, err := svc.GetDashboard(ctx)
	assert.EqualError(t, err, "db down")

	_, err = svc.GetDashboard(context.Background())
	assert.Error(t, err)
}
