package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/shipment"
	"github.com/cmlabs-hris/gifting-backend-go/internal/repository/postgresql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shipmentColumns = []string{
	"id", "organization_id", "employee_id", "year", "status", "trigger_date", "birthday_date",
	"gift_id", "sent_at", "delivered_at", "cancelled_at", "notes", "created_at", "updated_at",
}

func shipmentRow(id string, status shipment.Status, trigger time.Time) []interface{} {
	now := time.Now().UTC()
	return []interface{}{
		id, "org-1", "e-1", 2025, status, trigger, trigger.AddDate(0, 0, 9),
		(*string)(nil), (*time.Time)(nil), (*time.Time)(nil), (*time.Time)(nil), (*string)(nil), now, now,
	}
}

func TestShipmentRepository_CreateMissing(t *testing.T) {
	mock, db := newMock(t)
	repo := postgresql.NewShipmentRepository(db)
	trigger := time.Date(2025, 2, 25, 0, 0, 0, 0, time.UTC)
	birthday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`VALUES \(\$1, \$2, \$3, \$4, \$5, \$6\), \(\$7, \$8, \$9, \$10, \$11, \$12\)\s+ON CONFLICT ON CONSTRAINT gift_shipments_employee_year_key DO NOTHING`).
		WithArgs(
			"org-1", "e-1", 2025, shipment.StatusPending, trigger, birthday,
			"org-1", "e-2", 2025, shipment.StatusPending, trigger, birthday,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	created, err := repo.CreateMissing(context.Background(), []shipment.GiftShipment{
		{OrganizationID: "org-1", EmployeeID: "e-1", Year: 2025, TriggerDate: trigger, BirthdayDate: birthday},
		{OrganizationID: "org-1", EmployeeID: "e-2", Year: 2025, TriggerDate: trigger, BirthdayDate: birthday},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShipmentRepository_CreateMissing_Empty(t *testing.T) {
	mock, db := newMock(t)
	repo := postgresql.NewShipmentRepository(db)

	created, err := repo.CreateMissing(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShipmentRepository_Create_Duplicate(t *testing.T) {
	mock, db := newMock(t)
	repo := postgresql.NewShipmentRepository(db)

	mock.ExpectQuery(`INSERT INTO gift_shipments`).WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), shipment.GiftShipment{OrganizationID: "org-1", EmployeeID: "e-1", Year: 2025})
	assert.ErrorIs(t, err, shipment.ErrShipmentExists)
}

func TestShipmentRepository_GetByID(t *testing.T) {
	mock, db := newMock(t)
	repo := postgresql.NewShipmentRepository(db)
	trigger := time.Date(2025, 2, 25, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM gift_shipments s WHERE s.id = \$1 AND s.organization_id = \$2`).
		WithArgs("s-1", "org-1").
		WillReturnRows(pgxmock.NewRows(shipmentColumns).AddRow(shipmentRow("s-1", shipment.StatusReadyToShip, trigger)...))
	mock.ExpectQuery(`FROM gift_shipments s WHERE s.id = \$1`).WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByID(context.Background(), "org-1", "s-1")
	require.NoError(t, err)
	assert.Equal(t, shipment.StatusReadyToShip, got.Status)
	assert.Equal(t, trigger, got.TriggerDate)

	_, err = repo.GetByID(context.Background(), "org-1", "s-2")
	assert.ErrorIs(t, err, shipment.ErrShipmentNotFound)
}

func TestShipmentRepository_Update_UnknownGift(t *testing.T) {
	mock, db := newMock(t)
	repo := postgresql.NewShipmentRepository(db)

	mock.ExpectQuery(`UPDATE gift_shipments AS s`).WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	_, err := repo.Update(context.Background(), shipment.GiftShipment{ID: "s-1", OrganizationID: "org-1", Status: shipment.StatusPending, GiftID: strPtr("g-x")}, shipment.StatusPending)
	assert.ErrorIs(t, err, shipment.ErrGiftNotAvailable)
}

func TestShipmentRepository_Update_GuardsExpectedStatus(t *testing.T) {
	mock, db := newMock(t)
	repo := postgresql.NewShipmentRepository(db)
	trigger := time.Date(2025, 2, 25, 0, 0, 0, 0, time.UTC)
	sh := shipment.GiftShipment{
		ID:             "s-1",
		OrganizationID: "org-1",
		Status:         shipment.StatusReadyToShip,
		TriggerDate:    trigger,
		BirthdayDate:   trigger.AddDate(0, 0, 9),
	}

	mock.ExpectQuery(`(?s)UPDATE gift_shipments AS s\s+SET status = \$4.*WHERE s.id = \$1 AND s.organization_id = \$2 AND s.status = \$3`).
		WithArgs("s-1", "org-1", shipment.StatusPending, shipment.StatusReadyToShip,
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(shipmentColumns).AddRow(shipmentRow("s-1", shipment.StatusReadyToShip, trigger)...))

	updated, err := repo.Update(context.Background(), sh, shipment.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, shipment.StatusReadyToShip, updated.Status)

	// a concurrent cancel already moved the row out of pending
	mock.ExpectQuery(`AND s.status = \$3`).
		WithArgs("s-1", "org-1", shipment.StatusPending, shipment.StatusReadyToShip,
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.Update(context.Background(), sh, shipment.StatusPending)
	assert.ErrorIs(t, err, shipment.ErrShipmentChanged)
	assert.ErrorIs(t, err, shipment.ErrInvalidTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShipmentRepository_ListDue(t *testing.T) {
	mock, db := newMock(t)
	repo := postgresql.NewShipmentRepository(db)
	day := time.Date(2025, 2, 25, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`WHERE s.status = 'pending' AND s.trigger_date <= \$1 AND s.birthday_date >= \$1 AND e.is_active`).
		WithArgs(day, (*string)(nil)).
		WillReturnRows(pgxmock.NewRows(shipmentColumns).
			AddRow(shipmentRow("s-1", shipment.StatusPending, day)...).
			AddRow(shipmentRow("s-2", shipment.StatusPending, day.AddDate(0, 0, -3))...))

	due, err := repo.ListDue(context.Background(), day, nil)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "s-2", due[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShipmentRepository_ListDue_OrganizationFilterInSQL(t *testing.T) {
	mock, db := newMock(t)
	repo := postgresql.NewShipmentRepository(db)
	day := time.Date(2025, 2, 25, 0, 0, 0, 0, time.UTC)
	org := "org-1"

	mock.ExpectQuery(`AND \(\$2::uuid IS NULL OR s.organization_id = \$2::uuid\)`).
		WithArgs(day, &org).
		WillReturnRows(pgxmock.NewRows(shipmentColumns).AddRow(shipmentRow("s-1", shipment.StatusPending, day)...))

	due, err := repo.ListDue(context.Background(), day, &org)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShipmentRepository_ListPendingByBirthday(t *testing.T) {
	mock, db := newMock(t)
	repo := postgresql.NewShipmentRepository(db)
	from := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 8, 9, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`WHERE s.organization_id = \$1 AND s.status = 'pending' AND s.birthday_date BETWEEN \$2 AND \$3`).
		WithArgs("org-1", from, to).
		WillReturnRows(pgxmock.NewRows(shipmentColumns).AddRow(shipmentRow("s-1", shipment.StatusPending, from)...))

	pending, err := repo.ListPendingByBirthday(context.Background(), "org-1", from, to)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
