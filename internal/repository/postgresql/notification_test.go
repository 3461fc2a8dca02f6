package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/gifting-backend-go/internal/repository/postgresql"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var notificationColumns = []string{
	"id", "organization_id", "recipient_id", "type", "title", "message", "data", "is_read", "read_at", "created_at",
}

func TestNotificationRepository_CreateBatch(t *testing.T) {
	mock, db := newMock(t)
	repo := postgresql.NewNotificationRepository(db)

	mock.ExpectExec(`(?s)INSERT INTO notifications .*VALUES \(\$1, .*\$9\), \(\$10, .*\$18\)`).
		WithArgs(
			"n-1", "org-1", "u-1", notification.TypeShipmentReady, "a", "b", pgxmock.AnyArg(), false, pgxmock.AnyArg(),
			pgxmock.AnyArg(), "org-1", "u-2", notification.TypeShipmentReady, "a", "b", pgxmock.AnyArg(), false, pgxmock.AnyArg(),
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))

	second := &notification.Notification{OrganizationID: "org-1", RecipientID: "u-2", Type: notification.TypeShipmentReady, Title: "a", Message: "b"}
	err := repo.CreateBatch(context.Background(), []*notification.Notification{
		{ID: "n-1", OrganizationID: "org-1", RecipientID: "u-1", Type: notification.TypeShipmentReady, Title: "a", Message: "b"},
		second,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, second.ID)
	assert.False(t, second.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_CreateBatch_Empty(t *testing.T) {
	mock, db := newMock(t)
	repo := postgresql.NewNotificationRepository(db)

	require.NoError(t, repo.CreateBatch(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_GetByUserID(t *testing.T) {
	mock, db := newMock(t)
	repo := postgresql.NewNotificationRepository(db)
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM notifications WHERE recipient_id = \$1 AND NOT is_read`).
		WithArgs("u-1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(21))
	mock.ExpectQuery(`FROM notifications\s+WHERE recipient_id = \$1 AND NOT is_read\s+ORDER BY created_at DESC, id\s+LIMIT \$2 OFFSET \$3`).
		WithArgs("u-1", 20, 20).
		WillReturnRows(pgxmock.NewRows(notificationColumns).AddRow(
			"n-21", "org-1", "u-1", notification.TypeShipmentReady, "Presente pronto", "Carla",
			[]byte(`{"shipment_id":"s-1"}`), false, (*time.Time)(nil), now,
		))

	list, total, err := repo.GetByUserID(context.Background(), "u-1", 2, 20, true)
	require.NoError(t, err)
	assert.Equal(t, 21, total)
	require.Len(t, list, 1)
	assert.Equal(t, "s-1", list[0].Data["shipment_id"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_GetByUserID_NoRowsSkipsPageQuery(t *testing.T) {
	mock, db := newMock(t)
	repo := postgresql.NewNotificationRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM notifications WHERE recipient_id = \$1$`).
		WithArgs("u-1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))

	list, total, err := repo.GetByUserID(context.Background(), "u-1", 1, 20, false)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_MarkAsRead(t *testing.T) {
	mock, db := newMock(t)
	repo := postgresql.NewNotificationRepository(db)

	mock.ExpectExec(`UPDATE notifications\s+SET is_read = TRUE, read_at = NOW\(\)\s+WHERE recipient_id = \$1 AND id = ANY\(\$2::uuid\[\]\)`).
		WithArgs("u-1", []string{"n-1", "n-2"}).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))

	require.NoError(t, repo.MarkAsRead(context.Background(), []string{"n-1", "n-2"}, "u-1"))
	require.NoError(t, repo.MarkAsRead(context.Background(), nil, "u-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_DeleteReadBefore(t *testing.T) {
	mock, db := newMock(t)
	repo := postgresql.NewNotificationRepository(db)
	cutoff := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`DELETE FROM notifications WHERE is_read AND created_at < \$1`).
		WithArgs(cutoff).
		WillReturnResult(pgxmock.NewResult("DELETE", 7))

	deleted, err := repo.DeleteReadBefore(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(7), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
