package postgresql_test

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/gifting-backend-go/internal/repository/postgresql"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTransaction_Commits(t *testing.T) {
	mock, db := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE organizations`).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := postgresql.WithTransaction(context.Background(), db, func(tx pgx.Tx) error {
		ctx := postgresql.ContextWithTx(context.Background(), tx)
		_, err := postgresql.GetQuerier(ctx, db).Exec(ctx, "UPDATE organizations SET name = 'x'")
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	mock, db := newMock(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := postgresql.WithTransaction(context.Background(), db, func(tx pgx.Tx) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetQuerier_FallsBackToPool(t *testing.T) {
	_, db := newMock(t)
	assert.Equal(t, db.Pool, postgresql.GetQuerier(context.Background(), db))
}
