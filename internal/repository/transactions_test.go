package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/models"
)

var errDB = errors.New("db down")

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestApplyTransfer(t *testing.T) {
	ctx := context.Background()
	paidOn := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

	tr := func() *models.Transaction {
		return &models.Transaction{
			Description:         "rent",
			Amount:              decimal.RequireFromString("25.00"),
			PaidOn:              paidOn,
			FromAccount:         1,
			FromAccountUsername: "alice",
			ToAccount:           2,
			ToAccountUsername:   "bob",
			TransactionType:     models.TransactionTypeTransfer,
		}
	}

	t.Run("commits both balance updates with the record", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE accounts SET balance").
			WithArgs(sqlmock.AnyArg(), int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE accounts SET balance").
			WithArgs(sqlmock.AnyArg(), int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO transactions").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))
		mock.ExpectCommit()

		rec := tr()
		err := repo.ApplyTransfer(ctx, 1, 2, decimal.RequireFromString("75.00"), decimal.RequireFromString("25.00"), rec)
		require.NoError(t, err)
		assert.Equal(t, int64(42), rec.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when the credit update fails", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE accounts SET balance").
			WithArgs(sqlmock.AnyArg(), int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE accounts SET balance").
			WithArgs(sqlmock.AnyArg(), int64(2)).
			WillReturnError(errDB)
		mock.ExpectRollback()

		err := repo.ApplyTransfer(ctx, 1, 2, decimal.RequireFromString("75.00"), decimal.RequireFromString("25.00"), tr())
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when recording the transaction fails", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE accounts SET balance").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE accounts SET balance").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO transactions").
			WillReturnError(errDB)
		mock.ExpectRollback()

		err := repo.ApplyTransfer(ctx, 1, 2, decimal.RequireFromString("75.00"), decimal.RequireFromString("25.00"), tr())
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestApplyDebit(t *testing.T) {
	ctx := context.Background()

	t.Run("writes balance and record in one transaction", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE accounts SET balance").
			WithArgs(sqlmock.AnyArg(), int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO transactions").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
		mock.ExpectCommit()

		rec := &models.Transaction{
			Description:         "bpay",
			Amount:              decimal.RequireFromString("30.00"),
			PaidOn:              time.Now(),
			FromAccount:         1,
			FromAccountUsername: "alice",
			TransactionType:     models.TransactionTypeBPAY,
		}
		err := repo.ApplyDebit(ctx, 1, decimal.RequireFromString("70.00"), rec)
		require.NoError(t, err)
		assert.Equal(t, int64(7), rec.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when the balance update fails", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE accounts SET balance").
			WillReturnError(errDB)
		mock.ExpectRollback()

		err := repo.ApplyDebit(ctx, 1, decimal.RequireFromString("70.00"), &models.Transaction{FromAccount: 1})
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
