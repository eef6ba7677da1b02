package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corebank-ledger/internal/domain/ledger"
	"github.com/corebank-ledger/internal/domain/outbox"
)

func TestOutboxRepository_Create(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: logger}

	tx := ledger.NewTransaction(uuid.New(), ledger.TypeDeposit,
		decimal.RequireFromString("99.00"), decimal.RequireFromString("1.00"), "ILS")
	msg, err := outbox.NewMessage(tx)
	require.NoError(t, err)

	query := `
		INSERT INTO transaction_outbox \(transaction_id, account_id, payload, status, attempts, created_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6\)
		RETURNING id
	`

	t.Run("success assigns generated id", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id"}).AddRow(int64(11))
		mock.ExpectQuery(query).
			WithArgs(msg.TransactionID, msg.AccountID, msg.Payload, msg.Status, msg.Attempts, msg.CreatedAt).
			WillReturnRows(rows)

		assert.NoError(t, repo.Create(ctx, msg))
		assert.Equal(t, int64(11), msg.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		dbErr := errors.New("db error")
		mock.ExpectQuery(query).
			WithArgs(msg.TransactionID, msg.AccountID, msg.Payload, msg.Status, msg.Attempts, msg.CreatedAt).
			WillReturnError(dbErr)

		err := repo.Create(ctx, msg)
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_GetPending(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: logger}

	query := `
		SELECT id, transaction_id, account_id, payload, status, attempts, created_at, last_attempt_at
		FROM transaction_outbox
		WHERE status = \$1
		ORDER BY created_at ASC
		LIMIT \$2
	`
	columns := []string{"id", "transaction_id", "account_id", "payload", "status", "attempts", "created_at", "last_attempt_at"}

	t.Run("success", func(t *testing.T) {
		now := time.Now()
		rows := pgxmock.NewRows(columns).
			AddRow(int64(1), uuid.New(), uuid.New(), []byte(`{}`), outbox.StatusPending, 0, now, (*time.Time)(nil)).
			AddRow(int64(2), uuid.New(), uuid.New(), []byte(`{}`), outbox.StatusPending, 2, now, &now)
		mock.ExpectQuery(query).WithArgs(outbox.StatusPending, 10).WillReturnRows(rows)

		messages, err := repo.GetPending(ctx, 10)
		assert.NoError(t, err)
		require.Len(t, messages, 2)
		assert.Equal(t, int64(1), messages[0].ID)
		assert.Equal(t, 2, messages[1].Attempts)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		dbErr := errors.New("db error")
		mock.ExpectQuery(query).WithArgs(outbox.StatusPending, 10).WillReturnError(dbErr)

		messages, err := repo.GetPending(ctx, 10)
		assert.Nil(t, messages)
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: logger}

	query := `
		UPDATE transaction_outbox
		SET status = \$1, last_attempt_at = NOW\(\)
		WHERE id = \$2
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(outbox.StatusFailedToPublish, int64(5)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, repo.UpdateStatus(ctx, 5, outbox.StatusFailedToPublish))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(outbox.StatusFailedToPublish, int64(5)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateStatus(ctx, 5, outbox.StatusFailedToPublish)
		assert.ErrorIs(t, err, outbox.ErrMessageNotFound{})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_IncrementAttempts(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: logger}

	query := `
		UPDATE transaction_outbox
		SET attempts = attempts \+ 1, last_attempt_at = NOW\(\)
		WHERE id = \$1
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(int64(5)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, repo.IncrementAttempts(ctx, 5))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_Delete(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: logger}

	query := `DELETE FROM transaction_outbox WHERE id = \$1`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(int64(9)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		assert.NoError(t, repo.Delete(ctx, 9))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(int64(9)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := repo.Delete(ctx, 9)
		assert.ErrorIs(t, err, outbox.ErrMessageNotFound{})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
