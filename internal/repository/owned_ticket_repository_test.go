package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artefacto/heritage-api/internal/model"
)

const redeemStmt = "UPDATE owned_tickets SET usage_status=?, updated_at=NOW() WHERE id=? AND user_id=? AND usage_status=?"

func newMockRepo(t *testing.T) (*OwnedTicketRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewOwnedTicketRepo(db), mock
}

func detailRows(status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "user_id", "ticket_id", "transaction_id", "unique_code",
		"usage_status", "valid_date", "price", "title", "location_url",
		"created_at", "updated_at",
	}).AddRow(5, 9, 2, 11, "a1b2c3d4e5f60718", status, "2026-09-01",
		int64(50000), "Candi Borobudur", "https://maps.example.com/borobudur", now, now)
}

func TestRedeemSuccess(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(redeemStmt).
		WithArgs(model.UsageStatusUsed, uint64(5), uint64(9), model.UsageStatusUnused).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(ownedTicketDetailQuery + " WHERE o.id = ? AND o.user_id = ? LIMIT 1").
		WithArgs(uint64(5), uint64(9)).
		WillReturnRows(detailRows(model.UsageStatusUsed))

	d, err := repo.Redeem(context.Background(), 5, 9)
	require.NoError(t, err)
	assert.Equal(t, model.UsageStatusUsed, d.UsageStatus)
	assert.Equal(t, "a1b2c3d4e5f60718", d.UniqueCode)
	require.NotNil(t, d.TransactionID)
	assert.Equal(t, uint64(11), *d.TransactionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemAlreadyUsed(t *testing.T) {
	repo, mock := newMockRepo(t)

	// The conditional update touches no row; the follow-up read shows the
	// ticket exists but is already used.
	mock.ExpectExec(redeemStmt).
		WithArgs(model.UsageStatusUsed, uint64(5), uint64(9), model.UsageStatusUnused).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(ownedTicketDetailQuery + " WHERE o.id = ? AND o.user_id = ? LIMIT 1").
		WithArgs(uint64(5), uint64(9)).
		WillReturnRows(detailRows(model.UsageStatusUsed))

	_, err := repo.Redeem(context.Background(), 5, 9)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemMissingOrForeign(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(redeemStmt).
		WithArgs(model.UsageStatusUsed, uint64(5), uint64(9), model.UsageStatusUnused).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(ownedTicketDetailQuery + " WHERE o.id = ? AND o.user_id = ? LIMIT 1").
		WithArgs(uint64(5), uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "ticket_id", "transaction_id", "unique_code",
			"usage_status", "valid_date", "price", "title", "location_url",
			"created_at", "updated_at",
		}))

	_, err := repo.Redeem(context.Background(), 5, 9)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBatchTxAssignsSequentialIDs(t *testing.T) {
	repo, mock := newMockRepo(t)

	recs := []model.OwnedTicket{
		{UserID: 9, TicketID: 2, UniqueCode: "0000000000000001", UsageStatus: model.UsageStatusUnused, ValidDate: "2026-09-01"},
		{UserID: 9, TicketID: 2, UniqueCode: "0000000000000002", UsageStatus: model.UsageStatusUnused, ValidDate: "2026-09-01"},
		{UserID: 9, TicketID: 2, UniqueCode: "0000000000000003", UsageStatus: model.UsageStatusUnused, ValidDate: "2026-09-01"},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO owned_tickets (user_id, ticket_id, transaction_id, unique_code, usage_status, valid_date) VALUES (?,?,?,?,?,?),(?,?,?,?,?,?),(?,?,?,?,?,?)").
		WillReturnResult(sqlmock.NewResult(100, 3))

	tx, err := repo.DB.Begin()
	require.NoError(t, err)
	require.NoError(t, repo.CreateBatchTx(context.Background(), tx, recs))

	assert.Equal(t, uint64(100), recs[0].ID)
	assert.Equal(t, uint64(101), recs[1].ID)
	assert.Equal(t, uint64(102), recs[2].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBatchTxEmptySlice(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	tx, err := repo.DB.Begin()
	require.NoError(t, err)

	require.NoError(t, repo.CreateBatchTx(context.Background(), tx, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
