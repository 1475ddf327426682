package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artefacto/heritage-api/internal/middleware"
	"github.com/artefacto/heritage-api/internal/model"
	"github.com/artefacto/heritage-api/internal/repository"
)

func newPurchaseHandler(t *testing.T) (*TransactionHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTransactionHandler(
		repository.NewTicketRepo(db),
		repository.NewTransactionRepo(db),
		repository.NewOwnedTicketRepo(db),
	), mock
}

func purchaseCtx(t *testing.T, body string, userID uint64) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != 0 {
		c.Set(middleware.ContextUserID, userID)
	}
	return c, rec
}

func TestPurchaseMintsTicketsAtomically(t *testing.T) {
	h, mock := newPurchaseHandler(t)
	now := time.Now()

	mock.ExpectQuery("FROM tickets k").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "temple_id", "title", "location_url", "price", "description", "created_at", "updated_at",
		}).AddRow(2, 1, "Candi Prambanan", "https://maps.example.com/prambanan",
			int64(50000), "Entry ticket", now, now))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec("INSERT INTO owned_tickets").
		WillReturnResult(sqlmock.NewResult(100, 2))
	mock.ExpectQuery("FROM owned_tickets o").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "ticket_id", "transaction_id", "unique_code",
			"usage_status", "valid_date", "price", "title", "location_url",
			"created_at", "updated_at",
		}).
			AddRow(100, 9, 2, 11, "00000000000000aa", model.UsageStatusUnused, "2026-09-01",
				int64(50000), "Candi Prambanan", "https://maps.example.com/prambanan", now, now).
			AddRow(101, 9, 2, 11, "00000000000000ab", model.UsageStatusUnused, "2026-09-01",
				int64(50000), "Candi Prambanan", "https://maps.example.com/prambanan", now, now))
	mock.ExpectCommit()

	c, rec := purchaseCtx(t, `{"ticket_id":2,"quantity":2,"valid_date":"2026-09-01"}`, 9)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Status string `json:"status"`
		Data   struct {
			Transaction struct {
				ID         uint64 `json:"id"`
				Quantity   int    `json:"quantity"`
				TotalPrice int64  `json:"total_price"`
				Status     string `json:"status"`
			} `json:"transaction"`
			OwnedTickets []struct {
				UniqueCode  string `json:"unique_code"`
				UsageStatus string `json:"usage_status"`
			} `json:"owned_tickets"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, uint64(11), body.Data.Transaction.ID)
	assert.Equal(t, int64(100000), body.Data.Transaction.TotalPrice)
	assert.Equal(t, model.TransactionStatusSuccess, body.Data.Transaction.Status)
	require.Len(t, body.Data.OwnedTickets, 2)
	for _, o := range body.Data.OwnedTickets {
		assert.Equal(t, model.UsageStatusUnused, o.UsageStatus)
		assert.Len(t, o.UniqueCode, 16)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRollsBackWhenMintFails(t *testing.T) {
	h, mock := newPurchaseHandler(t)
	now := time.Now()

	mock.ExpectQuery("FROM tickets k").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "temple_id", "title", "location_url", "price", "description", "created_at", "updated_at",
		}).AddRow(2, 1, "Candi Prambanan", "url", int64(50000), "Entry", now, now))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec("INSERT INTO owned_tickets").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	c, rec := purchaseCtx(t, `{"ticket_id":2,"quantity":3,"valid_date":"2026-09-01"}`, 9)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseUnknownTicket(t *testing.T) {
	h, mock := newPurchaseHandler(t)

	mock.ExpectQuery("FROM tickets k").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	c, rec := purchaseCtx(t, `{"ticket_id":77,"quantity":1,"valid_date":"2026-09-01"}`, 9)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "ticket not found")
}

func TestPurchaseValidation(t *testing.T) {
	h, _ := newPurchaseHandler(t)

	cases := map[string]string{
		"zero quantity":     `{"ticket_id":2,"quantity":0,"valid_date":"2026-09-01"}`,
		"negative quantity": `{"ticket_id":2,"quantity":-1,"valid_date":"2026-09-01"}`,
		"missing ticket":    `{"quantity":1,"valid_date":"2026-09-01"}`,
		"bad date":          `{"ticket_id":2,"quantity":1,"valid_date":"next tuesday"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c, rec := purchaseCtx(t, body, 9)
			require.NoError(t, h.Create(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "validation error")
		})
	}
}

func TestPurchaseRequiresAuth(t *testing.T) {
	h, _ := newPurchaseHandler(t)
	c, rec := purchaseCtx(t, `{"ticket_id":2,"quantity":1,"valid_date":"2026-09-01"}`, 0)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
