package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/artefacto/heritage-api/internal/model"
	"github.com/artefacto/heritage-api/internal/queue"
	"github.com/artefacto/heritage-api/internal/repository"
	"github.com/artefacto/heritage-api/internal/service"
	"github.com/artefacto/heritage-api/internal/utils"
)

// TransactionHandler implements the ticket issuance flow and the transaction
// listings. The purchase runs inside a single SQL transaction: either the
// transaction row and all of its owned tickets commit together, or nothing
// persists.
type TransactionHandler struct {
	Tickets      *repository.TicketRepo
	Transactions *repository.TransactionRepo
	OwnedTickets *repository.OwnedTicketRepo
}

func NewTransactionHandler(tickets *repository.TicketRepo, transactions *repository.TransactionRepo, owned *repository.OwnedTicketRepo) *TransactionHandler {
	if tickets == nil || transactions == nil || owned == nil {
		panic("nil repository passed to NewTransactionHandler")
	}
	return &TransactionHandler{Tickets: tickets, Transactions: transactions, OwnedTickets: owned}
}

type purchaseReq struct {
	TicketID  uint64 `json:"ticket_id" form:"ticket_id"`
	Quantity  int    `json:"quantity" form:"quantity"`
	ValidDate string `json:"valid_date" form:"valid_date"`
}

// Create handles POST /api/transactions. Given a ticket, a quantity and a
// validity date it records one Transaction with status "success" and mints
// exactly quantity owned tickets, each with a fresh 16-hex-char redemption
// code and unused status. The total price is ticket price × quantity,
// computed here and never re-validated later.
func (h *TransactionHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	var req purchaseReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	var errs []fieldError
	if req.TicketID == 0 {
		errs = append(errs, fieldError{Field: "ticket_id", Message: "required"})
	}
	if req.Quantity <= 0 {
		errs = append(errs, fieldError{Field: "quantity", Message: "must be a positive integer"})
	}
	if _, err := time.Parse("2006-01-02", req.ValidDate); err != nil {
		errs = append(errs, fieldError{Field: "valid_date", Message: "must be a YYYY-MM-DD date"})
	}
	if len(errs) > 0 {
		return respondValidation(c, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ticket, err := h.Tickets.GetDetail(ctx, req.TicketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "ticket not found")
		}
		return respondInternal(c, err)
	}

	totalPrice := ticket.Price * int64(req.Quantity)

	tx, err := h.Transactions.DB.BeginTx(ctx, nil)
	if err != nil {
		return respondInternal(c, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rec := model.Transaction{
		UserID:          userID,
		TicketID:        req.TicketID,
		Quantity:        req.Quantity,
		TotalPrice:      totalPrice,
		ValidDate:       req.ValidDate,
		Status:          model.TransactionStatusSuccess,
		TransactionDate: time.Now().UTC(),
	}
	if err := h.Transactions.CreateTx(ctx, tx, &rec); err != nil {
		return respondInternal(c, err)
	}

	owned := make([]model.OwnedTicket, req.Quantity)
	for i := range owned {
		code, err := utils.NewRedemptionCode()
		if err != nil {
			return respondInternal(c, err)
		}
		owned[i] = model.OwnedTicket{
			UserID:        userID,
			TicketID:      req.TicketID,
			TransactionID: &rec.ID,
			UniqueCode:    code,
			UsageStatus:   model.UsageStatusUnused,
			ValidDate:     req.ValidDate,
		}
	}
	if err := h.OwnedTickets.CreateBatchTx(ctx, tx, owned); err != nil {
		return respondInternal(c, err)
	}

	minted, err := h.OwnedTickets.ListByTransactionTx(ctx, tx, rec.ID)
	if err != nil {
		return respondInternal(c, err)
	}
	if err := tx.Commit(); err != nil {
		return respondInternal(c, err)
	}
	committed = true

	// Broker publish is best-effort and must not delay the response.
	codes := make([]string, len(minted))
	for i, o := range minted {
		codes[i] = o.UniqueCode
	}
	go func() {
		pctx, pcancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pcancel()
		if err := service.PublishTicketPurchased(pctx, queue.TicketPurchasedEvent{
			TransactionID: rec.ID,
			UserID:        userID,
			TicketID:      req.TicketID,
			TempleTitle:   ticket.TempleTitle,
			Quantity:      req.Quantity,
			TotalPrice:    totalPrice,
			ValidDate:     req.ValidDate,
			UniqueCodes:   codes,
			PurchasedAt:   rec.TransactionDate.Format(time.RFC3339),
		}); err != nil {
			log.Warn().Err(err).Uint64("transaction_id", rec.ID).Msg("purchase event not published")
		}
	}()

	return respond(c, http.StatusCreated, "transaction created", echo.Map{
		"transaction": repository.TransactionDetail{
			ID: rec.ID, UserID: rec.UserID, TicketID: rec.TicketID,
			Quantity: rec.Quantity, TotalPrice: rec.TotalPrice, ValidDate: rec.ValidDate,
			Status: rec.Status, TransactionDate: rec.TransactionDate,
			TicketPrice: ticket.Price, TempleTitle: ticket.TempleTitle,
			TempleLocation: ticket.TempleLocation,
		},
		"owned_tickets": minted,
	})
}

// ListMine returns the caller's transactions, newest first.
func (h *TransactionHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	details, err := h.Transactions.ListByUser(ctx, userID)
	if err != nil {
		return respondInternal(c, err)
	}
	return respond(c, http.StatusOK, "", echo.Map{"transactions": details})
}

// ListAll returns every transaction. Admin only (enforced by route
// middleware).
func (h *TransactionHandler) ListAll(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	details, err := h.Transactions.ListAll(ctx)
	if err != nil {
		return respondInternal(c, err)
	}
	return respond(c, http.StatusOK, "", echo.Map{"transactions": details})
}
