package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/artefacto/heritage-api/internal/model"
	"github.com/artefacto/heritage-api/internal/repository"
	"github.com/artefacto/heritage-api/internal/utils"
)

// OwnedTicketHandler exposes the caller's issued tickets and the redemption
// endpoint. Every operation is scoped to the authenticated user; another
// user's ticket is indistinguishable from a missing one.
type OwnedTicketHandler struct {
	OwnedTickets *repository.OwnedTicketRepo
	Tickets      *repository.TicketRepo
}

func NewOwnedTicketHandler(owned *repository.OwnedTicketRepo, tickets *repository.TicketRepo) *OwnedTicketHandler {
	if owned == nil || tickets == nil {
		panic("nil repository passed to NewOwnedTicketHandler")
	}
	return &OwnedTicketHandler{OwnedTickets: owned, Tickets: tickets}
}

// List handles GET /api/owned-tickets.
func (h *OwnedTicketHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	details, err := h.OwnedTickets.ListByUser(ctx, userID)
	if err != nil {
		return respondInternal(c, err)
	}
	return respond(c, http.StatusOK, "", echo.Map{"owned_tickets": details})
}

// Get handles GET /api/owned-tickets/:id.
func (h *OwnedTicketHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := pathID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	detail, err := h.OwnedTickets.GetForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "owned ticket not found")
		}
		return respondInternal(c, err)
	}
	return respond(c, http.StatusOK, "", echo.Map{"owned_ticket": detail})
}

type ownedTicketReq struct {
	TicketID  uint64 `json:"ticket_id" form:"ticket_id"`
	ValidDate string `json:"valid_date" form:"valid_date"`
}

// Create handles POST /api/owned-tickets, issuing a single ticket outside of
// any transaction record. The redemption code is generated server-side.
func (h *OwnedTicketHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	var req ownedTicketReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	var errs []fieldError
	if req.TicketID == 0 {
		errs = append(errs, fieldError{Field: "ticket_id", Message: "required"})
	}
	if _, err := time.Parse("2006-01-02", req.ValidDate); err != nil {
		errs = append(errs, fieldError{Field: "valid_date", Message: "must be a YYYY-MM-DD date"})
	}
	if len(errs) > 0 {
		return respondValidation(c, errs)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Tickets.GetByID(ctx, req.TicketID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "ticket not found")
		}
		return respondInternal(c, err)
	}

	code, err := utils.NewRedemptionCode()
	if err != nil {
		return respondInternal(c, err)
	}
	rec := model.OwnedTicket{
		UserID:      userID,
		TicketID:    req.TicketID,
		UniqueCode:  code,
		UsageStatus: model.UsageStatusUnused,
		ValidDate:   req.ValidDate,
	}
	if err := h.OwnedTickets.Create(ctx, &rec); err != nil {
		return respondInternal(c, err)
	}

	detail, err := h.OwnedTickets.GetForUser(ctx, rec.ID, userID)
	if err != nil {
		return respondInternal(c, err)
	}
	return respond(c, http.StatusCreated, "owned ticket created", echo.Map{"owned_ticket": detail})
}

// Redeem handles PATCH /api/owned-tickets/:id/status. A ticket can be used
// exactly once: the second attempt gets a 409 no matter how closely the two
// requests race.
func (h *OwnedTicketHandler) Redeem(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := pathID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	detail, err := h.OwnedTickets.Redeem(ctx, id, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return respondError(c, http.StatusConflict, "ticket already used")
		case errors.Is(err, repository.ErrNotFound):
			return respondError(c, http.StatusNotFound, "owned ticket not found")
		default:
			return respondInternal(c, err)
		}
	}
	return respond(c, http.StatusOK, "ticket redeemed", echo.Map{"owned_ticket": detail})
}
