package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/artefacto/heritage-api/internal/model"
	"github.com/artefacto/heritage-api/internal/repository"
)

// TicketHandler serves the admission ticket catalog. Reads are open to any
// authenticated user; mutations are admin-only.
type TicketHandler struct {
	Tickets *repository.TicketRepo
	Temples *repository.TempleRepo
}

func NewTicketHandler(tickets *repository.TicketRepo, temples *repository.TempleRepo) *TicketHandler {
	if tickets == nil || temples == nil {
		panic("nil dependency passed to NewTicketHandler")
	}
	return &TicketHandler{Tickets: tickets, Temples: temples}
}

type ticketReq struct {
	TempleID    uint64 `json:"temple_id" form:"temple_id"`
	Price       int64  `json:"price" form:"price"`
	Description string `json:"description" form:"description"`
}

// List returns all tickets with temple display data, optionally filtered by
// ?templeId=.
func (h *TicketHandler) List(c echo.Context) error {
	var templeID uint64
	if q := c.QueryParam("templeId"); q != "" {
		var err error
		templeID, err = strconv.ParseUint(q, 10, 64)
		if err != nil {
			return respondError(c, http.StatusBadRequest, "invalid templeId filter")
		}
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	details, err := h.Tickets.ListDetails(ctx, templeID)
	if err != nil {
		return respondInternal(c, err)
	}
	return respond(c, http.StatusOK, "", echo.Map{"tickets": details})
}

// Get returns a single ticket with temple display data.
func (h *TicketHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid ticket id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Tickets.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "ticket not found")
		}
		return respondInternal(c, err)
	}
	return respond(c, http.StatusOK, "", echo.Map{"ticket": d})
}

// Create inserts a ticket under an existing temple. Price must be positive.
func (h *TicketHandler) Create(c echo.Context) error {
	var req ticketReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	var errs []fieldError
	if req.TempleID == 0 {
		errs = append(errs, fieldError{Field: "temple_id", Message: "required"})
	}
	if req.Price <= 0 {
		errs = append(errs, fieldError{Field: "price", Message: "must be positive"})
	}
	if strings.TrimSpace(req.Description) == "" {
		errs = append(errs, fieldError{Field: "description", Message: "required"})
	}
	if len(errs) > 0 {
		return respondValidation(c, errs)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Temples.GetByID(ctx, req.TempleID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "temple not found")
		}
		return respondInternal(c, err)
	}

	t := model.Ticket{TempleID: req.TempleID, Price: req.Price, Description: req.Description}
	if err := h.Tickets.Create(ctx, &t); err != nil {
		return respondInternal(c, err)
	}
	return respond(c, http.StatusCreated, "ticket created", echo.Map{"ticket": t})
}

// Update changes price and/or description of an existing ticket.
func (h *TicketHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid ticket id")
	}
	var req ticketReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	t, err := h.Tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "ticket not found")
		}
		return respondInternal(c, err)
	}
	if req.Price != 0 {
		if req.Price < 0 {
			return respondValidation(c, []fieldError{{Field: "price", Message: "must be positive"}})
		}
		t.Price = req.Price
	}
	if strings.TrimSpace(req.Description) != "" {
		t.Description = req.Description
	}
	if err := h.Tickets.Update(ctx, &t); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "ticket not found")
		}
		return respondInternal(c, err)
	}
	return respond(c, http.StatusOK, "ticket updated", echo.Map{"ticket": t})
}

// Delete removes a ticket.
func (h *TicketHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid ticket id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Tickets.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "ticket not found")
		}
		return respondInternal(c, err)
	}
	return respond(c, http.StatusOK, "ticket deleted", nil)
}
