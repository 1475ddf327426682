package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/artefacto/heritage-api/internal/middleware"
	"github.com/artefacto/heritage-api/internal/model"
	"github.com/artefacto/heritage-api/internal/repository"
	"github.com/artefacto/heritage-api/internal/storage"
)

// TempleHandler serves the temple catalog. Reads are open to any
// authenticated user; mutations are admin-only (enforced by route
// middleware).
type TempleHandler struct {
	Temples *repository.TempleRepo
	Store   *storage.Store
}

func NewTempleHandler(temples *repository.TempleRepo, store *storage.Store) *TempleHandler {
	if temples == nil || store == nil {
		panic("nil dependency passed to NewTempleHandler")
	}
	return &TempleHandler{Temples: temples, Store: store}
}

type templeReq struct {
	Title              string `json:"title" form:"title"`
	Description        string `json:"description" form:"description"`
	FunfactTitle       string `json:"funfact_title" form:"funfact_title"`
	FunfactDescription string `json:"funfact_description" form:"funfact_description"`
	LocationURL        string `json:"location_url" form:"location_url"`
}

type templeResp struct {
	ID                 uint64 `json:"id"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	ImageURL           string `json:"image_url"`
	FunfactTitle       string `json:"funfact_title"`
	FunfactDescription string `json:"funfact_description"`
	LocationURL        string `json:"location_url"`
	CreatedAt          string `json:"created_at"`
	UpdatedAt          string `json:"updated_at"`
}

func toTempleResp(t model.Temple) templeResp {
	return templeResp{
		ID: t.ID, Title: t.Title, Description: t.Description, ImageURL: t.ImageURL,
		FunfactTitle: t.FunfactTitle, FunfactDescription: t.FunfactDescription,
		LocationURL: t.LocationURL,
		CreatedAt:   t.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   t.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// List returns all temples, newest first.
func (h *TempleHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	temples, err := h.Temples.List(ctx)
	if err != nil {
		return respondInternal(c, err)
	}
	out := make([]templeResp, 0, len(temples))
	for _, t := range temples {
		out = append(out, toTempleResp(t))
	}
	return respond(c, http.StatusOK, "", echo.Map{"temples": out})
}

// Get returns a single temple.
func (h *TempleHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid temple id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	t, err := h.Temples.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "temple not found")
		}
		return respondInternal(c, err)
	}
	return respond(c, http.StatusOK, "", echo.Map{"temple": toTempleResp(t)})
}

// Create inserts a temple. When an image is attached it is uploaded before
// the row is written, so the row never references an asset that may not
// exist; if the insert fails the fresh object is removed again. Without an
// image the temple gets the placeholder URL, never NULL.
func (h *TempleHandler) Create(c echo.Context) error {
	var req templeReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	var errs []fieldError
	if strings.TrimSpace(req.Title) == "" {
		errs = append(errs, fieldError{Field: "title", Message: "required"})
	}
	if strings.TrimSpace(req.Description) == "" {
		errs = append(errs, fieldError{Field: "description", Message: "required"})
	}
	if len(errs) > 0 {
		return respondValidation(c, errs)
	}

	imageURL := h.Store.PlaceholderTempleURL()
	uploaded := false
	if img := middleware.UploadedFile(c); img != nil {
		key, err := storage.NewObjectKey(storage.KindTemple, img.ContentType)
		if err != nil {
			return respondInternal(c, err)
		}
		url, err := h.Store.Upload(c.Request().Context(), key, img.ContentType, img.Data)
		if err != nil {
			return respondError(c, http.StatusBadGateway, "image upload failed")
		}
		imageURL = url
		uploaded = true
	}

	t := model.Temple{
		Title:              strings.TrimSpace(req.Title),
		Description:        req.Description,
		ImageURL:           imageURL,
		FunfactTitle:       req.FunfactTitle,
		FunfactDescription: req.FunfactDescription,
		LocationURL:        req.LocationURL,
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Temples.Create(ctx, &t); err != nil {
		if uploaded {
			h.Store.DeleteByURL(c.Request().Context(), imageURL)
		}
		return respondInternal(c, err)
	}
	return respond(c, http.StatusCreated, "temple created", echo.Map{"temple": toTempleResp(t)})
}

// Update applies field changes and optionally replaces the image. The new
// image is uploaded first; the superseded object is deleted only after the
// row update succeeds.
func (h *TempleHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid temple id")
	}
	var req templeReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	t, err := h.Temples.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "temple not found")
		}
		return respondInternal(c, err)
	}

	if v := strings.TrimSpace(req.Title); v != "" {
		t.Title = v
	}
	if req.Description != "" {
		t.Description = req.Description
	}
	if req.FunfactTitle != "" {
		t.FunfactTitle = req.FunfactTitle
	}
	if req.FunfactDescription != "" {
		t.FunfactDescription = req.FunfactDescription
	}
	if req.LocationURL != "" {
		t.LocationURL = req.LocationURL
	}

	oldImage := t.ImageURL
	if img := middleware.UploadedFile(c); img != nil {
		key, err := storage.NewObjectKey(storage.KindTemple, img.ContentType)
		if err != nil {
			return respondInternal(c, err)
		}
		url, err := h.Store.Upload(c.Request().Context(), key, img.ContentType, img.Data)
		if err != nil {
			return respondError(c, http.StatusBadGateway, "image upload failed")
		}
		t.ImageURL = url
	}

	if err := h.Temples.Update(ctx, &t); err != nil {
		if t.ImageURL != oldImage {
			h.Store.DeleteByURL(c.Request().Context(), t.ImageURL)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "temple not found")
		}
		return respondInternal(c, err)
	}
	if t.ImageURL != oldImage {
		h.Store.DeleteByURL(c.Request().Context(), oldImage)
	}

	t, err = h.Temples.GetByID(ctx, id)
	if err != nil {
		return respondInternal(c, err)
	}
	return respond(c, http.StatusOK, "temple updated", echo.Map{"temple": toTempleResp(t)})
}

// Delete removes a temple and then its stored image, so the asset is no
// longer retrievable once the row is gone.
func (h *TempleHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid temple id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	t, err := h.Temples.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "temple not found")
		}
		return respondInternal(c, err)
	}
	if err := h.Temples.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "temple not found")
		}
		return respondInternal(c, err)
	}
	h.Store.DeleteByURL(c.Request().Context(), t.ImageURL)

	return respond(c, http.StatusOK, "temple deleted", nil)
}
