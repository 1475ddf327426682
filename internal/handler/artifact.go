package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/artefacto/heritage-api/internal/middleware"
	"github.com/artefacto/heritage-api/internal/model"
	"github.com/artefacto/heritage-api/internal/repository"
	"github.com/artefacto/heritage-api/internal/storage"
)

// ArtifactHandler serves the artifact catalog together with the per-user
// bookmark and read-tracking actions.
type ArtifactHandler struct {
	Artifacts   *repository.ArtifactRepo
	Temples     *repository.TempleRepo
	Engagements *repository.EngagementRepo
	Store       *storage.Store
}

func NewArtifactHandler(artifacts *repository.ArtifactRepo, temples *repository.TempleRepo, engagements *repository.EngagementRepo, store *storage.Store) *ArtifactHandler {
	if artifacts == nil || temples == nil || engagements == nil || store == nil {
		panic("nil dependency passed to NewArtifactHandler")
	}
	return &ArtifactHandler{Artifacts: artifacts, Temples: temples, Engagements: engagements, Store: store}
}

type artifactReq struct {
	TempleID           uint64 `json:"temple_id" form:"temple_id"`
	Title              string `json:"title" form:"title"`
	Description        string `json:"description" form:"description"`
	DetailPeriod       string `json:"detail_period" form:"detail_period"`
	DetailMaterial     string `json:"detail_material" form:"detail_material"`
	DetailSize         string `json:"detail_size" form:"detail_size"`
	DetailStyle        string `json:"detail_style" form:"detail_style"`
	FunfactTitle       string `json:"funfact_title" form:"funfact_title"`
	FunfactDescription string `json:"funfact_description" form:"funfact_description"`
	LocationURL        string `json:"location_url" form:"location_url"`
}

// List returns artifacts decorated with the caller's bookmark/read flags,
// optionally filtered by ?templeId=.
func (h *ArtifactHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	var templeID uint64
	if q := c.QueryParam("templeId"); q != "" {
		templeID, err = strconv.ParseUint(q, 10, 64)
		if err != nil {
			return respondError(c, http.StatusBadRequest, "invalid templeId filter")
		}
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	details, err := h.Artifacts.ListDetails(ctx, uid, templeID)
	if err != nil {
		return respondInternal(c, err)
	}
	return respond(c, http.StatusOK, "", echo.Map{"artifacts": details})
}

// Get returns a single artifact with the caller's flags.
func (h *ArtifactHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := pathID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid artifact id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Artifacts.GetDetail(ctx, id, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "artifact not found")
		}
		return respondInternal(c, err)
	}
	return respond(c, http.StatusOK, "", echo.Map{"artifact": d})
}

// Create inserts an artifact under an existing temple. The image, when
// attached, is uploaded before the row is written and removed again if the
// insert fails.
func (h *ArtifactHandler) Create(c echo.Context) error {
	var req artifactReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	var errs []fieldError
	if req.TempleID == 0 {
		errs = append(errs, fieldError{Field: "temple_id", Message: "required"})
	}
	if strings.TrimSpace(req.Title) == "" {
		errs = append(errs, fieldError{Field: "title", Message: "required"})
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

	imageURL := h.Store.PlaceholderArtifactURL()
	uploaded := false
	if img := middleware.UploadedFile(c); img != nil {
		key, err := storage.NewObjectKey(storage.KindArtifact, img.ContentType)
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

	a := model.Artifact{
		TempleID:           req.TempleID,
		Title:              strings.TrimSpace(req.Title),
		Description:        req.Description,
		ImageURL:           imageURL,
		DetailPeriod:       req.DetailPeriod,
		DetailMaterial:     req.DetailMaterial,
		DetailSize:         req.DetailSize,
		DetailStyle:        req.DetailStyle,
		FunfactTitle:       req.FunfactTitle,
		FunfactDescription: req.FunfactDescription,
		LocationURL:        req.LocationURL,
	}
	if err := h.Artifacts.Create(ctx, &a); err != nil {
		if uploaded {
			h.Store.DeleteByURL(c.Request().Context(), imageURL)
		}
		return respondInternal(c, err)
	}
	return respond(c, http.StatusCreated, "artifact created", echo.Map{"artifact": a})
}

// Update applies field changes and optionally replaces the image, deleting
// the superseded object after the row update succeeds.
func (h *ArtifactHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid artifact id")
	}
	var req artifactReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	a, err := h.Artifacts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "artifact not found")
		}
		return respondInternal(c, err)
	}

	if req.TempleID != 0 && req.TempleID != a.TempleID {
		if _, err := h.Temples.GetByID(ctx, req.TempleID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return respondError(c, http.StatusNotFound, "temple not found")
			}
			return respondInternal(c, err)
		}
		a.TempleID = req.TempleID
	}
	if v := strings.TrimSpace(req.Title); v != "" {
		a.Title = v
	}
	if req.Description != "" {
		a.Description = req.Description
	}
	if req.DetailPeriod != "" {
		a.DetailPeriod = req.DetailPeriod
	}
	if req.DetailMaterial != "" {
		a.DetailMaterial = req.DetailMaterial
	}
	if req.DetailSize != "" {
		a.DetailSize = req.DetailSize
	}
	if req.DetailStyle != "" {
		a.DetailStyle = req.DetailStyle
	}
	if req.FunfactTitle != "" {
		a.FunfactTitle = req.FunfactTitle
	}
	if req.FunfactDescription != "" {
		a.FunfactDescription = req.FunfactDescription
	}
	if req.LocationURL != "" {
		a.LocationURL = req.LocationURL
	}

	oldImage := a.ImageURL
	if img := middleware.UploadedFile(c); img != nil {
		key, err := storage.NewObjectKey(storage.KindArtifact, img.ContentType)
		if err != nil {
			return respondInternal(c, err)
		}
		url, err := h.Store.Upload(c.Request().Context(), key, img.ContentType, img.Data)
		if err != nil {
			return respondError(c, http.StatusBadGateway, "image upload failed")
		}
		a.ImageURL = url
	}

	if err := h.Artifacts.Update(ctx, &a); err != nil {
		if a.ImageURL != oldImage {
			h.Store.DeleteByURL(c.Request().Context(), a.ImageURL)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "artifact not found")
		}
		return respondInternal(c, err)
	}
	if a.ImageURL != oldImage {
		h.Store.DeleteByURL(c.Request().Context(), oldImage)
	}
	return respond(c, http.StatusOK, "artifact updated", echo.Map{"artifact": a})
}

// Delete removes an artifact and then its stored image.
func (h *ArtifactHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid artifact id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	a, err := h.Artifacts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "artifact not found")
		}
		return respondInternal(c, err)
	}
	if err := h.Artifacts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "artifact not found")
		}
		return respondInternal(c, err)
	}
	h.Store.DeleteByURL(c.Request().Context(), a.ImageURL)

	return respond(c, http.StatusOK, "artifact deleted", nil)
}

// ToggleBookmark flips the caller's bookmark flag on an artifact.
func (h *ArtifactHandler) ToggleBookmark(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := pathID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid artifact id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Artifacts.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "artifact not found")
		}
		return respondInternal(c, err)
	}
	state, err := h.Engagements.ToggleBookmark(ctx, uid, id)
	if err != nil {
		return respondInternal(c, err)
	}
	msg := "bookmark removed"
	if state {
		msg = "artifact bookmarked"
	}
	return respond(c, http.StatusOK, msg, echo.Map{"is_bookmarked": state})
}

// MarkRead sets the caller's read flag on an artifact. Idempotent.
func (h *ArtifactHandler) MarkRead(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := pathID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid artifact id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Artifacts.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "artifact not found")
		}
		return respondInternal(c, err)
	}
	if err := h.Engagements.MarkRead(ctx, uid, id); err != nil {
		return respondInternal(c, err)
	}
	return respond(c, http.StatusOK, "artifact marked as read", echo.Map{"is_read": true})
}
