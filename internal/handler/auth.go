package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/artefacto/heritage-api/internal/config"
	"github.com/artefacto/heritage-api/internal/middleware"
	"github.com/artefacto/heritage-api/internal/model"
	"github.com/artefacto/heritage-api/internal/repository"
	"github.com/artefacto/heritage-api/internal/storage"
	"github.com/artefacto/heritage-api/internal/utils"
)

// AuthHandler bundles dependencies for account endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
	Store *storage.Store
}

func NewAuthHandler(cfg config.Config, users *repository.UserRepo, store *storage.Store) *AuthHandler {
	if users == nil || store == nil {
		panic("nil dependency passed to NewAuthHandler")
	}
	return &AuthHandler{Cfg: cfg, Users: users, Store: store}
}

// ----- DTOs -----

type registerReq struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type loginReq struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type updateProfileReq struct {
	Username        string `json:"username" form:"username"`
	Email           string `json:"email" form:"email"`
	CurrentPassword string `json:"current_password" form:"current_password"`
	NewPassword     string `json:"new_password" form:"new_password"`
}

type userPart struct {
	ID             uint64    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	IsAdmin        bool      `json:"is_admin"`
	ProfilePicture string    `json:"profile_picture_url"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

func toUserPart(u model.User) userPart {
	return userPart{
		ID: u.ID, Username: u.Username, Email: u.Email, IsAdmin: u.IsAdmin,
		ProfilePicture: u.ProfilePictureURL, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt,
	}
}

// Register creates an account with the placeholder profile picture and
// returns a token immediately. A duplicate email is rejected without creating
// a second row.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)

	var errs []fieldError
	if req.Username == "" {
		errs = append(errs, fieldError{Field: "username", Message: "required"})
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		errs = append(errs, fieldError{Field: "email", Message: "valid email required"})
	}
	if len(req.Password) < 8 {
		errs = append(errs, fieldError{Field: "password", Message: "minimum 8 characters"})
	}
	if len(errs) > 0 {
		return respondValidation(c, errs)
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return respondInternal(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Username, req.Email, hash, h.Store.PlaceholderProfileURL())
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return respondError(c, http.StatusConflict, "email already registered")
		}
		return respondInternal(c, err)
	}

	token, err := utils.NewAuthToken(h.Cfg.JWTSecret, uid, req.Email)
	if err != nil {
		return respondInternal(c, err)
	}

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return respondInternal(c, err)
	}
	return respond(c, http.StatusCreated, "account registered", echo.Map{
		"user":  toUserPart(u),
		"token": tokenPart{Token: token.Token, Expires: token.Exp},
	})
}

// Login verifies credentials and returns a fresh token. The same message is
// used for unknown email and wrong password.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return respondError(c, http.StatusBadRequest, "email and password required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respondError(c, http.StatusUnauthorized, "invalid credentials")
		}
		return respondInternal(c, err)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return respondError(c, http.StatusUnauthorized, "invalid credentials")
	}

	token, err := utils.NewAuthToken(h.Cfg.JWTSecret, u.ID, u.Email)
	if err != nil {
		return respondInternal(c, err)
	}
	return respond(c, http.StatusOK, "login successful", echo.Map{
		"user":  toUserPart(u),
		"token": tokenPart{Token: token.Token, Expires: token.Exp},
	})
}

// Profile returns the authenticated user's account data.
func (h *AuthHandler) Profile(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "user not found")
		}
		return respondInternal(c, err)
	}
	return respond(c, http.StatusOK, "", echo.Map{"user": toUserPart(u)})
}

// UpdateProfile applies partial account changes: username, email (duplicate
// checked), password (gated on the current password), and an optional new
// profile picture. A new picture is uploaded before the row is touched; the
// previous object is deleted only after the update succeeds.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "user not found")
		}
		return respondInternal(c, err)
	}

	if req.CurrentPassword != "" || req.NewPassword != "" {
		if !utils.VerifyPassword(u.PasswordHash, req.CurrentPassword) {
			return respondError(c, http.StatusBadRequest, "current password is incorrect")
		}
		if len(req.NewPassword) < 8 {
			return respondValidation(c, []fieldError{{Field: "new_password", Message: "minimum 8 characters"}})
		}
		hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
		if err != nil {
			return respondInternal(c, err)
		}
		u.PasswordHash = hash
	}
	if email := strings.ToLower(strings.TrimSpace(req.Email)); email != "" {
		u.Email = email
	}
	if username := strings.TrimSpace(req.Username); username != "" {
		u.Username = username
	}

	oldPicture := u.ProfilePictureURL
	if img := middleware.UploadedFile(c); img != nil {
		key, err := storage.NewObjectKey(storage.KindProfilePicture, img.ContentType)
		if err != nil {
			return respondInternal(c, err)
		}
		url, err := h.Store.Upload(c.Request().Context(), key, img.ContentType, img.Data)
		if err != nil {
			return respondError(c, http.StatusBadGateway, "image upload failed")
		}
		u.ProfilePictureURL = url
	}

	if err := h.Users.UpdateProfile(ctx, &u); err != nil {
		// the row was not touched; remove the asset we just uploaded
		if u.ProfilePictureURL != oldPicture {
			h.Store.DeleteByURL(c.Request().Context(), u.ProfilePictureURL)
		}
		if errors.Is(err, repository.ErrEmailExists) {
			return respondError(c, http.StatusConflict, "email already registered")
		}
		return respondInternal(c, err)
	}
	if u.ProfilePictureURL != oldPicture {
		h.Store.DeleteByURL(c.Request().Context(), oldPicture)
	}

	u, err = h.Users.GetByID(ctx, uid)
	if err != nil {
		return respondInternal(c, err)
	}
	return respond(c, http.StatusOK, "profile updated", echo.Map{"user": toUserPart(u)})
}

// DeleteAccount removes the user row and then its stored profile picture.
func (h *AuthHandler) DeleteAccount(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "user not found")
		}
		return respondInternal(c, err)
	}
	if err := h.Users.Delete(ctx, uid); err != nil {
		return respondInternal(c, err)
	}
	h.Store.DeleteByURL(c.Request().Context(), u.ProfilePictureURL)

	return respond(c, http.StatusOK, "account deleted", nil)
}
