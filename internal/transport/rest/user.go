package rest

import (
	"errors"
	"net/http"

	apperrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/abgdnv/storefront/internal/model"
	"github.com/abgdnv/storefront/internal/service"
	"github.com/abgdnv/storefront/pkg/web"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string         `json:"message"`
	User    model.UserView `json:"user"`
	Token   string         `json:"token,omitempty"`
}

// Login checks the credentials and returns the user with a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var req loginRequest
	if !web.DecodeJSON(w, r, mLogger, &req) {
		return
	}

	user, err := h.services.Users.Authenticate(r.Context(), req.Username, req.Password)
	if errors.Is(err, apperrors.ErrInvalidCredentials) {
		mLogger.WarnContext(r.Context(), "Login failed", "username", req.Username)
		web.RespondError(w, mLogger, http.StatusUnauthorized, "Invalid credentials")
		return
	} else if err != nil {
		respondServiceError(w, r, mLogger, err, "User", "", "Failed to log in")
		return
	}

	resp := loginResponse{Message: "Login successful", User: *user}
	if h.tokens != nil {
		token, err := h.tokens.Issue(user.ID, user.Role)
		if err != nil {
			mLogger.ErrorContext(r.Context(), "Failed to issue token", "ID", user.ID, "error", err)
			web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to log in")
			return
		}
		resp.Token = token
	}
	mLogger.InfoContext(r.Context(), "User logged in", "ID", user.ID)
	web.RespondJSON(w, mLogger, http.StatusOK, resp)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	users, err := h.services.Users.List(r.Context())
	if err != nil {
		respondServiceError(w, r, mLogger, err, "User", "", "Failed to fetch users")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, users)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	user, err := h.services.Users.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, mLogger, err, "User", id, "Failed to retrieve user")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, user)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var dto service.UserCreateDto
	if !web.DecodeJSON(w, r, mLogger, &dto) {
		return
	}
	user, err := h.services.Users.Create(r.Context(), dto)
	if err != nil {
		respondServiceError(w, r, mLogger, err, "User", "", "Failed to create user")
		return
	}
	mLogger.InfoContext(r.Context(), "User created", "ID", user.ID)
	web.RespondJSON(w, mLogger, http.StatusCreated, user)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	var dto service.UserUpdateDto
	if !web.DecodeJSON(w, r, mLogger, &dto) {
		return
	}
	user, err := h.services.Users.Update(r.Context(), id, dto)
	if err != nil {
		respondServiceError(w, r, mLogger, err, "User", id, "Failed to update user")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, user)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	if err := h.services.Users.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, mLogger, err, "User", id, "Failed to delete user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
