package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/intlakaa/internal/middleware"
	"github.com/intlakaa/internal/model"
	"github.com/intlakaa/internal/storage"
)

type userResponse struct {
	Success bool        `json:"success"`
	User    *model.User `json:"user"`
}

// Login godoc
// @Summary Login
// @Description Authenticate with email and password and receive a JWT
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Login credentials"
// @Success 200 {object} model.LoginResponse
// @Failure 400 {object} messageResponse
// @Failure 401 {object} messageResponse
// @Failure 429 {object} messageResponse
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := h.users.FindByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if !h.users.ValidatePassword(user, req.Password) {
		respondError(w, http.StatusUnauthorized, msgLoginFailed)
		return
	}

	if err := h.users.TouchSignIn(r.Context(), user.ID); err != nil {
		h.logger.Warnw("failed to record sign-in", "user_id", user.ID, "error", err)
	}

	h.respondSession(w, r, http.StatusOK, user)
}

// Logout godoc
// @Summary Logout
// @Description Tokens are stateless; clients discard theirs. Present for API symmetry.
// @Tags Authentication
// @Produce json
// @Success 200 {object} messageResponse
// @Router /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	respondMessage(w, http.StatusOK, msgLogoutSuccess)
}

// Me godoc
// @Summary Current user
// @Description Returns the live account record behind the token
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} userResponse
// @Failure 401 {object} messageResponse
// @Router /auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, userResponse{Success: true, User: middleware.GetUserFromContext(r.Context())})
}

// ChangePassword godoc
// @Summary Change password
// @Description Rotates the password. Every existing token, including the caller's, stops working.
// @Tags Authentication
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} messageResponse
// @Failure 400 {object} messageResponse
// @Router /auth/change-password [put]
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req model.ChangePasswordRequest
	if !decode(w, r, &req) {
		return
	}
	if !h.users.ValidatePassword(user, req.CurrentPassword) {
		respondError(w, http.StatusBadRequest, msgWrongPassword)
		return
	}

	if _, err := h.users.SetPassword(r.Context(), user.ID, req.NewPassword); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}
		h.serverError(w, r, err)
		return
	}

	h.logger.Infow("password changed", "user_id", user.ID)
	respondMessage(w, http.StatusOK, msgPasswordChanged)
}

// AcceptInvite godoc
// @Summary Accept invite
// @Description Exchanges a one-time invite token for a password and a session
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body model.AcceptInviteRequest true "Invite token and new password"
// @Success 200 {object} model.LoginResponse
// @Failure 400 {object} messageResponse
// @Failure 429 {object} messageResponse
// @Router /auth/accept-invite [post]
func (h *Handler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	var req model.AcceptInviteRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := h.invites.Accept(r.Context(), strings.TrimSpace(req.Token), req.Password)
	if err != nil {
		if errors.Is(err, storage.ErrInviteInvalid) {
			respondError(w, http.StatusBadRequest, msgInviteInvalid)
			return
		}
		h.serverError(w, r, err)
		return
	}

	if err := h.users.TouchSignIn(r.Context(), user.ID); err != nil {
		h.logger.Warnw("failed to record sign-in", "user_id", user.ID, "error", err)
	}

	h.logger.Infow("invite accepted", "user_id", user.ID)
	h.respondSession(w, r, http.StatusOK, user)
}

func (h *Handler) respondSession(w http.ResponseWriter, r *http.Request, status int, user *model.User) {
	token, _, err := h.tokens.GenerateToken(user)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	respondJSON(w, status, model.LoginResponse{
		Success: true,
		Message: msgLoginSuccess,
		Token:   token,
		User:    user,
	})
}
