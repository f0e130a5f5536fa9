package api

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/intlakaa/internal/mailer"
	"github.com/intlakaa/internal/middleware"
	"github.com/intlakaa/internal/model"
	"github.com/intlakaa/internal/storage"
)

type usersResponse struct {
	Success bool         `json:"success"`
	Users   []model.User `json:"users"`
}

// ListUsers godoc
// @Summary List admin accounts
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} usersResponse
// @Router /users [get]
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, usersResponse{Success: true, Users: users})
}

// InviteUser godoc
// @Summary Invite an admin
// @Description Creates a pending account and e-mails a one-time accept link. Owner only.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.InviteRequest true "E-mail to invite"
// @Success 201 {object} userResponse
// @Failure 403 {object} messageResponse
// @Failure 409 {object} messageResponse
// @Router /users/invite [post]
func (h *Handler) InviteUser(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	var req model.InviteRequest
	if !decode(w, r, &req) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, token, err := h.invites.Create(r.Context(), email, actor.ID, h.inviteLifetime)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			respondError(w, http.StatusConflict, msgEmailTaken)
			return
		}
		h.serverError(w, r, err)
		return
	}

	inv := mailer.Invite{
		To:         user.Email,
		Link:       h.inviteLink(token),
		InvitedBy:  actor.Email,
		ValidHours: int(h.inviteLifetime.Hours()),
	}
	if h.mailer != nil {
		if err := h.mailer.SendInvite(r.Context(), inv); err != nil {
			h.logger.Warnw("failed to send invite e-mail", "to", user.Email, "error", err)
		}
	}

	h.logger.Infow("admin invited", "email", user.Email, "by", actor.ID)
	respondJSON(w, http.StatusCreated, struct {
		Success bool        `json:"success"`
		Message string      `json:"message"`
		User    *model.User `json:"user"`
	}{true, msgInviteSent, user})
}

// UpdateUserRole godoc
// @Summary Change an admin's role
// @Description Owner only. The last owner cannot be demoted and nobody can change their own role.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body model.UpdateRoleRequest true "New role"
// @Success 200 {object} userResponse
// @Failure 404 {object} messageResponse
// @Failure 409 {object} messageResponse
// @Router /users/{id}/role [put]
func (h *Handler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())

	var req model.UpdateRoleRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := h.users.UpdateRole(r.Context(), actor.ID, r.PathValue("id"), req.Role)
	if err != nil {
		h.userMutationError(w, r, err)
		return
	}

	h.logger.Infow("role updated", "user_id", user.ID, "role", user.Role, "by", actor.ID)
	respondJSON(w, http.StatusOK, struct {
		Success bool        `json:"success"`
		Message string      `json:"message"`
		User    *model.User `json:"user"`
	}{true, msgRoleUpdated, user})
}

// DeleteUser godoc
// @Summary Delete an admin
// @Description Owner only. Irreversible. The last owner and the caller cannot be deleted.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} messageResponse
// @Failure 404 {object} messageResponse
// @Failure 409 {object} messageResponse
// @Router /users/{id} [delete]
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUserFromContext(r.Context())
	id := r.PathValue("id")

	if err := h.users.Delete(r.Context(), actor.ID, id); err != nil {
		h.userMutationError(w, r, err)
		return
	}

	h.logger.Infow("user deleted", "user_id", id, "by", actor.ID)
	respondMessage(w, http.StatusOK, msgUserDeleted)
}

func (h *Handler) userMutationError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, msgUserNotFound)
	case errors.Is(err, storage.ErrLastOwner):
		respondError(w, http.StatusConflict, msgLastOwner)
	case errors.Is(err, storage.ErrSelfModify):
		respondError(w, http.StatusConflict, msgSelfModify)
	default:
		h.serverError(w, r, err)
	}
}

func (h *Handler) inviteLink(token string) string {
	return strings.TrimRight(h.publicURL, "/") + "/admin/accept-invite?token=" + url.QueryEscape(token)
}
