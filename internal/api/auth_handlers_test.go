package api

import (
	"net/http"
	"testing"

	"github.com/intlakaa/internal/middleware"
	"github.com/intlakaa/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginSuccess(t *testing.T) {
	env := newTestEnv(t, "")

	rec := env.do(t, http.MethodPost, "/api/auth/login", model.LoginRequest{Email: "Owner@Intlakaa.com", Password: "owner-pass"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var resp model.LoginResponse
	decodeBody(t, rec, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, msgLoginSuccess, resp.Message)
	require.NotNil(t, resp.User)
	assert.Equal(t, "u-owner", resp.User.ID)
	assert.Equal(t, model.UserRoleOwner, resp.User.Role)

	claims, err := env.auth.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-owner", claims.UserID)
}

func TestLoginFailuresShareOneMessage(t *testing.T) {
	env := newTestEnv(t, "")

	tests := []struct {
		name string
		req  model.LoginRequest
	}{
		{"wrong password", model.LoginRequest{Email: "owner@intlakaa.com", Password: "nope"}},
		{"unknown email", model.LoginRequest{Email: "ghost@intlakaa.com", Password: "owner-pass"}},
		{"pending invite", model.LoginRequest{Email: "pending@intlakaa.com", Password: "anything"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/auth/login", tt.req, "")
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			body := errorOf(t, rec)
			assert.False(t, body.Success)
			assert.Equal(t, msgLoginFailed, body.Message)
		})
	}
}

func TestLoginValidation(t *testing.T) {
	env := newTestEnv(t, "")

	rec := env.do(t, http.MethodPost, "/api/auth/login", model.LoginRequest{Email: "not-an-email", Password: "x"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgInvalidEmail, errorOf(t, rec).Message)

	rec = env.do(t, http.MethodPost, "/api/auth/login", "{", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgInvalidBody, errorOf(t, rec).Message)

	rec = env.do(t, http.MethodPost, "/api/auth/login", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgRequiredFields, errorOf(t, rec).Message)
}

func TestMeReturnsLiveUser(t *testing.T) {
	env := newTestEnv(t, "")
	token := env.token(t, "u-admin")

	rec := env.do(t, http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp userResponse
	decodeBody(t, rec, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, "admin@intlakaa.com", resp.User.Email)

	rec = env.do(t, http.MethodGet, "/api/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, middleware.MsgUnauthorized, errorOf(t, rec).Message)
}

func TestChangePasswordRevokesTokens(t *testing.T) {
	env := newTestEnv(t, "")
	token := env.token(t, "u-admin")

	rec := env.do(t, http.MethodPut, "/api/auth/change-password", model.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "fresh-pass"}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgWrongPassword, errorOf(t, rec).Message)

	rec = env.do(t, http.MethodPut, "/api/auth/change-password", model.ChangePasswordRequest{CurrentPassword: "admin-pass", NewPassword: "short"}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgPasswordTooShort, errorOf(t, rec).Message)

	rec = env.do(t, http.MethodPut, "/api/auth/change-password", model.ChangePasswordRequest{CurrentPassword: "admin-pass", NewPassword: "admin-pass"}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgPasswordSame, errorOf(t, rec).Message)

	rec = env.do(t, http.MethodPut, "/api/auth/change-password", model.ChangePasswordRequest{CurrentPassword: "admin-pass", NewPassword: "fresh-pass"}, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, msgPasswordChanged, errorOf(t, rec).Message)

	rec = env.do(t, http.MethodGet, "/api/auth/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth/login", model.LoginRequest{Email: "admin@intlakaa.com", Password: "fresh-pass"}, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAcceptInvite(t *testing.T) {
	env := newTestEnv(t, "")
	env.invites.tokens["tok-pending"] = "u-pending"

	rec := env.do(t, http.MethodPost, "/api/auth/accept-invite", model.AcceptInviteRequest{Token: "tok-unknown", Password: "welcome1"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgInviteInvalid, errorOf(t, rec).Message)

	rec = env.do(t, http.MethodPost, "/api/auth/accept-invite", model.AcceptInviteRequest{Token: " tok-pending ", Password: "welcome1"}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.LoginResponse
	decodeBody(t, rec, &resp)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "u-pending", resp.User.ID)
	assert.False(t, resp.User.MustChangePassword)

	rec = env.do(t, http.MethodGet, "/api/auth/me", nil, resp.Token)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth/accept-invite", model.AcceptInviteRequest{Token: "tok-pending", Password: "welcome1"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t, "")

	rec := env.do(t, http.MethodPost, "/api/auth/logout", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := errorOf(t, rec)
	assert.True(t, body.Success)
	assert.Equal(t, msgLogoutSuccess, body.Message)
}
