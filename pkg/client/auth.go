package client

import (
	"context"
	"net/http"
	"strings"
)

// AuthClient manages the admin session.
type AuthClient struct {
	c *Client
}

type sessionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
}

// Login validates the credentials locally, then exchanges them for a
// session. Any failure leaves no session behind.
func (a *AuthClient) Login(ctx context.Context, email, password string) (*User, error) {
	if err := checkCredentials(email, password); err != nil {
		return nil, err
	}

	var resp sessionResponse
	err := a.c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    strings.TrimSpace(email),
		"password": password,
	}, &resp)
	if err != nil {
		a.c.session.Clear()
		if IsUnauthorized(err) {
			return nil, &APIError{Status: http.StatusUnauthorized, Message: msgLoginFailed}
		}
		return nil, err
	}
	return a.establish(resp)
}

// Logout clears the session and navigates to the login route. It always
// succeeds.
func (a *AuthClient) Logout() {
	if err := a.c.session.Clear(); err != nil {
		a.c.logger.Warnw("failed to clear stored session", "error", err)
	}
	a.c.cache.Clear()
	a.c.navigate(LoginPath)
}

// CurrentUser validates the token against the server and returns the live
// user. A rejected token clears the session.
func (a *AuthClient) CurrentUser(ctx context.Context) (*User, error) {
	if a.c.session.Token() == "" {
		return nil, &APIError{Status: http.StatusUnauthorized, Message: msgUnauthorized}
	}

	var resp struct {
		User *User `json:"user"`
	}
	if err := a.c.do(ctx, http.MethodGet, "/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		a.c.session.Clear()
		return nil, &APIError{Status: http.StatusUnauthorized, Message: msgUnauthorized}
	}
	if err := a.c.session.SetUser(resp.User); err != nil {
		a.c.logger.Warnw("failed to persist session", "error", err)
	}
	return resp.User, nil
}

// ChangePassword rotates the password. The server revokes every token on
// success, so the session is cleared and the caller must log in again.
func (a *AuthClient) ChangePassword(ctx context.Context, current, next, confirmation string) error {
	if current == "" {
		return invalid(msgRequired)
	}
	if err := checkNewPassword(next); err != nil {
		return err
	}
	if next != confirmation {
		return invalid(msgPasswordConfirm)
	}
	if next == current {
		return invalid(msgPasswordSame)
	}

	err := a.c.do(ctx, http.MethodPut, "/auth/change-password", map[string]string{
		"currentPassword": current,
		"newPassword":     next,
	}, nil)
	if err != nil {
		return err
	}

	a.c.session.Clear()
	a.c.cache.Clear()
	return nil
}

// AcceptInvite exchanges a one-time invite token and a new password for a
// session. Every rejection reads as an invalid or expired invite.
func (a *AuthClient) AcceptInvite(ctx context.Context, token, password string) (*User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, invalid(msgInviteInvalid)
	}
	if err := checkNewPassword(password); err != nil {
		return nil, err
	}

	a.c.session.Clear()

	var resp sessionResponse
	err := a.c.do(ctx, http.MethodPost, "/auth/accept-invite", map[string]string{
		"token":    token,
		"password": password,
	}, &resp)
	if err != nil {
		a.c.session.Clear()
		if status := statusOf(err); status >= 400 && status < 500 && status != http.StatusTooManyRequests {
			return nil, &APIError{Status: status, Message: msgInviteInvalid}
		}
		return nil, err
	}
	return a.establish(resp)
}

func (a *AuthClient) establish(resp sessionResponse) (*User, error) {
	if resp.Token == "" || resp.User == nil {
		a.c.session.Clear()
		return nil, &APIError{Status: http.StatusUnauthorized, Message: msgUnauthorized}
	}
	if err := a.c.session.Set(resp.Token, resp.User); err != nil {
		a.c.logger.Warnw("failed to persist session", "error", err)
	}
	a.c.cache.Clear()
	return resp.User, nil
}
