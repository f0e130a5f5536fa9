package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// UsersClient covers admin accounts. Mutations are owner only; the role is
// checked against the live session before any request is sent.
type UsersClient struct {
	c *Client
}

func (u *UsersClient) List(ctx context.Context) ([]User, error) {
	return cached(u.c.cache, KeyAdminUsers, func() ([]User, error) {
		var resp struct {
			Users []User `json:"users"`
		}
		if err := u.c.do(ctx, http.MethodGet, "/users", nil, &resp); err != nil {
			return nil, err
		}
		return resp.Users, nil
	})
}

// Invite creates a pending account and sends it an accept link.
func (u *UsersClient) Invite(ctx context.Context, email string) (*User, error) {
	if err := checkEmail(email); err != nil {
		return nil, err
	}
	if err := u.requireOwner(ctx); err != nil {
		return nil, err
	}

	var resp struct {
		User *User `json:"user"`
	}
	err := u.c.do(ctx, http.MethodPost, "/users/invite", map[string]string{
		"email": strings.ToLower(strings.TrimSpace(email)),
	}, &resp)
	if err != nil {
		return nil, err
	}
	u.c.cache.Invalidate(KeyAdminUsers)
	return resp.User, nil
}

func (u *UsersClient) UpdateRole(ctx context.Context, id string, role Role) (*User, error) {
	if role != RoleOwner && role != RoleAdmin {
		return nil, invalid(msgInvalidRole)
	}
	if err := u.requireOwner(ctx); err != nil {
		return nil, err
	}

	var resp struct {
		User *User `json:"user"`
	}
	if err := u.c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(id)+"/role", map[string]Role{"role": role}, &resp); err != nil {
		return nil, err
	}
	u.c.cache.Invalidate(KeyAdminUsers)
	return resp.User, nil
}

// Delete removes an account after confirm agrees. It cannot be undone.
func (u *UsersClient) Delete(ctx context.Context, id string, confirm Confirm) error {
	if confirm == nil || !confirm("هل أنت متأكد من حذف هذا المستخدم؟ لا يمكن التراجع عن هذا الإجراء") {
		return ErrNotConfirmed
	}
	if err := u.requireOwner(ctx); err != nil {
		return err
	}
	if err := u.c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil); err != nil {
		return err
	}
	u.c.cache.Invalidate(KeyAdminUsers)
	return nil
}

func (u *UsersClient) requireOwner(ctx context.Context) error {
	user, err := u.c.Auth.CurrentUser(ctx)
	if err != nil {
		return err
	}
	if !user.IsOwner() {
		return ErrOwnerOnly
	}
	return nil
}
