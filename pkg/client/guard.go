package client

import (
	"net/url"
	"strings"
)

const ChangePasswordPath = "/admin/change-password"

type GuardAction int

const (
	GuardRender GuardAction = iota
	GuardLoading
	GuardRedirect
)

type GuardDecision struct {
	Action   GuardAction
	Location string
}

// Guard decides what an /admin route shows for the given session state.
// Unauthenticated visitors go to the login route with the requested path in
// "from"; a must-change-password session is held on the change-password
// route everywhere except login and change-password themselves.
func Guard(state AuthState, path string) GuardDecision {
	route := strings.TrimRight(path, "/")
	if i := strings.IndexAny(route, "?#"); i >= 0 {
		route = route[:i]
	}

	switch state {
	case StateUnknown:
		return GuardDecision{Action: GuardLoading}
	case StateUnauthenticated:
		if route == LoginPath {
			return GuardDecision{Action: GuardRender}
		}
		return GuardDecision{Action: GuardRedirect, Location: LoginPath + "?from=" + url.QueryEscape(path)}
	case StateMustChangePassword:
		if route == LoginPath || route == ChangePasswordPath {
			return GuardDecision{Action: GuardRender}
		}
		return GuardDecision{Action: GuardRedirect, Location: ChangePasswordPath}
	default:
		return GuardDecision{Action: GuardRender}
	}
}

// RedirectAfterLogin returns the route a successful login should land on.
func RedirectAfterLogin(from string) string {
	if from == "" || !strings.HasPrefix(from, "/admin") || strings.HasPrefix(from, LoginPath) {
		return "/admin"
	}
	return from
}
