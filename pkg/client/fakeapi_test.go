package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/intlakaa/pkg/seo"
)

// fakeAPI is an in-memory stand-in for the server's /api surface.
type fakeAPI struct {
	mu        sync.Mutex
	users     map[string]*User // by id
	passwords map[string]string
	tokens    map[string]string // token -> user id
	invites   map[string]string // invite token -> user id
	leads     []Lead
	settings  SeoSettings
	seoSaves  int
	lastSeo   map[string]interface{}
	forbidden bool

	hits     map[string]int
	lastAuth string
	queries  []string

	slowSeen chan struct{}
	release  chan struct{}
	server   *httptest.Server
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{
		users: map[string]*User{
			"u-owner": {ID: "u-owner", Email: "owner@intlakaa.com", Role: RoleOwner},
			"u-admin": {ID: "u-admin", Email: "admin@intlakaa.com", Role: RoleAdmin},
		},
		passwords: map[string]string{"u-owner": "owner-pass", "u-admin": "admin-pass"},
		tokens:    map[string]string{},
		invites:   map[string]string{},
		hits:      map[string]int{},
		slowSeen:  make(chan struct{}, 1),
		release:   make(chan struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", f.login)
	mux.HandleFunc("GET /auth/me", f.authed(f.me))
	mux.HandleFunc("PUT /auth/change-password", f.authed(f.changePassword))
	mux.HandleFunc("POST /auth/accept-invite", f.acceptInvite)
	mux.HandleFunc("GET /requests", f.authed(f.listLeads))
	mux.HandleFunc("POST /requests", f.createLead)
	mux.HandleFunc("DELETE /requests/{id}", f.authed(f.deleteLead))
	mux.HandleFunc("GET /requests/export", f.authed(f.exportLeads))
	mux.HandleFunc("GET /requests/export.xlsx", f.authed(f.exportXLSX))
	mux.HandleFunc("GET /requests/stats", f.authed(f.stats))
	mux.HandleFunc("GET /users", f.authed(f.listUsers))
	mux.HandleFunc("POST /users/invite", f.owner(f.invite))
	mux.HandleFunc("PUT /users/{id}/role", f.owner(f.updateRole))
	mux.HandleFunc("DELETE /users/{id}", f.owner(f.deleteUser))
	mux.HandleFunc("GET /seo", f.getSeo)
	mux.HandleFunc("PUT /seo", f.authed(f.putSeo))
	mux.HandleFunc("POST /seo/sync", f.authed(f.syncSeo))

	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.hits[r.Method+" "+r.URL.Path]++
		f.lastAuth = r.Header.Get("Authorization")
		f.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.server.Close)
	t.Cleanup(func() {
		select {
		case <-f.release:
		default:
			close(f.release)
		}
	})
	return f
}

func (f *fakeAPI) client(opts ...Option) *Client {
	return New(f.server.URL, opts...)
}

func (f *fakeAPI) hitCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[key]
}

func (f *fakeAPI) authHeader() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastAuth
}

func (f *fakeAPI) listQueries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func (f *fakeAPI) setSeo(s seo.Settings) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settings.Settings = s
}

// seoWrites returns the number of effective saves and the last PUT body.
func (f *fakeAPI) seoWrites() (int, map[string]interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seoSaves, f.lastSeo
}

func (f *fakeAPI) issue(userID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	token := fmt.Sprintf("tok-%s-%d", userID, len(f.tokens))
	f.tokens[token] = userID
	return token
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeFail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{"success": false, "message": message})
}

func (f *fakeAPI) userFor(r *http.Request) *User {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.tokens[strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")]
	if !ok {
		return nil
	}
	u, ok := f.users[id]
	if !ok {
		return nil
	}
	c := *u
	return &c
}

func (f *fakeAPI) authed(next func(http.ResponseWriter, *http.Request, *User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := f.userFor(r)
		if u == nil {
			writeFail(w, http.StatusUnauthorized, "server: unauthorized")
			return
		}
		f.mu.Lock()
		forbidden := f.forbidden
		f.mu.Unlock()
		if forbidden && r.URL.Path != "/auth/me" {
			writeFail(w, http.StatusForbidden, "server: forbidden")
			return
		}
		next(w, r, u)
	}
}

func (f *fakeAPI) owner(next func(http.ResponseWriter, *http.Request, *User)) http.HandlerFunc {
	return f.authed(func(w http.ResponseWriter, r *http.Request, u *User) {
		if u.Role != RoleOwner {
			writeFail(w, http.StatusForbidden, "server: forbidden")
			return
		}
		next(w, r, u)
	})
}

func (f *fakeAPI) login(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	var found *User
	for id, u := range f.users {
		if strings.EqualFold(u.Email, body["email"]) && f.passwords[id] == body["password"] {
			found = u
		}
	}
	f.mu.Unlock()

	if found == nil {
		writeFail(w, http.StatusUnauthorized, "server: bad credentials")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "token": f.issue(found.ID), "user": found})
}

func (f *fakeAPI) me(w http.ResponseWriter, r *http.Request, u *User) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "user": u})
}

func (f *fakeAPI) changePassword(w http.ResponseWriter, r *http.Request, u *User) {
	var body map[string]string
	json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.passwords[u.ID] != body["currentPassword"] {
		writeFail(w, http.StatusBadRequest, "server: wrong password")
		return
	}
	f.passwords[u.ID] = body["newPassword"]
	for token, id := range f.tokens {
		if id == u.ID {
			delete(f.tokens, token)
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "ok"})
}

func (f *fakeAPI) acceptInvite(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	id, ok := f.invites[body["token"]]
	if ok {
		delete(f.invites, body["token"])
		f.passwords[id] = body["password"]
		f.users[id].MustChangePassword = false
	}
	f.mu.Unlock()

	if !ok {
		writeFail(w, http.StatusBadRequest, "server: invite expired")
		return
	}
	f.mu.Lock()
	u := *f.users[id]
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "token": f.issue(id), "user": u})
}

func (f *fakeAPI) listLeads(w http.ResponseWriter, r *http.Request, _ *User) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	search := q.Get("search")

	f.mu.Lock()
	f.queries = append(f.queries, r.URL.RawQuery)
	f.mu.Unlock()

	if search == "slow" {
		f.slowSeen <- struct{}{}
		<-f.release
	}

	f.mu.Lock()
	var matched []Lead
	for _, l := range f.leads {
		if search == "" || strings.Contains(strings.ToLower(l.Name), strings.ToLower(search)) || strings.Contains(l.Phone, search) {
			matched = append(matched, l)
		}
	}
	f.mu.Unlock()

	start := min((page-1)*limit, len(matched))
	end := min(start+limit, len(matched))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"data":       matched[start:end],
		"count":      len(matched),
		"page":       page,
		"limit":      limit,
		"totalPages": (len(matched) + limit - 1) / limit,
	})
}

func (f *fakeAPI) createLead(w http.ResponseWriter, r *http.Request) {
	var in LeadInput
	json.NewDecoder(r.Body).Decode(&in)

	f.mu.Lock()
	lead := Lead{
		ID:           fmt.Sprintf("lead-%d", len(f.leads)+1),
		Name:         in.Name,
		Phone:        in.Phone,
		StoreURL:     in.StoreURL,
		MonthlySales: in.MonthlySales,
		CreatedAt:    time.Now(),
	}
	if in.Country != "" {
		lead.Country = &in.Country
	}
	f.leads = append([]Lead{lead}, f.leads...)
	f.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "data": lead})
}

func (f *fakeAPI) deleteLead(w http.ResponseWriter, r *http.Request, _ *User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, l := range f.leads {
		if l.ID == r.PathValue("id") {
			f.leads = append(f.leads[:i], f.leads[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
			return
		}
	}
	writeFail(w, http.StatusNotFound, "server: request not found")
}

func (f *fakeAPI) exportLeads(w http.ResponseWriter, r *http.Request, _ *User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": f.leads})
}

func (f *fakeAPI) exportXLSX(w http.ResponseWriter, r *http.Request, _ *User) {
	w.Header().Set("Content-Disposition", `attachment; filename="requests-2026-10-14.xlsx"`)
	w.Write([]byte("PK-fake"))
}

func (f *fakeAPI) stats(w http.ResponseWriter, r *http.Request, _ *User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": LeadStats{Total: len(f.leads)}})
}

func (f *fakeAPI) listUsers(w http.ResponseWriter, r *http.Request, _ *User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := make([]User, 0, len(f.users))
	for _, u := range f.users {
		users = append(users, *u)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "users": users})
}

func (f *fakeAPI) invite(w http.ResponseWriter, r *http.Request, _ *User) {
	var body map[string]string
	json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == body["email"] {
			writeFail(w, http.StatusConflict, "server: email taken")
			return
		}
	}
	u := &User{ID: "u-" + body["email"], Email: body["email"], Role: RoleAdmin, MustChangePassword: true}
	f.users[u.ID] = u
	f.invites["inv-"+u.ID] = u.ID
	writeJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "user": u})
}

func (f *fakeAPI) updateRole(w http.ResponseWriter, r *http.Request, _ *User) {
	var body map[string]Role
	json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[r.PathValue("id")]
	if !ok {
		writeFail(w, http.StatusNotFound, "server: user not found")
		return
	}
	u.Role = body["role"]
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "user": u})
}

func (f *fakeAPI) deleteUser(w http.ResponseWriter, r *http.Request, _ *User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[r.PathValue("id")]; !ok {
		writeFail(w, http.StatusNotFound, "server: user not found")
		return
	}
	delete(f.users, r.PathValue("id"))
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (f *fakeAPI) getSeo(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": f.settings})
}

func (f *fakeAPI) putSeo(w http.ResponseWriter, r *http.Request, _ *User) {
	var body map[string]interface{}
	json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastSeo = body
	raw, _ := json.Marshal(f.settings)
	var merged map[string]interface{}
	json.Unmarshal(raw, &merged)
	for k, v := range body {
		merged[k] = v
	}
	raw, _ = json.Marshal(merged)
	var next SeoSettings
	json.Unmarshal(raw, &next)
	if next.Settings != f.settings.Settings {
		f.seoSaves++
		f.settings = next
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": f.settings})
}

func (f *fakeAPI) syncSeo(w http.ResponseWriter, r *http.Request, _ *User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settings.Settings = seo.Settings{SiteTitle: "from page"}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": f.settings})
}
