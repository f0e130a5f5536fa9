package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/intlakaa/internal/config"
	"github.com/intlakaa/internal/mailer"
	"github.com/intlakaa/internal/middleware"
	"github.com/intlakaa/internal/model"
	"github.com/intlakaa/internal/storage"
	"github.com/stretchr/testify/require"
)

// fakeUsers keeps passwords in plain text inside PasswordHash.
type fakeUsers struct {
	mu        sync.Mutex
	byID      map[string]*model.User
	mutateErr error
}

func (f *fakeUsers) add(u *model.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[u.ID] = u
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, email) {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) List(context.Context) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUsers) ValidatePassword(user *model.User, password string) bool {
	return user != nil && !user.Pending() && *user.PasswordHash == password
}

func (f *fakeUsers) TouchSignIn(context.Context, string) error { return nil }

func (f *fakeUsers) SetPassword(_ context.Context, userID, password string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	u.PasswordHash = &password
	u.TokenVersion++
	u.MustChangePassword = false
	c := *u
	return &c, nil
}

func (f *fakeUsers) UpdateRole(_ context.Context, actorID, targetID string, role model.UserRole) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	if actorID == targetID {
		return nil, storage.ErrSelfModify
	}
	u, ok := f.byID[targetID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	u.Role = role
	c := *u
	return &c, nil
}

func (f *fakeUsers) Delete(_ context.Context, actorID, targetID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutateErr != nil {
		return f.mutateErr
	}
	if actorID == targetID {
		return storage.ErrSelfModify
	}
	if _, ok := f.byID[targetID]; !ok {
		return storage.ErrNotFound
	}
	delete(f.byID, targetID)
	return nil
}

type fakeInvites struct {
	users    *fakeUsers
	tokens   map[string]string
	nextID   int
	lifetime time.Duration
}

func (f *fakeInvites) Create(ctx context.Context, email, createdBy string, lifetime time.Duration) (*model.User, string, error) {
	if existing, _ := f.users.FindByEmail(ctx, email); existing != nil {
		return nil, "", storage.ErrConflict
	}
	f.nextID++
	f.lifetime = lifetime
	u := &model.User{
		ID:                 "u-invited-" + string(rune('0'+f.nextID)),
		Email:              email,
		Role:               model.UserRoleAdmin,
		MustChangePassword: true,
	}
	f.users.add(u)
	token := "tok-" + u.ID
	f.tokens[token] = u.ID
	c := *u
	return &c, token, nil
}

func (f *fakeInvites) Accept(ctx context.Context, token, password string) (*model.User, error) {
	id, ok := f.tokens[token]
	if !ok {
		return nil, storage.ErrInviteInvalid
	}
	delete(f.tokens, token)
	return f.users.SetPassword(ctx, id, password)
}

type fakeLeads struct {
	mu      sync.Mutex
	leads   []model.Lead
	lastQ   model.LeadQuery
	stats   model.LeadStats
	statsAt time.Time
}

func (f *fakeLeads) Create(_ context.Context, lead *model.Lead) (*model.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *lead
	c.ID = "lead-" + string(rune('a'+len(f.leads)))
	c.CreatedAt = time.Now()
	f.leads = append(f.leads, c)
	return &c, nil
}

func (f *fakeLeads) List(_ context.Context, q model.LeadQuery) ([]model.Lead, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQ = q
	var matched []model.Lead
	term := strings.ToLower(q.Search)
	for _, l := range f.leads {
		if term == "" || strings.Contains(strings.ToLower(l.Name), term) || strings.Contains(l.Phone, term) {
			matched = append(matched, l)
		}
	}
	start := min(q.Offset(), len(matched))
	end := min(start+q.Limit, len(matched))
	return matched[start:end], len(matched), nil
}

func (f *fakeLeads) All(context.Context) ([]model.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Lead(nil), f.leads...), nil
}

func (f *fakeLeads) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, l := range f.leads {
		if l.ID == id {
			f.leads = append(f.leads[:i], f.leads[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeLeads) Stats(_ context.Context, now time.Time) (*model.LeadStats, error) {
	f.statsAt = now
	s := f.stats
	return &s, nil
}

type fakeSeo struct {
	mu       sync.Mutex
	settings model.SeoSettings
	saves    int
	getErr   error
}

func (f *fakeSeo) Get(context.Context) (*model.SeoSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	s := f.settings
	return &s, nil
}

func (f *fakeSeo) Save(_ context.Context, s *model.SeoSettings) (*model.SeoSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	f.settings = *s
	out := *s
	return &out, nil
}

type fakeMailer struct {
	sent []mailer.Invite
	err  error
}

func (f *fakeMailer) SendInvite(_ context.Context, inv mailer.Invite) error {
	f.sent = append(f.sent, inv)
	return f.err
}

type fakeGeo struct {
	country string
	err     error
	calls   []string
}

func (f *fakeGeo) Country(_ context.Context, ip string) (string, error) {
	f.calls = append(f.calls, ip)
	return f.country, f.err
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

var errBoom = errors.New("boom")

type testEnv struct {
	users   *fakeUsers
	invites *fakeInvites
	leads   *fakeLeads
	seo     *fakeSeo
	mailer  *fakeMailer
	geo     *fakeGeo
	auth    *middleware.AuthMiddleware
	router  http.Handler
}

func ptr(s string) *string { return &s }

func newTestEnv(t *testing.T, siteDir string) *testEnv {
	t.Helper()

	users := &fakeUsers{byID: map[string]*model.User{}}
	users.add(&model.User{ID: "u-owner", Email: "owner@intlakaa.com", PasswordHash: ptr("owner-pass"), Role: model.UserRoleOwner})
	users.add(&model.User{ID: "u-admin", Email: "admin@intlakaa.com", PasswordHash: ptr("admin-pass"), Role: model.UserRoleAdmin})
	users.add(&model.User{ID: "u-pending", Email: "pending@intlakaa.com", Role: model.UserRoleAdmin, MustChangePassword: true})

	env := &testEnv{
		users:   users,
		invites: &fakeInvites{users: users, tokens: map[string]string{}},
		leads:   &fakeLeads{},
		seo:     &fakeSeo{},
		mailer:  &fakeMailer{},
		geo:     &fakeGeo{},
	}
	env.auth = middleware.NewAuthMiddleware(config.JWTConfig{Secret: "api-test-secret", ExpirationHours: 1}, users)

	h := NewHandler(Deps{
		Users:          users,
		Invites:        env.invites,
		Leads:          env.leads,
		Seo:            env.seo,
		Mailer:         env.mailer,
		Geo:            env.geo,
		Tokens:         env.auth,
		DB:             fakePinger{},
		PublicURL:      "https://www.intlakaa.com/",
		SiteDir:        siteDir,
		InviteLifetime: 24 * time.Hour,
		Location:       time.FixedZone("AST", 3*3600),
	})
	env.router = NewRouter(h, env.auth, RouterOptions{AllowedOrigins: []string{"https://www.intlakaa.com"}})
	return env
}

func (e *testEnv) token(t *testing.T, userID string) string {
	t.Helper()
	u, _ := e.users.FindByID(context.Background(), userID)
	require.NotNil(t, u)
	token, _, err := e.auth.GenerateToken(u)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var b errorBody
	decodeBody(t, rec, &b)
	return b
}
