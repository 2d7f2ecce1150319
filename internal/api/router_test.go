package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cse341/records-api/internal/core/domain"
	"github.com/cse341/records-api/internal/core/service"
)

// --- In-memory stores ---

type memDataRepo struct {
	mu      sync.Mutex
	records map[string]domain.DataRecord
}

func (r *memDataRepo) List(context.Context) ([]*domain.DataRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.DataRecord, 0, len(r.records))
	for _, rec := range r.records {
		rec := rec
		out = append(out, &rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedDate.After(out[j].CreatedDate) })
	return out, nil
}

func (r *memDataRepo) FindByID(_ context.Context, id string) (*domain.DataRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, domain.ErrDataNotFound
	}
	return &rec, nil
}

func (r *memDataRepo) Create(_ context.Context, rec *domain.DataRecord) (*domain.DataRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *rec
	stored.ID = primitive.NewObjectID().Hex()
	r.records[stored.ID] = stored
	return &stored, nil
}

func (r *memDataRepo) Replace(_ context.Context, rec *domain.DataRecord) (*domain.DataRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, ok := r.records[rec.ID]
	if !ok {
		return nil, domain.ErrDataNotFound
	}
	stored := *rec
	stored.CreatedDate = prev.CreatedDate
	r.records[rec.ID] = stored
	return &stored, nil
}

func (r *memDataRepo) Delete(_ context.Context, id string) (*domain.DataRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, domain.ErrDataNotFound
	}
	delete(r.records, id)
	return &rec, nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.UserRecord
}

func (r *memUserRepo) emailTaken(email, exceptID string) bool {
	for id, u := range r.users {
		if u.Email == email && id != exceptID {
			return true
		}
	}
	return false
}

func (r *memUserRepo) List(context.Context) ([]*domain.UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.UserRecord, 0, len(r.users))
	for _, u := range r.users {
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].HireDate.After(out[j].HireDate) })
	return out, nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*domain.UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) Create(_ context.Context, u *domain.UserRecord) (*domain.UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emailTaken(u.Email, "") {
		return nil, domain.ErrEmailExists
	}
	stored := *u
	stored.ID = primitive.NewObjectID().Hex()
	r.users[stored.ID] = stored
	return &stored, nil
}

func (r *memUserRepo) Replace(_ context.Context, u *domain.UserRecord) (*domain.UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	if r.emailTaken(u.Email, u.ID) {
		return nil, domain.ErrEmailExists
	}
	r.users[u.ID] = *u
	stored := *u
	return &stored, nil
}

func (r *memUserRepo) Delete(_ context.Context, id string) (*domain.UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	delete(r.users, id)
	return &u, nil
}

type memSessions struct {
	mu       sync.Mutex
	sessions map[string]*domain.AuthSession
	seq      int
}

func (m *memSessions) Save(_ context.Context, s *domain.AuthSession) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	token := fmt.Sprintf("token-%d", m.seq)
	m.sessions[token] = s
	return token, nil
}

func (m *memSessions) Get(_ context.Context, token string) (*domain.AuthSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s, nil
}

func (m *memSessions) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

type fakeGitHub struct{}

func (fakeGitHub) AuthCodeURL(state string) string {
	return "https://github.test/login/oauth/authorize?state=" + url.QueryEscape(state)
}

func (fakeGitHub) Exchange(_ context.Context, code string) (*domain.ProviderProfile, error) {
	if code != "good-code" {
		return nil, fmt.Errorf("bad_verification_code")
	}
	return &domain.ProviderProfile{ID: "42", Login: "alice", Name: "Alice Liddell"}, nil
}

// --- Harness ---

type testServer struct {
	t       *testing.T
	e       http.Handler
	cookies map[string]*http.Cookie
	data    *memDataRepo
	users   *memUserRepo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	log := zerolog.Nop()
	dataRepo := &memDataRepo{records: make(map[string]domain.DataRecord)}
	userRepo := &memUserRepo{users: make(map[string]domain.UserRecord)}
	reg := prometheus.NewRegistry()

	e := NewRouter(Services{
		Data:  service.NewDataService(dataRepo, nil, log),
		Users: service.NewUserService(userRepo, nil, log),
		Auth:  service.NewAuthService(fakeGitHub{}, &memSessions{sessions: make(map[string]*domain.AuthSession)}, "state-secret", log),
	}, Options{
		SessionSecret:  "cookie-secret-0123456789abcdef",
		SessionTTL:     24 * time.Hour,
		AllowedOrigins: []string{"*"},
		Registerer:     reg,
		Gatherer:       reg,
	}, log)

	return &testServer{t: t, e: e, cookies: make(map[string]*http.Cookie), data: dataRepo, users: userRepo}
}

func (s *testServer) do(method, target, body string) *httptest.ResponseRecorder {
	s.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range s.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(s.cookies, ck.Name)
			continue
		}
		s.cookies[ck.Name] = ck
	}
	return rec
}

func (s *testServer) login() {
	s.t.Helper()
	start := s.do(http.MethodGet, "/auth/github", "")
	if start.Code != http.StatusFound {
		s.t.Fatalf("login start: expected 302, got %d", start.Code)
	}
	loc, err := url.Parse(start.Header().Get("Location"))
	if err != nil {
		s.t.Fatalf("bad redirect: %v", err)
	}
	state := loc.Query().Get("state")

	cb := s.do(http.MethodGet, "/auth/github/callback?code=good-code&state="+url.QueryEscape(state), "")
	if cb.Header().Get("Location") != "/auth/login/success" {
		s.t.Fatalf("login callback: expected success redirect, got %d %s", cb.Code, cb.Header().Get("Location"))
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("invalid json: %v (%s)", err, rec.Body.String())
	}
}

// --- Tests ---

func TestRouter_DataLifecycle(t *testing.T) {
	s := newTestServer(t)

	created := s.do(http.MethodPost, "/data", `{"title":"T","description":"D","category":"C","price":10,"metadata":{"author":"A"}}`)
	if created.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (%s)", created.Code, created.Body.String())
	}
	var rec map[string]any
	decodeBody(t, created, &rec)
	id, _ := rec["id"].(string)
	if id == "" || rec["isActive"] != true {
		t.Fatalf("unexpected record: %v", rec)
	}
	if tags, ok := rec["tags"].([]any); !ok || len(tags) != 0 {
		t.Fatalf("expected empty tags array, got %v", rec["tags"])
	}
	if meta, _ := rec["metadata"].(map[string]any); meta["version"] != "1.0" {
		t.Fatalf("expected default version, got %v", rec["metadata"])
	}

	got := s.do(http.MethodGet, "/data/"+id, "")
	if got.Code != http.StatusOK || strings.TrimSpace(got.Body.String()) != strings.TrimSpace(created.Body.String()) {
		t.Fatalf("get: expected same record, got %d %s", got.Code, got.Body.String())
	}

	if del := s.do(http.MethodDelete, "/data/"+id, ""); del.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", del.Code)
	}
	if again := s.do(http.MethodGet, "/data/"+id, ""); again.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", again.Code)
	}
	if again := s.do(http.MethodDelete, "/data/"+id, ""); again.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", again.Code)
	}
}

func TestRouter_UpdateAdvancesLastModified(t *testing.T) {
	s := newTestServer(t)
	body := `{"title":"T","description":"D","category":"C","price":10,"metadata":{"author":"A"}}`

	var before domain.DataRecord
	decodeBody(t, s.do(http.MethodPost, "/data", body), &before)

	for i := 0; i < 3; i++ {
		updated := s.do(http.MethodPut, "/data/"+before.ID, strings.Replace(body, `"T"`, fmt.Sprintf(`"T%d"`, i), 1))
		if updated.Code != http.StatusOK {
			t.Fatalf("update: expected 200, got %d (%s)", updated.Code, updated.Body.String())
		}
		var after domain.DataRecord
		decodeBody(t, updated, &after)

		if !after.LastModified.After(before.LastModified) {
			t.Fatalf("lastModified did not advance: %v -> %v", before.LastModified, after.LastModified)
		}
		if !after.CreatedDate.Equal(before.CreatedDate) {
			t.Fatalf("createdDate changed: %v -> %v", before.CreatedDate, after.CreatedDate)
		}
		before = after
	}
}

func TestRouter_MalformedIDs(t *testing.T) {
	s := newTestServer(t)

	for _, tc := range []struct{ method, target string }{
		{http.MethodGet, "/data/not-an-id"},
		{http.MethodPut, "/data/not-an-id"},
		{http.MethodDelete, "/data/not-an-id"},
		{http.MethodGet, "/users/not-an-id"},
		{http.MethodDelete, "/users/not-an-id"},
	} {
		rec := s.do(tc.method, tc.target, `{}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s %s: expected 400, got %d", tc.method, tc.target, rec.Code)
		}
		var body errorResponse
		decodeBody(t, rec, &body)
		if body.Error != "Bad Request" || body.Message != "Invalid id format" {
			t.Errorf("%s %s: unexpected envelope %+v", tc.method, tc.target, body)
		}
	}
}

func TestRouter_UserMissingPhone(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/users", `{"firstName":"J","lastName":"D","email":"j@d.io","role":"R","department":"D","metadata":{"createdBy":"HR"}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body errorResponse
	decodeBody(t, rec, &body)
	if body.Message != "Missing required fields" || len(body.Details) != 1 || body.Details[0] != "phone" {
		t.Fatalf("unexpected envelope: %+v", body)
	}
	if len(s.users.users) != 0 {
		t.Fatal("store must not be touched")
	}
}

func TestRouter_DuplicateEmails(t *testing.T) {
	s := newTestServer(t)
	user := func(email string) string {
		return fmt.Sprintf(`{"firstName":"J","lastName":"D","email":%q,"phone":"1","role":"R","department":"D","metadata":{"createdBy":"HR"}}`, email)
	}

	if rec := s.do(http.MethodPost, "/users", user("Jane@Example.com")); rec.Code != http.StatusCreated {
		t.Fatalf("first create: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	for _, email := range []string{"jane@example.com", "JANE@EXAMPLE.COM", " jane@Example.com "} {
		rec := s.do(http.MethodPost, "/users", user(email))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%q: expected 400, got %d", email, rec.Code)
		}
		var body errorResponse
		decodeBody(t, rec, &body)
		if body.Message != "Email already exists" {
			t.Fatalf("%q: unexpected envelope %+v", email, body)
		}
	}
	if len(s.users.users) != 1 {
		t.Fatalf("expected exactly one stored user, got %d", len(s.users.users))
	}
}

func TestRouter_UserHireDateFormats(t *testing.T) {
	s := newTestServer(t)
	user := func(email, hireDate string) string {
		return fmt.Sprintf(`{"firstName":"J","lastName":"D","email":%q,"phone":"1","role":"R","department":"D","hireDate":%q,"metadata":{"createdBy":"HR"}}`, email, hireDate)
	}

	rec := s.do(http.MethodPost, "/users", user("day@example.com", "2024-01-15"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("date-only: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	var created domain.UserRecord
	decodeBody(t, rec, &created)
	if !created.HireDate.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected hireDate: %v", created.HireDate)
	}

	rec = s.do(http.MethodPost, "/users", user("stamp@example.com", "2024-01-15T09:30:00Z"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("timestamp: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = s.do(http.MethodPost, "/users", user("bad@example.com", "15/01/2024"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad date: expected 400, got %d", rec.Code)
	}
	var body errorResponse
	decodeBody(t, rec, &body)
	if body.Message != "Invalid type for field hireDate" || len(body.Details) != 1 || body.Details[0] != "hireDate" {
		t.Fatalf("bad date: unexpected envelope %+v", body)
	}
}

func TestRouter_ProtectedRequiresLogin(t *testing.T) {
	s := newTestServer(t)

	for _, target := range []string{"/data/protected", "/users/protected", "/auth/profile"} {
		rec := s.do(http.MethodGet, target, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", target, rec.Code)
		}
		var body errorResponse
		decodeBody(t, rec, &body)
		if body.Error != "Unauthorized" || body.LoginURL != "/auth/github" {
			t.Fatalf("%s: unexpected envelope %+v", target, body)
		}
	}
}

func TestRouter_ProtectedCreateUsesSessionIdentity(t *testing.T) {
	s := newTestServer(t)
	s.login()

	rec := s.do(http.MethodPost, "/data/protected", `{"title":"T","description":"D","category":"C","price":10,"metadata":{"author":"Attacker"}}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	var resp struct {
		User domain.AuthSession `json:"user"`
		Data domain.DataRecord  `json:"data"`
	}
	decodeBody(t, rec, &resp)

	stored, err := s.data.FindByID(context.Background(), resp.Data.ID)
	if err != nil {
		t.Fatalf("record not stored: %v", err)
	}
	if stored.Metadata.Author != "Alice Liddell" {
		t.Fatalf("expected session display name as author, got %q", stored.Metadata.Author)
	}
	if resp.User.Username != "alice" {
		t.Fatalf("unexpected user in response: %+v", resp.User)
	}

	if list := s.do(http.MethodGet, "/data/protected", ""); list.Code != http.StatusOK {
		t.Fatalf("protected list: expected 200, got %d", list.Code)
	}
}

func TestRouter_LoginLogoutFlow(t *testing.T) {
	s := newTestServer(t)
	s.login()

	again := s.do(http.MethodGet, "/auth/github", "")
	if again.Code != http.StatusOK || !strings.Contains(again.Body.String(), "Already authenticated") {
		t.Fatalf("expected already-authenticated response, got %d %s", again.Code, again.Body.String())
	}

	if rec := s.do(http.MethodGet, "/auth/profile", ""); rec.Code != http.StatusOK {
		t.Fatalf("profile: expected 200, got %d", rec.Code)
	}

	if rec := s.do(http.MethodGet, "/auth/logout", ""); rec.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", rec.Code)
	}
	if rec := s.do(http.MethodGet, "/data/protected", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("after logout: expected 401, got %d", rec.Code)
	}
	if rec := s.do(http.MethodGet, "/auth/logout", ""); rec.Code != http.StatusOK {
		t.Fatalf("second logout: expected 200, got %d", rec.Code)
	}
}

func TestRouter_TamperedStateFails(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodGet, "/auth/github", "")

	rec := s.do(http.MethodGet, "/auth/github/callback?code=good-code&state=forged", "")
	if rec.Header().Get("Location") != "/auth/login/failed" {
		t.Fatalf("expected failure redirect, got %d %s", rec.Code, rec.Header().Get("Location"))
	}
	if rec := s.do(http.MethodGet, "/data/protected", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after failed login, got %d", rec.Code)
	}
}

func TestRouter_Ambient(t *testing.T) {
	s := newTestServer(t)

	for _, target := range []string{"/", "/health", "/metrics", "/auth/status"} {
		if rec := s.do(http.MethodGet, target, ""); rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", target, rec.Code)
		}
	}
	if rec := s.do(http.MethodGet, "/nope", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown route: expected 404, got %d", rec.Code)
	}
}
