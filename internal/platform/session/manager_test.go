package session

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type mockRepo struct {
	sessions map[uuid.UUID]*Session
}

func newMockRepo() *mockRepo {
	return &mockRepo{sessions: make(map[uuid.UUID]*Session)}
}

func (m *mockRepo) Create(_ context.Context, s *Session) error {
	m.sessions[s.ID] = s
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session not found")
	}
	return s, nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.sessions, id)
	return nil
}

func (m *mockRepo) DeleteExpired(_ context.Context) (int64, error) {
	var n int64
	now := time.Now().UTC()
	for id, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

func newTestManager(repo Repository) *Manager {
	return NewManager(repo, "test-secret", time.Hour, false, true)
}

func TestIssueAndResolve(t *testing.T) {
	repo := newMockRepo()
	m := newTestManager(repo)
	userID := uuid.New()

	s, cookie, err := m.Issue(context.Background(), userID)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	if cookie == "" {
		t.Fatal("expected non-empty cookie value")
	}
	if s.UserID != userID {
		t.Errorf("session user id = %v, want %v", s.UserID, userID)
	}

	resolved, err := m.Resolve(context.Background(), cookie)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if resolved.ID != s.ID {
		t.Errorf("resolved session id = %v, want %v", resolved.ID, s.ID)
	}
	if resolved.UserID != userID {
		t.Errorf("resolved user id = %v, want %v", resolved.UserID, userID)
	}
}

func TestResolve_TamperedToken(t *testing.T) {
	repo := newMockRepo()
	m := newTestManager(repo)

	_, cookie, err := m.Issue(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	if _, err := m.Resolve(context.Background(), cookie+"x"); err == nil {
		t.Error("expected error for tampered token")
	}
}

func TestResolve_WrongSecret(t *testing.T) {
	repo := newMockRepo()
	m := newTestManager(repo)
	other := NewManager(repo, "other-secret", time.Hour, false, true)

	_, cookie, err := other.Issue(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	if _, err := m.Resolve(context.Background(), cookie); err == nil {
		t.Error("expected error for token signed with another secret")
	}
}

func TestResolve_RevokedSession(t *testing.T) {
	repo := newMockRepo()
	m := newTestManager(repo)

	s, cookie, err := m.Issue(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	if err := m.Revoke(context.Background(), s.ID); err != nil {
		t.Fatalf("Revoke() error: %v", err)
	}

	if _, err := m.Resolve(context.Background(), cookie); err == nil {
		t.Error("expected error after revocation")
	}
}

func TestResolve_ExpiredSession(t *testing.T) {
	repo := newMockRepo()
	m := NewManager(repo, "test-secret", time.Hour, false, true)

	s, cookie, err := m.Issue(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	// Age the row past its expiry without touching the token.
	repo.sessions[s.ID].ExpiresAt = time.Now().UTC().Add(-time.Minute)

	if _, err := m.Resolve(context.Background(), cookie); err == nil {
		t.Error("expected error for expired session")
	}
}

func TestMiddleware_NoCookieRedirectsBrowser(t *testing.T) {
	repo := newMockRepo()
	m := newTestManager(repo)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	req.Header.Set(echo.HeaderAccept, echo.MIMETextHTML)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := m.Middleware()(func(c echo.Context) error {
		t.Error("handler should not be reached")
		return nil
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Errorf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/login" {
		t.Errorf("location = %q, want /login", loc)
	}
}

func TestMiddleware_NoCookieUnauthorizedAPI(t *testing.T) {
	repo := newMockRepo()
	m := newTestManager(repo)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := m.Middleware()(func(c echo.Context) error { return nil })
	err := h(c)
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T", err)
	}
	if he.Code != http.StatusUnauthorized {
		t.Errorf("code = %d, want 401", he.Code)
	}
}

func TestMiddleware_ValidCookieSetsUser(t *testing.T) {
	repo := newMockRepo()
	m := newTestManager(repo)
	e := echo.New()
	userID := uuid.New()

	s, cookie, err := m.Issue(context.Background(), userID)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: cookie})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := m.Middleware()(func(c echo.Context) error {
		called = true
		uid, ok := CurrentUserID(c)
		if !ok || uid != userID {
			t.Errorf("CurrentUserID = %v %v, want %v true", uid, ok, userID)
		}
		sid, ok := CurrentSessionID(c)
		if !ok || sid != s.ID {
			t.Errorf("CurrentSessionID = %v %v, want %v true", sid, ok, s.ID)
		}
		return nil
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("next handler was not called")
	}
}

func TestMiddleware_RevokedCookieRejected(t *testing.T) {
	repo := newMockRepo()
	m := newTestManager(repo)
	e := echo.New()

	s, cookie, err := m.Issue(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	if err := m.Revoke(context.Background(), s.ID); err != nil {
		t.Fatalf("Revoke() error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	req.Header.Set(echo.HeaderAccept, echo.MIMETextHTML)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: cookie})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := m.Middleware()(func(c echo.Context) error {
		t.Error("handler should not be reached")
		return nil
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Errorf("status = %d, want 302", rec.Code)
	}
}
