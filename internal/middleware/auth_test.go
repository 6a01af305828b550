package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"scaffolder/internal/session"
)

// newTestSession creates a session.Data value suitable for testing.
func newTestSession(role string, twoFADone bool) *session.Data {
	return &session.Data{
		UserID:         uuid.New(),
		Email:          "test@scaffolder.local",
		DisplayName:    "Test User",
		Role:           role,
		OrganizationID: uuid.New(),
		TwoFADone:      twoFADone,
	}
}

// ctxWithSession returns a context carrying the given session data using
// the same context key the middleware uses. This allows tests to simulate
// the state after LoadSession has run without needing a real Valkey store.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, SessionKey, data)
}

// okHandler is a simple handler that records whether it was invoked.
func okHandler() (http.Handler, *bool) {
	var called bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	return h, &called
}

func TestSessionFromCtx(t *testing.T) {
	t.Run("returns session when present", func(t *testing.T) {
		sess := newTestSession("admin", true)
		ctx := ctxWithSession(context.Background(), sess)

		got := SessionFromCtx(ctx)
		if got == nil {
			t.Fatal("expected non-nil session, got nil")
		}
		if got.Email != sess.Email {
			t.Errorf("Email: got %q, want %q", got.Email, sess.Email)
		}
		if got.Role != sess.Role {
			t.Errorf("Role: got %q, want %q", got.Role, sess.Role)
		}
	})

	t.Run("returns nil when not present", func(t *testing.T) {
		if got := SessionFromCtx(context.Background()); got != nil {
			t.Errorf("expected nil session, got %+v", got)
		}
	})

	t.Run("returns nil for wrong type in context", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), SessionKey, "not-a-session")
		if got := SessionFromCtx(ctx); got != nil {
			t.Errorf("expected nil for wrong type, got %+v", got)
		}
	})
}

func TestRequireAuth(t *testing.T) {
	t.Run("rejects anonymous with 401 JSON", func(t *testing.T) {
		inner, called := okHandler()
		handler := RequireAuth(inner)

		req := httptest.NewRequest(http.MethodGet, "/api/templates", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
		}
		if *called {
			t.Error("next handler must not run for anonymous request")
		}
		var body map[string]string
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Fatalf("response is not JSON: %v", err)
		}
		if body["error"] == "" {
			t.Error("expected error message in body")
		}
	})

	t.Run("passes authenticated requests through", func(t *testing.T) {
		inner, called := okHandler()
		handler := RequireAuth(inner)

		req := httptest.NewRequest(http.MethodGet, "/api/templates", nil)
		req = req.WithContext(ctxWithSession(req.Context(), newTestSession("author", true)))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("status: got %d, want %d", rr.Code, http.StatusOK)
		}
		if !*called {
			t.Error("next handler should have been called")
		}
	})
}

func TestRequire2FA(t *testing.T) {
	t.Run("rejects pending 2FA with code", func(t *testing.T) {
		inner, called := okHandler()
		handler := Require2FA(inner)

		req := httptest.NewRequest(http.MethodGet, "/api/templates", nil)
		req = req.WithContext(ctxWithSession(req.Context(), newTestSession("author", false)))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusForbidden {
			t.Errorf("status: got %d, want %d", rr.Code, http.StatusForbidden)
		}
		if *called {
			t.Error("next handler must not run before 2FA is done")
		}
		var body map[string]string
		json.Unmarshal(rr.Body.Bytes(), &body)
		if body["code"] != "2fa_required" {
			t.Errorf("code: got %q, want %q", body["code"], "2fa_required")
		}
	})

	t.Run("passes completed 2FA", func(t *testing.T) {
		inner, called := okHandler()
		handler := Require2FA(inner)

		req := httptest.NewRequest(http.MethodGet, "/api/templates", nil)
		req = req.WithContext(ctxWithSession(req.Context(), newTestSession("author", true)))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if !*called {
			t.Error("next handler should have been called")
		}
	})
}

func TestRequireAuthor(t *testing.T) {
	cases := []struct {
		role       string
		wantStatus int
	}{
		{"admin", http.StatusOK},
		{"author", http.StatusOK},
		{"viewer", http.StatusForbidden},
		{"", http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run("role "+tc.role, func(t *testing.T) {
			inner, _ := okHandler()
			handler := RequireAuthor(inner)

			req := httptest.NewRequest(http.MethodPost, "/api/builder/start", nil)
			req = req.WithContext(ctxWithSession(req.Context(), newTestSession(tc.role, true)))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tc.wantStatus {
				t.Errorf("role %q: status got %d, want %d", tc.role, rr.Code, tc.wantStatus)
			}
		})
	}

	t.Run("rejects anonymous", func(t *testing.T) {
		inner, _ := okHandler()
		handler := RequireAuthor(inner)

		req := httptest.NewRequest(http.MethodPost, "/api/builder/start", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusForbidden {
			t.Errorf("status: got %d, want %d", rr.Code, http.StatusForbidden)
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	t.Run("allows admin", func(t *testing.T) {
		inner, called := okHandler()
		handler := RequireAdmin(inner)

		req := httptest.NewRequest(http.MethodGet, "/api/admin/publish-log", nil)
		req = req.WithContext(ctxWithSession(req.Context(), newTestSession("admin", true)))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if !*called {
			t.Error("next handler should have been called for admin")
		}
	})

	t.Run("rejects non-admin", func(t *testing.T) {
		inner, called := okHandler()
		handler := RequireAdmin(inner)

		req := httptest.NewRequest(http.MethodGet, "/api/admin/publish-log", nil)
		req = req.WithContext(ctxWithSession(req.Context(), newTestSession("author", true)))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusForbidden {
			t.Errorf("status: got %d, want %d", rr.Code, http.StatusForbidden)
		}
		if *called {
			t.Error("next handler must not run for non-admin")
		}
	})
}
