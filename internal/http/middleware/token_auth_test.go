package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

type stubVerifier map[string][2]string

func (s stubVerifier) Verify(token string) (string, string, error) {
	who, ok := s[token]
	if !ok {
		return "", "", errors.New("unknown token")
	}
	return who[0], who[1], nil
}

func guardedRouter(t *testing.T, roles ...string) (http.Handler, *Principal) {
	t.Helper()
	seen := &Principal{}
	r := chi.NewRouter()
	verifier := stubVerifier{
		"admin-tok":  {"admin", "admin"},
		"doctor-tok": {"doctor", "doc@clinic.test"},
	}
	r.With(RequireRole(verifier, roles...)).Get("/reports/{token}", func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		if !ok {
			t.Fatalf("expected principal in context")
		}
		*seen = p
		w.WriteHeader(http.StatusOK)
	})
	r.With(RequireRole(verifier, roles...)).Get("/reports", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r, seen
}

func TestRequireRoleAcceptsPathToken(t *testing.T) {
	h, seen := guardedRouter(t, "admin")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/admin-tok", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if seen.Role != "admin" || seen.Token != "admin-tok" {
		t.Fatalf("unexpected principal %+v", *seen)
	}
}

func TestRequireRoleFallsBackToBearer(t *testing.T) {
	h, _ := guardedRouter(t, "admin")
	req := httptest.NewRequest(http.MethodGet, "/reports", nil)
	req.Header.Set("Authorization", "Bearer admin-tok")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestRequireRoleMissingToken(t *testing.T) {
	h, _ := guardedRouter(t, "admin")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRequireRoleInvalidToken(t *testing.T) {
	h, _ := guardedRouter(t, "admin")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/forged", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRequireRoleWrongRole(t *testing.T) {
	h, _ := guardedRouter(t, "admin")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/doctor-tok", nil))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}
