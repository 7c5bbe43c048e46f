package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/noteman/internal/model"
)

func runAdminMiddleware(t *testing.T, principal *model.Principal) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	if principal != nil {
		req = req.WithContext(ContextWithPrincipal(req.Context(), principal))
	}
	rec := httptest.NewRecorder()

	NewAdminMiddleware()(next).ServeHTTP(rec, req)
	return rec, reached
}

// TestAdminMiddleware_AdminPasses は管理者ロールが通過できることをテストする。
func TestAdminMiddleware_AdminPasses(t *testing.T) {
	rec, reached := runAdminMiddleware(t, &model.Principal{UserID: "admin-1", Role: model.RoleAdmin})

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !reached {
		t.Error("handler should be reached")
	}
}

// TestAdminMiddleware_UserRejected は一般ユーザーが403で拒否されることをテストする。
func TestAdminMiddleware_UserRejected(t *testing.T) {
	rec, reached := runAdminMiddleware(t, &model.Principal{UserID: "user-1", Role: model.RoleUser})

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if reached {
		t.Error("handler should not be reached")
	}

	var body ErrorResponseBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse error body: %v", err)
	}
	if body.Code != model.ErrCodeForbidden {
		t.Errorf("error code = %q, want %q", body.Code, model.ErrCodeForbidden)
	}
}

// TestAdminMiddleware_NoPrincipalIs401 はPrincipalのないリクエストが
// 403ではなく401で拒否されることをテストする。未認証の呼び出し元に
// 権限不足を見せてはならない。
func TestAdminMiddleware_NoPrincipalIs401(t *testing.T) {
	rec, reached := runAdminMiddleware(t, nil)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if reached {
		t.Error("handler should not be reached")
	}
}
