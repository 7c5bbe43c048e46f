package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/noteman/internal/auth"
	"github.com/hitoshi/noteman/internal/model"
)

// mockAuthService はAuthServiceInterfaceのモック実装。
type mockAuthService struct {
	loginURLFn    func(state string) string
	callbackFn    func(ctx context.Context, code string) (*auth.LoginResult, error)
	currentUserFn func(ctx context.Context, principal *model.Principal) (*model.User, error)
}

func (m *mockAuthService) GetLoginURL(state string) string {
	if m.loginURLFn != nil {
		return m.loginURLFn(state)
	}
	return "https://accounts.example.com/auth?state=" + state
}

func (m *mockAuthService) HandleCallback(ctx context.Context, code string) (*auth.LoginResult, error) {
	if m.callbackFn != nil {
		return m.callbackFn(ctx, code)
	}
	return nil, nil
}

func (m *mockAuthService) CurrentUser(ctx context.Context, principal *model.Principal) (*model.User, error) {
	if m.currentUserFn != nil {
		return m.currentUserFn(ctx, principal)
	}
	return nil, model.NewUserNotFoundError(principal.UserID)
}

// --- GET /auth/google/login テスト ---

func TestAuthHandler_Login_RedirectsWithStateCookie(t *testing.T) {
	var receivedState string
	h := NewAuthHandler(&mockAuthService{
		loginURLFn: func(state string) string {
			receivedState = state
			return "https://accounts.example.com/auth?state=" + state
		},
	}, AuthHandlerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/auth/google/login", nil)
	w := httptest.NewRecorder()

	h.Login(w, req)

	if w.Code != http.StatusTemporaryRedirect {
		t.Errorf("status = %d, want %d", w.Code, http.StatusTemporaryRedirect)
	}

	location := w.Header().Get("Location")
	if !strings.Contains(location, receivedState) {
		t.Errorf("Location %q should contain state %q", location, receivedState)
	}

	// stateクッキーがリダイレクトURLのstateと一致すること
	var stateCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "oauth_state" {
			stateCookie = c
		}
	}
	if stateCookie == nil {
		t.Fatal("oauth_state cookie should be set")
	}
	if stateCookie.Value != receivedState {
		t.Errorf("cookie state = %q, want %q", stateCookie.Value, receivedState)
	}
	if !stateCookie.HttpOnly {
		t.Error("oauth_state cookie should be HttpOnly")
	}
}

// --- GET /auth/google/callback テスト ---

func TestAuthHandler_Callback_Success(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{
		callbackFn: func(ctx context.Context, code string) (*auth.LoginResult, error) {
			if code != "auth-code-1" {
				t.Errorf("code = %q, want %q", code, "auth-code-1")
			}
			return &auth.LoginResult{
				AccessToken: "jwt-token",
				User: &model.User{
					ID:    "user-1",
					Email: "taro@example.com",
					Role:  model.RoleUser,
				},
			}, nil
		},
	}, AuthHandlerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=auth-code-1&state=state-xyz", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "state-xyz"})
	w := httptest.NewRecorder()

	h.Callback(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp map[string]any
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	token, ok := resp["token"].(map[string]any)
	if !ok {
		t.Fatalf("token = %v, want object", resp["token"])
	}
	if token["access_token"] != "jwt-token" {
		t.Errorf("access_token = %v, want jwt-token", token["access_token"])
	}

	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("user = %v, want object", resp["user"])
	}
	if user["email"] != "taro@example.com" {
		t.Errorf("user.email = %v, want taro@example.com", user["email"])
	}
}

func TestAuthHandler_Callback_StateMismatch(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{
		callbackFn: func(ctx context.Context, code string) (*auth.LoginResult, error) {
			t.Fatal("callback should not proceed on state mismatch")
			return nil, nil
		},
	}, AuthHandlerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=c&state=evil", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "original"})
	w := httptest.NewRecorder()

	h.Callback(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestAuthHandler_Callback_MissingStateCookie(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, AuthHandlerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=c&state=s", nil)
	w := httptest.NewRecorder()

	h.Callback(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestAuthHandler_Callback_MissingCode(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, AuthHandlerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=s", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "s"})
	w := httptest.NewRecorder()

	h.Callback(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if got := parseAPIErrorResponse(t, w)["code"]; got != model.ErrCodeInvalidRequest {
		t.Errorf("error code = %q, want %q", got, model.ErrCodeInvalidRequest)
	}
}

// --- GET /auth/me テスト ---

func TestAuthHandler_Me_Success(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{
		currentUserFn: func(ctx context.Context, principal *model.Principal) (*model.User, error) {
			if principal.UserID != "user-1" {
				t.Errorf("principal.UserID = %q, want %q", principal.UserID, "user-1")
			}
			return &model.User{ID: "user-1", Email: "taro@example.com", Role: model.RoleUser}, nil
		},
	}, AuthHandlerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req = withPrincipal(req, "user-1", model.RoleUser)
	w := httptest.NewRecorder()

	h.Me(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp map[string]any
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["id"] != "user-1" {
		t.Errorf("id = %v, want user-1", resp["id"])
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, AuthHandlerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()

	h.Me(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}
