package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/noteman/internal/model"
)

// --- テスト用モック ---

// mockUserRepo はテスト用のUserRepositoryモック。
type mockUserRepo struct {
	findByIDFn      func(ctx context.Context, id string) (*model.User, error)
	findByEmailFn   func(ctx context.Context, email string) (*model.User, error)
	createFn        func(ctx context.Context, user *model.User) error
	updateProfileFn func(ctx context.Context, id, name, profilePicture string, updatedAt time.Time) error

	createCalls  int
	profileCalls int
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, id, name, profilePicture string, updatedAt time.Time) error {
	m.profileCalls++
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, id, name, profilePicture, updatedAt)
	}
	return nil
}

func (m *mockUserRepo) Count(ctx context.Context) (int, error) { return 0, nil }

func (m *mockUserRepo) List(ctx context.Context, skip, limit int) ([]*model.User, error) {
	return nil, nil
}

func (m *mockUserRepo) UpdateRole(ctx context.Context, id string, role model.Role, updatedAt time.Time) (*model.User, error) {
	return nil, nil
}

// mockOAuthProvider はテスト用のOAuthProviderモック。
type mockOAuthProvider struct {
	loginURL   string
	exchangeFn func(ctx context.Context, code string) (*Profile, error)
}

func (m *mockOAuthProvider) GetLoginURL(state string) string {
	return m.loginURL + "?state=" + state
}

func (m *mockOAuthProvider) ExchangeCode(ctx context.Context, code string) (*Profile, error) {
	if m.exchangeFn != nil {
		return m.exchangeFn(ctx, code)
	}
	return nil, errors.New("not configured")
}

// mockAuthMetrics はログインメトリクスの呼び出し回数を記録する。
type mockAuthMetrics struct {
	loginSuccess int
	newUsers     int
}

func (m *mockAuthMetrics) RecordLoginSuccess() { m.loginSuccess++ }
func (m *mockAuthMetrics) RecordNewUser()      { m.newUsers++ }

func newTestService(t *testing.T, repo *mockUserRepo, oauth *mockOAuthProvider, metrics Metrics) *Service {
	t.Helper()
	tokens := newTestTokenService(t, time.Hour)
	return NewService(oauth, tokens, repo, metrics)
}

// --- HandleCallback ---

// TestService_HandleCallback_NewUser は未登録のemailでのログインで
// role=userのユーザーが自動作成されることをテストする。
func TestService_HandleCallback_NewUser(t *testing.T) {
	var created *model.User
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return nil, nil
		},
		createFn: func(ctx context.Context, user *model.User) error {
			created = user
			return nil
		},
	}
	oauth := &mockOAuthProvider{
		exchangeFn: func(ctx context.Context, code string) (*Profile, error) {
			return &Profile{
				Email:          "hanako@example.com",
				Name:           "花子",
				ProfilePicture: "https://example.com/hanako.png",
			}, nil
		},
	}
	metrics := &mockAuthMetrics{}

	svc := newTestService(t, repo, oauth, metrics)
	result, err := svc.HandleCallback(context.Background(), "auth-code")
	if err != nil {
		t.Fatalf("HandleCallback returned error: %v", err)
	}

	if created == nil {
		t.Fatal("user should be created")
	}
	if created.Role != model.RoleUser {
		t.Errorf("Role = %q, want %q", created.Role, model.RoleUser)
	}
	if _, err := uuid.Parse(created.ID); err != nil {
		t.Errorf("ID is not a UUID: %q", created.ID)
	}
	if result.AccessToken == "" {
		t.Error("AccessToken should be issued")
	}
	if metrics.newUsers != 1 || metrics.loginSuccess != 1 {
		t.Errorf("metrics = {newUsers: %d, loginSuccess: %d}, want {1, 1}",
			metrics.newUsers, metrics.loginSuccess)
	}

	// 発行されたトークンの検証でPrincipalが復元できること
	tokens := newTestTokenService(t, time.Hour)
	principal, err := tokens.Verify(result.AccessToken)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if principal.UserID != created.ID {
		t.Errorf("principal.UserID = %q, want %q", principal.UserID, created.ID)
	}
}

// TestService_HandleCallback_ExistingUser は登録済みemailでのログインで
// プロフィールのみ更新され、ロールが変更されないことをテストする。
func TestService_HandleCallback_ExistingUser(t *testing.T) {
	existing := &model.User{
		ID:    "user-1",
		Email: "admin@example.com",
		Name:  "旧名前",
		Role:  model.RoleAdmin,
	}
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return existing, nil
		},
		updateProfileFn: func(ctx context.Context, id, name, profilePicture string, updatedAt time.Time) error {
			if id != "user-1" {
				t.Errorf("id = %q, want %q", id, "user-1")
			}
			if name != "新名前" {
				t.Errorf("name = %q, want %q", name, "新名前")
			}
			return nil
		},
	}
	oauth := &mockOAuthProvider{
		exchangeFn: func(ctx context.Context, code string) (*Profile, error) {
			return &Profile{Email: "admin@example.com", Name: "新名前"}, nil
		},
	}
	metrics := &mockAuthMetrics{}

	svc := newTestService(t, repo, oauth, metrics)
	result, err := svc.HandleCallback(context.Background(), "auth-code")
	if err != nil {
		t.Fatalf("HandleCallback returned error: %v", err)
	}

	if repo.createCalls != 0 {
		t.Errorf("Create calls = %d, want 0", repo.createCalls)
	}
	if repo.profileCalls != 1 {
		t.Errorf("UpdateProfile calls = %d, want 1", repo.profileCalls)
	}
	// 管理者のロールは再ログインで失われない
	if result.User.Role != model.RoleAdmin {
		t.Errorf("Role = %q, want %q", result.User.Role, model.RoleAdmin)
	}
	if metrics.newUsers != 0 {
		t.Errorf("newUsers = %d, want 0", metrics.newUsers)
	}
}

// TestService_HandleCallback_ExchangeFailure はコード交換の失敗が
// エラーとして伝播することをテストする。
func TestService_HandleCallback_ExchangeFailure(t *testing.T) {
	oauth := &mockOAuthProvider{
		exchangeFn: func(ctx context.Context, code string) (*Profile, error) {
			return nil, errors.New("invalid code")
		},
	}

	svc := newTestService(t, &mockUserRepo{}, oauth, nil)
	if _, err := svc.HandleCallback(context.Background(), "bad-code"); err == nil {
		t.Fatal("HandleCallback should return error")
	}
}

// --- CurrentUser ---

// TestService_CurrentUser_Found はPrincipalからユーザーが取得できることをテストする。
func TestService_CurrentUser_Found(t *testing.T) {
	repo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Email: "taro@example.com"}, nil
		},
	}

	svc := newTestService(t, repo, &mockOAuthProvider{}, nil)
	user, err := svc.CurrentUser(context.Background(), &model.Principal{UserID: "user-1"})
	if err != nil {
		t.Fatalf("CurrentUser returned error: %v", err)
	}
	if user.ID != "user-1" {
		t.Errorf("ID = %q, want %q", user.ID, "user-1")
	}
}

// TestService_CurrentUser_Deleted はトークンは有効だがユーザーが削除済みの場合に
// USER_NOT_FOUNDになることをテストする。
func TestService_CurrentUser_Deleted(t *testing.T) {
	repo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return nil, nil
		},
	}

	svc := newTestService(t, repo, &mockOAuthProvider{}, nil)
	_, err := svc.CurrentUser(context.Background(), &model.Principal{UserID: "ghost"})
	apiErr, ok := err.(*model.APIError)
	if !ok {
		t.Fatalf("error = %T, want *model.APIError", err)
	}
	if apiErr.Code != model.ErrCodeUserNotFound {
		t.Errorf("error code = %q, want %q", apiErr.Code, model.ErrCodeUserNotFound)
	}
}

// TestService_GetLoginURL はstateがそのままプロバイダーに渡ることをテストする。
func TestService_GetLoginURL(t *testing.T) {
	oauth := &mockOAuthProvider{loginURL: "https://accounts.example.com/auth"}
	svc := newTestService(t, &mockUserRepo{}, oauth, nil)

	got := svc.GetLoginURL("xyz")
	want := "https://accounts.example.com/auth?state=xyz"
	if got != want {
		t.Errorf("GetLoginURL = %q, want %q", got, want)
	}
}
