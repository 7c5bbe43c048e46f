// Package auth はOAuth認証フロー、セッショントークンの発行・検証を提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/noteman/internal/model"
	"github.com/hitoshi/noteman/internal/repository"
)

// Profile はOAuthプロバイダーから取得したプロフィールを表す。
// emailは必須で、それ以外は空文字列にフォールバックする。
type Profile struct {
	Email          string
	Name           string
	ProfilePicture string
}

// OAuthProvider はOAuth認証プロバイダーのインターフェース。
// 将来的に複数IdP（Google, GitHub等）に対応するための抽象化。
type OAuthProvider interface {
	// GetLoginURL はOAuth認証URLを生成する。
	GetLoginURL(state string) string
	// ExchangeCode は認可コードをトークンに交換し、プロフィールを取得する。
	ExchangeCode(ctx context.Context, code string) (*Profile, error)
}

// Metrics はログイン関連のメトリクス収集インターフェース。
type Metrics interface {
	RecordLoginSuccess()
	RecordNewUser()
}

// LoginResult はログイン成功時の結果。
type LoginResult struct {
	AccessToken string
	User        *model.User
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	oauth    OAuthProvider
	tokens   *TokenService
	userRepo repository.UserRepository
	metrics  Metrics
}

// NewService はServiceを生成する。metricsはnilでもよい。
func NewService(
	oauth OAuthProvider,
	tokens *TokenService,
	userRepo repository.UserRepository,
	metrics Metrics,
) *Service {
	return &Service{
		oauth:    oauth,
		tokens:   tokens,
		userRepo: userRepo,
		metrics:  metrics,
	}
}

// GetLoginURL はOAuth認証URLを生成する。
func (s *Service) GetLoginURL(state string) string {
	return s.oauth.GetLoginURL(state)
}

// HandleCallback はOAuthコールバックを処理し、セッショントークンを発行する。
// 未登録のemailの場合はrole=userでユーザーを自動作成する。
// 登録済みの場合は名前とプロフィール画像を上書きし、ロールは変更しない。
// いずれの場合も書き込みは1回だけ発生する。
func (s *Service) HandleCallback(ctx context.Context, code string) (*LoginResult, error) {
	// 1. 認可コードをトークンに交換し、プロフィールを取得
	profile, err := s.oauth.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code: %w", err)
	}

	// 2. emailでローカルアカウントを解決（なければ作成）
	user, err := s.resolveUser(ctx, profile)
	if err != nil {
		return nil, err
	}

	// 3. セッショントークンを発行
	token, claims, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordLoginSuccess()
	}
	slog.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("role", claims.Role),
	)

	return &LoginResult{AccessToken: token, User: user}, nil
}

// CurrentUser はPrincipalから現在のユーザーを取得する。
func (s *Service) CurrentUser(ctx context.Context, principal *model.Principal) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(principal.UserID)
	}
	return user, nil
}

// resolveUser はプロフィールをローカルアカウントに解決する。
// 同一emailの同時ログインが競合した場合の直列化はDBのユニーク制約に委ねる。
func (s *Service) resolveUser(ctx context.Context, profile *Profile) (*model.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, profile.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	now := time.Now()

	if existing == nil {
		user := &model.User{
			ID:             uuid.New().String(),
			Email:          profile.Email,
			Name:           profile.Name,
			ProfilePicture: profile.ProfilePicture,
			Role:           model.RoleUser,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}

		if s.metrics != nil {
			s.metrics.RecordNewUser()
		}
		slog.Info("new user created",
			slog.String("user_id", user.ID),
			slog.String("email", user.Email),
		)
		return user, nil
	}

	if err := s.userRepo.UpdateProfile(ctx, existing.ID, profile.Name, profile.ProfilePicture, now); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	existing.Name = profile.Name
	existing.ProfilePicture = profile.ProfilePicture
	existing.UpdatedAt = now
	return existing, nil
}
