// Package user はユーザー管理のドメインロジックを提供する。
// 一覧とロール変更は管理者専用の操作で、ハンドラー層のロールゲートが前提。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/noteman/internal/model"
	"github.com/hitoshi/noteman/internal/pagination"
	"github.com/hitoshi/noteman/internal/repository"
)

// Service はユーザー管理のサービス層。
type Service struct {
	repo repository.UserRepository
}

// NewService はServiceを生成する。
func NewService(repo repository.UserRepository) *Service {
	return &Service{repo: repo}
}

// List は全ユーザーの一覧をページネーション付きで返す。
// 所有者による絞り込みは行わない。並び順は作成日時の降順。
func (s *Service) List(ctx context.Context, params pagination.Params) (*pagination.Result[*model.User], error) {
	return pagination.Paginate(ctx, params,
		func(ctx context.Context) (int, error) {
			return s.repo.Count(ctx)
		},
		func(ctx context.Context, skip, limit int) ([]*model.User, error) {
			return s.repo.List(ctx, skip, limit)
		},
	)
}

// UpdateRole は指定ユーザーのロールを変更する。
// ロール変更はこの明示的な管理操作でのみ行われ、ログイン時には変更されない。
func (s *Service) UpdateRole(ctx context.Context, userID string, role model.Role) (*model.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, model.NewInvalidIDError("ユーザーID")
	}
	if !role.IsValid() {
		return nil, model.NewInvalidRoleError(string(role))
	}

	updated, err := s.repo.UpdateRole(ctx, userID, role, time.Now())
	if err != nil {
		return nil, fmt.Errorf("ロールの更新に失敗しました: %w", err)
	}
	if updated == nil {
		return nil, model.NewUserNotFoundError(userID)
	}

	slog.Info("user role updated",
		slog.String("user_id", userID),
		slog.String("role", string(role)),
	)

	return updated, nil
}
