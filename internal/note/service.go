// Package note はノートのドメインロジックを提供する。
// すべての操作は所有者スコープで実行され、呼び出し元のユーザーIDを明示的に受け取る。
package note

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/noteman/internal/model"
	"github.com/hitoshi/noteman/internal/pagination"
	"github.com/hitoshi/noteman/internal/repository"
)

// Metrics はノート関連のメトリクス収集インターフェース。
type Metrics interface {
	RecordNoteCreated()
}

// Service はノート管理のサービス層。
type Service struct {
	repo    repository.NoteRepository
	metrics Metrics
}

// NewService はServiceを生成する。metricsはnilでもよい。
func NewService(repo repository.NoteRepository, metrics Metrics) *Service {
	return &Service{repo: repo, metrics: metrics}
}

// Create はノートを作成する。所有者は呼び出し元のユーザーに固定される。
// draftのフィールドはそのまま保存する。
func (s *Service) Create(ctx context.Context, draft model.NoteDraft, ownerID string) (*model.Note, error) {
	now := time.Now()
	tags := draft.Tags
	if tags == nil {
		tags = []string{}
	}

	note := &model.Note{
		ID:        uuid.New().String(),
		UserID:    ownerID,
		Title:     draft.Title,
		Content:   draft.Content,
		Tags:      tags,
		Category:  draft.Category,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("ノートの作成に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordNoteCreated()
	}

	return note, nil
}

// List は呼び出し元ユーザーのノート一覧をページネーション付きで返す。
// tag/categoryが空でない場合は等価条件で絞り込む。並び順は作成日時の降順。
func (s *Service) List(ctx context.Context, userID string, params pagination.Params, tag, category string) (*pagination.Result[*model.Note], error) {
	filter := model.NoteFilter{
		UserID:   userID,
		Tag:      tag,
		Category: category,
	}

	return pagination.Paginate(ctx, params,
		func(ctx context.Context) (int, error) {
			return s.repo.CountByFilter(ctx, filter)
		},
		func(ctx context.Context, skip, limit int) ([]*model.Note, error) {
			return s.repo.ListByFilter(ctx, filter, skip, limit)
		},
	)
}

// GetByID は呼び出し元が所有するノートを1件取得する。
// 読み取り系では存在を秘匿する: IDが存在しない場合も他ユーザーの所有の場合も
// 同一のNOTE_NOT_FOUNDを返し、FORBIDDENは返さない。
func (s *Service) GetByID(ctx context.Context, noteID, userID string) (*model.Note, error) {
	if err := validateNoteID(noteID); err != nil {
		return nil, err
	}

	note, err := s.repo.FindByIDAndUser(ctx, noteID, userID)
	if err != nil {
		return nil, fmt.Errorf("ノートの取得に失敗しました: %w", err)
	}
	if note == nil {
		return nil, model.NewNoteNotFoundError(noteID)
	}
	return note, nil
}

// Update は呼び出し元が所有するノートを更新する。
// 書き込み系は2段階でチェックする: まず所有者を問わない存在確認を行い、
// 存在しなければNOTE_NOT_FOUND、存在するのに所有者スコープの原子的UPDATEが
// 0件なら他ユーザーの所有としてNOTE_FORBIDDENを返す。
// 読み取り系との非対称は意図した設計で、書き込み失敗の原因を呼び出し元が
// 区別できるようにするための存在開示。
func (s *Service) Update(ctx context.Context, noteID string, patch model.NotePatch, userID string) (*model.Note, error) {
	if err := validateNoteID(noteID); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByID(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("ノートの存在確認に失敗しました: %w", err)
	}
	if !exists {
		return nil, model.NewNoteNotFoundError(noteID)
	}

	updated, err := s.repo.UpdateOwned(ctx, noteID, userID, patch, time.Now())
	if err != nil {
		return nil, fmt.Errorf("ノートの更新に失敗しました: %w", err)
	}
	if updated == nil {
		return nil, model.NewNoteForbiddenError()
	}
	return updated, nil
}

// Delete は呼び出し元が所有するノートを削除し、削除直前の状態を返す。
// エラーの分岐はUpdateと同一の2段階チェック。
func (s *Service) Delete(ctx context.Context, noteID, userID string) (*model.Note, error) {
	if err := validateNoteID(noteID); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByID(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("ノートの存在確認に失敗しました: %w", err)
	}
	if !exists {
		return nil, model.NewNoteNotFoundError(noteID)
	}

	deleted, err := s.repo.DeleteOwned(ctx, noteID, userID)
	if err != nil {
		return nil, fmt.Errorf("ノートの削除に失敗しました: %w", err)
	}
	if deleted == nil {
		return nil, model.NewNoteForbiddenError()
	}
	return deleted, nil
}

// validateNoteID はノートIDがUUID形式かを検証する。
// ストレージアクセスより先に呼び、形式エラーがストレージ層の
// エラーとして漏れないようにする。
func validateNoteID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return model.NewInvalidIDError("ノートID")
	}
	return nil
}
