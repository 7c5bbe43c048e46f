// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/noteman/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。
	// emailの一意性はDBのユニーク制約が保証する。
	Create(ctx context.Context, user *model.User) error

	// UpdateProfile は名前とプロフィール画像を上書き更新する。ロールは変更しない。
	UpdateProfile(ctx context.Context, id, name, profilePicture string, updatedAt time.Time) error

	// Count は全ユーザー数を返す。
	Count(ctx context.Context) (int, error)

	// List はユーザー一覧を作成日時の降順でskip/limit付きで返す。
	List(ctx context.Context, skip, limit int) ([]*model.User, error)

	// UpdateRole は指定ユーザーのロールを更新し、更新後のユーザーを返す。
	// 該当ユーザーが存在しない場合はnilを返す。
	UpdateRole(ctx context.Context, id string, role model.Role, updatedAt time.Time) (*model.User, error)
}

// NoteRepository はノートデータの永続化インターフェース。
// 所有者チェックと変更はフィルタ付きの単一文で原子的に実行する。
type NoteRepository interface {
	// Create はノートを作成する。
	Create(ctx context.Context, note *model.Note) error

	// FindByIDAndUser は(id, user_id)でノートを1件取得する。
	// IDが存在しない場合も所有者が異なる場合も区別せずnilを返す。
	FindByIDAndUser(ctx context.Context, id, userID string) (*model.Note, error)

	// ExistsByID は所有者を問わず指定IDのノートが存在するかを返す。
	// 書き込み系の存在事前チェック専用。
	ExistsByID(ctx context.Context, id string) (bool, error)

	// UpdateOwned は(id, user_id)フィルタ付きの単一UPDATEでノートを部分更新し、
	// 更新後のノートを返す。patchのnilフィールドは変更しない。
	// フィルタに一致する行がない場合はnilを返す。
	UpdateOwned(ctx context.Context, id, userID string, patch model.NotePatch, updatedAt time.Time) (*model.Note, error)

	// DeleteOwned は(id, user_id)フィルタ付きの単一DELETEでノートを削除し、
	// 削除直前の状態を返す。フィルタに一致する行がない場合はnilを返す。
	DeleteOwned(ctx context.Context, id, userID string) (*model.Note, error)

	// CountByFilter は条件に一致するノート数を返す。
	CountByFilter(ctx context.Context, filter model.NoteFilter) (int, error)

	// ListByFilter は条件に一致するノートを作成日時の降順でskip/limit付きで返す。
	ListByFilter(ctx context.Context, filter model.NoteFilter, skip, limit int) ([]*model.Note, error)
}
