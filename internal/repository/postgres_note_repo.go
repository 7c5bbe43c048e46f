package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/hitoshi/noteman/internal/model"
)

// PostgresNoteRepo はPostgreSQLを使用したノートリポジトリ。
// 所有者チェック付きの更新・削除は単一文で原子的に実行する。
type PostgresNoteRepo struct {
	db *sql.DB
}

// NewPostgresNoteRepo はPostgresNoteRepoを生成する。
func NewPostgresNoteRepo(db *sql.DB) *PostgresNoteRepo {
	return &PostgresNoteRepo{db: db}
}

const noteColumns = `id, user_id, title, content, tags, category, created_at, updated_at`

// scanNote は1行分のノートをスキャンする。
// contentとcategoryはNULL許容のため空文字列にフォールバックする。
func scanNote(row interface{ Scan(dest ...any) error }) (*model.Note, error) {
	note := &model.Note{}
	var content, category sql.NullString
	err := row.Scan(
		&note.ID, &note.UserID, &note.Title, &content,
		pq.Array(&note.Tags), &category, &note.CreatedAt, &note.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	note.Content = content.String
	note.Category = category.String
	if note.Tags == nil {
		note.Tags = []string{}
	}
	return note, nil
}

// nullableString は空文字列をNULLとして保存するための変換。
func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Create はノートを作成する。
func (r *PostgresNoteRepo) Create(ctx context.Context, note *model.Note) error {
	tags := note.Tags
	if tags == nil {
		tags = []string{}
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notes (id, user_id, title, content, tags, category, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		note.ID, note.UserID, note.Title, nullableString(note.Content),
		pq.Array(tags), nullableString(note.Category),
		note.CreatedAt, note.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("ノートの作成に失敗しました: %w", err)
	}
	return nil
}

// FindByIDAndUser は(id, user_id)でノートを1件取得する。
// IDが存在しない場合も所有者が異なる場合も区別せずnilを返す。
func (r *PostgresNoteRepo) FindByIDAndUser(ctx context.Context, id, userID string) (*model.Note, error) {
	note, err := scanNote(r.db.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = $1 AND user_id = $2`,
		id, userID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ノートの取得に失敗しました: %w", err)
	}
	return note, nil
}

// ExistsByID は所有者を問わず指定IDのノートが存在するかを返す。
func (r *PostgresNoteRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM notes WHERE id = $1)`,
		id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ノートの存在確認に失敗しました: %w", err)
	}
	return exists, nil
}

// UpdateOwned は(id, user_id)フィルタ付きの単一UPDATEでノートを部分更新する。
// 所有者チェックと更新が1文で実行されるため、読み取り後書き込みの競合は発生しない。
// patchのnilフィールドはCOALESCEにより既存の値を維持する。
// フィルタに一致する行がない場合はnilを返す。
func (r *PostgresNoteRepo) UpdateOwned(ctx context.Context, id, userID string, patch model.NotePatch, updatedAt time.Time) (*model.Note, error) {
	var title, content, category any
	if patch.Title != nil {
		title = *patch.Title
	}
	if patch.Content != nil {
		content = nullableString(*patch.Content)
	}
	if patch.Category != nil {
		category = nullableString(*patch.Category)
	}
	var tags any
	if patch.Tags != nil {
		tags = pq.Array(patch.Tags)
	}

	note, err := scanNote(r.db.QueryRowContext(ctx,
		`UPDATE notes
		 SET title      = COALESCE($3, title),
		     content    = CASE WHEN $8 THEN $4 ELSE content END,
		     tags       = COALESCE($5::text[], tags),
		     category   = CASE WHEN $9 THEN $6 ELSE category END,
		     updated_at = $7
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+noteColumns,
		id, userID, title, content, tags, category, updatedAt,
		patch.Content != nil, patch.Category != nil,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ノートの更新に失敗しました: %w", err)
	}
	return note, nil
}

// DeleteOwned は(id, user_id)フィルタ付きの単一DELETEでノートを削除し、
// 削除直前の状態を返す。フィルタに一致する行がない場合はnilを返す。
func (r *PostgresNoteRepo) DeleteOwned(ctx context.Context, id, userID string) (*model.Note, error) {
	note, err := scanNote(r.db.QueryRowContext(ctx,
		`DELETE FROM notes WHERE id = $1 AND user_id = $2
		 RETURNING `+noteColumns,
		id, userID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ノートの削除に失敗しました: %w", err)
	}
	return note, nil
}

// CountByFilter は条件に一致するノート数を返す。
func (r *PostgresNoteRepo) CountByFilter(ctx context.Context, filter model.NoteFilter) (int, error) {
	where, args := buildNoteFilter(filter)

	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notes `+where,
		args...,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ノート数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// ListByFilter は条件に一致するノートを作成日時の降順でskip/limit付きで返す。
func (r *PostgresNoteRepo) ListByFilter(ctx context.Context, filter model.NoteFilter, skip, limit int) ([]*model.Note, error) {
	where, args := buildNoteFilter(filter)
	args = append(args, skip, limit)

	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT `+noteColumns+` FROM notes %s
		 ORDER BY created_at DESC
		 OFFSET $%d LIMIT $%d`, where, len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("ノート一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var notes []*model.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("ノートの読み取りに失敗しました: %w", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ノート一覧の読み取りに失敗しました: %w", err)
	}

	return notes, nil
}

// buildNoteFilter はNoteFilterからWHERE句とバインド引数を構築する。
// user_idは常に条件に含まれ、tag/categoryは指定時のみ等価条件を追加する。
func buildNoteFilter(filter model.NoteFilter) (string, []any) {
	where := `WHERE user_id = $1`
	args := []any{filter.UserID}

	if filter.Tag != "" {
		args = append(args, filter.Tag)
		where += fmt.Sprintf(` AND $%d = ANY(tags)`, len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		where += fmt.Sprintf(` AND category = $%d`, len(args))
	}

	return where, args
}

// compile-time interface check
var _ NoteRepository = (*PostgresNoteRepo)(nil)
