package repository

import (
	"testing"

	"github.com/hitoshi/noteman/internal/model"
)

// PostgresNoteRepoはNoteRepositoryインターフェースを満たすことを検証
func TestPostgresNoteRepo_ImplementsInterface(t *testing.T) {
	var _ NoteRepository = (*PostgresNoteRepo)(nil)
}

// NewPostgresNoteRepoが正しく初期化されることを検証
func TestNewPostgresNoteRepo_Initializes(t *testing.T) {
	repo := NewPostgresNoteRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// buildNoteFilterのWHERE句とバインド引数の構築を検証する。
// user_idは常に含まれ、tag/categoryは指定時のみ追加される。
func TestBuildNoteFilter(t *testing.T) {
	tests := []struct {
		name      string
		filter    model.NoteFilter
		wantWhere string
		wantArgs  int
	}{
		{
			name:      "user_idのみ",
			filter:    model.NoteFilter{UserID: "u-1"},
			wantWhere: "WHERE user_id = $1",
			wantArgs:  1,
		},
		{
			name:      "タグ付き",
			filter:    model.NoteFilter{UserID: "u-1", Tag: "work"},
			wantWhere: "WHERE user_id = $1 AND $2 = ANY(tags)",
			wantArgs:  2,
		},
		{
			name:      "カテゴリ付き",
			filter:    model.NoteFilter{UserID: "u-1", Category: "仕事"},
			wantWhere: "WHERE user_id = $1 AND category = $2",
			wantArgs:  2,
		},
		{
			name:      "タグとカテゴリ",
			filter:    model.NoteFilter{UserID: "u-1", Tag: "work", Category: "仕事"},
			wantWhere: "WHERE user_id = $1 AND $2 = ANY(tags) AND category = $3",
			wantArgs:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := buildNoteFilter(tt.filter)
			if where != tt.wantWhere {
				t.Errorf("where = %q, want %q", where, tt.wantWhere)
			}
			if len(args) != tt.wantArgs {
				t.Errorf("args count = %d, want %d", len(args), tt.wantArgs)
			}
			if args[0] != tt.filter.UserID {
				t.Errorf("args[0] = %v, want %q", args[0], tt.filter.UserID)
			}
		})
	}
}

// nullableStringの空文字列とNULLの対応を検証
func TestNullableString(t *testing.T) {
	if v := nullableString(""); v.Valid {
		t.Error("empty string should map to NULL")
	}
	if v := nullableString("内容"); !v.Valid || v.String != "内容" {
		t.Errorf("nullableString(内容) = %+v, want valid", v)
	}
}
