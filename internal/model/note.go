// Package model はドメインモデルを定義する。
package model

import "time"

// TitleMaxLength はノートタイトルの最大文字数。
const TitleMaxLength = 100

// Note はユーザーが所有するノートを表す。
// UserIDは作成時に確定し、以後変更されない。
type Note struct {
	ID        string
	UserID    string
	Title     string
	Content   string
	Tags      []string
	Category  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NoteDraft はノートの作成・更新時に受け取るフィールド群。
// 所有者とIDはサービス層が決定するため含まない。
type NoteDraft struct {
	Title    string
	Content  string
	Tags     []string
	Category string
}

// NotePatch はノートの部分更新を表す。
// nilのフィールドは変更せず、既存の値を維持する。
type NotePatch struct {
	Title    *string
	Content  *string
	Tags     []string // nilなら変更しない
	Category *string
}

// NoteFilter はノート一覧の絞り込み条件。
// UserIDは常に設定され、TagとCategoryは空文字列なら条件に含めない。
type NoteFilter struct {
	UserID   string
	Tag      string
	Category string
}
