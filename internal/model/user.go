// Package model はドメインモデルを定義する。
package model

import "time"

// Role はユーザーの権限区分を表す。
type Role string

const (
	// RoleUser は一般ユーザー権限。
	RoleUser Role = "user"
	// RoleAdmin は管理者権限。
	RoleAdmin Role = "admin"
)

// IsValid はサポートされているロール値かどうかを返す。
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User はサービス利用ユーザーを表す。
// emailはDBのユニーク制約により全ユーザー間で一意。
type User struct {
	ID             string
	Email          string
	Name           string
	ProfilePicture string
	Role           Role
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Principal は1リクエストに紐づく認証済みアイデンティティを表す。
// トークン検証時に毎回生成され、永続化されない。
type Principal struct {
	UserID string
	Email  string
	Role   Role
}

// IsAdmin は管理者権限を持つかどうかを返す。
func (p *Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
