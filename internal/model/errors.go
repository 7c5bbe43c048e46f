// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, note, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthenticated = "UNAUTHENTICATED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeNoteForbidden   = "NOTE_FORBIDDEN"
	ErrCodeNoteNotFound    = "NOTE_NOT_FOUND"
	ErrCodeUserNotFound    = "USER_NOT_FOUND"
	ErrCodeInvalidID       = "INVALID_ID"
	ErrCodeInvalidRole     = "INVALID_ROLE"
	ErrCodeInvalidRequest  = "INVALID_REQUEST"
	ErrCodeValidation      = "VALIDATION_FAILED"
)

// NewUnauthenticatedError は未認証エラーを生成する。
// トークンの欠如・署名不正・期限切れを区別せず、同一のエラーとして扱う。
func NewUnauthenticatedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthenticated,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインして有効なトークンを指定してください。",
	}
}

// NewForbiddenError は権限不足エラーを生成する。
func NewForbiddenError() *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  "この操作を実行する権限がありません。",
		Category: "auth",
		Action:   "管理者権限が必要です。",
	}
}

// NewNoteForbiddenError は他ユーザーのノートへの書き込みエラーを生成する。
func NewNoteForbiddenError() *APIError {
	return &APIError{
		Code:     ErrCodeNoteForbidden,
		Message:  "このノートを変更する権限がありません。",
		Category: "note",
		Action:   "自分が作成したノートのみ変更できます。",
	}
}

// NewNoteNotFoundError はノート未検出エラーを生成する。
func NewNoteNotFoundError(noteID string) *APIError {
	return &APIError{
		Code:     ErrCodeNoteNotFound,
		Message:  fmt.Sprintf("指定されたノートが見つかりません: %s", noteID),
		Category: "note",
		Action:   "ノートIDを確認してください。",
	}
}

// NewUserNotFoundError はユーザー未検出エラーを生成する。
func NewUserNotFoundError(userID string) *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  fmt.Sprintf("指定されたユーザーが見つかりません: %s", userID),
		Category: "auth",
		Action:   "ユーザーIDを確認してください。",
	}
}

// NewInvalidIDError は識別子の形式エラーを生成する。
// ストレージアクセスの前に検出されるべきエラー。
func NewInvalidIDError(fieldName string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidID,
		Message:  fmt.Sprintf("%sの形式が不正です。", fieldName),
		Category: "validation",
		Action:   "UUID形式のIDを指定してください。",
	}
}

// NewInvalidRoleError は無効なロール値エラーを生成する。
func NewInvalidRoleError(role string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRole,
		Message:  fmt.Sprintf("無効なロールです: %s", role),
		Category: "validation",
		Action:   "ロールには user または admin を指定してください。",
	}
}

// NewInvalidRequestError はリクエスト形式エラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("リクエストが不正です: %s", reason),
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	}
}

// NewValidationError は入力値の検証エラーを生成する。
func NewValidationError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  message,
		Category: "validation",
		Action:   "入力内容を確認してください。",
	}
}
