package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/noteman/internal/model"
	"github.com/hitoshi/noteman/internal/pagination"
)

// UserServiceInterface はユーザー管理ハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	List(ctx context.Context, params pagination.Params) (*pagination.Result[*model.User], error)
	UpdateRole(ctx context.Context, userID string, role model.Role) (*model.User, error)
}

// UserHandler は管理者向けユーザー管理のHTTPハンドラー。
// 管理者ミドルウェアの後段に配置される前提。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// userListResponse はユーザー一覧のAPIレスポンス。
type userListResponse struct {
	Users      []userResponse `json:"users"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

// updateRoleRequest はロール更新のリクエストボディ。
type updateRoleRequest struct {
	Role string `json:"role"`
}

// List は全ユーザーの一覧をページネーション付きで返す。
// GET /api/users?page=1&limit=10
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	params := parsePaginationParams(r)

	result, err := h.service.List(r.Context(), params)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	users := make([]userResponse, 0, len(result.Items))
	for _, user := range result.Items {
		users = append(users, toUserResponse(user))
	}

	writeJSON(w, http.StatusOK, userListResponse{
		Users:      users,
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}

// UpdateRole は指定ユーザーのロールを更新する。
// PUT /api/users/{userId}/role
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var req updateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("リクエストボディの形式が不正です"))
		return
	}

	user, err := h.service.UpdateRole(r.Context(), userID, model.Role(req.Role))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}
