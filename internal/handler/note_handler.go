package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/noteman/internal/middleware"
	"github.com/hitoshi/noteman/internal/model"
	"github.com/hitoshi/noteman/internal/pagination"
)

// NoteServiceInterface はノートハンドラーが必要とするサービスインターフェース。
type NoteServiceInterface interface {
	Create(ctx context.Context, draft model.NoteDraft, ownerID string) (*model.Note, error)
	List(ctx context.Context, userID string, params pagination.Params, tag, category string) (*pagination.Result[*model.Note], error)
	GetByID(ctx context.Context, noteID, userID string) (*model.Note, error)
	Update(ctx context.Context, noteID string, patch model.NotePatch, userID string) (*model.Note, error)
	Delete(ctx context.Context, noteID, userID string) (*model.Note, error)
}

// NoteHandler はノートCRUDのHTTPハンドラー。
type NoteHandler struct {
	service NoteServiceInterface
}

// NewNoteHandler はNoteHandlerを生成する。
func NewNoteHandler(service NoteServiceInterface) *NoteHandler {
	return &NoteHandler{service: service}
}

// noteResponse はノートのAPIレスポンス。
type noteResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// toNoteResponse はmodel.NoteからAPIレスポンスに変換する。
func toNoteResponse(note *model.Note) noteResponse {
	tags := note.Tags
	if tags == nil {
		tags = []string{}
	}
	return noteResponse{
		ID:        note.ID,
		UserID:    note.UserID,
		Title:     note.Title,
		Content:   note.Content,
		Tags:      tags,
		Category:  note.Category,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

// noteListResponse はノート一覧のAPIレスポンス。
type noteListResponse struct {
	Notes      []noteResponse `json:"notes"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

// createNoteRequest はノート作成のリクエストボディ。
type createNoteRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	Category string   `json:"category"`
}

// updateNoteRequest はノート更新のリクエストボディ。
// nilのフィールドは変更対象外として扱う。
type updateNoteRequest struct {
	Title    *string  `json:"title"`
	Content  *string  `json:"content"`
	Tags     []string `json:"tags"`
	Category *string  `json:"category"`
}

// validateTitle はタイトルの必須・最大長の検証を行う。
func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return model.NewValidationError("タイトルは必須です")
	}
	if utf8.RuneCountInString(title) > model.TitleMaxLength {
		return model.NewValidationError("タイトルは100文字以内で入力してください")
	}
	return nil
}

// Create はノートを作成する。
// POST /api/notes
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	var req createNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("リクエストボディの形式が不正です"))
		return
	}

	if err := validateTitle(req.Title); err != nil {
		handleServiceError(w, err)
		return
	}

	note, err := h.service.Create(r.Context(), model.NoteDraft{
		Title:    req.Title,
		Content:  req.Content,
		Tags:     req.Tags,
		Category: req.Category,
	}, principal.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toNoteResponse(note))
}

// List は呼び出し元ユーザーのノート一覧を返す。
// GET /api/notes?page=1&limit=10&tag=xxx&category=yyy
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	params := parsePaginationParams(r)
	tag := r.URL.Query().Get("tag")
	category := r.URL.Query().Get("category")

	result, err := h.service.List(r.Context(), principal.UserID, params, tag, category)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	notes := make([]noteResponse, 0, len(result.Items))
	for _, note := range result.Items {
		notes = append(notes, toNoteResponse(note))
	}

	writeJSON(w, http.StatusOK, noteListResponse{
		Notes:      notes,
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}

// Get はノートを1件取得する。
// GET /api/notes/{noteId}
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	noteID := chi.URLParam(r, "noteId")

	note, err := h.service.GetByID(r.Context(), noteID, principal.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toNoteResponse(note))
}

// Update はノートを部分更新する。
// PUT /api/notes/{noteId}
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	noteID := chi.URLParam(r, "noteId")

	var req updateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("リクエストボディの形式が不正です"))
		return
	}

	// タイトルは指定された場合のみ検証する
	if req.Title != nil {
		if err := validateTitle(*req.Title); err != nil {
			handleServiceError(w, err)
			return
		}
	}

	note, err := h.service.Update(r.Context(), noteID, model.NotePatch{
		Title:    req.Title,
		Content:  req.Content,
		Tags:     req.Tags,
		Category: req.Category,
	}, principal.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toNoteResponse(note))
}

// Delete はノートを削除し、削除したノートを返す。
// DELETE /api/notes/{noteId}
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	noteID := chi.URLParam(r, "noteId")

	note, err := h.service.Delete(r.Context(), noteID, principal.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toNoteResponse(note))
}

// parsePaginationParams はクエリ文字列からページネーションパラメータを読み取る。
// 数値でない値は0として扱い、Normalizeでデフォルト値に丸められる。
func parsePaginationParams(r *http.Request) pagination.Params {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return pagination.Params{Page: page, Limit: limit}
}
