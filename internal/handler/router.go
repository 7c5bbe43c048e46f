package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/noteman/internal/metrics"
	"github.com/hitoshi/noteman/internal/middleware"
)

// HealthChecker はヘルスチェックで使用するDB疎通確認のインターフェース。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     middleware.TokenVerifier
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger
	Metrics           *metrics.Collector
	Gatherer          prometheus.Gatherer

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// ノート
	NoteService NoteServiceInterface

	// ユーザー管理（管理者専用）
	UserService UserServiceInterface

	// ヘルスチェック
	DB HealthChecker
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Recovery → Logging
//
// 認証が必要なグループにはさらに Auth → RateLimit(General) が積まれる。
// OAuthフロー・ヘルスチェック・メトリクスは認証の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.Metrics))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	noteHandler := NewNoteHandler(deps.NoteService)
	userHandler := NewUserHandler(deps.UserService)

	// --- 認証不要のルート ---

	// ヘルスチェック
	r.Get("/health", healthHandler(deps.DB))

	// Prometheusメトリクス
	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))

	// OAuthフロー
	r.Route("/auth", func(r chi.Router) {
		r.Get("/google/login", authHandler.Login)
		r.Get("/google/callback", authHandler.Callback)

		// GET /auth/me のみトークン検証が必要
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier, deps.Metrics))
			r.Get("/me", authHandler.Me)
		})
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier, deps.Metrics))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// ノート管理
		r.Route("/api/notes", func(r chi.Router) {
			// POST /api/notes - ノート作成（作成専用レート制限を追加）
			r.With(deps.RateLimiter.NoteCreationMiddleware()).Post("/", noteHandler.Create)
			r.Get("/", noteHandler.List)

			r.Route("/{noteId}", func(r chi.Router) {
				r.Get("/", noteHandler.Get)
				r.Put("/", noteHandler.Update)
				r.Delete("/", noteHandler.Delete)
			})
		})

		// ユーザー管理（管理者専用）
		r.Route("/api/users", func(r chi.Router) {
			r.Use(middleware.NewAdminMiddleware())

			r.Get("/", userHandler.List)
			r.Put("/{userId}/role", userHandler.UpdateRole)
		})
	})

	return r
}

// healthHandler はDBへの疎通確認を行うヘルスチェックハンドラーを返す。
func healthHandler(db HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
