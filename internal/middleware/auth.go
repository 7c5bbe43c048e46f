// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/hitoshi/noteman/internal/model"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// principalContextKey はリクエストコンテキストにPrincipalを格納するためのキー。
var principalContextKey = contextKey("principal")

// TokenVerifier はトークン検証に必要なインターフェース。
// auth.TokenServiceの部分集合として定義する。
type TokenVerifier interface {
	Verify(token string) (*model.Principal, error)
}

// AuthMetrics は認証失敗のメトリクス収集インターフェース。
type AuthMetrics interface {
	RecordAuthFailure()
}

// NewAuthMiddleware はAuthorizationヘッダーのBearerトークンを検証し、
// Principalをリクエストコンテキストに注入するミドルウェアを返す。
// トークンの欠如・署名不正・期限切れはすべて401 Unauthorizedで拒否し、
// リソース固有の情報は一切返さない。metricsはnilでもよい。
func NewAuthMiddleware(verifier TokenVerifier, metrics AuthMetrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reject := func() {
				if metrics != nil {
					metrics.RecordAuthFailure()
				}
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
			}

			// 1. AuthorizationヘッダーからBearerトークンを取得
			token, ok := bearerToken(r)
			if !ok {
				reject()
				return
			}

			// 2. 署名と有効期限を検証しPrincipalを構築
			principal, err := verifier.Verify(token)
			if err != nil {
				reject()
				return
			}

			// 3. Principalをコンテキストに注入
			ctx := context.WithValue(r.Context(), principalContextKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken はAuthorizationヘッダーからBearerトークンを取り出す。
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

// PrincipalFromContext はリクエストコンテキストからPrincipalを取得する。
// 認証ミドルウェアを通過したリクエストでのみ有効。
func PrincipalFromContext(ctx context.Context) (*model.Principal, error) {
	principal, ok := ctx.Value(principalContextKey).(*model.Principal)
	if !ok || principal == nil {
		return nil, fmt.Errorf("principal not found in context")
	}
	return principal, nil
}

// ContextWithPrincipal はコンテキストにPrincipalを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithPrincipal(ctx context.Context, principal *model.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}
