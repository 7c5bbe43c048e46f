package middleware

import (
	"net/http"

	"github.com/hitoshi/noteman/internal/model"
)

// NewAdminMiddleware は管理者ロールのみ通過を許可するミドルウェアを返す。
// 認証ミドルウェアの後段に配置すること。Principalが存在しないリクエストは
// 403ではなく401で拒否する: 未認証の呼び出し元には「未認証」を見せ、
// 「権限不足」を見せてはならない。
func NewAdminMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := PrincipalFromContext(r.Context())
			if err != nil {
				// 前段の認証ミドルウェアが欠けている場合の防波堤
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
				return
			}

			if !principal.IsAdmin() {
				WriteErrorResponse(w, http.StatusForbidden, model.NewForbiddenError())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
