package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hitoshi/noteman/internal/model"
)

// Claims はセッショントークンに埋め込むクレームセット。
// subjectにはユーザーIDを格納する。
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService はセッショントークンの発行と検証を提供する。
// トークンはHS256で署名されたステートレスなJWTで、サーバー側には保存しない。
// 失効リストは持たない設計のため、ログアウトはクライアント側でのトークン破棄に委ねる。
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService はTokenServiceを生成する。
// 署名鍵が空の場合はエラーを返す（起動時の設定不備として扱う）。
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token signing secret is required")
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// Issue はユーザーのセッショントークンを発行する。
// 署名済みトークン文字列と、ログ・レスポンス用のクレームセットを返す。
func (s *TokenService) Issue(user *model.User) (string, *Claims, error) {
	now := time.Now()
	claims := &Claims{
		Email: user.Email,
		Role:  string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return token, claims, nil
}

// Verify はトークンの署名と有効期限を検証し、Principalを構築する。
// 署名不正・期限切れ・クレーム不備はすべて区別せず未認証エラーとして返す。
func (s *TokenService) Verify(tokenString string) (*model.Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		// アルゴリズム混同攻撃の防止。HS256以外は拒否する。
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, model.NewUnauthenticatedError()
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return nil, model.NewUnauthenticatedError()
	}

	return &model.Principal{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   model.Role(claims.Role),
	}, nil
}
