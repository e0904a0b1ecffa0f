// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/tarotman/internal/model"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// identityContextKey はリクエストコンテキストに検証済みアイデンティティを格納するためのキー。
var identityContextKey = contextKey("identity")

// TokenVerifier はIDトークン検証に必要なインターフェース。
// auth.Verifierの部分集合として定義する。
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*model.Identity, error)
}

// NewIdentityMiddleware はAuthorizationヘッダーのBearerトークンを検証し、
// 検証済みアイデンティティをリクエストコンテキストに注入するミドルウェアを返す。
// トークンが無い・不正な場合でもリクエストは未認証のまま通過させる。
// 認証必須のエンドポイントはRequireIdentityを重ねて使うこと。
func NewIdentityMiddleware(verifier TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawToken := bearerToken(r)
			if rawToken == "" {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := verifier.Verify(r.Context(), rawToken)
			if err != nil {
				slog.Warn("id token verification failed",
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewRequireIdentityMiddleware は検証済みアイデンティティが無いリクエストを
// 401 Unauthorizedで弾くミドルウェアを返す。
// NewIdentityMiddlewareより後段に配置すること。
func NewRequireIdentityMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := IdentityFromContext(r.Context()); err != nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFromContext はリクエストコンテキストから検証済みアイデンティティを取得する。
// 認証ミドルウェアで検証を通過したリクエストでのみ有効。
func IdentityFromContext(ctx context.Context) (*model.Identity, error) {
	identity, ok := ctx.Value(identityContextKey).(*model.Identity)
	if !ok || identity == nil || identity.Subject == "" {
		return nil, fmt.Errorf("identity not found in context")
	}
	return identity, nil
}

// ContextWithIdentity はコンテキストにアイデンティティを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithIdentity(ctx context.Context, identity *model.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// bearerToken はAuthorizationヘッダーからBearerトークンを取り出す。
// Bearer形式でない場合は空文字を返す。
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
