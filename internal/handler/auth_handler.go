package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/tarotman/internal/metrics"
	"github.com/hitoshi/tarotman/internal/middleware"
	"github.com/hitoshi/tarotman/internal/model"
)

// UserServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// Upsert はsubjectをキーにユーザーを冪等に作成または更新する。
	Upsert(ctx context.Context, subjectID, username string) (model.UpsertResult, error)
}

// AuthHandler はログイン処理のHTTPハンドラー。
// IDトークンの検証自体はミドルウェアが行い、ここでは検証済み
// アイデンティティを使ってユーザーレコードをアップサートする。
type AuthHandler struct {
	service UserServiceInterface
	metrics metrics.Recorder
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service UserServiceInterface, recorder metrics.Recorder) *AuthHandler {
	if recorder == nil {
		recorder = metrics.Noop{}
	}
	return &AuthHandler{
		service: service,
		metrics: recorder,
	}
}

// loginResponse はログイン成功時のレスポンス。
type loginResponse struct {
	Username string `json:"username"`
	Result   string `json:"result"` // created または updated
}

// Login はログインを処理する。
// POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		h.metrics.RecordLogin("denied")
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	result, err := h.service.Upsert(r.Context(), identity.Subject, identity.Name)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	h.metrics.RecordLogin(string(result))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(loginResponse{
		Username: identity.Name,
		Result:   string(result),
	})
}
