package middleware

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/hitoshi/tarotman/internal/model"
)

// ErrorResponseBody はAPIエラーレスポンスの統一フォーマット。
// 原因カテゴリと対処方法を含む。1日1回制限のエラーには再試行可能になるまでの
// 残り秒数（retry_after_sec）が含まれる。
type ErrorResponseBody struct {
	Code          string `json:"code"`
	Message       string `json:"message"`
	Category      string `json:"category"`
	Action        string `json:"action"`
	RetryAfterSec *int   `json:"retry_after_sec,omitempty"`
}

// WriteErrorResponse は統一エラーフォーマットでHTTPエラーレスポンスを書き込む。
// RetryAfterSecを持つエラーの場合はRetry-Afterヘッダーも設定する。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	body := ErrorResponseBody{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	}
	if apiErr.Code == model.ErrCodeSpreadAlreadySaved {
		sec := apiErr.RetryAfterSec
		body.RetryAfterSec = &sec
		w.Header().Set("Retry-After", strconv.Itoa(sec))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}
