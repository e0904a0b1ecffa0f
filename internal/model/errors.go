// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, spread, system
	Action   string // ユーザー向け対処方法

	// RetryAfterSec は再試行可能になるまでの秒数。
	// SPREAD_ALREADY_SAVEDの場合のみ0以上の値が入る。
	RetryAfterSec int
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeCountNaN           = "COUNT_NOT_A_NUMBER"
	ErrCodeCountTooLow        = "COUNT_TOO_LOW"
	ErrCodeCountTooHigh       = "COUNT_TOO_HIGH"
	ErrCodeInvalidSpreadBody  = "INVALID_SPREAD_BODY"
	ErrCodeUnknownCard        = "UNKNOWN_CARD"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeSpreadAlreadySaved = "SPREAD_ALREADY_SAVED"
	ErrCodePersistenceFailed  = "PERSISTENCE_FAILED"
)

// NewCountNaNError は枚数が数値でないエラーを生成する。
func NewCountNaNError(raw string) *APIError {
	return &APIError{
		Code:     ErrCodeCountNaN,
		Message:  fmt.Sprintf("リクエストされた枚数が数値ではありません: %s", raw),
		Category: "validation",
		Action:   "1から78の整数を指定してください。",
	}
}

// NewCountTooLowError は枚数が少なすぎるエラーを生成する。
func NewCountTooLowError(count int) *APIError {
	return &APIError{
		Code:     ErrCodeCountTooLow,
		Message:  fmt.Sprintf("リクエストされた枚数が少なすぎます: %d", count),
		Category: "validation",
		Action:   "少なくとも1枚を指定してください。",
	}
}

// NewCountTooHighError は枚数がデッキの枚数を超えているエラーを生成する。
func NewCountTooHighError(count int) *APIError {
	return &APIError{
		Code:     ErrCodeCountTooHigh,
		Message:  fmt.Sprintf("リクエストされた枚数がタロットデッキの枚数を超えています: %d", count),
		Category: "validation",
		Action:   fmt.Sprintf("%d枚以下を指定してください。", DeckSize),
	}
}

// NewInvalidSpreadBodyError はスプレッド保存ボディの検証エラーを生成する。
func NewInvalidSpreadBodyError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidSpreadBody,
		Message:  fmt.Sprintf("スプレッドの内容が不正です: %s", reason),
		Category: "validation",
		Action:   "カードID3枚とカードごとの向き文字列を正しい形式で送信してください。",
	}
}

// NewUnknownCardError はカタログに存在しないカードIDのエラーを生成する。
func NewUnknownCardError(cardID int) *APIError {
	return &APIError{
		Code:     ErrCodeUnknownCard,
		Message:  fmt.Sprintf("カタログに存在しないカードIDです: %d", cardID),
		Category: "validation",
		Action:   "カードIDを確認してください。",
	}
}

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "ログインしていないか、不正なトークンが送信されました。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewSpreadAlreadySavedError は1日1回制限の違反エラーを生成する。
// retryAfterSecには次のUTC日付境界までの残り秒数を指定する。
func NewSpreadAlreadySavedError(retryAfterSec int) *APIError {
	return &APIError{
		Code:          ErrCodeSpreadAlreadySaved,
		Message:       "スプレッドは1日に1回しか保存できません。",
		Category:      "spread",
		Action:        "日付が変わってから再度保存してください。",
		RetryAfterSec: retryAfterSec,
	}
}

// NewPersistenceFailedError は書き込みが無反映に終わったエラーを生成する。
// 業務ルール違反ではなくサーバー側の障害として扱う。
func NewPersistenceFailedError() *APIError {
	return &APIError{
		Code:     ErrCodePersistenceFailed,
		Message:  "スプレッドの保存に失敗しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
