package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/hitoshi/tarotman/internal/metrics"
	"github.com/hitoshi/tarotman/internal/middleware"
	"github.com/hitoshi/tarotman/internal/model"
	"github.com/hitoshi/tarotman/internal/spread"
)

// SpreadServiceInterface はスプレッドハンドラーが必要とするサービスインターフェース。
type SpreadServiceInterface interface {
	// Save はユーザーの本日分スプレッドを保存する。
	Save(ctx context.Context, userID string, req spread.SaveRequest) error
	// ListPast はユーザーの保存スプレッドをdate_drawn昇順で返す。
	ListPast(ctx context.Context, userID string) ([]model.PastSpread, error)
}

// SpreadHandler はスプレッド保存・参照のHTTPハンドラー。
type SpreadHandler struct {
	service SpreadServiceInterface
	metrics metrics.Recorder
}

// NewSpreadHandler はSpreadHandlerを生成する。
func NewSpreadHandler(service SpreadServiceInterface, recorder metrics.Recorder) *SpreadHandler {
	if recorder == nil {
		recorder = metrics.Noop{}
	}
	return &SpreadHandler{
		service: service,
		metrics: recorder,
	}
}

// saveSpreadResponse はスプレッド保存成功時のレスポンス。
type saveSpreadResponse struct {
	Status string `json:"status"`
}

// spreadMeaningResponse は位置ごとの意味テキストのレスポンス。
type spreadMeaningResponse struct {
	CardOne   string `json:"card_one"`
	CardTwo   string `json:"card_two"`
	CardThree string `json:"card_three"`
}

// pastSpreadResponse は過去スプレッド1件のレスポンス。
type pastSpreadResponse struct {
	ID        string                `json:"id"`
	DateDrawn string                `json:"date_drawn"`
	Direction string                `json:"direction"`
	Meanings  spreadMeaningResponse `json:"meanings"`
	Cards     []drawnCardResponse   `json:"cards"`
}

// Save はスプレッド保存を処理する。
// PUT /api/spreads
func (h *SpreadHandler) Save(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req spread.SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidSpreadBodyError("リクエストボディの解析に失敗しました"))
		return
	}

	if err := h.service.Save(r.Context(), identity.Subject, req); err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) && apiErr.Code == model.ErrCodeSpreadAlreadySaved {
			h.metrics.RecordSpreadConflict()
		}
		handleServiceError(w, err)
		return
	}
	h.metrics.RecordSpreadSaved()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(saveSpreadResponse{Status: "saved"})
}

// ListPast は過去スプレッド一覧を処理する。
// GET /api/spreads
func (h *SpreadHandler) ListPast(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	spreads, err := h.service.ListPast(r.Context(), identity.Subject)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	result := make([]pastSpreadResponse, len(spreads))
	for i, s := range spreads {
		cards := make([]drawnCardResponse, len(s.Cards))
		for j, c := range s.Cards {
			cards[j] = toDrawnCardResponse(c)
		}
		result[i] = pastSpreadResponse{
			ID:        s.ID,
			DateDrawn: s.DateDrawn.Format(time.DateOnly),
			Direction: s.Direction,
			Meanings: spreadMeaningResponse{
				CardOne:   s.Meaning.CardOneMeaning,
				CardTwo:   s.Meaning.CardTwoMeaning,
				CardThree: s.Meaning.CardThreeMeaning,
			},
			Cards: cards,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
