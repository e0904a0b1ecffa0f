// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/tarotman/internal/metrics"
	"github.com/hitoshi/tarotman/internal/model"
)

// DrawServiceInterface はカードハンドラーが必要とするサービスインターフェース。
type DrawServiceInterface interface {
	// Draw はcount枚の相異なるカードをドロー順・向き付きで返す。
	Draw(ctx context.Context, count int) ([]model.DrawnCard, error)
}

// CardHandler はカードドローのHTTPハンドラー。
type CardHandler struct {
	service DrawServiceInterface
	metrics metrics.Recorder
}

// NewCardHandler はCardHandlerを生成する。
func NewCardHandler(service DrawServiceInterface, recorder metrics.Recorder) *CardHandler {
	if recorder == nil {
		recorder = metrics.Noop{}
	}
	return &CardHandler{
		service: service,
		metrics: recorder,
	}
}

// drawnCardResponse はドロー結果1枚のAPIレスポンス。
// 向きに対応する意味テキストのみが含まれ、両方が同時に含まれることはない。
type drawnCardResponse struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Rank        int     `json:"rank"`
	Suit        string  `json:"suit"`
	Element     string  `json:"element"`
	Orientation string  `json:"orientation"`
	MeaningUp   *string `json:"meaning_up,omitempty"`
	MeaningDown *string `json:"meaning_down,omitempty"`
}

// Draw はカードドローを処理する。
// GET /api/cards/{count}
// 枚数の検証は 数値でない → 少なすぎ → 多すぎ の順に行い、
// 検証を通過するまでデータベースには触れない。
func (h *CardHandler) Draw(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "count")
	count, err := strconv.Atoi(raw)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewCountNaNError(raw))
		return
	}

	start := time.Now()
	cards, err := h.service.Draw(r.Context(), count)
	if err != nil {
		h.metrics.RecordDrawError()
		handleServiceError(w, err)
		return
	}
	h.metrics.RecordDraw(len(cards))
	h.metrics.RecordDrawLatency(time.Since(start))

	result := make([]drawnCardResponse, len(cards))
	for i, c := range cards {
		result[i] = toDrawnCardResponse(c)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// toDrawnCardResponse はDrawnCardをAPIレスポンスに変換する。
// 向きに応じて片方の意味フィールドのみを設定する。
func toDrawnCardResponse(c model.DrawnCard) drawnCardResponse {
	resp := drawnCardResponse{
		ID:          c.ID,
		Name:        c.Name,
		Rank:        c.Rank,
		Suit:        c.Suit,
		Element:     c.Element,
		Orientation: string(c.Orientation),
	}
	meaning := c.Meaning
	if c.Orientation == model.OrientationUpright {
		resp.MeaningUp = &meaning
	} else {
		resp.MeaningDown = &meaning
	}
	return resp
}
