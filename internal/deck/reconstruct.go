package deck

import (
	"log/slog"

	"github.com/hitoshi/tarotman/internal/model"
)

// Reconstruct はストレージ層から順不同で返ってきたカード行をドロー順に並べ直し、
// 各カードに向きを割り当てたDrawnCard列を返す。
// 向きの判定は要素ごとに独立して行われ、乱数は位置間で使い回されない。
// orderに対応する行が見つからないIDはデータ不整合として出力から除外し、
// 警告ログを残す（クラッシュさせない回復可能な状態として扱う）。
func Reconstruct(order []int, cards []model.Card, src RandSource) []model.DrawnCard {
	byID := make(map[int]model.Card, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
	}

	result := make([]model.DrawnCard, 0, len(order))
	for _, id := range order {
		card, ok := byID[id]
		if !ok {
			slog.Warn("drawn card missing from catalog rows",
				slog.Int("card_id", id),
			)
			continue
		}
		result = append(result, AssignOrientation(card, src))
	}
	return result
}

// ReconstructStored は保存済みスプレッドのカードをドロー順に並べ直す。
// 向きは新たな乱数ではなく、保存時のdirection文字列（位置ごとに1文字）から復元する。
// directionがorderより短い位置は逆位置として扱う。
func ReconstructStored(order []int, cards []model.Card, direction string) []model.DrawnCard {
	byID := make(map[int]model.Card, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
	}

	result := make([]model.DrawnCard, 0, len(order))
	for i, id := range order {
		card, ok := byID[id]
		if !ok {
			slog.Warn("saved spread card missing from catalog rows",
				slog.Int("card_id", id),
			)
			continue
		}
		orientation := model.OrientationReversed
		if i < len(direction) {
			orientation = model.OrientationFromDirectionChar(direction[i])
		}
		result = append(result, Orient(card, orientation))
	}
	return result
}
