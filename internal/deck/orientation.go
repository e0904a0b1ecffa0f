package deck

import "github.com/hitoshi/tarotman/internal/model"

// AssignOrientation は公平なコインでカードの向きを決め、
// 向きに対応する意味テキストのみを持つDrawnCardを構築する。
// 同一ドロー内の各カードは独立に判定される。
// 元のCardは変更せず、不要な側の意味テキストは出力に含めない。
func AssignOrientation(card model.Card, src RandSource) model.DrawnCard {
	orientation := model.OrientationReversed
	if src.IntN(2) == 1 {
		orientation = model.OrientationUpright
	}
	return Orient(card, orientation)
}

// Orient は指定された向きでDrawnCardを構築する。
// 保存済みスプレッドの復元など、向きが既に決まっている場合に使う。
func Orient(card model.Card, orientation model.Orientation) model.DrawnCard {
	meaning := card.MeaningDown
	if orientation == model.OrientationUpright {
		meaning = card.MeaningUp
	}
	return model.DrawnCard{
		ID:          card.ID,
		Rank:        card.Rank,
		Name:        card.Name,
		Suit:        card.Suit,
		Element:     card.Element,
		Orientation: orientation,
		Meaning:     meaning,
	}
}
