// Package model はドメインモデルを定義する。
package model

// DeckSize はタロットデッキの枚数。カードIDは0からDeckSize-1の連番。
const DeckSize = 78

// Card はカタログ上のタロットカードを表す。
// デプロイ時に一度だけ投入される読み取り専用データ。
type Card struct {
	ID          int
	SuitID      int
	ElementID   int
	Rank        int
	Name        string
	MeaningUp   string
	MeaningDown string
	Suit        string // suitsテーブルとのJOINで取得
	Element     string // elementsテーブルとのJOINで取得
}

// Orientation はカードの向き（正位置/逆位置）を表す。
type Orientation string

const (
	// OrientationUpright は正位置。
	OrientationUpright Orientation = "upright"
	// OrientationReversed は逆位置。
	OrientationReversed Orientation = "reversed"
)

// DirectionChar は保存用direction文字列での1文字表現を返す。
// 正位置は'1'、逆位置は'0'。
func (o Orientation) DirectionChar() byte {
	if o == OrientationUpright {
		return '1'
	}
	return '0'
}

// OrientationFromDirectionChar はdirection文字列の1文字から向きを復元する。
func OrientationFromDirectionChar(c byte) Orientation {
	if c == '1' {
		return OrientationUpright
	}
	return OrientationReversed
}

// DrawnCard はドロー結果の1枚を表す。
// 向きに応じた片方の意味テキストのみを保持し、もう片方は含まない。
// レスポンスごとに生成される一時的な値でありDBには保存されない。
type DrawnCard struct {
	ID          int
	Rank        int
	Name        string
	Suit        string
	Element     string
	Orientation Orientation
	Meaning     string // 向きに対応する意味テキストのみ
}
