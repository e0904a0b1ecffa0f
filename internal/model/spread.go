// Package model はドメインモデルを定義する。
package model

import "time"

// SpreadCardCount は1スプレッドに含まれるカード枚数。
const SpreadCardCount = 3

// SavedSpread は保存されたスプレッド（日次のドロー結果）を表す。
// ユーザーごとに1日1件のみ保存でき、作成後の更新・削除は行われない（追記専用の履歴）。
// (user_id, date_drawn) にはストレージ層でユニーク制約が張られている。
type SavedSpread struct {
	ID              string
	UserID          string
	SpreadMeaningID int
	CardIDs         [SpreadCardCount]int
	DateDrawn       time.Time // カレンダー日付（UTC）
	Direction       string    // カードごとの向きフラグ。'1'=正位置 '0'=逆位置
}

// SpreadMeaning はスプレッド内の各位置の意味テキストを表す。
// cardsと同様にデプロイ時投入の読み取り専用カタログ。
type SpreadMeaning struct {
	ID               int
	CardOneMeaning   string
	CardTwoMeaning   string
	CardThreeMeaning string
}

// PastSpread は過去スプレッド一覧の1件を表す。
// 保存済みスプレッドにカタログのカードテキストと位置の意味テキストを結合し、
// 保存時のdirection文字列から各カードの向きを復元したもの。
type PastSpread struct {
	ID        string
	DateDrawn time.Time
	Direction string
	Meaning   SpreadMeaning
	Cards     []DrawnCard // ドロー順。向きは保存時のdirectionに従う
}
