// Package deck はカードのドローに関するコアロジックを提供する。
// 重複なしサンプリング、向きの割り当て、ドロー順の復元を担う。
package deck

import (
	mathrand "math/rand/v2"

	"github.com/hitoshi/tarotman/internal/model"
)

// RandSource は乱数取得のインターフェース。
// テストで決定的な乱数列を注入するための抽象化。
type RandSource interface {
	// IntN は[0, n)の一様乱数を返す。
	IntN(n int) int
}

// systemRand はmath/rand/v2のパッケージ関数を使うRandSource実装。
// パッケージ関数は複数goroutineからの同時利用が安全。
type systemRand struct{}

func (systemRand) IntN(n int) int { return mathrand.IntN(n) }

// SystemRandSource は本番用のRandSourceを返す。
func SystemRandSource() RandSource { return systemRand{} }

// Sample はデッキからcount枚の相異なるカードIDを引き、ドロー順に返す。
// プール（0..DeckSize-1）から一様ランダムに1枚選んではプールを縮める方式で、
// 重複が発生せず、任意のcount部分集合の任意の順列が等確率で得られる。
// 返り値の並びはスプレッド内の位置を表すため、後段でも順序を保持すること。
func Sample(count int, src RandSource) ([]int, error) {
	if count < 1 {
		return nil, model.NewCountTooLowError(count)
	}
	if count > model.DeckSize {
		return nil, model.NewCountTooHighError(count)
	}

	pool := make([]int, model.DeckSize)
	for i := range pool {
		pool[i] = i
	}

	drawn := make([]int, 0, count)
	for i := 0; i < count; i++ {
		j := src.IntN(len(pool))
		drawn = append(drawn, pool[j])

		// swap-removeでプールを1枚縮める
		pool[j] = pool[len(pool)-1]
		pool = pool[:len(pool)-1]
	}

	return drawn, nil
}
