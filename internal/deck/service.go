package deck

import (
	"context"
	"fmt"

	"github.com/hitoshi/tarotman/internal/model"
	"github.com/hitoshi/tarotman/internal/repository"
)

// DrawService はカードドローのパイプラインを提供する。
// サンプリング → カタログ取得 → ドロー順の復元と向きの割り当て、の順に処理する。
type DrawService struct {
	cardRepo repository.CardRepository
	src      RandSource
}

// NewDrawService はDrawServiceを生成する。
// srcがnilの場合は本番用の乱数源を使う。
func NewDrawService(cardRepo repository.CardRepository, src RandSource) *DrawService {
	if src == nil {
		src = SystemRandSource()
	}
	return &DrawService{
		cardRepo: cardRepo,
		src:      src,
	}
}

// Draw はcount枚の相異なるカードをランダムに引き、ドロー順・向き付きで返す。
// 枚数の範囲検証はカタログへのアクセスより前に行う。
func (s *DrawService) Draw(ctx context.Context, count int) ([]model.DrawnCard, error) {
	// サンプリング（範囲外はここでAPIErrorになり、DBには触れない）
	order, err := Sample(count, s.src)
	if err != nil {
		return nil, err
	}

	cards, err := s.cardRepo.FindByIDs(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch drawn cards: %w", err)
	}

	return Reconstruct(order, cards, s.src), nil
}
