// Package spread はスプレッドの保存と参照に関するビジネスロジックを提供する。
// 「1ユーザー1日1スプレッド」の業務不変条件はこのパッケージが担う。
package spread

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/hitoshi/tarotman/internal/deck"
	"github.com/hitoshi/tarotman/internal/model"
	"github.com/hitoshi/tarotman/internal/repository"
)

// secondsPerDay は1日の秒数。UTC日付境界までの残り時間の算出に使う。
const secondsPerDay = 24 * 60 * 60

// SaveRequest はスプレッド保存のリクエスト内容。
type SaveRequest struct {
	Cards     []int  `json:"cards" validate:"required,len=3,dive,gte=0,lte=77"`
	SpreadID  int    `json:"spreadId" validate:"required,gte=1"`
	SpreadDir string `json:"spreadDir" validate:"required,len=3"`
}

// Service はスプレッドの保存・参照ロジックを提供する。
type Service struct {
	spreadRepo repository.SpreadRepository
	cardRepo   repository.CardRepository
	validate   *validator.Validate
	now        func() time.Time
}

// NewService はServiceを生成する。
// nowがnilの場合はtime.Nowを使う（テストで固定時刻を注入するための引数）。
func NewService(spreadRepo repository.SpreadRepository, cardRepo repository.CardRepository, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		spreadRepo: spreadRepo,
		cardRepo:   cardRepo,
		validate:   validator.New(),
		now:        now,
	}
}

// Save はユーザーの本日分スプレッドを保存する。
// 1日1回制限に反する場合はSPREAD_ALREADY_SAVEDエラー（次のUTC日付境界までの
// 残り秒数付き）を返す。チェックとINSERTの間の競合はストレージ層の
// ユニーク制約で塞がれており、制約違反も同じエラーに写像する。
func (s *Service) Save(ctx context.Context, userID string, req SaveRequest) error {
	// 1. リクエスト内容の形式検証
	if err := s.validateRequest(ctx, req); err != nil {
		return err
	}

	nowUTC := s.now().UTC()

	// 2. 本日分の保存有無チェック
	exists, err := s.spreadRepo.ExistsForDate(ctx, userID, nowUTC)
	if err != nil {
		return fmt.Errorf("failed to check existing spread: %w", err)
	}
	if exists {
		return model.NewSpreadAlreadySavedError(secondsUntilNextDay(nowUTC))
	}

	// 3. INSERT
	saved := &model.SavedSpread{
		ID:              uuid.New().String(),
		UserID:          userID,
		SpreadMeaningID: req.SpreadID,
		CardIDs:         [model.SpreadCardCount]int{req.Cards[0], req.Cards[1], req.Cards[2]},
		DateDrawn:       nowUTC,
		Direction:       req.SpreadDir,
	}

	rowsAffected, err := s.spreadRepo.Create(ctx, saved)
	if err != nil {
		// チェック通過後に並行保存が先着した場合は制約違反として現れる
		if errors.Is(err, repository.ErrDuplicateSpread) {
			return model.NewSpreadAlreadySavedError(secondsUntilNextDay(s.now().UTC()))
		}
		return fmt.Errorf("failed to save spread: %w", err)
	}
	if rowsAffected == 0 {
		// 接続はできたが書き込みが無反映に終わった。業務ルール違反とは区別する
		slog.Error("spread insert affected zero rows",
			slog.String("user_id", userID),
			slog.String("spread_id", saved.ID),
		)
		return model.NewPersistenceFailedError()
	}

	slog.Info("spread saved",
		slog.String("user_id", userID),
		slog.String("spread_id", saved.ID),
		slog.String("date_drawn", nowUTC.Format(time.DateOnly)),
	)
	return nil
}

// ListPast はユーザーの保存スプレッドをdate_drawn昇順で返す。
// 各スプレッドにはカタログのカードテキストと位置の意味テキストが結合され、
// カードの向きは保存時のdirection文字列から復元される。
func (s *Service) ListPast(ctx context.Context, userID string) ([]model.PastSpread, error) {
	saved, err := s.spreadRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list past spreads: %w", err)
	}
	if len(saved) == 0 {
		return []model.PastSpread{}, nil
	}

	// 全スプレッドのカードIDをまとめて1クエリで取得する
	idSet := make(map[int]struct{})
	for _, sp := range saved {
		for _, id := range sp.CardIDs {
			idSet[id] = struct{}{}
		}
	}
	ids := make([]int, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	cards, err := s.cardRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cards for past spreads: %w", err)
	}

	results := make([]model.PastSpread, 0, len(saved))
	for _, sp := range saved {
		results = append(results, model.PastSpread{
			ID:        sp.ID,
			DateDrawn: sp.DateDrawn,
			Direction: sp.Direction,
			Meaning:   sp.Meaning,
			Cards:     deck.ReconstructStored(sp.CardIDs[:], cards, sp.Direction),
		})
	}

	return results, nil
}

// validateRequest はスプレッド保存リクエストの形式とカタログ整合性を検証する。
func (s *Service) validateRequest(ctx context.Context, req SaveRequest) error {
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return model.NewInvalidSpreadBodyError(verrs[0].Field() + "の形式が不正です")
		}
		return model.NewInvalidSpreadBodyError(err.Error())
	}

	// directionはカードごとに'0'（逆位置）か'1'（正位置）の1文字
	for i := 0; i < len(req.SpreadDir); i++ {
		if c := req.SpreadDir[i]; c != '0' && c != '1' {
			return model.NewInvalidSpreadBodyError("spreadDirに0/1以外の文字が含まれています")
		}
	}

	// カードIDが実在するカタログIDであることを確認する
	cards, err := s.cardRepo.FindByIDs(ctx, req.Cards)
	if err != nil {
		return fmt.Errorf("failed to verify card IDs: %w", err)
	}
	found := make(map[int]struct{}, len(cards))
	for _, c := range cards {
		found[c.ID] = struct{}{}
	}
	for _, id := range req.Cards {
		if _, ok := found[id]; !ok {
			return model.NewUnknownCardError(id)
		}
	}

	return nil
}

// secondsUntilNextDay は次のUTC日付境界までの残り秒数を返す。
// ちょうど境界上の場合は0を返す。戻り値は常に [0, 86400) の範囲。
func secondsUntilNextDay(nowUTC time.Time) int {
	nextDay := nowUTC.Truncate(24 * time.Hour).Add(24 * time.Hour)
	return int(nextDay.Sub(nowUTC).Seconds()) % secondsPerDay
}
