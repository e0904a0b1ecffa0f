// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/hitoshi/tarotman/internal/model"
)

// ErrDuplicateSpread は(user_id, date_drawn)のユニーク制約違反を表す。
// 同一ユーザーの同日保存が並行して走った場合、後着のINSERTがこのエラーになる。
// 呼び出し側は1日1回制限の違反（FrequencyError相当）として扱うこと。
var ErrDuplicateSpread = errors.New("spread already saved for this user and date")

// ErrDuplicateUser はusersの主キー制約違反を表す。
// 同一subjectの初回ログインが並行して走った場合に発生する。
// 呼び出し側は「作成済み」とみなして更新経路に進むこと。
var ErrDuplicateUser = errors.New("user already exists")

// CardRepository はカードカタログの読み取りインターフェース。
// カタログはデプロイ時投入の読み取り専用データで、書き込み操作は持たない。
type CardRepository interface {
	// FindByIDs は指定IDのカードをsuit/element名付きで取得する。
	// 行の並び順は保証されない。存在しないIDは結果に含まれない。
	FindByIDs(ctx context.Context, ids []int) ([]model.Card, error)
}

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// UpdateUsername は主キー指定で表示名を更新し、影響行数を返す。
	UpdateUsername(ctx context.Context, id, username string) (int64, error)

	// Create はユーザーを作成する。
	// 主キー衝突の場合はErrDuplicateUserを返す。
	Create(ctx context.Context, user *model.User) error
}

// SpreadRepository は保存スプレッドの永続化インターフェース。
type SpreadRepository interface {
	// ExistsForDate は指定ユーザー・指定日の保存スプレッドが存在するかを返す。
	ExistsForDate(ctx context.Context, userID string, date time.Time) (bool, error)

	// Create はスプレッドを保存し、影響行数を返す。
	// (user_id, date_drawn)のユニーク制約違反の場合はErrDuplicateSpreadを返す。
	Create(ctx context.Context, spread *model.SavedSpread) (int64, error)

	// ListByUser はユーザーの保存スプレッドを位置の意味テキスト付きで
	// date_drawn昇順に取得する。
	ListByUser(ctx context.Context, userID string) ([]SavedSpreadWithMeaning, error)
}

// SavedSpreadWithMeaning は保存スプレッドとspread_meaningsを結合した構造体。
type SavedSpreadWithMeaning struct {
	model.SavedSpread
	Meaning model.SpreadMeaning
}
