package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/tarotman/internal/model"
)

// PostgresSpreadRepo はPostgreSQLを使用した保存スプレッドリポジトリ。
type PostgresSpreadRepo struct {
	db *sql.DB
}

// NewPostgresSpreadRepo はPostgresSpreadRepoを生成する。
func NewPostgresSpreadRepo(db *sql.DB) *PostgresSpreadRepo {
	return &PostgresSpreadRepo{db: db}
}

// ExistsForDate は指定ユーザー・指定日の保存スプレッドが存在するかを返す。
func (r *PostgresSpreadRepo) ExistsForDate(ctx context.Context, userID string, date time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM user_draws WHERE user_id = $1 AND date_drawn = $2
		 )`,
		userID, date.UTC().Format(time.DateOnly),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check existing spread: %w", err)
	}
	return exists, nil
}

// Create はスプレッドを保存し、影響行数を返す。
// (user_id, date_drawn)のユニーク制約違反の場合はErrDuplicateSpreadを返す。
func (r *PostgresSpreadRepo) Create(ctx context.Context, spread *model.SavedSpread) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO user_draws
		   (id, user_id, spread_meaning_id, card_one_id, card_two_id, card_three_id, date_drawn, direction)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		spread.ID, spread.UserID, spread.SpreadMeaningID,
		spread.CardIDs[0], spread.CardIDs[1], spread.CardIDs[2],
		spread.DateDrawn.UTC().Format(time.DateOnly), spread.Direction,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateSpread
		}
		return 0, fmt.Errorf("failed to insert spread: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}

// ListByUser はユーザーの保存スプレッドを位置の意味テキスト付きで
// date_drawn昇順に取得する。
func (r *PostgresSpreadRepo) ListByUser(ctx context.Context, userID string) ([]SavedSpreadWithMeaning, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT d.id, d.user_id, d.spread_meaning_id,
		        d.card_one_id, d.card_two_id, d.card_three_id,
		        d.date_drawn, d.direction,
		        m.card_one_meaning, m.card_two_meaning, m.card_three_meaning
		 FROM user_draws d
		 INNER JOIN spread_meanings m ON d.spread_meaning_id = m.id
		 WHERE d.user_id = $1
		 ORDER BY d.date_drawn ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query past spreads: %w", err)
	}
	defer rows.Close()

	var spreads []SavedSpreadWithMeaning
	for rows.Next() {
		var s SavedSpreadWithMeaning
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.SpreadMeaningID,
			&s.CardIDs[0], &s.CardIDs[1], &s.CardIDs[2],
			&s.DateDrawn, &s.Direction,
			&s.Meaning.CardOneMeaning, &s.Meaning.CardTwoMeaning, &s.Meaning.CardThreeMeaning,
		); err != nil {
			return nil, fmt.Errorf("failed to scan spread row: %w", err)
		}
		s.Meaning.ID = s.SpreadMeaningID
		spreads = append(spreads, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate spread rows: %w", err)
	}

	return spreads, nil
}

// compile-time interface check
var _ SpreadRepository = (*PostgresSpreadRepo)(nil)
