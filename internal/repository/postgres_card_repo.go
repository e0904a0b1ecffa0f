package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/tarotman/internal/model"
)

// PostgresCardRepo はPostgreSQLを使用したカードカタログリポジトリ。
type PostgresCardRepo struct {
	db *sql.DB
}

// NewPostgresCardRepo はPostgresCardRepoを生成する。
func NewPostgresCardRepo(db *sql.DB) *PostgresCardRepo {
	return &PostgresCardRepo{db: db}
}

// FindByIDs は指定IDのカードをsuit/element名付きで取得する。
// 行の並び順は保証されない。存在しないIDは結果に含まれない。
func (r *PostgresCardRepo) FindByIDs(ctx context.Context, ids []int) ([]model.Card, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.suit_id, c.element_id, c.card_rank, c.card_name,
		        c.card_meaning_up, c.card_meaning_down, s.suit, e.element
		 FROM cards c
		 INNER JOIN suits s ON c.suit_id = s.id
		 INNER JOIN elements e ON c.element_id = e.id
		 WHERE c.id = ANY($1)`,
		pq.Array(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards by IDs: %w", err)
	}
	defer rows.Close()

	cards := make([]model.Card, 0, len(ids))
	for rows.Next() {
		var c model.Card
		if err := rows.Scan(
			&c.ID, &c.SuitID, &c.ElementID, &c.Rank, &c.Name,
			&c.MeaningUp, &c.MeaningDown, &c.Suit, &c.Element,
		); err != nil {
			return nil, fmt.Errorf("failed to scan card row: %w", err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate card rows: %w", err)
	}

	return cards, nil
}

// compile-time interface check
var _ CardRepository = (*PostgresCardRepo)(nil)
