package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/tarotman/internal/model"
)

// uniqueViolation はPostgreSQLのユニーク制約違反のエラーコード。
const uniqueViolation = "23505"

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// UpdateUsername は主キー指定で表示名を更新し、影響行数を返す。
func (r *PostgresUserRepo) UpdateUsername(ctx context.Context, id, username string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET username = $1, updated_at = NOW() WHERE id = $2`,
		username, id,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update username: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected, nil
}

// Create はユーザーを作成する。
// 主キー衝突の場合はErrDuplicateUserを返す。
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username) VALUES ($1, $2)`,
		user.ID, user.Username,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateUser
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// isUniqueViolation はlib/pqのユニーク制約違反エラーかどうかを判定する。
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
