// Package user はユーザー管理のビジネスロジックを提供する。
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hitoshi/tarotman/internal/model"
	"github.com/hitoshi/tarotman/internal/repository"
)

// Service はユーザーの作成・更新ロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository) *Service {
	return &Service{userRepo: userRepo}
}

// Upsert はsubjectをキーにユーザーを冪等に作成または更新する。
// 更新を先に試み、影響行数が0の場合のみINSERTする（update-first upsert）。
// subjectはIdPが一意性を保証するため逐次実行では重複は発生しないが、
// 同一subjectの初回ログインが並行した場合はINSERTが主キー制約に当たる。
// その場合は「作成済み」とみなし、更新経路に回してUpdatedとして返す。
func (s *Service) Upsert(ctx context.Context, subjectID, username string) (model.UpsertResult, error) {
	rowsAffected, err := s.userRepo.UpdateUsername(ctx, subjectID, username)
	if err != nil {
		return "", fmt.Errorf("failed to update user: %w", err)
	}
	if rowsAffected > 0 {
		slog.Info("user updated", slog.String("user_id", subjectID))
		return model.UpsertUpdated, nil
	}

	err = s.userRepo.Create(ctx, &model.User{ID: subjectID, Username: username})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			// 並行した初回ログインに先を越された。更新として続行する
			if _, retryErr := s.userRepo.UpdateUsername(ctx, subjectID, username); retryErr != nil {
				return "", fmt.Errorf("failed to update user after insert conflict: %w", retryErr)
			}
			slog.Info("user updated after concurrent creation", slog.String("user_id", subjectID))
			return model.UpsertUpdated, nil
		}
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user created", slog.String("user_id", subjectID))
	return model.UpsertCreated, nil
}
