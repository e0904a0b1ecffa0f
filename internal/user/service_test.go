package user

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/tarotman/internal/model"
	"github.com/hitoshi/tarotman/internal/repository"
)

// --- モック ---

type mockUserRepo struct {
	updateUsernameFn func(ctx context.Context, id, username string) (int64, error)
	createFn         func(ctx context.Context, user *model.User) error
}

func (m *mockUserRepo) UpdateUsername(ctx context.Context, id, username string) (int64, error) {
	return m.updateUsernameFn(ctx, id, username)
}
func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	return m.createFn(ctx, user)
}

func TestUpsert_ExistingUserIsUpdated(t *testing.T) {
	var gotID, gotName string
	repo := &mockUserRepo{
		updateUsernameFn: func(ctx context.Context, id, username string) (int64, error) {
			gotID, gotName = id, username
			return 1, nil
		},
		createFn: func(ctx context.Context, user *model.User) error {
			t.Fatal("Create should not be called when update affects a row")
			return nil
		},
	}
	svc := NewService(repo)

	result, err := svc.Upsert(context.Background(), "google-sub-1", "新しい名前")
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if result != model.UpsertUpdated {
		t.Errorf("result = %q, want %q", result, model.UpsertUpdated)
	}
	if gotID != "google-sub-1" || gotName != "新しい名前" {
		t.Errorf("UpdateUsername called with (%q, %q)", gotID, gotName)
	}
}

func TestUpsert_NewUserIsCreated(t *testing.T) {
	var created *model.User
	repo := &mockUserRepo{
		updateUsernameFn: func(ctx context.Context, id, username string) (int64, error) {
			return 0, nil
		},
		createFn: func(ctx context.Context, user *model.User) error {
			created = user
			return nil
		},
	}
	svc := NewService(repo)

	result, err := svc.Upsert(context.Background(), "google-sub-2", "初回ユーザー")
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if result != model.UpsertCreated {
		t.Errorf("result = %q, want %q", result, model.UpsertCreated)
	}
	if created == nil {
		t.Fatal("Create was not called")
	}
	if created.ID != "google-sub-2" || created.Username != "初回ユーザー" {
		t.Errorf("created user = %+v", created)
	}
}

func TestUpsert_ConcurrentCreationFallsBackToUpdate(t *testing.T) {
	// 初回ログインが並行し、INSERTが主キー制約に当たるケース
	updateCalls := 0
	repo := &mockUserRepo{
		updateUsernameFn: func(ctx context.Context, id, username string) (int64, error) {
			updateCalls++
			if updateCalls == 1 {
				// 1回目はまだ行が無い
				return 0, nil
			}
			return 1, nil
		},
		createFn: func(ctx context.Context, user *model.User) error {
			return repository.ErrDuplicateUser
		},
	}
	svc := NewService(repo)

	result, err := svc.Upsert(context.Background(), "google-sub-3", "名前")
	if err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	if result != model.UpsertUpdated {
		t.Errorf("result = %q, want %q", result, model.UpsertUpdated)
	}
	if updateCalls != 2 {
		t.Errorf("UpdateUsername called %d times, want 2", updateCalls)
	}
}

func TestUpsert_UpdateErrorIsWrapped(t *testing.T) {
	dbErr := errors.New("connection refused")
	repo := &mockUserRepo{
		updateUsernameFn: func(ctx context.Context, id, username string) (int64, error) {
			return 0, dbErr
		},
		createFn: func(ctx context.Context, user *model.User) error {
			return nil
		},
	}
	svc := NewService(repo)

	_, err := svc.Upsert(context.Background(), "google-sub-4", "名前")
	if err == nil {
		t.Fatal("Upsert should return error")
	}
	if !errors.Is(err, dbErr) {
		t.Errorf("error should wrap the repository error: %v", err)
	}
}

func TestUpsert_CreateErrorIsWrapped(t *testing.T) {
	dbErr := errors.New("disk full")
	repo := &mockUserRepo{
		updateUsernameFn: func(ctx context.Context, id, username string) (int64, error) {
			return 0, nil
		},
		createFn: func(ctx context.Context, user *model.User) error {
			return dbErr
		},
	}
	svc := NewService(repo)

	_, err := svc.Upsert(context.Background(), "google-sub-5", "名前")
	if err == nil {
		t.Fatal("Upsert should return error")
	}
	if !errors.Is(err, dbErr) {
		t.Errorf("error should wrap the repository error: %v", err)
	}
}
