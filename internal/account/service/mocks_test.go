package service_test

import (
	"context"

	"github.com/croftbar/member-portal/internal/user/domain"
	userrepo "github.com/croftbar/member-portal/internal/user/repository"
)

type mockUserRepo struct {
	createFunc                func(ctx context.Context, user domain.User) (domain.ID, error)
	findByUsernameFunc        func(ctx context.Context, username string) (domain.User, error)
	findByUsernameOrEmailFunc func(ctx context.Context, username, email string) (domain.User, error)
	findByIDFunc              func(ctx context.Context, id domain.ID) (domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) (domain.ID, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return 1, nil
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return domain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) FindByUsernameOrEmail(ctx context.Context, username, email string) (domain.User, error) {
	if m.findByUsernameOrEmailFunc != nil {
		return m.findByUsernameOrEmailFunc(ctx, username, email)
	}
	return domain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return domain.User{}, userrepo.ErrUserNotFound
}

type mockHasher struct {
	hashFunc    func(password string) (string, error)
	compareFunc func(hash, password string) error
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed:" + password, nil
}

func (m *mockHasher) Compare(hash, password string) error {
	if m.compareFunc != nil {
		return m.compareFunc(hash, password)
	}
	return nil
}
