package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/croftbar/member-portal/internal/account/service"
	"github.com/croftbar/member-portal/internal/common/clock"
	"github.com/croftbar/member-portal/internal/common/logger"
	"github.com/croftbar/member-portal/internal/user/domain"
	userrepo "github.com/croftbar/member-portal/internal/user/repository"
)

func setupAccountService(t *testing.T) (*service.AccountService, *mockUserRepo, *mockHasher, *clock.MockClock) {
	t.Helper()

	repo := &mockUserRepo{}
	hasher := &mockHasher{}
	clk := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	log, _ := logger.New("", "test", "error")

	svc := service.NewAccountService(repo, hasher, clk, log)
	return svc, repo, hasher, clk
}

func validRegisterInput() service.RegisterInput {
	return service.RegisterInput{
		FirstName: "A",
		LastName:  "B",
		Email:     "a@x.com",
		Username:  "alice",
		Password:  "pw123",
	}
}

func TestAccountService_Register_Success(t *testing.T) {
	svc, repo, hasher, clk := setupAccountService(t)

	hasher.hashFunc = func(p string) (string, error) {
		if p != "pw123" {
			t.Errorf("expected password pw123, got %s", p)
		}
		return "digest", nil
	}

	var created domain.User
	repo.createFunc = func(ctx context.Context, user domain.User) (domain.ID, error) {
		created = user
		return 42, nil
	}

	user, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if user.ID != 42 {
		t.Errorf("expected id 42, got %d", user.ID)
	}
	if created.PasswordHash != "digest" {
		t.Errorf("expected stored hash digest, got %s", created.PasswordHash)
	}
	if created.PasswordHash == "pw123" {
		t.Error("plaintext password must never be stored")
	}
	if created.Email != "a@x.com" || created.Username != "alice" {
		t.Errorf("unexpected stored user: %+v", created)
	}
	if !created.CreatedAt.Equal(clk.Now()) {
		t.Errorf("expected created_at %v, got %v", clk.Now(), created.CreatedAt)
	}
}

func TestAccountService_Register_Duplicate(t *testing.T) {
	svc, repo, _, _ := setupAccountService(t)

	repo.findByUsernameOrEmailFunc = func(ctx context.Context, username, email string) (domain.User, error) {
		return domain.User{ID: 1, Username: username}, nil
	}

	inserted := false
	repo.createFunc = func(ctx context.Context, user domain.User) (domain.ID, error) {
		inserted = true
		return 0, nil
	}

	_, err := svc.Register(context.Background(), validRegisterInput())
	if !errors.Is(err, service.ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}
	if inserted {
		t.Error("duplicate registration must not insert a row")
	}
}

func TestAccountService_Register_LostDuplicateRace(t *testing.T) {
	svc, repo, _, _ := setupAccountService(t)

	// Pre-check passes, insert hits the unique index.
	repo.createFunc = func(ctx context.Context, user domain.User) (domain.ID, error) {
		return 0, userrepo.ErrDuplicateUser
	}

	_, err := svc.Register(context.Background(), validRegisterInput())
	if !errors.Is(err, service.ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}
}

func TestAccountService_Register_MissingFields(t *testing.T) {
	svc, repo, _, _ := setupAccountService(t)

	touched := false
	repo.findByUsernameOrEmailFunc = func(ctx context.Context, username, email string) (domain.User, error) {
		touched = true
		return domain.User{}, userrepo.ErrUserNotFound
	}

	input := validRegisterInput()
	input.Email = ""

	_, err := svc.Register(context.Background(), input)
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if touched {
		t.Error("validation failure must not reach the store")
	}
}

func TestAccountService_Register_StorageFailure(t *testing.T) {
	svc, repo, _, _ := setupAccountService(t)

	storageErr := errors.New("connection refused")
	repo.createFunc = func(ctx context.Context, user domain.User) (domain.ID, error) {
		return 0, storageErr
	}

	_, err := svc.Register(context.Background(), validRegisterInput())
	if !errors.Is(err, storageErr) {
		t.Fatalf("expected storage error to propagate, got %v", err)
	}
}

func TestAccountService_Authenticate_Success(t *testing.T) {
	svc, repo, hasher, _ := setupAccountService(t)

	repo.findByUsernameFunc = func(ctx context.Context, username string) (domain.User, error) {
		return domain.User{ID: 7, Username: username, PasswordHash: "digest"}, nil
	}
	hasher.compareFunc = func(hash, password string) error {
		if hash != "digest" || password != "pw123" {
			t.Errorf("unexpected compare args: %s %s", hash, password)
		}
		return nil
	}

	user, err := svc.Authenticate(context.Background(), service.LoginInput{
		Username: "alice",
		Password: "pw123",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.ID != 7 {
		t.Errorf("expected id 7, got %d", user.ID)
	}
}

func TestAccountService_Authenticate_UnknownUser(t *testing.T) {
	svc, _, _, _ := setupAccountService(t)

	_, err := svc.Authenticate(context.Background(), service.LoginInput{
		Username: "ghost",
		Password: "pw123",
	})
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAccountService_Authenticate_WrongPassword(t *testing.T) {
	svc, repo, hasher, _ := setupAccountService(t)

	repo.findByUsernameFunc = func(ctx context.Context, username string) (domain.User, error) {
		return domain.User{ID: 7, Username: username, PasswordHash: "digest"}, nil
	}
	hasher.compareFunc = func(hash, password string) error {
		return errors.New("mismatch")
	}

	_, err := svc.Authenticate(context.Background(), service.LoginInput{
		Username: "alice",
		Password: "wrong",
	})
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAccountService_Authenticate_ErrorDoesNotRevealField(t *testing.T) {
	svc, repo, hasher, _ := setupAccountService(t)

	_, unknownErr := svc.Authenticate(context.Background(), service.LoginInput{
		Username: "ghost",
		Password: "pw123",
	})

	repo.findByUsernameFunc = func(ctx context.Context, username string) (domain.User, error) {
		return domain.User{ID: 7, Username: username, PasswordHash: "digest"}, nil
	}
	hasher.compareFunc = func(hash, password string) error {
		return errors.New("mismatch")
	}

	_, wrongPwErr := svc.Authenticate(context.Background(), service.LoginInput{
		Username: "alice",
		Password: "wrong",
	})

	if unknownErr.Error() != wrongPwErr.Error() {
		t.Errorf("unknown-user and wrong-password errors must be indistinguishable: %q vs %q", unknownErr, wrongPwErr)
	}
}
