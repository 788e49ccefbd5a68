package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/croftbar/member-portal/internal/common/clock"
	"github.com/croftbar/member-portal/internal/common/crypto"
	"github.com/croftbar/member-portal/internal/common/logger"
	"github.com/croftbar/member-portal/internal/observability/metrics"
	"github.com/croftbar/member-portal/internal/user/domain"
	userrepo "github.com/croftbar/member-portal/internal/user/repository"
)

type AccountService struct {
	repo     userrepo.Repository
	hasher   crypto.PasswordHasher
	clock    clock.Clock
	validate *validator.Validate
	log      *logger.Logger
}

func NewAccountService(
	repo userrepo.Repository,
	hasher crypto.PasswordHasher,
	clk clock.Clock,
	log *logger.Logger,
) *AccountService {
	return &AccountService{
		repo:     repo,
		hasher:   hasher,
		clock:    clk,
		validate: validator.New(),
		log:      log,
	}
}

type RegisterInput struct {
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Email     string `validate:"required"`
	Username  string `validate:"required"`
	Password  string `validate:"required"`
}

type LoginInput struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// Register creates a new user. The pre-check keeps the common duplicate case
// on the friendly path; the unique index decides the race, and a
// constraint violation on insert is reported as the same duplicate error.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "register_attempt",
	}).Info("register attempt")

	if err := s.validate.Struct(input); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		return domain.User{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	_, err := s.repo.FindByUsernameOrEmail(ctx, input.Username, input.Email)
	if err == nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_duplicate",
		}).Warn("register failed: already exists")
		metrics.RegistrationsDuplicate.Inc()
		return domain.User{}, ErrDuplicateUser
	}
	if !errors.Is(err, userrepo.ErrUserNotFound) {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_lookup_failed",
		}).Errorf("register failed: %v", err)
		return domain.User{}, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		return domain.User{}, err
	}

	user := domain.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	}

	id, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, userrepo.ErrDuplicateUser) {
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "register_duplicate",
			}).Warn("register failed: lost duplicate race")
			metrics.RegistrationsDuplicate.Inc()
			return domain.User{}, ErrDuplicateUser
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_create_failed",
		}).Errorf("register failed: %v", err)
		return domain.User{}, err
	}
	user.ID = id

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  int64(user.ID),
		"action":   "register_success",
	}).Info("register success")
	metrics.RegistrationsTotal.Inc()

	return user, nil
}

// Authenticate verifies a username/password pair. Unknown username and wrong
// password are indistinguishable to the caller.
func (s *AccountService) Authenticate(ctx context.Context, input LoginInput) (domain.User, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "login_attempt",
	}).Info("login attempt")

	if err := s.validate.Struct(input); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "login_validation_failed",
		}).Warnf("login validation failed: %v", err)
		metrics.LoginsFailed.Inc()
		return domain.User{}, ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "login_user_not_found",
			}).Warn("login failed: not found")
			metrics.LoginsFailed.Inc()
			return domain.User{}, ErrInvalidCredentials
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		return domain.User{}, err
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "login_invalid_password",
		}).Warn("login failed: invalid password")
		metrics.LoginsFailed.Inc()
		return domain.User{}, ErrInvalidCredentials
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  int64(user.ID),
		"action":   "login_success",
	}).Info("login success")
	metrics.LoginsTotal.Inc()

	return user, nil
}
