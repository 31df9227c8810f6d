package service

import (
	"context"
	"errors"

	commoncrypto "github.com/linkmark/backend/internal/common/crypto"
	commonerrors "github.com/linkmark/backend/internal/common/errors"
	"github.com/linkmark/backend/internal/common/logger"
	"github.com/linkmark/backend/internal/observability/metrics"
	userdomain "github.com/linkmark/backend/internal/user/domain"
	userrepo "github.com/linkmark/backend/internal/user/repository"
)

type AuthService struct {
	repo        userrepo.Repository
	hasher      commoncrypto.PasswordHasher
	idGenerator commoncrypto.IDGenerator
	issuer      *TokenIssuer
	log         *logger.Logger
}

func NewAuthService(
	repo userrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	idGenerator commoncrypto.IDGenerator,
	issuer *TokenIssuer,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		repo:        repo,
		hasher:      hasher,
		idGenerator: idGenerator,
		issuer:      issuer,
		log:         log,
	}
}

type RegisterInput struct {
	Email    string
	Username string
	Password string
}

type AuthResult struct {
	Token string
	User  userdomain.Public
}

// Register creates a new account. The uniqueness pre-check runs before the
// password is ever hashed; a concurrent duplicate slipping past it is caught
// by the store's unique constraint and surfaces as the same conflict.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"email":  input.Email,
		"action": "register_attempt",
	}).Info("register attempt")

	_, err := s.repo.FindFirstByEmailOrUsername(ctx, input.Email, input.Username)
	if err == nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_conflict",
		}).Warn("register failed: email or username already exists")
		metrics.RegistrationConflictsTotal.Inc()
		return AuthResult{}, ErrUserAlreadyExists
	}
	if !errors.Is(err, userrepo.ErrUserNotFound) {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_precheck_failed",
		}).Errorf("register failed: uniqueness check error: %v", err)
		return AuthResult{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		return AuthResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_id_generation_failed",
		}).Errorf("register failed: id generation error: %v", err)
		return AuthResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	created, err := s.repo.Create(ctx, userdomain.User{
		ID:           userdomain.ID(id),
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, userrepo.ErrUserAlreadyExists) {
			s.log.WithFields(ctx, logger.Fields{
				"email":  input.Email,
				"action": "register_conflict",
			}).Warn("register failed: lost uniqueness race")
			metrics.RegistrationConflictsTotal.Inc()
			return AuthResult{}, ErrUserAlreadyExists
		}
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_create_failed",
		}).Errorf("register failed: %v", err)
		return AuthResult{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	view := created.Public()

	token, err := s.issuer.Issue(view)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":   input.Email,
			"user_id": view.ID,
			"action":  "register_token_issue_failed",
		}).Errorf("register failed: token issue error: %v", err)
		return AuthResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"email":   view.Email,
		"user_id": view.ID,
		"action":  "register_success",
	}).Info("register success")
	metrics.RegistrationsTotal.Inc()

	return AuthResult{Token: token, User: view}, nil
}

// ValidateUser checks credentials and returns the public view on success.
// Unknown email and wrong password both return (nil, nil) rather than an
// error; the caller decides what unauthorized looks like. The hasher is not
// invoked when the user does not exist.
func (s *AuthService) ValidateUser(ctx context.Context, email, password string) (*userdomain.Public, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"email":  email,
				"action": "validate_user_not_found",
			}).Warn("credential check failed: no such email")
			return nil, nil
		}
		s.log.WithFields(ctx, logger.Fields{
			"email":  email,
			"action": "validate_user_fetch_failed",
		}).Errorf("credential check failed: %v", err)
		return nil, commonerrors.ErrDatabaseError.WithCause(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  email,
			"action": "validate_user_bad_password",
		}).Warn("credential check failed: password mismatch")
		return nil, nil
	}

	view := user.Public()
	return &view, nil
}

// Login issues a session token for an already-validated user.
func (s *AuthService) Login(ctx context.Context, user userdomain.Public) (AuthResult, error) {
	token, err := s.issuer.Issue(user)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": user.ID,
			"action":  "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		return AuthResult{}, commonerrors.ErrInternalError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": user.ID,
		"action":  "login_success",
	}).Info("login success")
	metrics.LoginsTotal.Inc()

	return AuthResult{Token: token, User: user}, nil
}
