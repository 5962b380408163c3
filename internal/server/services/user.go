// Package services contains server-side business logic. This file implements
// UserService, which handles registration, issuing access tokens and
// resolving a presented token back to its user.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Tanaychoubey/user-registration-api/internal/common"
	"github.com/Tanaychoubey/user-registration-api/internal/dbx"
	"github.com/Tanaychoubey/user-registration-api/internal/server/auth"
	"github.com/Tanaychoubey/user-registration-api/internal/server/config"
	"github.com/Tanaychoubey/user-registration-api/internal/server/models"
	"github.com/Tanaychoubey/user-registration-api/internal/server/repositories/repomanager"
	"github.com/Tanaychoubey/user-registration-api/internal/server/repositories/users"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput is the data accepted by Register. Age and Gender are optional.
type RegisterInput struct {
	UserName string `validate:"required"`
	Email    string `validate:"required"`
	Password string `validate:"required"`
	FullName string `validate:"required"`
	Age      *int
	Gender   *string
}

type tokenInput struct {
	UserName string `validate:"required"`
	Password string `validate:"required"`
}

// Token is an issued access token and its lifetime in seconds.
type Token struct {
	AccessToken string
	ExpiresIn   int
}

// UserService provides authentication-related operations:
// - Register: create users with a bcrypt password hash
// - IssueToken: verify credentials and mint an access token
// - Authenticate: validate an access token and load its user
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	hasher                      auth.Hasher
	validate                    *validator.Validate
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration

	dummyOnce sync.Once
	dummyHash string
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		hasher:                      auth.NewBcryptHasher(cfg.BcryptCost),
		validate:                    validator.New(validator.WithRequiredStructEnabled()),
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates a new user. The username is checked before the email, so a
// request clashing on both reports ErrUsernameExists. Both checks run before
// the password is hashed and are repeated inside the insert transaction.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, common.ErrInvalidRequest
	}

	if err := checkAvailable(ctx, s.repomanager.Users(s.db), in.UserName, in.Email); err != nil {
		if errors.Is(err, common.ErrUsernameExists) || errors.Is(err, common.ErrEmailExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error checking user: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, common.ErrPasswordTooLong
		}
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		UserName: in.UserName,
		Email:    in.Email,
		Password: hash,
		FullName: in.FullName,
		Age:      in.Age,
		Gender:   in.Gender,
	}

	var created *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		if err := checkAvailable(ctx, repo, in.UserName, in.Email); err != nil {
			return err
		}
		u, err := repo.Create(ctx, user)
		if err != nil {
			return err
		}
		created = u
		return nil
	})

	switch {
	case err == nil:
		return created, nil
	case errors.Is(err, common.ErrUsernameExists), errors.Is(err, common.ErrEmailExists):
		return nil, err
	case errors.Is(err, common.ErrorAlreadyExists):
		// a concurrent registration won the insert
		if cerr := checkAvailable(ctx, s.repomanager.Users(s.db), in.UserName, in.Email); cerr != nil {
			return nil, cerr
		}
		return nil, common.ErrUsernameExists
	default:
		return nil, fmt.Errorf("error creating user: %w", err)
	}
}

func checkAvailable(ctx context.Context, repo users.Repository, userName, email string) error {
	_, err := repo.GetUserByLogin(ctx, userName)
	switch {
	case err == nil:
		return common.ErrUsernameExists
	case !errors.Is(err, common.ErrorNotFound):
		return err
	}

	_, err = repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return common.ErrEmailExists
	case !errors.Is(err, common.ErrorNotFound):
		return err
	}

	return nil
}

// IssueToken verifies the credentials and returns a signed access token.
// Unknown users and wrong passwords both yield ErrInvalidCredentials.
func (s *UserService) IssueToken(ctx context.Context, userName, password string) (*Token, error) {
	if err := s.validate.Struct(tokenInput{UserName: userName, Password: password}); err != nil {
		return nil, common.ErrMissingFields
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// keep response time close to the known-user path
			_, _ = s.hasher.Verify(password, s.getDummyHash())
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.Password)
	if err != nil {
		return nil, fmt.Errorf("error verifying password: %w", err)
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	access, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	return &Token{
		AccessToken: access,
		ExpiresIn:   int(s.accessTokenValidityDuration / time.Second),
	}, nil
}

// Authenticate validates tokenString and returns the user it was issued to.
// Every failure, including an unknown user or a store error, is reported as
// ErrInvalidToken; the cause is kept in the error text.
func (s *UserService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	id, err := auth.GetUserIDFromToken(tokenString, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	user, err := s.repomanager.Users(s.db).GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	return user, nil
}

func (s *UserService) getDummyHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("dummy-password")
	})
	return s.dummyHash
}
