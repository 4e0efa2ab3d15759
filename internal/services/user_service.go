package services

import (
	"context"
	"errors"

	"github.com/cognicursos/backend-go/internal/auth"
	apperrors "github.com/cognicursos/backend-go/internal/errors"
	"github.com/cognicursos/backend-go/internal/models"
	"github.com/cognicursos/backend-go/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const msgInvalidCredentials = "Usuário ou senha inválidos."

type userFields struct {
	Username  string `json:"username" validate:"required,max=150"`
	Email     string `json:"email" validate:"omitempty,email,max=254"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
}

// UserService 用户管理与令牌签发
type UserService struct {
	repo      repository.UserRepository
	tokens    *auth.TokenIssuer
	validator *Validator
	logger    *zap.Logger
}

func NewUserService(repo repository.UserRepository, tokens *auth.TokenIssuer, validator *Validator, logger *zap.Logger) *UserService {
	return &UserService{repo: repo, tokens: tokens, validator: validator, logger: logger}
}

func (s *UserService) List(ctx context.Context) ([]UserResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, repoError(err, msgUserNotFound)
	}
	return mapSlice(users, NewUserResponse), nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, msgUserNotFound)
	}
	resp := NewUserResponse(user)
	return &resp, nil
}

func (s *UserService) Create(ctx context.Context, in UserInput) (*UserResponse, error) {
	user := &models.User{IsActive: true}
	extra := fieldErrors{}
	if in.Password == nil || *in.Password == "" {
		extra.add("password", "Este campo é obrigatório.")
	}
	if err := extra.merge(s.apply(user, in)); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, repoError(err, msgUserNotFound)
	}
	s.logger.Info("User created", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	resp := NewUserResponse(user)
	return &resp, nil
}

func (s *UserService) Update(ctx context.Context, id uint, in UserInput) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, msgUserNotFound)
	}
	if err := s.apply(user, in); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, repoError(err, msgUserNotFound)
	}
	resp := NewUserResponse(user)
	return &resp, nil
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return repoError(err, msgUserNotFound)
	}
	return nil
}

// Authenticate checks the credentials of an active user and issues a token.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*TokenResponse, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewUnauthorizedError(msgInvalidCredentials)
		}
		return nil, repoError(err, msgUserNotFound)
	}
	if !user.IsActive || !auth.CheckPassword(user.PasswordHash, password) {
		s.logger.Warn("Authentication failed", zap.String("username", username))
		return nil, apperrors.NewUnauthorizedError(msgInvalidCredentials)
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, apperrors.NewSystemError(apperrors.ErrCodeInternalServer, "Token generation failed").WithCause(err)
	}
	return &TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokens.ExpiresIn().Seconds()),
	}, nil
}

// EnsureAdmin creates the first user when the table is empty. It is a no-op
// when username or password is blank or users already exist.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password, email string) error {
	if username == "" || password == "" {
		return nil
	}
	count, err := s.repo.Count(ctx)
	if err != nil {
		return repoError(err, msgUserNotFound)
	}
	if count > 0 {
		return nil
	}
	_, err = s.Create(ctx, UserInput{Username: &username, Password: &password, Email: &email})
	if err == nil {
		s.logger.Info("Initial user created", zap.String("username", username))
	}
	return err
}

func (s *UserService) apply(user *models.User, in UserInput) error {
	if v := trimmed(in.Username); v != nil {
		user.Username = *v
	}
	if v := trimmed(in.Email); v != nil {
		user.Email = *v
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if err := s.validator.Struct(userFields{
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}); err != nil {
		return err
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return apperrors.NewSystemError(apperrors.ErrCodeInternalServer, "Password hashing failed").WithCause(err)
		}
		user.PasswordHash = hash
	}
	return nil
}
