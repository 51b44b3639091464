package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"session-insight-be/internal/dto"
	"session-insight-be/internal/entity"
	"session-insight-be/internal/pkg/apperror"
	"session-insight-be/internal/pkg/logger"
	"session-insight-be/internal/repository/contract"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer mints an account-bound credential.
type TokenIssuer interface {
	Issue(accountId uuid.UUID) (string, time.Time, error)
}

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AccountResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
}

type authService struct {
	users      contract.UserRepository
	issuer     TokenIssuer
	bcryptCost int
	log        logger.ILogger
}

func NewAuthService(users contract.UserRepository, issuer TokenIssuer, log logger.ILogger) IAuthService {
	return &authService{
		users:      users,
		issuer:     issuer,
		bcryptCost: bcrypt.DefaultCost,
		log:        log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AccountResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, apperror.InvalidInput("email and password required")
	}

	// 1. Check for existing user
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("user already exists")
	}

	// 2. Hash password
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	// 3. Save; the unique index still guards a concurrent register
	user := &entity.User{
		Id:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("AUTH", "Account registered", map[string]interface{}{"user_id": user.Id})
	return &dto.AccountResponse{Id: user.Id, Email: user.Email}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, apperror.InvalidInput("email and password required")
	}

	invalid := apperror.Unauthorized("invalid credentials")

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, invalid
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, invalid
		}
		return nil, err
	}

	token, expiresAt, err := s.issuer.Issue(user.Id)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      dto.AccountResponse{Id: user.Id, Email: user.Email},
	}, nil
}
