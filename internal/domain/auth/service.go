package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/pagewise/pagewise-api/internal/domain/account"
	"github.com/pagewise/pagewise-api/internal/pkg/jwt"
	"github.com/pagewise/pagewise-api/internal/pkg/password"
)

// Service handles authentication business logic
type Service struct {
	accounts   account.Repository
	jwtService *jwt.Service
	redis      *redis.Client // nil if Redis disabled
}

// NewService creates auth service
func NewService(accounts account.Repository, jwtService *jwt.Service, redis *redis.Client) *Service {
	return &Service{
		accounts:   accounts,
		jwtService: jwtService,
		redis:      redis,
	}
}

// Register creates a new account and issues a token pair
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)

	existing, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	nickname := req.Nickname
	if nickname == "" {
		nickname = account.GenerateNickname()
	}

	acc := &account.Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: sql.NullString{String: hash, Valid: true},
		Nickname:     nickname,
	}
	if err := s.accounts.Create(ctx, acc); err != nil {
		if errors.Is(err, account.ErrEmailExists) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	log.Info().Str("account_id", acc.ID.String()).Msg("account registered")
	return s.issueTokens(ctx, acc)
}

// Login verifies credentials and issues a token pair
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	acc, err := s.accounts.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}
	if acc == nil || !acc.PasswordHash.Valid {
		return nil, ErrInvalidCredentials
	}
	if !password.Verify(req.Password, acc.PasswordHash.String) {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, acc)
}

// Refresh rotates a refresh token into a new token pair
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefresh
	}

	userID, err := s.lookupRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if userID != claims.UserID {
		return nil, ErrInvalidRefresh
	}

	acc, err := s.accounts.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, ErrInvalidRefresh
	}

	// Rotate: old token is unusable from here on
	if err := s.revokeRefreshToken(ctx, refreshToken); err != nil {
		return nil, err
	}

	return s.newTokenPair(ctx, acc.ID)
}

// Logout revokes the given refresh token
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	return s.revokeRefreshToken(ctx, refreshToken)
}

// Me returns the authenticated account's profile
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*account.ProfileResponse, error) {
	acc, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, account.ErrAccountNotFound
	}

	return &account.ProfileResponse{
		ID:            acc.ID,
		Nickname:      acc.Nickname,
		AvatarURL:     acc.AvatarURL.String,
		StatusMessage: acc.StatusMsg.String,
		Followers:     acc.Followers,
		Following:     acc.Following,
	}, nil
}

func (s *Service) issueTokens(ctx context.Context, acc *account.Account) (*AuthResponse, error) {
	pair, err := s.newTokenPair(ctx, acc.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Account: &account.ProfileResponse{
			ID:            acc.ID,
			Nickname:      acc.Nickname,
			AvatarURL:     acc.AvatarURL.String,
			StatusMessage: acc.StatusMsg.String,
			Followers:     acc.Followers,
			Following:     acc.Following,
		},
		Tokens: *pair,
	}, nil
}

func (s *Service) newTokenPair(ctx context.Context, userID uuid.UUID) (*TokenPair, error) {
	access, err := s.jwtService.GenerateAccessToken(userID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwtService.GenerateRefreshToken(userID)
	if err != nil {
		return nil, err
	}
	if err := s.storeRefreshToken(ctx, userID, refresh); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.jwtService.GetAccessTTL().Seconds()),
	}, nil
}

// Redis helpers (handle nil redis gracefully)

func (s *Service) storeRefreshToken(ctx context.Context, userID uuid.UUID, token string) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Set(ctx, "refresh:"+token, userID.String(), s.jwtService.GetRefreshTTL()).Err()
}

func (s *Service) lookupRefreshToken(ctx context.Context, token string) (uuid.UUID, error) {
	if s.redis == nil {
		// Without the allow-list, signature validation alone decides
		claims, err := s.jwtService.ValidateRefreshToken(token)
		if err != nil {
			return uuid.Nil, ErrInvalidRefresh
		}
		return claims.UserID, nil
	}

	val, err := s.redis.Get(ctx, "refresh:"+token).Result()
	if err == redis.Nil {
		return uuid.Nil, ErrInvalidRefresh
	}
	if err != nil {
		return uuid.Nil, err
	}

	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, ErrInvalidRefresh
	}
	return id, nil
}

func (s *Service) revokeRefreshToken(ctx context.Context, token string) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, "refresh:"+token).Err()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
