// Package services contains the server-side business logic. This file
// implements UserService: registration, login, profile, progress updates,
// account deletion, the leaderboard, and admin registration statistics.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/academy-challenge/backend/internal/common"
	"github.com/academy-challenge/backend/internal/server/auth"
	"github.com/academy-challenge/backend/internal/server/config"
	"github.com/academy-challenge/backend/internal/server/models"
	"github.com/academy-challenge/backend/internal/server/repositories/repomanager"
)

// leaderboardSize caps the public leaderboard.
const leaderboardSize = 10

// AuthResult bundles a sanitized user with a freshly issued bearer token.
type AuthResult struct {
	User  *models.User
	Token string
}

// UserService provides user-facing operations. Progress writes and account
// deletion are always scoped to the id decoded from the caller's token.
type UserService struct {
	db             *sql.DB
	repomanager    repomanager.RepositoryManager
	jwtSecret      []byte
	accessTokenTTL time.Duration
	rememberMeTTL  time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:             db,
		repomanager:    m,
		jwtSecret:      []byte(cfg.SecretKey),
		accessTokenTTL: cfg.AccessTokenTTL,
		rememberMeTTL:  cfg.RememberMeTTL,
	}
}

// Register creates a user with the default role and returns it together
// with a session token. A duplicate email yields common.ErrEmailTaken;
// uniqueness is enforced by the store, not by a read-then-write check.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		return nil, common.ErrValidation
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrInternal
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         common.RoleUser,
	}

	repo := s.repomanager.Users(s.db)
	created, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrEmailTaken) {
			return nil, common.ErrEmailTaken
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	token, err := auth.GenerateToken(created.ID, created.Role, s.jwtSecret, s.accessTokenTTL)
	if err != nil {
		return nil, common.ErrInternal
	}

	return &AuthResult{User: created, Token: token}, nil
}

// Login verifies the credentials and issues a token. A missing account and
// a wrong password produce the same common.ErrInvalidCredentials, so the
// response shape never reveals which factor failed. The remember flag
// selects the long-lived TTL tier.
func (s *UserService) Login(ctx context.Context, email, password string, remember bool) (*AuthResult, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrInternal
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	ttl := s.accessTokenTTL
	if remember {
		ttl = s.rememberMeTTL
	}

	token, err := auth.GenerateToken(user.ID, user.Role, s.jwtSecret, ttl)
	if err != nil {
		return nil, common.ErrInternal
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Profile returns the caller's own record.
func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, userID)
}

// UpdateProgress writes the caller's progress fields. The target row is
// always the token's user id; ids in the request body are ignored upstream.
func (s *UserService) UpdateProgress(ctx context.Context, userID string, p models.Progress) (*models.User, error) {
	return s.repomanager.Users(s.db).UpdateProgress(ctx, userID, p)
}

// DeleteAccount removes exactly the caller's own row.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) (string, error) {
	return s.repomanager.Users(s.db).Delete(ctx, userID)
}

// ListUsers returns all users with non-sensitive fields populated.
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.repomanager.Users(s.db).List(ctx)
}

// Leaderboard returns the top entries ordered by points, ties broken by
// level.
func (s *UserService) Leaderboard(ctx context.Context) ([]*models.LeaderboardEntry, error) {
	return s.repomanager.Users(s.db).Leaderboard(ctx, leaderboardSize)
}

// RegistrationStats returns per-day registration counts, newest first.
func (s *UserService) RegistrationStats(ctx context.Context) ([]*models.RegistrationStat, error) {
	return s.repomanager.Users(s.db).RegistrationStats(ctx)
}

// CurrentRole reads the user's role from the store. The authorization gate
// calls this on every gated request instead of trusting the role claim.
func (s *UserService) CurrentRole(ctx context.Context, userID string) (string, error) {
	return s.repomanager.Users(s.db).GetRole(ctx, userID)
}
