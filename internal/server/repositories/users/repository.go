package users

import (
	"context"

	"github.com/academy-challenge/backend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetRole(ctx context.Context, id string) (string, error)
	List(ctx context.Context) ([]*models.User, error)
	UpdateProgress(ctx context.Context, id string, p models.Progress) (*models.User, error)
	Delete(ctx context.Context, id string) (string, error)
	Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)
	RegistrationStats(ctx context.Context) ([]*models.RegistrationStat, error)
	SetRole(ctx context.Context, email, role string) error
}
