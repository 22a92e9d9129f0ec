package comments

import (
	"context"

	"github.com/academy-challenge/backend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	ListWithAuthors(ctx context.Context) ([]*models.CommentWithAuthor, error)
	GetOwner(ctx context.Context, id string) (string, error)
	Update(ctx context.Context, id, content string) (*models.Comment, error)
	Delete(ctx context.Context, id string) (string, error)
}
