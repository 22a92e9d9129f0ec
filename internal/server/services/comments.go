package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/academy-challenge/backend/internal/common"
	"github.com/academy-challenge/backend/internal/dbx"
	"github.com/academy-challenge/backend/internal/server/models"
	"github.com/academy-challenge/backend/internal/server/repositories/repomanager"
)

// CommentService implements the comment board. Mutations are owner-only;
// the owner check and the write run in one transaction so ownership cannot
// change between them.
type CommentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCommentService(db *sql.DB, m repomanager.RepositoryManager) *CommentService {
	return &CommentService{db: db, repomanager: m}
}

// Create posts a comment authored by the token's user id.
func (s *CommentService) Create(ctx context.Context, userID, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, common.ErrValidation
	}

	comment := &models.Comment{
		ID:      uuid.NewString(),
		UserID:  userID,
		Content: content,
	}

	return s.repomanager.Comments(s.db).Create(ctx, comment)
}

// List returns all comments with author fields, newest first.
func (s *CommentService) List(ctx context.Context) ([]*models.CommentWithAuthor, error) {
	return s.repomanager.Comments(s.db).ListWithAuthors(ctx)
}

// Update rewrites a comment's content if callerID owns it. A missing
// comment yields common.ErrNotFound, a foreign one common.ErrForbidden.
func (s *CommentService) Update(ctx context.Context, id, callerID, content string) (*models.Comment, error) {
	var updated *models.Comment
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Comments(tx)

		owner, err := repo.GetOwner(ctx, id)
		if err != nil {
			return err
		}
		if owner != callerID {
			return common.ErrForbidden
		}

		updated, err = repo.Update(ctx, id, content)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a comment if callerID owns it.
func (s *CommentService) Delete(ctx context.Context, id, callerID string) (string, error) {
	var deletedID string
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Comments(tx)

		owner, err := repo.GetOwner(ctx, id)
		if err != nil {
			return err
		}
		if owner != callerID {
			return common.ErrForbidden
		}

		deletedID, err = repo.Delete(ctx, id)
		return err
	})
	if err != nil {
		return "", err
	}
	return deletedID, nil
}
