package comments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/academy-challenge/backend/internal/common"
	"github.com/academy-challenge/backend/internal/dbx"
	"github.com/academy-challenge/backend/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	query :=
		`INSERT INTO comments (id, user_id, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, user_id, content, created_at`

	created := &models.Comment{}
	err := r.db.QueryRowContext(ctx, query, comment.ID, comment.UserID, comment.Content).
		Scan(&created.ID, &created.UserID, &created.Content, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

func (r *PostgresRepository) ListWithAuthors(ctx context.Context) ([]*models.CommentWithAuthor, error) {
	query :=
		`SELECT c.id, c.content, c.created_at, u.username AS author_username, u.id AS author_id
		 FROM comments c
		 JOIN users u ON c.user_id = u.id
		 ORDER BY c.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.CommentWithAuthor, 0)
	for rows.Next() {
		c := &models.CommentWithAuthor{}
		if err := rows.Scan(&c.ID, &c.Content, &c.CreatedAt, &c.AuthorUsername, &c.AuthorID); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// GetOwner returns the user id that owns the comment. Ownership checks run
// in the same transaction as the following mutation.
func (r *PostgresRepository) GetOwner(ctx context.Context, id string) (string, error) {
	query := `SELECT user_id FROM comments WHERE id = $1`

	var ownerID string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}

	return ownerID, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id, content string) (*models.Comment, error) {
	query :=
		`UPDATE comments SET content = $1
		 WHERE id = $2
		 RETURNING id, user_id, content, created_at`

	updated := &models.Comment{}
	err := r.db.QueryRowContext(ctx, query, content, id).
		Scan(&updated.ID, &updated.UserID, &updated.Content, &updated.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return updated, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (string, error) {
	query := `DELETE FROM comments WHERE id = $1 RETURNING id`

	var deletedID string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&deletedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}

	return deletedID, nil
}
