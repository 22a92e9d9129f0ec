package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/academy-challenge/backend/internal/common"
	"github.com/academy-challenge/backend/internal/dbx"
	"github.com/academy-challenge/backend/internal/server/models"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint hit.
const uniqueViolation = "23505"

const userColumns = "id, username, email, password_hash, role, academic_points, level, unlocked_modules, created_at"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*models.User, error) {
	user := &models.User{}
	var modules []byte
	err := s.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.Role, &user.AcademicPoints, &user.Level, &modules, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(modules, &user.UnlockedModules); err != nil {
		return nil, fmt.Errorf("unlocked_modules decode error: %w", err)
	}
	return user, nil
}

func marshalModules(modules []string) ([]byte, error) {
	if modules == nil {
		modules = []string{}
	}
	return json.Marshal(modules)
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	modules, err := marshalModules(user.UnlockedModules)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO users (id, username, email, password_hash, role, unlocked_modules)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING ` + userColumns

	created, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.Role, modules))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrEmailTaken
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// GetRole reads the user's current role. The authorization gate uses this
// instead of the role baked into the token, so demotions take effect
// immediately.
func (r *PostgresRepository) GetRole(ctx context.Context, id string) (string, error) {
	query := `SELECT role FROM users WHERE id = $1`

	var role string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}

	return role, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.User, error) {
	query :=
		`SELECT id, username, email, role, academic_points, level, unlocked_modules, created_at
		 FROM users
		 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.User, 0)
	for rows.Next() {
		user := &models.User{}
		var modules []byte
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.Role,
			&user.AcademicPoints, &user.Level, &modules, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if err := json.Unmarshal(modules, &user.UnlockedModules); err != nil {
			return nil, fmt.Errorf("unlocked_modules decode error: %w", err)
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) UpdateProgress(ctx context.Context, id string, p models.Progress) (*models.User, error) {
	modules, err := marshalModules(p.UnlockedModules)
	if err != nil {
		return nil, err
	}

	query :=
		`UPDATE users SET academic_points = $1, level = $2, unlocked_modules = $3
		 WHERE id = $4
		 RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, p.AcademicPoints, p.Level, modules, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (string, error) {
	query := `DELETE FROM users WHERE id = $1 RETURNING id`

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

func (r *PostgresRepository) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	query :=
		`SELECT username, level, academic_points FROM users
		 ORDER BY academic_points DESC, level DESC
		 LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.LeaderboardEntry, 0, limit)
	for rows.Next() {
		entry := &models.LeaderboardEntry{}
		if err := rows.Scan(&entry.Username, &entry.Level, &entry.AcademicPoints); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) RegistrationStats(ctx context.Context) ([]*models.RegistrationStat, error) {
	query :=
		`SELECT to_char(date_trunc('day', created_at), 'YYYY-MM-DD') AS day, count(*)
		 FROM users
		 GROUP BY day
		 ORDER BY day DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.RegistrationStat, 0)
	for rows.Next() {
		stat := &models.RegistrationStat{}
		if err := rows.Scan(&stat.Date, &stat.Count); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, stat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) SetRole(ctx context.Context, email, role string) error {
	query := `UPDATE users SET role = $2 WHERE email = $1 RETURNING id`

	var id string
	err := r.db.QueryRowContext(ctx, query, email, role).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
