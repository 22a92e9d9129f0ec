package repomanager

import (
	"context"
	"database/sql"

	"github.com/academy-challenge/backend/internal/dbx"
	"github.com/academy-challenge/backend/internal/server/repositories/comments"
	"github.com/academy-challenge/backend/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can use
// the same repository code on a plain connection or inside a transaction.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Comments(db dbx.DBTX) comments.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
