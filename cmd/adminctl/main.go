// Command adminctl manages admin accounts directly against the database.
// Role changes are deliberately not exposed over HTTP, so promoting a user
// (or bootstrapping the first admin) is an operator action:
//
//	adminctl -d postgres://... -email ops@example.com            # promote
//	adminctl -d postgres://... -email ops@example.com -create \
//	         -username ops                                       # create
//
// When creating, the password is read from the terminal without echo.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"database/sql"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/term"

	"github.com/academy-challenge/backend/internal/common"
	"github.com/academy-challenge/backend/internal/server/auth"
	"github.com/academy-challenge/backend/internal/server/models"
	"github.com/academy-challenge/backend/internal/server/repositories/users"
)

// readPassword is a seam for term.ReadPassword.
var readPassword = term.ReadPassword

func getPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Enter password: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	if len(pw) == 0 {
		return "", errors.New("empty password")
	}
	return string(pw), nil
}

func run(ctx context.Context, dsn, email, username string, create bool) error {
	if dsn == "" || email == "" {
		return errors.New("both -d and -email are required")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("db open error: %w", err)
	}
	defer db.Close()

	repo := users.NewPostgresRepository(db)

	if !create {
		if err := repo.SetRole(ctx, email, common.RoleAdmin); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return fmt.Errorf("no user with email %s (use -create to add one)", email)
			}
			return err
		}
		fmt.Printf("promoted %s to admin\n", email)
		return nil
	}

	if username == "" {
		username = email
	}

	password, err := getPassword()
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	created, err := repo.Create(ctx, &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         common.RoleAdmin,
	})
	if err != nil {
		if errors.Is(err, common.ErrEmailTaken) {
			return fmt.Errorf("email %s is already registered (run without -create to promote)", email)
		}
		return err
	}

	fmt.Printf("created admin %s (%s)\n", created.Email, created.ID)
	return nil
}

func main() {
	dsn := flag.String("d", os.Getenv("DATABASE_URL"), "database DSN")
	email := flag.String("email", "", "email of the account")
	username := flag.String("username", "", "display name for a new account")
	create := flag.Bool("create", false, "create a new admin instead of promoting")
	flag.Parse()

	if err := run(context.Background(), *dsn, *email, *username, *create); err != nil {
		log.Fatalf("adminctl: %v", err)
	}
}
