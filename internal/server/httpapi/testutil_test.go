package httpapi

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"

	"github.com/academy-challenge/backend/internal/common"
	"github.com/academy-challenge/backend/internal/dbx"
	"github.com/academy-challenge/backend/internal/logging"
	"github.com/academy-challenge/backend/internal/server/config"
	"github.com/academy-challenge/backend/internal/server/models"
	commentsrepo "github.com/academy-challenge/backend/internal/server/repositories/comments"
	usersrepo "github.com/academy-challenge/backend/internal/server/repositories/users"
	"github.com/academy-challenge/backend/internal/server/services"
)

const testSecret = "test-secret"

// memUsersRepo is an in-memory usersrepo.Repository used to exercise the
// handlers end to end without a database.
type memUsersRepo struct {
	mu   sync.Mutex
	byID map[string]*models.User
}

func newMemUsersRepo() *memUsersRepo {
	return &memUsersRepo{byID: make(map[string]*models.User)}
}

func (r *memUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return nil, common.ErrEmailTaken
		}
	}
	stored := *u
	if stored.UnlockedModules == nil {
		stored.UnlockedModules = []string{}
	}
	if stored.Level == 0 {
		stored.Level = 1
	}
	stored.CreatedAt = time.Now()
	r.byID[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (r *memUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (r *memUsersRepo) GetRole(ctx context.Context, id string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return "", common.ErrNotFound
	}
	return u.Role, nil
}

func (r *memUsersRepo) List(ctx context.Context) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.User, 0, len(r.byID))
	for _, u := range r.byID {
		c := *u
		c.PasswordHash = ""
		out = append(out, &c)
	}
	return out, nil
}

func (r *memUsersRepo) UpdateProgress(ctx context.Context, id string, p models.Progress) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	u.AcademicPoints = p.AcademicPoints
	u.Level = p.Level
	u.UnlockedModules = p.UnlockedModules
	out := *u
	return &out, nil
}

func (r *memUsersRepo) Delete(ctx context.Context, id string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return "", common.ErrNotFound
	}
	delete(r.byID, id)
	return id, nil
}

func (r *memUsersRepo) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := make([]*models.LeaderboardEntry, 0, len(r.byID))
	for _, u := range r.byID {
		entries = append(entries, &models.LeaderboardEntry{
			Username: u.Username, Level: u.Level, AcademicPoints: u.AcademicPoints,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].AcademicPoints != entries[j].AcademicPoints {
			return entries[i].AcademicPoints > entries[j].AcademicPoints
		}
		return entries[i].Level > entries[j].Level
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (r *memUsersRepo) RegistrationStats(ctx context.Context) ([]*models.RegistrationStat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, u := range r.byID {
		counts[u.CreatedAt.Format("2006-01-02")]++
	}
	out := make([]*models.RegistrationStat, 0, len(counts))
	for day, n := range counts {
		out = append(out, &models.RegistrationStat{Date: day, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (r *memUsersRepo) SetRole(ctx context.Context, email, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			u.Role = role
			return nil
		}
	}
	return common.ErrNotFound
}

// setRoleByID flips a stored role directly, bypassing the public surface.
// Used to simulate promotions/demotions happening after token issuance.
func (r *memUsersRepo) setRoleByID(id, role string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		u.Role = role
	}
}

// memCommentsRepo is an in-memory commentsrepo.Repository joined against a
// memUsersRepo for author fields.
type memCommentsRepo struct {
	mu    sync.Mutex
	byID  map[string]*models.Comment
	users *memUsersRepo
}

func newMemCommentsRepo(users *memUsersRepo) *memCommentsRepo {
	return &memCommentsRepo{byID: make(map[string]*models.Comment), users: users}
}

func (r *memCommentsRepo) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *c
	stored.CreatedAt = time.Now()
	r.byID[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (r *memCommentsRepo) ListWithAuthors(ctx context.Context) ([]*models.CommentWithAuthor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.CommentWithAuthor, 0, len(r.byID))
	for _, c := range r.byID {
		author, err := r.users.GetByID(ctx, c.UserID)
		if err != nil {
			continue
		}
		out = append(out, &models.CommentWithAuthor{
			ID: c.ID, Content: c.Content, CreatedAt: c.CreatedAt,
			AuthorUsername: author.Username, AuthorID: author.ID,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memCommentsRepo) GetOwner(ctx context.Context, id string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return "", common.ErrNotFound
	}
	return c.UserID, nil
}

func (r *memCommentsRepo) Update(ctx context.Context, id, content string) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	c.Content = content
	out := *c
	return &out, nil
}

func (r *memCommentsRepo) Delete(ctx context.Context, id string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return "", common.ErrNotFound
	}
	delete(r.byID, id)
	return id, nil
}

type memRepoManager struct {
	users    *memUsersRepo
	comments *memCommentsRepo
}

func (m *memRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.users }
func (m *memRepoManager) Comments(db dbx.DBTX) commentsrepo.Repository { return m.comments }
func (m *memRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

type testEnv struct {
	app      *fiber.App
	mock     sqlmock.Sqlmock
	users    *memUsersRepo
	comments *memCommentsRepo
}

// newTestEnv assembles a full Fiber app over in-memory repositories. The
// sqlmock handle only backs dbx.WithTx begin/commit pairs and the health
// probe.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	usersRepo := newMemUsersRepo()
	commentsRepo := newMemCommentsRepo(usersRepo)
	rm := &memRepoManager{users: usersRepo, comments: commentsRepo}

	cfg := &config.Config{
		SecretKey:      testSecret,
		AccessTokenTTL: time.Hour,
		RememberMeTTL:  30 * 24 * time.Hour,
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	userService := services.NewUserService(db, rm, cfg)
	commentService := services.NewCommentService(db, rm)

	app := fiber.New()
	RegisterRoutes(app,
		NewAuthHandler(userService, logger),
		NewUsersHandler(userService, logger),
		NewCommentsHandler(commentService, logger),
		NewHealthHandler(db, logger),
		RequireAuth([]byte(cfg.SecretKey), logger),
		RequireAdmin(userService, logger),
	)

	return &testEnv{app: app, mock: mock, users: usersRepo, comments: commentsRepo}
}

func (e *testEnv) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	return resp
}
