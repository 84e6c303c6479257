package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"ripple/internal/config"
	"ripple/internal/database"
	"ripple/internal/middleware"
	"ripple/internal/models"
	"ripple/internal/repository"
	"ripple/internal/service"
	"ripple/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// stubUploader returns deterministic URLs without touching object storage.
type stubUploader struct{}

func (stubUploader) Upload(_ context.Context, files []storage.File) ([]string, error) {
	urls := make([]string, len(files))
	for i, f := range files {
		urls[i] = "https://cdn.test/" + f.Name
	}
	return urls, nil
}

// newTestServer wires a Server over a private in-memory database. No
// Prometheus collector is attached so tests can build many servers.
func newTestServer(t *testing.T, name string) (*Server, *fiber.App, *gorm.DB) {
	t.Helper()

	cfg := &config.Config{JWTSecret: "test-secret", Env: "test"}
	middleware.InitMiddleware(cfg)

	db, err := database.ConnectSQLite(name)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	reactionRepo := repository.NewReactionRepository(db)

	s := &Server{
		config:       cfg,
		db:           db,
		userRepo:     userRepo,
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		reactionRepo: reactionRepo,
	}
	s.engagement = service.NewEngagementService(commentRepo, reactionRepo)
	s.postService = service.NewPostService(postRepo, s.engagement, stubUploader{})
	s.commentService = service.NewCommentService(commentRepo, postRepo, s.engagement, stubUploader{})
	s.reactionService = service.NewReactionService(postRepo, commentRepo, reactionRepo)

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app, db
}

// createTestUser inserts a user and returns a valid bearer token.
func createTestUser(t *testing.T, s *Server, db *gorm.DB, name, email string) (uint, string) {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("testpass1"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{Name: name, Email: email, Password: string(hashed)}
	require.NoError(t, db.Create(user).Error)

	token, err := s.generateToken(user.ID)
	require.NoError(t, err)
	return user.ID, token
}

func jsonRequest(method, target string, body any, token string) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, dest), "body: %s", raw)
}
