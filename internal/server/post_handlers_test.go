package server

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"ripple/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	s, app, db := newTestServer(t, "create_post")
	_, token := createTestUser(t, s, db, "Ada", "ada@example.com")

	tests := []struct {
		name           string
		body           map[string]string
		token          string
		expectedStatus int
	}{
		{
			name:           "Success",
			body:           map[string]string{"content": "Hello world"},
			token:          token,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Empty Content No Images",
			body:           map[string]string{"content": "   "},
			token:          token,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Unauthenticated",
			body:           map[string]string{"content": "Hello"},
			token:          "",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(jsonRequest(http.MethodPost, "/api/posts", tt.body, tt.token))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusCreated {
				var post models.Post
				decodeBody(t, resp, &post)
				assert.Equal(t, "Hello world", post.Content)
				assert.Equal(t, "Ada", post.Author.Name)
			}
		})
	}
}

func TestCreatePost_Multipart(t *testing.T) {
	s, app, db := newTestServer(t, "create_post_multipart")
	_, token := createTestUser(t, s, db, "Ada", "ada@example.com")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("content", "with pictures"))
	for _, name := range []string{"one.png", "two.png"} {
		fw, err := w.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/posts", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var post models.Post
	decodeBody(t, resp, &post)
	assert.Equal(t, "with pictures", post.Content)
	assert.Equal(t, []string{"https://cdn.test/one.png", "https://cdn.test/two.png"}, post.ImageURLs)
}

func TestGetPosts_Pagination(t *testing.T) {
	s, app, db := newTestServer(t, "get_posts")
	userID, _ := createTestUser(t, s, db, "Ada", "ada@example.com")

	for i := 0; i < 12; i++ {
		require.NoError(t, db.Create(&models.Post{AuthorID: userID, Content: fmt.Sprintf("post %d", i)}).Error)
	}

	var body struct {
		Posts       []models.Post `json:"posts"`
		TotalCount  int64         `json:"totalCount"`
		TotalPages  int           `json:"totalPages"`
		CurrentPage int           `json:"currentPage"`
	}

	resp, err := app.Test(jsonRequest(http.MethodGet, "/api/posts/?page=2&limit=5", nil, ""))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &body)

	assert.Len(t, body.Posts, 5)
	assert.Equal(t, int64(12), body.TotalCount)
	assert.Equal(t, 3, body.TotalPages)
	assert.Equal(t, 2, body.CurrentPage)
}

func TestGetPosts_LimitClamped(t *testing.T) {
	s, app, db := newTestServer(t, "get_posts_clamp")
	userID, _ := createTestUser(t, s, db, "Ada", "ada@example.com")

	for i := 0; i < 60; i++ {
		require.NoError(t, db.Create(&models.Post{AuthorID: userID, Content: "p"}).Error)
	}

	var body struct {
		Posts []models.Post `json:"posts"`
	}
	resp, err := app.Test(jsonRequest(http.MethodGet, "/api/posts/?limit=500", nil, ""))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &body)

	assert.Len(t, body.Posts, 50)
}

func TestGetPosts_AuthorFilter(t *testing.T) {
	s, app, db := newTestServer(t, "get_posts_author")
	adaID, _ := createTestUser(t, s, db, "Ada", "ada@example.com")
	benID, _ := createTestUser(t, s, db, "Ben", "ben@example.com")

	require.NoError(t, db.Create(&models.Post{AuthorID: adaID, Content: "from ada"}).Error)
	require.NoError(t, db.Create(&models.Post{AuthorID: benID, Content: "from ben"}).Error)

	var body struct {
		Posts      []models.Post `json:"posts"`
		TotalCount int64         `json:"totalCount"`
	}
	resp, err := app.Test(jsonRequest(http.MethodGet, "/api/posts/?authorEmail=ben@example.com", nil, ""))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &body)

	require.Len(t, body.Posts, 1)
	assert.Equal(t, "from ben", body.Posts[0].Content)
	assert.Equal(t, int64(1), body.TotalCount)
}

func TestGetPost(t *testing.T) {
	s, app, db := newTestServer(t, "get_post")
	userID, _ := createTestUser(t, s, db, "Ada", "ada@example.com")
	require.NoError(t, db.Create(&models.Post{AuthorID: userID, Content: "hello"}).Error)

	t.Run("Found", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodGet, "/api/posts/1", nil, ""))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var post models.Post
		decodeBody(t, resp, &post)
		assert.Equal(t, "hello", post.Content)
	})

	t.Run("Missing", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodGet, "/api/posts/999", nil, ""))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Invalid ID", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodGet, "/api/posts/abc", nil, ""))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestUpdatePost(t *testing.T) {
	s, app, db := newTestServer(t, "update_post")
	adaID, adaToken := createTestUser(t, s, db, "Ada", "ada@example.com")
	_, benToken := createTestUser(t, s, db, "Ben", "ben@example.com")
	require.NoError(t, db.Create(&models.Post{AuthorID: adaID, Content: "original"}).Error)

	t.Run("Author Updates", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodPut, "/api/posts/1",
			map[string]string{"content": "edited"}, adaToken))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var post models.Post
		decodeBody(t, resp, &post)
		assert.Equal(t, "edited", post.Content)
	})

	t.Run("Stranger Forbidden", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodPut, "/api/posts/1",
			map[string]string{"content": "hijack"}, benToken))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Empty Content Rejected", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodPut, "/api/posts/1",
			map[string]string{"content": ""}, adaToken))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestDeletePost(t *testing.T) {
	s, app, db := newTestServer(t, "delete_post")
	adaID, adaToken := createTestUser(t, s, db, "Ada", "ada@example.com")
	_, benToken := createTestUser(t, s, db, "Ben", "ben@example.com")
	require.NoError(t, db.Create(&models.Post{AuthorID: adaID, Content: "doomed"}).Error)

	t.Run("Stranger Forbidden", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodDelete, "/api/posts/1", nil, benToken))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Author Deletes", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodDelete, "/api/posts/1", nil, adaToken))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

		followup, err := app.Test(jsonRequest(http.MethodGet, "/api/posts/1", nil, ""))
		require.NoError(t, err)
		defer followup.Body.Close()
		assert.Equal(t, http.StatusNotFound, followup.StatusCode)
	})
}
