package server

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ripple/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateComment(t *testing.T) {
	s, app, db := newTestServer(t, "create_comment")
	adaID, adaToken := createTestUser(t, s, db, "Ada", "ada@example.com")
	require.NoError(t, db.Create(&models.Post{AuthorID: adaID, Content: "parent"}).Error)

	tests := []struct {
		name           string
		target         string
		body           map[string]string
		token          string
		expectedStatus int
	}{
		{
			name:           "Success",
			target:         "/api/posts/1/comments",
			body:           map[string]string{"content": "nice post"},
			token:          adaToken,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Empty Content",
			target:         "/api/posts/1/comments",
			body:           map[string]string{"content": "  "},
			token:          adaToken,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Missing Post",
			target:         "/api/posts/999/comments",
			body:           map[string]string{"content": "hello"},
			token:          adaToken,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Unauthenticated",
			target:         "/api/posts/1/comments",
			body:           map[string]string{"content": "hello"},
			token:          "",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(jsonRequest(http.MethodPost, tt.target, tt.body, tt.token))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusCreated {
				var comment models.Comment
				decodeBody(t, resp, &comment)
				assert.Equal(t, "nice post", comment.Content)
				assert.Equal(t, uint(1), comment.PostID)
			}
		})
	}
}

func TestCreateComment_Multipart(t *testing.T) {
	s, app, db := newTestServer(t, "create_comment_multipart")
	adaID, token := createTestUser(t, s, db, "Ada", "ada@example.com")
	require.NoError(t, db.Create(&models.Post{AuthorID: adaID, Content: "parent"}).Error)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("content", "look at this"))
	fw, err := w.CreateFormFile("images", "reply.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/posts/1/comments", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var comment models.Comment
	decodeBody(t, resp, &comment)
	assert.Equal(t, "look at this", comment.Content)
	assert.Equal(t, []string{"https://cdn.test/reply.png"}, comment.ImageURLs)
}

func TestGetComments(t *testing.T) {
	s, app, db := newTestServer(t, "get_comments")
	adaID, _ := createTestUser(t, s, db, "Ada", "ada@example.com")
	require.NoError(t, db.Create(&models.Post{AuthorID: adaID, Content: "parent"}).Error)
	older := models.Comment{AuthorID: adaID, PostID: 1, Content: "older"}
	older.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, db.Create(&older).Error)
	require.NoError(t, db.Create(&models.Comment{AuthorID: adaID, PostID: 1, Content: "newer"}).Error)

	t.Run("Lists Newest First", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodGet, "/api/posts/1/comments", nil, ""))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Comments []models.Comment `json:"comments"`
		}
		decodeBody(t, resp, &body)
		require.Len(t, body.Comments, 2)
		assert.Equal(t, "newer", body.Comments[0].Content)
		assert.Equal(t, "older", body.Comments[1].Content)
	})

	t.Run("Missing Post", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodGet, "/api/posts/999/comments", nil, ""))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestDeleteComment(t *testing.T) {
	s, app, db := newTestServer(t, "delete_comment")
	adaID, adaToken := createTestUser(t, s, db, "Ada", "ada@example.com")
	benID, benToken := createTestUser(t, s, db, "Ben", "ben@example.com")
	_, carolToken := createTestUser(t, s, db, "Carol", "carol@example.com")

	// Ada owns the post; Ben wrote the comment.
	require.NoError(t, db.Create(&models.Post{AuthorID: adaID, Content: "parent"}).Error)
	require.NoError(t, db.Create(&models.Comment{AuthorID: benID, PostID: 1, Content: "c1"}).Error)
	require.NoError(t, db.Create(&models.Comment{AuthorID: benID, PostID: 1, Content: "c2"}).Error)

	t.Run("Stranger Forbidden", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodDelete, "/api/comments/1", nil, carolToken))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Comment Author Deletes", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodDelete, "/api/comments/1", nil, benToken))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("Post Author Moderates", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodDelete, "/api/comments/2", nil, adaToken))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("Already Gone", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodDelete, "/api/comments/1", nil, benToken))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
