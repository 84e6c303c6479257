package server

import (
	"math"
	"strings"

	"ripple/internal/models"
	"ripple/internal/service"
	"ripple/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts
// Query parameters: page, limit (max 50), authorEmail.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	pagination := parsePagination(c)
	authorEmail := c.Query("authorEmail")

	posts, total, err := s.postService.ListPosts(c.Context(), service.ListPostsInput{
		Limit:       pagination.Limit,
		Offset:      pagination.Offset(),
		AuthorEmail: authorEmail,
		ViewerID:    currentUserID(c),
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	totalPages := int(math.Ceil(float64(total) / float64(pagination.Limit)))

	return c.JSON(fiber.Map{
		"posts":       posts,
		"totalCount":  total,
		"totalPages":  totalPages,
		"currentPage": pagination.Page,
	})
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, svcErr := s.postService.GetPost(c.Context(), postID, currentUserID(c))
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/posts. Accepts multipart form data with a
// content field and up to ten images, or a plain JSON body for text posts.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := currentUserID(c)

	content, images, err := s.parsePostBody(c)
	if err != nil {
		return nil
	}

	post, svcErr := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:  userID,
		Content: content,
		Images:  images,
	})
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (s *Server) parsePostBody(c *fiber.Ctx) (string, []storage.File, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		var req struct {
			Content string `json:"content"`
		}
		if err := c.BodyParser(&req); err != nil {
			_ = models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
			return "", nil, errResponseWritten
		}
		return req.Content, nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid multipart form"))
		return "", nil, errResponseWritten
	}

	var content string
	if values := form.Value["content"]; len(values) > 0 {
		content = values[0]
	}

	headers := form.File["images"]
	if len(headers) > models.MaxPostImages {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Too many images (max 10)"))
		return "", nil, errResponseWritten
	}

	files := make([]storage.File, 0, len(headers))
	for _, h := range headers {
		f, openErr := h.Open()
		if openErr != nil {
			_ = models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Unreadable image upload"))
			return "", nil, errResponseWritten
		}
		files = append(files, storage.File{
			Name:        h.Filename,
			ContentType: h.Header.Get("Content-Type"),
			Size:        h.Size,
			Reader:      f,
		})
	}
	return content, files, nil
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, svcErr := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		UserID:  currentUserID(c),
		PostID:  postID,
		Content: req.Content,
	})
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if svcErr := s.postService.DeletePost(c.Context(), currentUserID(c), postID); svcErr != nil {
		return respondServiceError(c, svcErr)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
