package service

import (
	"context"
	"errors"
	"strings"

	"ripple/internal/models"
	"ripple/internal/repository"
	"ripple/internal/storage"

	"gorm.io/gorm"
)

const maxCommentContentLen = 10000

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	engagement  *EngagementService
	uploader    storage.Uploader
}

type CreateCommentInput struct {
	UserID  uint
	PostID  uint
	Content string
	Images  []storage.File
}

// NewCommentService creates a new comment service
func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	engagement *EngagementService,
	uploader storage.Uploader,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		engagement:  engagement,
		uploader:    uploader,
	}
}

// CreateComment validates and stores a comment on an existing post. Unlike
// posts, comments always need text.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Comment text is required")
	}
	if len(content) > maxCommentContentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}
	if len(in.Images) > models.MaxPostImages {
		return nil, models.NewValidationError("Too many images (max 10)")
	}

	exists, err := s.postRepo.Exists(ctx, in.PostID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if !exists {
		return nil, models.NewNotFoundError("Post", in.PostID)
	}

	var imageURLs []string
	if len(in.Images) > 0 {
		if s.uploader == nil {
			return nil, models.NewValidationError("Image uploads are not enabled")
		}
		urls, err := s.uploader.Upload(ctx, in.Images)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		imageURLs = urls
	}

	comment := &models.Comment{
		AuthorID:  in.UserID,
		PostID:    in.PostID,
		Content:   content,
		ImageURLs: imageURLs,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, models.NewInternalError(err)
	}

	created, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := s.engagement.AnnotateComments(ctx, []*models.Comment{created}, in.UserID); err != nil {
		return nil, models.NewInternalError(err)
	}
	return created, nil
}

// ListComments returns all comments on a post, newest first, annotated for
// the viewer.
func (s *CommentService) ListComments(ctx context.Context, postID, viewerID uint) ([]*models.Comment, error) {
	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if !exists {
		return nil, models.NewNotFoundError("Post", postID)
	}

	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := s.engagement.AnnotateComments(ctx, comments, viewerID); err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

// DeleteComment removes a comment. The comment author or the author of the
// post it sits on may delete it.
func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Comment", commentID)
		}
		return models.NewInternalError(err)
	}

	if comment.AuthorID != userID {
		post, err := s.postRepo.GetByID(ctx, comment.PostID)
		if err != nil {
			return models.NewInternalError(err)
		}
		if post.AuthorID != userID {
			return models.NewForbiddenError("You can only delete your own comments")
		}
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
