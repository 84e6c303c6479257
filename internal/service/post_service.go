package service

import (
	"context"
	"errors"
	"strings"

	"ripple/internal/cache"
	"ripple/internal/models"
	"ripple/internal/repository"
	"ripple/internal/storage"

	"gorm.io/gorm"
)

const maxPostContentLen = 50000

type PostService struct {
	postRepo   repository.PostRepository
	engagement *EngagementService
	uploader   storage.Uploader
}

type CreatePostInput struct {
	UserID  uint
	Content string
	Images  []storage.File
}

type ListPostsInput struct {
	Limit       int
	Offset      int
	AuthorEmail string
	ViewerID    uint
}

type UpdatePostInput struct {
	UserID  uint
	PostID  uint
	Content string
}

// NewPostService creates a new post service
func NewPostService(postRepo repository.PostRepository, engagement *EngagementService, uploader storage.Uploader) *PostService {
	return &PostService{postRepo: postRepo, engagement: engagement, uploader: uploader}
}

// CreatePost validates the input, uploads any images, and stores the post.
// A post needs text or at least one image.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" && len(in.Images) == 0 {
		return nil, models.NewValidationError("Post needs text or at least one image")
	}
	if len(content) > maxPostContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}
	if len(in.Images) > models.MaxPostImages {
		return nil, models.NewValidationError("Too many images (max 10)")
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

	post := &models.Post{
		AuthorID:  in.UserID,
		Content:   content,
		ImageURLs: imageURLs,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}

	created, err := s.postRepo.GetByID(ctx, post.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := s.engagement.AnnotatePosts(ctx, []*models.Post{created}, in.UserID); err != nil {
		return nil, models.NewInternalError(err)
	}
	return created, nil
}

// GetPost returns a single post with engagement for the viewer. Guest
// responses carry no viewer flags, so they are shared through the cache;
// authenticated views always read storage.
func (s *PostService) GetPost(ctx context.Context, postID, viewerID uint) (*models.Post, error) {
	if viewerID != 0 {
		return s.fetchPost(ctx, postID, viewerID)
	}

	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(postID), &post, cache.PostTTL, func() error {
		fetched, fetchErr := s.fetchPost(ctx, postID, 0)
		if fetchErr != nil {
			return fetchErr
		}
		post = *fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *PostService) fetchPost(ctx context.Context, postID, viewerID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, models.NewInternalError(err)
	}
	if err := s.engagement.AnnotatePosts(ctx, []*models.Post{post}, viewerID); err != nil {
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

// cachedFeedPage is the cache value for one guest feed page. Engagement
// counts ride along; reaction and comment writes invalidate the page keys.
type cachedFeedPage struct {
	Posts []*models.Post `json:"posts"`
	Total int64          `json:"total"`
}

// ListPosts returns one annotated feed page plus the total matching count.
// Guest pages are cached under their page/limit/author key.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, int64, error) {
	if in.ViewerID != 0 || in.Limit <= 0 {
		return s.fetchFeedPage(ctx, in)
	}

	page := in.Offset/in.Limit + 1
	key := cache.PostsListKey(page, in.Limit, in.AuthorEmail)

	var cached cachedFeedPage
	err := cache.Aside(ctx, key, &cached, cache.PostsListTTL, func() error {
		posts, total, fetchErr := s.fetchFeedPage(ctx, in)
		if fetchErr != nil {
			return fetchErr
		}
		cached = cachedFeedPage{Posts: posts, Total: total}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	if cached.Posts == nil {
		cached.Posts = []*models.Post{}
	}
	return cached.Posts, cached.Total, nil
}

func (s *PostService) fetchFeedPage(ctx context.Context, in ListPostsInput) ([]*models.Post, int64, error) {
	posts, total, err := s.postRepo.List(ctx, in.Limit, in.Offset, in.AuthorEmail)
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	if err := s.engagement.AnnotatePosts(ctx, posts, in.ViewerID); err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return posts, total, nil
}

// UpdatePost replaces the post text. Only the author may update.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", in.PostID)
		}
		return nil, models.NewInternalError(err)
	}
	if post.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}

	content := strings.TrimSpace(in.Content)
	if content == "" && len(post.ImageURLs) == 0 {
		return nil, models.NewValidationError("Post needs text or at least one image")
	}
	if len(content) > maxPostContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}

	post.Content = content
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := s.engagement.AnnotatePosts(ctx, []*models.Post{post}, in.UserID); err != nil {
		return nil, models.NewInternalError(err)
	}
	return post, nil
}

// DeletePost removes a post and everything hanging off it. Only the author
// may delete.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", postID)
		}
		return models.NewInternalError(err)
	}
	if post.AuthorID != userID {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
