// Package service contains the application business logic.
package service

import (
	"context"

	"ripple/internal/models"
	"ripple/internal/repository"
)

// EngagementService fills in the denormalized counts and viewer flags on
// posts and comments. It works in batches so a feed page costs a fixed
// number of queries no matter how many items it holds.
type EngagementService struct {
	commentRepo  repository.CommentRepository
	reactionRepo repository.ReactionRepository
}

// NewEngagementService creates a new engagement service
func NewEngagementService(commentRepo repository.CommentRepository, reactionRepo repository.ReactionRepository) *EngagementService {
	return &EngagementService{commentRepo: commentRepo, reactionRepo: reactionRepo}
}

// AnnotatePosts sets Engagement on every post. viewerID 0 means a guest;
// IsLiked and IsDisliked stay false for guests.
func (s *EngagementService) AnnotatePosts(ctx context.Context, posts []*models.Post, viewerID uint) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	likes, dislikes, err := s.reactionRepo.CountByTargets(ctx, models.TargetPost, ids)
	if err != nil {
		return err
	}
	comments, err := s.commentRepo.CountByPostIDs(ctx, ids)
	if err != nil {
		return err
	}

	likedSet, dislikedSet, err := s.viewerSets(ctx, viewerID, models.TargetPost, ids)
	if err != nil {
		return err
	}

	for _, p := range posts {
		p.Engagement = models.Engagement{
			Likes:      likes[p.ID],
			Dislikes:   dislikes[p.ID],
			Comments:   comments[p.ID],
			IsLiked:    likedSet[p.ID],
			IsDisliked: dislikedSet[p.ID],
		}
	}
	return nil
}

// AnnotateComments sets Engagement on every comment. Comments have no
// nested comment count.
func (s *EngagementService) AnnotateComments(ctx context.Context, comments []*models.Comment, viewerID uint) error {
	if len(comments) == 0 {
		return nil
	}

	ids := make([]uint, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
	}

	likes, dislikes, err := s.reactionRepo.CountByTargets(ctx, models.TargetComment, ids)
	if err != nil {
		return err
	}

	likedSet, dislikedSet, err := s.viewerSets(ctx, viewerID, models.TargetComment, ids)
	if err != nil {
		return err
	}

	for _, c := range comments {
		c.Engagement = models.Engagement{
			Likes:      likes[c.ID],
			Dislikes:   dislikes[c.ID],
			IsLiked:    likedSet[c.ID],
			IsDisliked: dislikedSet[c.ID],
		}
	}
	return nil
}

func (s *EngagementService) viewerSets(ctx context.Context, viewerID uint, kind models.TargetKind, ids []uint) (map[uint]bool, map[uint]bool, error) {
	liked := make(map[uint]bool)
	disliked := make(map[uint]bool)
	if viewerID == 0 {
		return liked, disliked, nil
	}

	likedIDs, err := s.reactionRepo.GetLikedTargetIDs(ctx, viewerID, kind, ids)
	if err != nil {
		return nil, nil, err
	}
	for _, id := range likedIDs {
		liked[id] = true
	}

	dislikedIDs, err := s.reactionRepo.GetDislikedTargetIDs(ctx, viewerID, kind, ids)
	if err != nil {
		return nil, nil, err
	}
	for _, id := range dislikedIDs {
		disliked[id] = true
	}
	return liked, disliked, nil
}
