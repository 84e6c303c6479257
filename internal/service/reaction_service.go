package service

import (
	"context"

	"ripple/internal/cache"
	"ripple/internal/models"
	"ripple/internal/observability"
	"ripple/internal/reaction"
	"ripple/internal/repository"

	"gorm.io/gorm"
)

// ReactionService applies like and dislike actions with toggle semantics.
// A user holds at most one reaction per target; repeating an action removes
// it, and switching sides removes the old row before inserting the new one.
type ReactionService struct {
	postRepo     repository.PostRepository
	commentRepo  repository.CommentRepository
	reactionRepo repository.ReactionRepository
}

// NewReactionService creates a new reaction service
func NewReactionService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	reactionRepo repository.ReactionRepository,
) *ReactionService {
	return &ReactionService{
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		reactionRepo: reactionRepo,
	}
}

// React applies action for userID on the given target and returns the
// resulting state. Unknown targets yield a not found error; storage
// conflicts from concurrent reactions are absorbed by re-reading the state.
func (s *ReactionService) React(ctx context.Context, userID uint, kind models.TargetKind, targetID uint, action reaction.Action) (reaction.State, error) {
	postID, err := s.resolveTarget(ctx, kind, targetID)
	if err != nil {
		return reaction.StateNone, err
	}

	var result reaction.State
	conflicted := false

	err = s.reactionRepo.Transaction(ctx, func(tx *gorm.DB) error {
		current, err := s.reactionRepo.GetState(ctx, tx, userID, kind, targetID)
		if err != nil {
			return err
		}

		decision := reaction.Decide(current, action)
		for _, op := range decision.Ops {
			if err := s.apply(ctx, tx, op, userID, kind, targetID, &conflicted); err != nil {
				return err
			}
		}

		result = decision.Result
		if conflicted {
			// Someone else won the insert race. The stored row is the
			// truth, so report whatever is there now.
			result, err = s.reactionRepo.GetState(ctx, tx, userID, kind, targetID)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return reaction.StateNone, models.NewInternalError(err)
	}

	if conflicted {
		observability.ReactionConflicts.WithLabelValues(string(kind)).Inc()
	}
	observability.ReactionsTotal.WithLabelValues(string(kind), string(action), string(result)).Inc()

	cache.InvalidatePost(ctx, postID)
	return result, nil
}

func (s *ReactionService) apply(ctx context.Context, tx *gorm.DB, op reaction.Op, userID uint, kind models.TargetKind, targetID uint, conflicted *bool) error {
	switch {
	case op.Kind == reaction.OpDelete && op.Row == reaction.RowLike:
		return s.reactionRepo.DeleteLike(ctx, tx, userID, kind, targetID)
	case op.Kind == reaction.OpDelete && op.Row == reaction.RowDislike:
		return s.reactionRepo.DeleteDislike(ctx, tx, userID, kind, targetID)
	case op.Kind == reaction.OpCreate && op.Row == reaction.RowLike:
		inserted, err := s.reactionRepo.CreateLike(ctx, tx, userID, kind, targetID)
		if err == nil && !inserted {
			*conflicted = true
		}
		return err
	default:
		inserted, err := s.reactionRepo.CreateDislike(ctx, tx, userID, kind, targetID)
		if err == nil && !inserted {
			*conflicted = true
		}
		return err
	}
}

// resolveTarget verifies the target exists and returns the post whose cache
// entries the reaction invalidates. For comment targets that is the parent.
func (s *ReactionService) resolveTarget(ctx context.Context, kind models.TargetKind, targetID uint) (uint, error) {
	switch kind {
	case models.TargetPost:
		exists, err := s.postRepo.Exists(ctx, targetID)
		if err != nil {
			return 0, models.NewInternalError(err)
		}
		if !exists {
			return 0, models.NewNotFoundError("Post", targetID)
		}
		return targetID, nil
	case models.TargetComment:
		comment, err := s.commentRepo.GetByID(ctx, targetID)
		if err != nil {
			return 0, models.NewNotFoundError("Comment", targetID)
		}
		return comment.PostID, nil
	default:
		return 0, models.NewValidationError("Invalid reaction target")
	}
}
