package repository

import (
	"context"

	"ripple/internal/models"
	"ripple/internal/reaction"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReactionRepository defines the interface for like/dislike data operations.
// Both tables carry a unique index on (user_id, target_kind, target_id), so
// concurrent duplicate inserts resolve at the database rather than in Go.
type ReactionRepository interface {
	GetState(ctx context.Context, tx *gorm.DB, userID uint, kind models.TargetKind, targetID uint) (reaction.State, error)
	CreateLike(ctx context.Context, tx *gorm.DB, userID uint, kind models.TargetKind, targetID uint) (bool, error)
	CreateDislike(ctx context.Context, tx *gorm.DB, userID uint, kind models.TargetKind, targetID uint) (bool, error)
	DeleteLike(ctx context.Context, tx *gorm.DB, userID uint, kind models.TargetKind, targetID uint) error
	DeleteDislike(ctx context.Context, tx *gorm.DB, userID uint, kind models.TargetKind, targetID uint) error
	CountByTargets(ctx context.Context, kind models.TargetKind, targetIDs []uint) (map[uint]int64, map[uint]int64, error)
	GetLikedTargetIDs(ctx context.Context, userID uint, kind models.TargetKind, targetIDs []uint) ([]uint, error)
	GetDislikedTargetIDs(ctx context.Context, userID uint, kind models.TargetKind, targetIDs []uint) ([]uint, error)
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new reaction repository
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func (r *reactionRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *reactionRepository) GetState(ctx context.Context, tx *gorm.DB, userID uint, kind models.TargetKind, targetID uint) (reaction.State, error) {
	db := r.conn(tx).WithContext(ctx)

	var liked int64
	if err := db.Model(&models.Like{}).
		Where("user_id = ? AND target_kind = ? AND target_id = ?", userID, kind, targetID).
		Count(&liked).Error; err != nil {
		return reaction.StateNone, err
	}
	if liked > 0 {
		return reaction.StateLiked, nil
	}

	var disliked int64
	if err := db.Model(&models.Dislike{}).
		Where("user_id = ? AND target_kind = ? AND target_id = ?", userID, kind, targetID).
		Count(&disliked).Error; err != nil {
		return reaction.StateNone, err
	}
	if disliked > 0 {
		return reaction.StateDisliked, nil
	}
	return reaction.StateNone, nil
}

// CreateLike inserts a like row. Returns false when the row already existed;
// the unique index plus DO NOTHING makes the insert safe under races.
func (r *reactionRepository) CreateLike(ctx context.Context, tx *gorm.DB, userID uint, kind models.TargetKind, targetID uint) (bool, error) {
	like := models.Like{UserID: userID, TargetKind: kind, TargetID: targetID}
	res := r.conn(tx).WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *reactionRepository) CreateDislike(ctx context.Context, tx *gorm.DB, userID uint, kind models.TargetKind, targetID uint) (bool, error) {
	dislike := models.Dislike{UserID: userID, TargetKind: kind, TargetID: targetID}
	res := r.conn(tx).WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&dislike)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *reactionRepository) DeleteLike(ctx context.Context, tx *gorm.DB, userID uint, kind models.TargetKind, targetID uint) error {
	return r.conn(tx).WithContext(ctx).
		Where("user_id = ? AND target_kind = ? AND target_id = ?", userID, kind, targetID).
		Delete(&models.Like{}).Error
}

func (r *reactionRepository) DeleteDislike(ctx context.Context, tx *gorm.DB, userID uint, kind models.TargetKind, targetID uint) error {
	return r.conn(tx).WithContext(ctx).
		Where("user_id = ? AND target_kind = ? AND target_id = ?", userID, kind, targetID).
		Delete(&models.Dislike{}).Error
}

type targetCount struct {
	TargetID uint
	Count    int64
}

// CountByTargets returns like and dislike counts for the given targets in two
// grouped queries, keyed by target ID. Targets with no reactions are absent.
func (r *reactionRepository) CountByTargets(ctx context.Context, kind models.TargetKind, targetIDs []uint) (map[uint]int64, map[uint]int64, error) {
	likes := make(map[uint]int64, len(targetIDs))
	dislikes := make(map[uint]int64, len(targetIDs))
	if len(targetIDs) == 0 {
		return likes, dislikes, nil
	}

	var rows []targetCount
	if err := r.db.WithContext(ctx).Model(&models.Like{}).
		Select("target_id, COUNT(*) as count").
		Where("target_kind = ? AND target_id IN ?", kind, targetIDs).
		Group("target_id").
		Scan(&rows).Error; err != nil {
		return nil, nil, err
	}
	for _, row := range rows {
		likes[row.TargetID] = row.Count
	}

	rows = rows[:0]
	if err := r.db.WithContext(ctx).Model(&models.Dislike{}).
		Select("target_id, COUNT(*) as count").
		Where("target_kind = ? AND target_id IN ?", kind, targetIDs).
		Group("target_id").
		Scan(&rows).Error; err != nil {
		return nil, nil, err
	}
	for _, row := range rows {
		dislikes[row.TargetID] = row.Count
	}

	return likes, dislikes, nil
}

func (r *reactionRepository) GetLikedTargetIDs(ctx context.Context, userID uint, kind models.TargetKind, targetIDs []uint) ([]uint, error) {
	if len(targetIDs) == 0 {
		return nil, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND target_kind = ? AND target_id IN ?", userID, kind, targetIDs).
		Pluck("target_id", &ids).Error
	return ids, err
}

func (r *reactionRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *reactionRepository) GetDislikedTargetIDs(ctx context.Context, userID uint, kind models.TargetKind, targetIDs []uint) ([]uint, error) {
	if len(targetIDs) == 0 {
		return nil, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Dislike{}).
		Where("user_id = ? AND target_kind = ? AND target_id IN ?", userID, kind, targetIDs).
		Pluck("target_id", &ids).Error
	return ids, err
}
