package models

import "time"

// TargetKind identifies what a reaction is attached to.
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
)

// Like represents a user's positive reaction on a post or comment.
// The combination of UserID, TargetKind and TargetID must be unique;
// the storage constraint is the final arbiter under concurrent requests.
type Like struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;uniqueIndex:idx_like_user_target" json:"user_id"`
	TargetKind TargetKind `gorm:"size:16;not null;uniqueIndex:idx_like_user_target" json:"target_kind"`
	TargetID   uint       `gorm:"not null;uniqueIndex:idx_like_user_target;index:idx_like_target" json:"target_id"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Dislike represents a user's negative reaction on a post or comment.
// Disjoint from Like: for any (user, target) pair at most one of the two
// rows may exist at any time.
type Dislike struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;uniqueIndex:idx_dislike_user_target" json:"user_id"`
	TargetKind TargetKind `gorm:"size:16;not null;uniqueIndex:idx_dislike_user_target" json:"target_kind"`
	TargetID   uint       `gorm:"not null;uniqueIndex:idx_dislike_user_target;index:idx_dislike_target" json:"target_id"`
	CreatedAt  time.Time  `json:"created_at"`
}
