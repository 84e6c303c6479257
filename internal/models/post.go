package models

import "time"

// MaxPostImages caps the number of image URLs a post or comment may carry.
const MaxPostImages = 10

// Post represents a feed post in the Ripple application. Posts are deleted
// for real; their rows leave storage together with their comments and
// reactions in one cascade.
type Post struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	Content   string   `gorm:"type:text" json:"content"`
	ImageURLs []string `gorm:"serializer:json" json:"image_urls"`
	AuthorID  uint     `gorm:"not null;index" json:"author_id"`
	Author    User     `gorm:"foreignKey:AuthorID" json:"author"`
	// Engagement is not persisted; computed at query time.
	Engagement Engagement `gorm:"-" json:"engagement"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Comment represents a comment on a post.
type Comment struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	Content   string   `gorm:"type:text;not null" json:"content"`
	ImageURLs []string `gorm:"serializer:json" json:"image_urls"`
	AuthorID  uint     `gorm:"not null;index" json:"author_id"`
	Author    User     `gorm:"foreignKey:AuthorID" json:"author"`
	PostID    uint     `gorm:"not null;index" json:"post_id"`
	// Engagement is not persisted; computed at query time.
	Engagement Engagement `gorm:"-" json:"engagement"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Engagement carries the denormalized counts and the requesting user's
// reaction flags for a single target. Counts are always fresh count-query
// results, never stored counters.
type Engagement struct {
	Likes      int64 `json:"likes"`
	Dislikes   int64 `json:"dislikes"`
	Comments   int64 `json:"comments"`
	IsLiked    bool  `json:"is_liked"`
	IsDisliked bool  `json:"is_disliked"`
}
