// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"ripple/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	gofakeit.Seed(time.Now().UnixNano())

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d users created", len(users))

	posts, err := createPosts(db, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("%d posts created", len(posts))

	comments, err := createComments(db, users, posts)
	if err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}
	log.Printf("%d comments created", len(comments))

	likes, dislikes, err := createReactions(db, users, posts, comments)
	if err != nil {
		return fmt.Errorf("failed to create reactions: %w", err)
	}
	log.Printf("%d likes and %d dislikes created", likes, dislikes)

	log.Println("Database seeding completed successfully")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE dislikes, likes, comments, posts, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(db *gorm.DB, count int) ([]*models.User, error) {
	// All seed users share one password so any account is usable in dev.
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		user := &models.User{
			Name:     gofakeit.Name(),
			Email:    fmt.Sprintf("user%d.%s", i, gofakeit.Email()),
			Password: string(hashed),
			Image:    fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		}
		if err := db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createPosts(db *gorm.DB, users []*models.User, count int) ([]*models.Post, error) {
	if len(users) == 0 {
		return nil, nil
	}
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[r.Intn(len(users))]
		post := &models.Post{
			Content:  gofakeit.Paragraph(1, 3, 8, "\n"),
			AuthorID: author.ID,
		}
		// roughly a third of posts carry images
		if r.Intn(3) == 0 {
			n := 1 + r.Intn(3)
			for j := 0; j < n; j++ {
				post.ImageURLs = append(post.ImageURLs, fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()))
			}
		}
		// realistic created_at spread over the last 90 days
		daysBack := r.Intn(90)
		hoursBack := r.Intn(24)
		post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

		if err := db.Create(post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func createComments(db *gorm.DB, users []*models.User, posts []*models.Post) ([]*models.Comment, error) {
	if len(users) == 0 || len(posts) == 0 {
		return nil, nil
	}
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	var comments []*models.Comment
	for _, post := range posts {
		n := r.Intn(6)
		for i := 0; i < n; i++ {
			author := users[r.Intn(len(users))]
			comment := &models.Comment{
				Content:   gofakeit.Sentence(8 + r.Intn(12)),
				PostID:    post.ID,
				AuthorID:  author.ID,
				CreatedAt: post.CreatedAt.Add(time.Duration(1+r.Intn(72)) * time.Hour),
			}
			if err := db.Create(comment).Error; err != nil {
				return nil, err
			}
			comments = append(comments, comment)
		}
	}
	return comments, nil
}

// createReactions assigns likes and dislikes so that no user holds both
// on the same target.
func createReactions(db *gorm.DB, users []*models.User, posts []*models.Post, comments []*models.Comment) (int, int, error) {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	var likes, dislikes int

	react := func(kind models.TargetKind, targetID uint) error {
		for _, user := range users {
			roll := r.Intn(10)
			switch {
			case roll < 3:
				like := &models.Like{UserID: user.ID, TargetKind: kind, TargetID: targetID}
				if err := db.Create(like).Error; err != nil {
					return err
				}
				likes++
			case roll < 4:
				dislike := &models.Dislike{UserID: user.ID, TargetKind: kind, TargetID: targetID}
				if err := db.Create(dislike).Error; err != nil {
					return err
				}
				dislikes++
			}
		}
		return nil
	}

	for _, post := range posts {
		if err := react(models.TargetPost, post.ID); err != nil {
			return likes, dislikes, err
		}
	}
	for _, comment := range comments {
		if err := react(models.TargetComment, comment.ID); err != nil {
			return likes, dislikes, err
		}
	}
	return likes, dislikes, nil
}
