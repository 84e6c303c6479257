// Package storage handles image blob storage for posts and comments.
package storage

import (
	"context"
	"io"
)

// File is one uploaded image blob.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Uploader stores image blobs and returns their public URLs in the same
// order the files were given.
type Uploader interface {
	Upload(ctx context.Context, files []File) ([]string, error)
}
