package media

import (
	"context"
	"io"
)

// Uploader stores an image with the media host and returns its public URL.
// Image transformation and storage internals belong to the host.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, folder string) (string, error)
}

const (
	FolderMeals = "restaurant/meals"
	FolderLogos = "restaurant/logos"
)
