// Package services contains server-side business logic. Each service holds
// the database handle, the repository manager, and the server config, and
// exposes context-aware operations to the HTTP layer.
package services

import (
	"context"
	"io"
)

// Upload is an in-flight file received from a client, ready to be written
// to the media store.
type Upload struct {
	Content     io.Reader
	ContentType string
}

// MediaStore is the slice of object storage the services use. *media.Store
// implements it; tests substitute fakes.
type MediaStore interface {
	Upload(ctx context.Context, key string, contentType string, body io.Reader) error
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string) (string, error)
}
