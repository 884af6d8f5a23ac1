package blobstore

import (
	"context"
	"io"
)

// File carries one uploaded image into the store.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Object is the stored result: the public URL clients render and the opaque
// public id needed to release the blob later.
type Object struct {
	URL      string
	PublicID string
}

// Store abstracts the external image store.
type Store interface {
	// Upload stores the file under the given folder and returns its public
	// location. The folder groups blobs per owning resource.
	Upload(ctx context.Context, folder string, file File) (Object, error)
	// Delete removes a previously uploaded blob by its public id.
	Delete(ctx context.Context, publicID string) error
}
