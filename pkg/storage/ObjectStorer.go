/*
Package storage holds the object stores uploaded images are written to.
*/
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
)

var (
	ErrObjectExists = fmt.Errorf("an object already exists at this path")
	ErrStorageLimit = fmt.Errorf("object exceeds the storage size limit")
)

/*
ObjectStorer writes objects and resolves the public URL they are served from.
Put never replaces an existing object; a collision returns ErrObjectExists.
*/
type ObjectStorer interface {
	Put(ctx context.Context, path string, body io.Reader, contentType string) error
	PublicURL(path string) string
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
