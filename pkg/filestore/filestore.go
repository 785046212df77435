// Package filestore saves uploaded receipt photos and returns a reference to them.
package filestore

import (
	"context"
	"path"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const photoExt = ".jpg"

type Store interface {
	// Save writes data and returns its path or URL. hint groups related files.
	Save(ctx context.Context, hint string, data []byte) (string, error)
}

// Key builds an object key of the form "<slug(hint)>/<uuid>.jpg".
func Key(hint string) string {
	name := uuid.NewString() + photoExt
	if s := slug.Make(hint); s != "" {
		return path.Join(s, name)
	}
	return name
}
