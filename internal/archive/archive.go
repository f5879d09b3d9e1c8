// Package archive keeps a copy of every uploaded drawing.
package archive

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"
)

// Archiver stores raw uploads.
type Archiver interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
}

// Noop discards everything. It is the default when no bucket is configured.
type Noop struct{}

func (Noop) Put(context.Context, string, string, []byte) error { return nil }

// Key builds the object key for an upload: drawings/<yyyy>/<mm>/<jobID>/<filename>.
func Key(jobID, filename string, at time.Time) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "drawing"
	}
	at = at.UTC()
	return fmt.Sprintf("drawings/%04d/%02d/%s/%s", at.Year(), int(at.Month()), jobID, name)
}
