package todo

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// MaxFileSize caps a single attachment.
const MaxFileSize = 10 << 20

// NewAttachment wraps data as an attachment with a base64 data URI. An
// empty mimeType is guessed from the name, then from the content.
func NewAttachment(name, mimeType string, data []byte) (AttachedFile, error) {
	if len(data) > MaxFileSize {
		return AttachedFile{}, fmt.Errorf("%s: %w (%d bytes)", name, ErrFileTooLarge, len(data))
	}
	if mimeType == "" {
		mimeType = mime.TypeByExtension(filepath.Ext(name))
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return AttachedFile{
		ID:   uuid.NewString(),
		Name: name,
		Size: int64(len(data)),
		Type: mimeType,
		URL:  "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data),
	}, nil
}

// ReadAttachments reads the files at paths concurrently and calls onLoaded
// for each one as soon as it is encoded, so callers see completion order,
// not argument order. onLoaded is never called concurrently. Files that are
// missing or over MaxFileSize are skipped and reported in the returned
// error; the rest still load.
func ReadAttachments(ctx context.Context, paths []string, onLoaded func(AttachedFile)) error {
	var (
		mu   sync.Mutex
		errs []error
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, path := range paths {
		g.Go(func() error {
			f, err := readAttachment(ctx, path)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return nil
			}
			onLoaded(f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func readAttachment(ctx context.Context, path string) (AttachedFile, error) {
	if err := ctx.Err(); err != nil {
		return AttachedFile{}, err
	}
	fh, err := os.Open(path)
	if err != nil {
		return AttachedFile{}, err
	}
	defer fh.Close()

	info, err := fh.Stat()
	if err != nil {
		return AttachedFile{}, err
	}
	name := filepath.Base(path)
	if info.Size() > MaxFileSize {
		return AttachedFile{}, fmt.Errorf("%s: %w (%d bytes)", name, ErrFileTooLarge, info.Size())
	}
	data, err := io.ReadAll(io.LimitReader(fh, MaxFileSize+1))
	if err != nil {
		return AttachedFile{}, fmt.Errorf("read %s: %w", name, err)
	}
	return NewAttachment(name, "", data)
}
