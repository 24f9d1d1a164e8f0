package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"tripbook/internal/domain"
)

// Stored describes a saved upload.
type Stored struct {
	URL         string
	ContentType string
	Size        int64
}

// LocalStore keeps uploads on disk and serves them under PublicPrefix.
type LocalStore struct {
	Dir          string
	PublicPrefix string
	BaseURL      string
}

// SaveImage sniffs the content, enforces the image/size rule and writes the file
// under folder with a random name. Nothing is written when validation fails.
func (s LocalStore) SaveImage(ctx context.Context, folder string, r io.Reader, maxSize int64) (Stored, error) {
	limited := io.LimitReader(r, maxSize+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return Stored{}, fmt.Errorf("read upload: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Stored{}, err
	}

	if int64(len(data)) > maxSize {
		return Stored{}, domain.ValidationError{Field: "file", Msg: fmt.Sprintf("file must be at most %d bytes", maxSize), Err: domain.ErrInvalidArgument}
	}
	mt := mimetype.Detect(data)
	if err := domain.ValidateProofFile(mt.String(), int64(len(data))); err != nil {
		return Stored{}, err
	}

	folder = strings.Trim(filepath.Clean(folder), "/.")
	dir := filepath.Join(s.Dir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Stored{}, fmt.Errorf("create upload dir: %w", err)
	}

	name := uuid.NewString() + mt.Extension()
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return Stored{}, fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(f, bytes.NewReader(data)); err != nil {
		_ = f.Close()
		return Stored{}, fmt.Errorf("write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		return Stored{}, fmt.Errorf("close upload file: %w", err)
	}

	prefix := s.PublicPrefix
	if prefix == "" {
		prefix = "/uploads"
	}
	return Stored{
		URL:         s.BaseURL + path.Join(prefix, folder, name),
		ContentType: mt.String(),
		Size:        int64(len(data)),
	}, nil
}

// Remove deletes a file previously returned by SaveImage. URLs outside the
// store and files already gone are ignored.
func (s LocalStore) Remove(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	prefix := s.PublicPrefix
	if prefix == "" {
		prefix = "/uploads"
	}
	rel, ok := strings.CutPrefix(url, s.BaseURL+prefix+"/")
	if !ok || rel == "" {
		return nil
	}
	rel = path.Clean("/" + rel)[1:]
	if rel == "" || strings.Contains(rel, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.Dir, filepath.FromSlash(rel)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove upload file: %w", err)
	}
	return nil
}
