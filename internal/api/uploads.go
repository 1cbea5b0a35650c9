package api

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxUploadSize = 2 << 20 // 2 MiB per image

// UploadStore writes uploaded files under a local directory and composes
// the public URLs they are served back from.
type UploadStore struct {
	dir     string
	baseURL string
}

// NewUploadStore prepares the uploads directory tree.
func NewUploadStore(dir, baseURL string) (*UploadStore, error) {
	for _, sub := range []string{"avatars", "products"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create uploads dir: %w", err)
		}
	}
	return &UploadStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir returns the root uploads directory for static serving.
func (u *UploadStore) Dir() string {
	return u.dir
}

func allowedImageExt(name string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
		return ext, true
	}
	return "", false
}

// SaveAvatar stores a user's avatar as avatars/{userID}{ext}, replacing any
// previous one. Returns the public URL.
func (u *UploadStore) SaveAvatar(c *gin.Context, file *multipart.FileHeader, userID int64) (string, error) {
	if file.Size > maxUploadSize {
		return "", fmt.Errorf("file too large: %d", file.Size)
	}
	ext, ok := allowedImageExt(file.Filename)
	if !ok {
		return "", fmt.Errorf("unsupported file type: %s", file.Filename)
	}

	rel := filepath.Join("avatars", fmt.Sprintf("%d%s", userID, ext))
	if err := c.SaveUploadedFile(file, filepath.Join(u.dir, rel)); err != nil {
		return "", fmt.Errorf("failed to save avatar: %w", err)
	}
	return u.publicURL(rel), nil
}

// SaveProductImage stores a product image under products/{productID}/ with a
// generated name. Returns the public URL.
func (u *UploadStore) SaveProductImage(c *gin.Context, file *multipart.FileHeader, productID int64) (string, error) {
	if file.Size > maxUploadSize {
		return "", fmt.Errorf("file too large: %d", file.Size)
	}
	ext, ok := allowedImageExt(file.Filename)
	if !ok {
		return "", fmt.Errorf("unsupported file type: %s", file.Filename)
	}

	rel := filepath.Join("products", fmt.Sprintf("%d", productID), uuid.New().String()+ext)
	if err := os.MkdirAll(filepath.Join(u.dir, "products", fmt.Sprintf("%d", productID)), 0o755); err != nil {
		return "", fmt.Errorf("failed to create product dir: %w", err)
	}
	if err := c.SaveUploadedFile(file, filepath.Join(u.dir, rel)); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	return u.publicURL(rel), nil
}

// Remove best-effort deletes the file behind a public URL. Missing files
// are not an error.
func (u *UploadStore) Remove(url string) {
	prefix := u.baseURL + "/uploads/"
	if !strings.HasPrefix(url, prefix) {
		return
	}
	rel := filepath.FromSlash(strings.TrimPrefix(url, prefix))
	_ = os.Remove(filepath.Join(u.dir, rel))
}

func (u *UploadStore) publicURL(rel string) string {
	return u.baseURL + "/uploads/" + filepath.ToSlash(rel)
}
