package storage

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/believerchat/backend/internal/security"
	"github.com/believerchat/backend/pkg/apperrors"
)

// UploadStore writes uploaded images under a local directory that the
// router serves statically. Rows hold the relative path; absolute URLs are
// materialized at response time via PublicURL.
type UploadStore struct {
	dir     string
	baseURL string
}

func NewUploadStore(dir, baseURL string) (*UploadStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &UploadStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *UploadStore) Dir() string {
	return s.dir
}

// Save stores the file under a random name and returns its relative path.
func (s *UploadStore) Save(c *gin.Context, file *multipart.FileHeader) (string, error) {
	if !security.ValidImageName(file.Filename) {
		return "", apperrors.New(apperrors.ErrCodeValidation, "unsupported image type")
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, filepath.Join(s.dir, name)); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to store file")
	}

	return filepath.ToSlash(filepath.Join(s.dir, name)), nil
}

// PublicURL turns a stored relative path into an absolute URL, or nil when
// the user has no picture.
func (s *UploadStore) PublicURL(relPath string) *string {
	if relPath == "" {
		return nil
	}
	url := s.baseURL + "/" + strings.TrimLeft(relPath, "/")
	return &url
}
