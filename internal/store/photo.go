package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lifelog/internal/models"

	"github.com/google/uuid"
)

// PhotoStore keeps photo blobs on the local filesystem under Dir, one
// subdirectory per category ("meal-photos", "expense-photos", …).
type PhotoStore struct {
	Dir string
}

// NewPhotoStore ensures the storage directory exists.
func NewPhotoStore(dir string) (*PhotoStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create photo dir: %w", err)
	}
	return &PhotoStore{Dir: dir}, nil
}

// Save writes the blob as "{category}-photos/{timestamp}_{randomID}.jpg"
// and returns the photo metadata stored on the record.
func (p *PhotoStore) Save(category string, data []byte) (models.RecordPhoto, error) {
	now := time.Now()
	name := fmt.Sprintf("%s-photos/%d_%s.jpg", category, now.UnixMilli(), shortID())

	full := filepath.Join(p.Dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return models.RecordPhoto{}, fmt.Errorf("create category dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o600); err != nil {
		return models.RecordPhoto{}, fmt.Errorf("write photo: %w", err)
	}

	return models.RecordPhoto{
		URL:        "/photos/" + name,
		FileName:   name,
		UploadedAt: now,
	}, nil
}

// Delete removes a blob by its stored file name. A missing file is not
// an error.
func (p *PhotoStore) Delete(fileName string) error {
	clean := filepath.Clean(filepath.FromSlash(fileName))
	if clean == "." || strings.HasPrefix(clean, "..") {
		return fmt.Errorf("invalid photo file name %q", fileName)
	}
	err := os.Remove(filepath.Join(p.Dir, clean))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete photo: %w", err)
	}
	return nil
}

func shortID() string {
	return strings.SplitN(uuid.New().String(), "-", 2)[0]
}
