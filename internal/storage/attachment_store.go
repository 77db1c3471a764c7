// Package storage persists attachment payloads under the configured upload
// directory. Filenames are UUID-based so concurrent uploads never collide
// and no locking is needed.
package storage

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// AllowedMimeTypes lists the attachment content types accepted by the
// multipart upload endpoint.
var AllowedMimeTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"application/pdf": {},
	"text/plain":      {},
}

// IsAllowedMimeType reports whether the declared content type is accepted.
func IsAllowedMimeType(contentType string) bool {
	_, ok := AllowedMimeTypes[strings.ToLower(strings.TrimSpace(contentType))]
	return ok
}

// DecodeBase64Payload decodes inline attachment content. A data-URL scheme
// marker ("data:image/png;base64,...") is stripped before decoding.
func DecodeBase64Payload(content string) ([]byte, error) {
	if idx := strings.IndexByte(content, ','); idx >= 0 {
		content = content[idx+1:]
	}
	return base64.StdEncoding.DecodeString(content)
}

// AttachmentStore writes attachment files to local disk.
type AttachmentStore struct {
	dir string
}

// NewAttachmentStore returns a store rooted at dir. The directory is
// created lazily on first write, matching deployments where the working
// directory is read-only until a volume is mounted.
func NewAttachmentStore(dir string) *AttachmentStore {
	return &AttachmentStore{dir: dir}
}

// Dir returns the upload directory.
func (s *AttachmentStore) Dir() string {
	return s.dir
}

// Save writes content under a unique name derived from the original
// filename's extension and returns the stored path and generated name.
func (s *AttachmentStore) Save(content []byte, originalFilename string) (path string, uniqueName string, err error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create upload dir: %w", err)
	}

	uniqueName = uuid.NewString() + filepath.Ext(originalFilename)
	path = filepath.Join(s.dir, uniqueName)

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", "", fmt.Errorf("write attachment: %w", err)
	}
	return path, uniqueName, nil
}
