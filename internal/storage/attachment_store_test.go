package storage

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBase64Payload(t *testing.T) {
	payload := []byte("some file bytes")
	plain := base64.StdEncoding.EncodeToString(payload)

	decoded, err := DecodeBase64Payload(plain)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)

	decoded, err = DecodeBase64Payload("data:image/png;base64," + plain)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)

	_, err = DecodeBase64Payload("data:image/png;base64,@@not-base64@@")
	assert.Error(t, err)
}

func TestIsAllowedMimeType(t *testing.T) {
	for _, allowed := range []string{"image/jpeg", "image/png", "application/pdf", "text/plain", " IMAGE/PNG "} {
		assert.True(t, IsAllowedMimeType(allowed), allowed)
	}
	for _, denied := range []string{"application/zip", "image/gif", "", "text/html"} {
		assert.False(t, IsAllowedMimeType(denied), denied)
	}
}

func TestSaveGeneratesUniqueNames(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	store := NewAttachmentStore(dir)

	path1, name1, err := store.Save([]byte("one"), "report.pdf")
	require.NoError(t, err)
	path2, name2, err := store.Save([]byte("two"), "report.pdf")
	require.NoError(t, err)

	assert.NotEqual(t, name1, name2)
	assert.True(t, strings.HasSuffix(name1, ".pdf"))
	assert.Equal(t, filepath.Join(dir, name1), path1)

	content, err := os.ReadFile(path2)
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), content)
}
