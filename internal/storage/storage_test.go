package storage

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artefacto/heritage-api/internal/config"
)

func TestNewObjectKeyNamespaces(t *testing.T) {
	cases := []struct {
		kind    Kind
		pattern string
	}{
		{KindProfilePicture, `^assets/profilepicture/pp-[0-9a-f]{16}\.jpg$`},
		{KindTemple, `^assets/temples/temple-[0-9a-f]{16}\.jpg$`},
		{KindArtifact, `^assets/artifacts/artifact-[0-9a-f]{16}\.jpg$`},
	}
	for _, tc := range cases {
		key, err := NewObjectKey(tc.kind, "image/jpeg")
		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(tc.pattern), key)
	}
}

func TestNewObjectKeyExtensionFollowsContentType(t *testing.T) {
	cases := map[string]string{
		"image/jpeg":    ".jpg",
		"image/png":     ".png",
		"image/webp":    ".webp",
		"image/gif":     ".gif",
		"image/unknown": ".jpg",
	}
	for contentType, ext := range cases {
		key, err := NewObjectKey(KindArtifact, contentType)
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(key, ext), "content type %s got key %s", contentType, key)
	}
}

func TestNewObjectKeyUnique(t *testing.T) {
	a, err := NewObjectKey(KindTemple, "image/jpeg")
	require.NoError(t, err)
	b, err := NewObjectKey(KindTemple, "image/jpeg")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestKeyFromURL(t *testing.T) {
	s := &Store{BaseURL: "https://is3.cloudhost.id/artefacto"}

	key, ok := s.KeyFromURL("https://is3.cloudhost.id/artefacto/assets/temples/temple-ab12.jpg")
	require.True(t, ok)
	assert.Equal(t, "assets/temples/temple-ab12.jpg", key)

	_, ok = s.KeyFromURL("https://elsewhere.example.com/assets/temples/temple-ab12.jpg")
	assert.False(t, ok)
}

func TestPublicURLRoundTrip(t *testing.T) {
	s := &Store{BaseURL: "https://is3.cloudhost.id/artefacto"}
	key, err := NewObjectKey(KindArtifact, "image/png")
	require.NoError(t, err)

	got, ok := s.KeyFromURL(s.PublicURL(key))
	require.True(t, ok)
	assert.Equal(t, key, got)
}

func TestIsPlaceholder(t *testing.T) {
	assert.True(t, isPlaceholder("assets/profilepicture/pp-default.jpg"))
	assert.True(t, isPlaceholder("assets/temples/temple-default.jpg"))
	assert.False(t, isPlaceholder("assets/temples/temple-3f9ac41b27d0e851.jpg"))
}

func TestNewRejectsIncompleteConfig(t *testing.T) {
	_, err := New(config.StorageConfig{
		Endpoint: "https://is3.cloudhost.id",
		Bucket:   "artefacto",
		// missing credentials
	})
	assert.Error(t, err)
}
