// Package storage implements the object storage gateway for image assets.
// Assets live in an S3-compatible bucket under the `assets/` prefix,
// namespaced by kind. Every upload gets a uniquely generated key; callers
// persist the returned public URL and delete the superseded object explicitly
// after the owning row has been updated.
package storage

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/artefacto/heritage-api/internal/config"
)

// Kind selects the namespace an asset is stored under.
type Kind string

const (
	KindProfilePicture Kind = "profilepicture"
	KindTemple         Kind = "temples"
	KindArtifact       Kind = "artifacts"
)

// keyPrefix returns the filename prefix used inside a kind's namespace.
func (k Kind) keyPrefix() string {
	switch k {
	case KindProfilePicture:
		return "pp"
	case KindTemple:
		return "temple"
	default:
		return "artifact"
	}
}

// Store wraps the S3 client with the bucket, public URL base, and per-call
// timeout used by all asset operations.
type Store struct {
	Client  *s3.Client
	Bucket  string
	BaseURL string
	Timeout time.Duration
}

// New builds a Store from configuration. The client uses path-style
// addressing and static credentials so any S3-compatible endpoint works.
func New(cfg config.StorageConfig) (*Store, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" || strings.TrimSpace(cfg.Bucket) == "" ||
		strings.TrimSpace(cfg.KeyID) == "" || strings.TrimSpace(cfg.AccessKey) == "" {
		return nil, fmt.Errorf("incomplete object storage configuration")
	}
	client := s3.New(s3.Options{
		UsePathStyle: true,
		BaseEndpoint: aws.String(cfg.Endpoint),
		Region:       cfg.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.KeyID, cfg.AccessKey, ""),
		),
	})
	return &Store{
		Client:  client,
		Bucket:  cfg.Bucket,
		BaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		Timeout: 30 * time.Second,
	}, nil
}

// NewObjectKey generates a fresh key for an asset of the given kind and
// content type, e.g. assets/temples/temple-3f9ac41b27d0e851.jpg. The
// extension follows the uploaded content type so a PNG is not stored under a
// .jpg name. Keys are never reused, so a re-upload cannot clobber an object
// still referenced by a row.
func NewObjectKey(kind Kind, contentType string) (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return fmt.Sprintf("assets/%s/%s-%s%s",
		kind, kind.keyPrefix(), hex.EncodeToString(buf), extensionFor(contentType)), nil
}

// extensionFor maps an image content type to a file extension, defaulting to
// .jpg for subtypes without a conventional one.
func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}

// PublicURL returns the externally reachable URL for an object key.
func (s *Store) PublicURL(key string) string {
	return s.BaseURL + "/" + key
}

// KeyFromURL recovers the object key from a stored public URL. It returns
// false for URLs outside this store's base, including the configured
// placeholder assets of other deployments.
func (s *Store) KeyFromURL(url string) (string, bool) {
	prefix := s.BaseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}

// Upload stores the buffer under key and returns the object's public URL.
func (s *Store) Upload(ctx context.Context, key, contentType string, body []byte) (string, error) {
	uploader := manager.NewUploader(s.Client)

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	_, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("object upload failed")
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return s.PublicURL(key), nil
}

// Delete removes an object. Failures are logged and returned; callers that
// are cleaning up superseded assets may ignore the error.
func (s *Store) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	_, err := s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("object delete failed")
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// DeleteByURL deletes the object a stored URL points at, when the URL belongs
// to this store. Used after a row update replaced an image, and when an
// image-bearing row is removed.
func (s *Store) DeleteByURL(ctx context.Context, url string) {
	key, ok := s.KeyFromURL(url)
	if !ok || isPlaceholder(key) {
		return
	}
	_ = s.Delete(ctx, key)
}

// PlaceholderProfileURL is the profile picture assigned at registration.
func (s *Store) PlaceholderProfileURL() string {
	return s.PublicURL("assets/profilepicture/pp-default.jpg")
}

// PlaceholderTempleURL is the image used for temples created without one.
func (s *Store) PlaceholderTempleURL() string {
	return s.PublicURL("assets/temples/temple-default.jpg")
}

// PlaceholderArtifactURL is the image used for artifacts created without one.
func (s *Store) PlaceholderArtifactURL() string {
	return s.PublicURL("assets/artifacts/artifact-default.jpg")
}

func isPlaceholder(key string) bool {
	return strings.HasSuffix(key, "-default.jpg")
}
