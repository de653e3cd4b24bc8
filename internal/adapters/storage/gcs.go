package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/SscSPs/finorn_backend/internal/utils"
	"google.golang.org/api/option"
)

type serviceAccountKey struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

// GCSStorage keeps objects in a single Google Cloud Storage bucket. Callers only ever see
// object keys; URLs are signed per request.
type GCSStorage struct {
	client *gcs.Client
	bucket string
	// Set when explicit credentials are given. Otherwise the client signs with ADC.
	accessID   string
	privateKey []byte
}

var _ portssvc.FileStorage = (*GCSStorage)(nil)

// NewGCSStorage uses credentialsJSON when set and Application Default Credentials otherwise.
func NewGCSStorage(ctx context.Context, bucket, credentialsJSON string) (*GCSStorage, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, errors.New("GCS_BUCKET is required")
	}

	s := &GCSStorage{bucket: bucket}
	var opts []option.ClientOption
	if credJSON := strings.TrimSpace(credentialsJSON); credJSON != "" {
		var key serviceAccountKey
		if err := json.Unmarshal([]byte(credJSON), &key); err != nil {
			return nil, fmt.Errorf("invalid GCS_CREDENTIALS_JSON: %w", err)
		}
		if key.ClientEmail == "" || key.PrivateKey == "" {
			return nil, errors.New("GCS_CREDENTIALS_JSON missing client_email or private_key")
		}
		s.accessID = key.ClientEmail
		s.privateKey = []byte(strings.ReplaceAll(key.PrivateKey, "\\n", "\n"))
		opts = append(opts, option.WithCredentialsJSON([]byte(credJSON)))
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	s.client = client
	return s, nil
}

func (s *GCSStorage) Close() error {
	return s.client.Close()
}

func (s *GCSStorage) object(key string) (*gcs.ObjectHandle, error) {
	if err := utils.ValidateObjectKey(key); err != nil {
		return nil, err
	}
	return s.client.Bucket(s.bucket).Object(key), nil
}

func (s *GCSStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string) (*portssvc.StoredObject, error) {
	obj, err := s.object(key)
	if err != nil {
		return nil, err
	}

	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to write object %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize object %s: %w", key, err)
	}
	return &portssvc.StoredObject{
		Key:      key,
		Location: fmt.Sprintf("gs://%s/%s", s.bucket, key),
	}, nil
}

func (s *GCSStorage) signedURL(key string, ttl time.Duration, disposition string) (string, error) {
	if _, err := s.object(key); err != nil {
		return "", err
	}
	opts := &gcs.SignedURLOptions{
		Scheme:  gcs.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: time.Now().Add(ttl),
		QueryParameters: url.Values{
			"response-content-disposition": {disposition},
		},
	}
	if s.accessID != "" {
		opts.GoogleAccessID = s.accessID
		opts.PrivateKey = s.privateKey
	}
	signed, err := s.client.Bucket(s.bucket).SignedURL(key, opts)
	if err != nil {
		return "", fmt.Errorf("failed to sign URL for %s: %w", key, err)
	}
	return signed, nil
}

func (s *GCSStorage) PresignedURL(ctx context.Context, key string, ttl time.Duration, filename string) (string, error) {
	disposition := "attachment"
	if filename != "" {
		disposition = mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	}
	return s.signedURL(key, ttl, disposition)
}

func (s *GCSStorage) StreamingURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return s.signedURL(key, ttl, "inline")
}

func (s *GCSStorage) Delete(ctx context.Context, key string) error {
	obj, err := s.object(key)
	if err != nil {
		return err
	}
	if err := obj.Delete(ctx); err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

func (s *GCSStorage) Exists(ctx context.Context, key string) (bool, error) {
	obj, err := s.object(key)
	if err != nil {
		return false, err
	}
	if _, err := obj.Attrs(ctx); err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object %s: %w", key, err)
	}
	return true, nil
}
