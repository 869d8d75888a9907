package service

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path"

	"app/internal/apperr"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// Bucket prefixes for the asset kinds the tree entities reference.
const (
	AssetLogos   = "logos"
	AssetAvatars = "avatars"
	AssetBanners = "banners"
)

// maxUploadBytes caps a single asset upload.
const maxUploadBytes = 5 << 20

var allowedImageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadService stores logo/avatar/banner blobs and returns the public URL
// the owning entity persists. Failures are typed: too large and wrong type
// are caller-correctable, the rest is an IO error.
type UploadService interface {
	UploadAsset(ctx context.Context, kind, entityID string, payload []byte) (string, error)
	DeleteAsset(ctx context.Context, kind, entityID, filename string) error
}

type uploadService struct {
	s3Client *s3.Client
	bucket   string
	baseURL  string
	logger   zerolog.Logger
}

// NewUploadService creates a new UploadService
func NewUploadService(s3Client *s3.Client, bucket, baseURL string, logger zerolog.Logger) UploadService {
	return &uploadService{
		s3Client: s3Client,
		bucket:   bucket,
		baseURL:  baseURL,
		logger:   logger.With().Str("service", "UploadService").Logger(),
	}
}

// UploadAsset validates and stores one blob under <kind>/<entityID><ext>
func (s *uploadService) UploadAsset(ctx context.Context, kind, entityID string, payload []byte) (string, error) {
	switch kind {
	case AssetLogos, AssetAvatars, AssetBanners:
	default:
		return "", apperr.New(apperr.KindValidationFailed, fmt.Sprintf("unknown asset kind %q", kind))
	}
	if len(payload) == 0 {
		return "", apperr.New(apperr.KindValidationFailed, "empty upload")
	}
	if len(payload) > maxUploadBytes {
		return "", apperr.New(apperr.KindValidationFailed, "upload too large")
	}
	contentType := http.DetectContentType(payload)
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return "", apperr.New(apperr.KindValidationFailed, fmt.Sprintf("unsupported content type %s", contentType))
	}

	key := path.Join(kind, entityID+ext)
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("asset upload failed")
		return "", apperr.Wrap(apperr.KindBackendUnavailable, "asset upload failed", err)
	}

	return fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, key), nil
}

// DeleteAsset removes a stored blob
func (s *uploadService) DeleteAsset(ctx context.Context, kind, entityID, filename string) error {
	key := path.Join(kind, entityID, filename)
	_, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("asset delete failed")
		return apperr.Wrap(apperr.KindBackendUnavailable, "asset delete failed", err)
	}
	return nil
}
