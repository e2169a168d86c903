// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/clubhub/ads-backend/internal/config"
	"github.com/clubhub/ads-backend/internal/models"
)

// LocalURLPrefix is the path under which locally stored media is served.
const LocalURLPrefix = "/uploads/"

var ErrInvalidStorageKey = errors.New("invalid storage key")

type StorageService struct {
	s3Client *s3.S3
	aws      config.AWSConfig
	storage  config.StorageConfig
}

type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

type UploadOptions struct {
	Folder       string
	MaxSize      int64 // in bytes
	AllowedTypes []string
	IsPublic     bool
}

// UploadInput is one file already read into memory.
type UploadInput struct {
	Filename    string
	ContentType string
	Data        []byte
	Options     UploadOptions
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	s := &StorageService{aws: cfg.AWS, storage: cfg.Storage}
	if cfg.AWS.AccessKeyID == "" {
		// Local disk storage for development
		return s, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	s.s3Client = s3.New(sess)
	return s, nil
}

// IsRemote reports whether files go to S3 rather than the local upload dir.
func (s *StorageService) IsRemote() bool {
	return s.s3Client != nil
}

func (s *StorageService) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	opts := in.Options
	size := int64(len(in.Data))
	if opts.MaxSize > 0 && size > opts.MaxSize {
		return nil, fmt.Errorf("file size %d bytes exceeds maximum allowed size %d bytes", size, opts.MaxSize)
	}

	ext := strings.ToLower(filepath.Ext(in.Filename))
	if len(opts.AllowedTypes) > 0 && !containsString(opts.AllowedTypes, ext) {
		return nil, fmt.Errorf("file type %s is not allowed", ext)
	}

	contentType := in.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(in.Data)
	}

	key := s.generateFileName(in.Filename, opts.Folder)
	if s.s3Client != nil {
		return s.uploadToS3(ctx, in.Data, key, contentType, opts.IsPublic)
	}
	return s.uploadToLocal(in.Data, key, contentType)
}

func (s *StorageService) uploadToS3(ctx context.Context, data []byte, key, contentType string, isPublic bool) (*UploadResult, error) {
	params := &s3.PutObjectInput{
		Bucket:        aws.String(s.aws.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if isPublic {
		params.ACL = aws.String("public-read")
	}

	if _, err := s.s3Client.PutObjectWithContext(ctx, params); err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		URL:      s.getS3URL(key),
		Key:      key,
		Size:     int64(len(data)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) uploadToLocal(data []byte, key, contentType string) (*UploadResult, error) {
	dest, err := s.LocalPath(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &UploadResult{
		URL:      strings.TrimRight(s.storage.PublicBaseURL, "/") + LocalURLPrefix + key,
		Key:      key,
		Size:     int64(len(data)),
		MimeType: contentType,
	}, nil
}

// LocalPath maps a storage key to a file under the upload dir.
func (s *StorageService) LocalPath(key string) (string, error) {
	clean := path.Clean("/" + key)
	if key == "" || clean == "/" || strings.Contains(key, "..") {
		return "", ErrInvalidStorageKey
	}
	return filepath.Join(s.storage.UploadDir, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

func (s *StorageService) Delete(ctx context.Context, key string) error {
	if s.s3Client == nil {
		p, err := s.LocalPath(key)
		if err != nil {
			return err
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete file: %w", err)
		}
		return nil
	}

	_, err := s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.aws.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

func (s *StorageService) GeneratePresignedURL(key string, expiration time.Duration) (string, error) {
	if s.s3Client == nil {
		return "", fmt.Errorf("S3 client not configured")
	}

	req, _ := s.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.aws.S3Bucket),
		Key:    aws.String(key),
	})

	url, err := req.Presign(expiration)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return url, nil
}

// ResolveAsset returns either a local file path to serve or a URL to redirect to.
func (s *StorageService) ResolveAsset(asset *models.AdAsset) (localPath, redirectURL string, err error) {
	if asset.StorageKey == "" {
		return "", asset.FileURL, nil
	}
	if s.s3Client == nil {
		localPath, err = s.LocalPath(asset.StorageKey)
		return localPath, "", err
	}
	url, err := s.GeneratePresignedURL(asset.StorageKey, 15*time.Minute)
	if err != nil {
		logrus.WithError(err).WithField("key", asset.StorageKey).Warn("Falling back to stored asset URL")
		return "", asset.FileURL, nil
	}
	return "", url, nil
}

func (s *StorageService) GetDefaultUploadOptions(mediaType models.MediaType) UploadOptions {
	maxSize := int64(s.storage.MaxUploadMB) * 1024 * 1024
	switch mediaType {
	case models.MediaTypeVideo:
		return UploadOptions{
			Folder:       "ads/videos",
			MaxSize:      maxSize,
			AllowedTypes: []string{".mp4", ".mov", ".webm"},
			IsPublic:     true,
		}
	default:
		return UploadOptions{
			Folder:       "ads/images",
			MaxSize:      maxSize,
			AllowedTypes: []string{".jpg", ".jpeg", ".png", ".gif"},
			IsPublic:     true,
		}
	}
}

func (s *StorageService) generateFileName(originalName, folder string) string {
	id := uuid.New()
	ext := strings.ToLower(filepath.Ext(originalName))

	timestamp := time.Now().Format("20060102")
	filename := fmt.Sprintf("%s_%s%s", timestamp, id.String()[:8], ext)

	if folder != "" {
		return fmt.Sprintf("%s/%s", folder, filename)
	}
	return filename
}

func (s *StorageService) getS3URL(key string) string {
	if s.aws.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", s.aws.CloudFrontURL, key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.aws.S3Bucket, s.aws.Region, key)
}

// ValidateImage checks the file signature of an image upload.
func ValidateImage(data []byte) error {
	if !isValidImageType(data) {
		return fmt.Errorf("invalid image file")
	}
	return nil
}

func isValidImageType(buffer []byte) bool {
	// JPEG
	if len(buffer) >= 3 && buffer[0] == 0xFF && buffer[1] == 0xD8 && buffer[2] == 0xFF {
		return true
	}

	// PNG
	if len(buffer) >= 8 && buffer[0] == 0x89 && buffer[1] == 0x50 && buffer[2] == 0x4E && buffer[3] == 0x47 {
		return true
	}

	// GIF
	if len(buffer) >= 6 && (string(buffer[0:6]) == "GIF87a" || string(buffer[0:6]) == "GIF89a") {
		return true
	}

	return false
}

// DetectImageDimensions reads width and height from an image header.
func DetectImageDimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read image dimensions: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
