package services

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	appconfig "study-log-backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const presignExpiry = 5 * time.Minute

// ObjectUploader is the part of the S3 client used for direct uploads
type ObjectUploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ObjectPresigner is the part of the S3 presign client used for browser uploads
type ObjectPresigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// PhotoService stores evidence photos in S3 compatible object storage
type PhotoService struct {
	uploader  ObjectUploader
	presigner ObjectPresigner
	cfg       appconfig.StorageConfig
	now       func() time.Time
}

// NewPhotoService creates a new photo service backed by S3
func NewPhotoService(ctx context.Context, cfg appconfig.StorageConfig) (*PhotoService, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewPhotoServiceWithClients(client, s3.NewPresignClient(client), cfg), nil
}

// NewPhotoServiceWithClients creates a photo service over the given clients
func NewPhotoServiceWithClients(uploader ObjectUploader, presigner ObjectPresigner, cfg appconfig.StorageConfig) *PhotoService {
	return &PhotoService{
		uploader:  uploader,
		presigner: presigner,
		cfg:       cfg,
		now:       time.Now,
	}
}

// UploadedPhoto describes a stored evidence photo
type UploadedPhoto struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

// PresignRequest represents a request to get a pre-signed URL
type PresignRequest struct {
	Filename    string `json:"filename" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required"`
}

// PresignResponse represents the response with pre-signed URL
type PresignResponse struct {
	UploadURL string `json:"upload_url"`
	URL       string `json:"url"`
	Path      string `json:"path"`
	ExpiresIn int    `json:"expires_in"`
}

// MaxUploadBytes is the largest photo accepted
func (s *PhotoService) MaxUploadBytes() int64 {
	return s.cfg.MaxUploadBytes
}

// Upload stores an image and returns its public URL
func (s *PhotoService) Upload(ctx context.Context, filename, contentType string, size int64, body io.Reader) (*UploadedPhoto, error) {
	if err := s.checkFile(filename, contentType, size); err != nil {
		return nil, err
	}

	key := s.objectKey(filename, contentType)
	_, err := s.uploader.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
		CacheControl:  aws.String("max-age=3600"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload photo: %w", err)
	}

	log.Info().
		Str("key", key).
		Int64("size", size).
		Msg("Photo uploaded")

	return &UploadedPhoto{
		URL:  s.cfg.PublicURL(key),
		Path: key,
	}, nil
}

// Presign generates a pre-signed URL the client can PUT an image to
func (s *PhotoService) Presign(ctx context.Context, req PresignRequest) (*PresignResponse, error) {
	if err := s.checkFile(req.Filename, req.ContentType, 0); err != nil {
		return nil, err
	}

	key := s.objectKey(req.Filename, req.ContentType)
	request, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(req.ContentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = presignExpiry
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}

	return &PresignResponse{
		UploadURL: request.URL,
		URL:       s.cfg.PublicURL(key),
		Path:      key,
		ExpiresIn: int(presignExpiry.Seconds()),
	}, nil
}

func (s *PhotoService) checkFile(filename, contentType string, size int64) error {
	if filename == "" {
		return ErrFileRequired
	}
	if !strings.HasPrefix(contentType, "image/") {
		return ErrFileNotImage
	}
	if size > s.cfg.MaxUploadBytes {
		return fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, s.cfg.MaxUploadBytes)
	}
	return nil
}

// objectKey builds <prefix>/<unix-millis>-<random>.<ext>
func (s *PhotoService) objectKey(filename, contentType string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		}
	}
	random := strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
	return fmt.Sprintf("%s/%d-%s%s", s.cfg.KeyPrefix, s.now().UnixMilli(), random, ext)
}
