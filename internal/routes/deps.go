package routes

import (
	"context"
	"fmt"

	"github.com/xyz-asif/bloghunt/internal/config"
	"github.com/xyz-asif/bloghunt/internal/pkg/cloudinary"
	"github.com/xyz-asif/bloghunt/internal/pkg/logger"
	"github.com/xyz-asif/bloghunt/internal/pkg/media"
	"github.com/xyz-asif/bloghunt/internal/pkg/session"
)

// NewUploader picks the media backend named by MEDIA_BACKEND. A cloudinary
// backend without credentials degrades to disabled uploads.
func NewUploader(ctx context.Context, cfg *config.Config) (media.Uploader, error) {
	switch cfg.MediaBackend {
	case "cloudinary", "":
		cld, err := cloudinary.NewService(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, "")
		if err != nil {
			logger.Warn("Image uploads disabled: %v", err)
			return media.Disabled{}, nil
		}
		return cld, nil
	case "s3":
		return media.NewS3Uploader(ctx, media.S3Config{
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			Bucket:        cfg.S3Bucket,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
	case "none":
		return media.Disabled{}, nil
	default:
		return nil, fmt.Errorf("unknown MEDIA_BACKEND %q", cfg.MediaBackend)
	}
}

// NewRevoker returns a Redis revocation list when REDIS_ADDR is set and an
// in-process one otherwise. closer releases the Redis connection.
func NewRevoker(cfg *config.Config) (revoker session.Revoker, closer func() error, err error) {
	if cfg.RedisAddr == "" {
		return session.NewMemoryRevoker(), func() error { return nil }, nil
	}

	client, err := session.DialRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	return session.NewRedisRevoker(client), client.Close, nil
}
