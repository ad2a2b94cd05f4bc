package dependencies

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/google/uuid"
	"github.com/tencentyun/cos-go-sdk-v5"
	"go.uber.org/zap"

	"github.com/Xushengqwer/identity_hub/config"
)

// COSClientInterface stores profile photos in object storage.
type COSClientInterface interface {
	// UploadFile stores reader under objectKey and returns the public URL.
	UploadFile(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) (string, error)
	// UploadAvatar stores a profile photo for identityID and returns its public URL.
	UploadAvatar(ctx context.Context, identityID string, fileName string, reader io.Reader, size int64) (string, error)
}

type cosClient struct {
	client              *cos.Client
	publicAccessURLBase *url.URL
	logger              *core.ZapLogger
}

// InitCOS builds the COS client. It returns a nil client when avatar storage
// is disabled in configuration.
func InitCOS(cfg *config.COSConfig, logger *core.ZapLogger) (COSClientInterface, error) {
	if cfg == nil || !cfg.Enabled {
		logger.Info("avatar storage disabled")
		return nil, nil
	}
	if cfg.SecretID == "" || cfg.SecretKey == "" || cfg.BucketName == "" || cfg.AppID == "" || cfg.Region == "" {
		logger.Error("COS configuration incomplete", zap.String("bucket", cfg.BucketName), zap.String("region", cfg.Region))
		return nil, fmt.Errorf("COS configuration is missing one of secret_id, secret_key, bucket_name, app_id, region")
	}

	sdkBucketURLStr := fmt.Sprintf("https://%s-%s.cos.%s.myqcloud.com", cfg.BucketName, cfg.AppID, cfg.Region)
	sdkURL, err := url.Parse(sdkBucketURLStr)
	if err != nil {
		return nil, fmt.Errorf("parse COS bucket URL %q: %w", sdkBucketURLStr, err)
	}

	publicBase := sdkURL
	if cfg.BaseURL != "" {
		pu, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("parse COS base URL %q: %w", cfg.BaseURL, err)
		}
		publicBase = pu
	}

	client := cos.NewClient(&cos.BaseURL{BucketURL: sdkURL}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  cfg.SecretID,
			SecretKey: cfg.SecretKey,
		},
	})

	logger.Info("COS client initialised",
		zap.String("bucket", cfg.BucketName),
		zap.String("region", cfg.Region),
		zap.String("publicBase", publicBase.String()),
	)

	return &cosClient{
		client:              client,
		publicAccessURLBase: publicBase,
		logger:              logger,
	}, nil
}

// PublicObjectURL joins base and objectKey with exactly one slash.
func PublicObjectURL(base *url.URL, objectKey string) string {
	basePath := base.Path
	if !strings.HasSuffix(basePath, "/") {
		basePath += "/"
	}
	finalURL := *base
	finalURL.Path = basePath + strings.TrimPrefix(objectKey, "/")
	return finalURL.String()
}

// AvatarContentType maps a file extension to the stored content type.
func AvatarContentType(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

func (c *cosClient) UploadFile(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) (string, error) {
	opts := &cos.ObjectPutOptions{
		ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{
			ContentType:   contentType,
			ContentLength: size,
		},
	}

	resp, err := c.client.Object.Put(ctx, objectKey, reader, opts)
	if err != nil {
		c.logger.Error("COS upload failed", zap.String("objectKey", objectKey), zap.Error(err))
		return "", fmt.Errorf("upload %q to COS: %w", objectKey, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("COS upload returned non-200",
			zap.String("objectKey", objectKey),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		return "", fmt.Errorf("COS upload status %d: %s", resp.StatusCode, body)
	}

	publicURL := PublicObjectURL(c.publicAccessURLBase, objectKey)
	c.logger.Info("COS upload done", zap.String("objectKey", objectKey), zap.String("url", publicURL))
	return publicURL, nil
}

func (c *cosClient) UploadAvatar(ctx context.Context, identityID string, fileName string, reader io.Reader, size int64) (string, error) {
	objectKey := fmt.Sprintf("avatars/%s/%d_%s%s", identityID, time.Now().UnixNano(), uuid.New().String(), strings.ToLower(filepath.Ext(fileName)))
	return c.UploadFile(ctx, objectKey, reader, size, AvatarContentType(fileName))
}
