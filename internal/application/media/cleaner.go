package media

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImageCleaner removes blobs that records no longer reference. Failures are
// logged and never returned: the record change has already been committed.
type ImageCleaner struct {
	storage ObjectStorage
	logger  *zap.Logger
}

// NewImageCleaner creates an ImageCleaner
func NewImageCleaner(storage ObjectStorage, logger *zap.Logger) *ImageCleaner {
	return &ImageCleaner{storage: storage, logger: logger}
}

// Remove deletes the tenant's blobs behind urls. Empty URLs and URLs outside
// the tenant's prefix are skipped.
func (c *ImageCleaner) Remove(ctx context.Context, tenantID uuid.UUID, urls ...string) {
	if c == nil {
		return
	}
	for _, u := range urls {
		if u == "" {
			continue
		}
		key, ok := tenantKey(c.storage, tenantID, u)
		if !ok {
			c.logger.Debug("Skipping image outside tenant storage",
				zap.String("tenant_id", tenantID.String()), zap.String("url", u))
			continue
		}
		if err := c.storage.Delete(ctx, key); err != nil {
			c.logger.Warn("Image cleanup failed", zap.String("key", key), zap.Error(err))
			continue
		}
		if thumbKey, ok := thumbnailKey(key); ok {
			if err := c.storage.Delete(ctx, thumbKey); err != nil {
				c.logger.Warn("Thumbnail cleanup failed", zap.String("key", thumbKey), zap.Error(err))
			}
		}
	}
}
