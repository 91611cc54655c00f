// Package media handles blob uploads for tenant images and receipts.
package media

import (
	"context"
	"net/http"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ObjectStorage is the blob store uploads are written to
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	PublicURL(key string) string
	// KeyFromURL maps a URL returned by PublicURL back to its key
	KeyFromURL(rawURL string) (string, bool)
}

// Thumbnailer produces a reduced copy of an image
type Thumbnailer interface {
	Supports(contentType string) bool
	Thumbnail(data []byte, contentType string) ([]byte, error)
}

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

var folderPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,39}$`)

// DefaultFolder is used when an upload names no folder
const DefaultFolder = "general"

// Upload errors
var (
	ErrFileRequired    = shared.NewDomainError("FILE_REQUIRED", "No se recibió ningún archivo")
	ErrFileTooLarge    = shared.NewDomainError("FILE_TOO_LARGE", "El archivo supera el tamaño máximo permitido")
	ErrUnsupportedType = shared.NewDomainError("UNSUPPORTED_FILE_TYPE", "Tipo de archivo no permitido. Use JPG, PNG, WEBP o GIF")
	ErrInvalidFolder   = shared.NewDomainError("INVALID_FOLDER", "Carpeta inválida")
	ErrForeignURL      = shared.NewDomainError("INVALID_URL", "La URL no pertenece a este comercio")
)

// UploadService stores images under the tenant's prefix
type UploadService struct {
	storage     ObjectStorage
	thumbnailer Thumbnailer
	maxSize     int64
	logger      *zap.Logger
}

// NewUploadService creates an UploadService. thumbnailer may be nil.
func NewUploadService(storage ObjectStorage, thumbnailer Thumbnailer, maxSize int64, logger *zap.Logger) *UploadService {
	return &UploadService{
		storage:     storage,
		thumbnailer: thumbnailer,
		maxSize:     maxSize,
		logger:      logger,
	}
}

// MaxSize returns the upload size limit in bytes
func (s *UploadService) MaxSize() int64 {
	return s.maxSize
}

// Upload validates and stores a file at tenants/{tenantID}/{folder}/{uuid}{ext}.
// JPEG and PNG files also get a thumbnail; a failed thumbnail does not fail the upload.
func (s *UploadService) Upload(ctx context.Context, tenantID uuid.UUID, in UploadInput) (*UploadResult, error) {
	if len(in.Data) == 0 {
		return nil, ErrFileRequired
	}
	if int64(len(in.Data)) > s.maxSize {
		return nil, ErrFileTooLarge
	}
	folder, err := normalizeFolder(in.Folder)
	if err != nil {
		return nil, err
	}

	contentType := http.DetectContentType(in.Data)
	ext, ok := allowedTypes[contentType]
	if !ok {
		return nil, ErrUnsupportedType
	}

	name := uuid.New().String()
	key := path.Join(tenantPrefix(tenantID), folder, name+ext)
	if err := s.storage.Put(ctx, key, in.Data, contentType); err != nil {
		return nil, err
	}

	result := &UploadResult{
		URL:         s.storage.PublicURL(key),
		Key:         key,
		ContentType: contentType,
		Size:        int64(len(in.Data)),
	}

	if s.thumbnailer != nil && s.thumbnailer.Supports(contentType) {
		thumb, err := s.thumbnailer.Thumbnail(in.Data, contentType)
		if err == nil {
			thumbKey := path.Join(tenantPrefix(tenantID), folder, "thumbs", name+ext)
			err = s.storage.Put(ctx, thumbKey, thumb, contentType)
			if err == nil {
				result.ThumbnailURL = s.storage.PublicURL(thumbKey)
			}
		}
		if err != nil {
			s.logger.Warn("Thumbnail generation failed",
				zap.String("key", key),
				zap.Error(err))
		}
	}

	s.logger.Info("File uploaded",
		zap.String("tenant_id", tenantID.String()),
		zap.String("key", key),
		zap.Int64("size", result.Size))
	return result, nil
}

// Delete removes a previously uploaded blob given its public URL.
// The URL must point inside the tenant's prefix. Its thumbnail is removed best-effort.
func (s *UploadService) Delete(ctx context.Context, tenantID uuid.UUID, rawURL string) error {
	key, err := s.ownedKey(tenantID, rawURL)
	if err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		return err
	}
	if thumbKey, ok := thumbnailKey(key); ok {
		if err := s.storage.Delete(ctx, thumbKey); err != nil {
			s.logger.Warn("Thumbnail delete failed", zap.String("key", thumbKey), zap.Error(err))
		}
	}
	return nil
}

func (s *UploadService) ownedKey(tenantID uuid.UUID, rawURL string) (string, error) {
	if strings.TrimSpace(rawURL) == "" {
		return "", shared.NewDomainError("URL_REQUIRED", "La URL es obligatoria")
	}
	key, ok := tenantKey(s.storage, tenantID, rawURL)
	if !ok {
		return "", ErrForeignURL
	}
	return key, nil
}

// tenantKey maps rawURL to its storage key when it lies under the tenant's prefix
func tenantKey(storage ObjectStorage, tenantID uuid.UUID, rawURL string) (string, bool) {
	key, ok := storage.KeyFromURL(rawURL)
	if !ok || !strings.HasPrefix(key, tenantPrefix(tenantID)+"/") {
		return "", false
	}
	return key, true
}

func tenantPrefix(tenantID uuid.UUID) string {
	return "tenants/" + tenantID.String()
}

func normalizeFolder(folder string) (string, error) {
	folder = strings.ToLower(strings.Trim(strings.TrimSpace(folder), "/"))
	if folder == "" {
		return DefaultFolder, nil
	}
	if !folderPattern.MatchString(folder) || folder == "thumbs" {
		return "", ErrInvalidFolder
	}
	return folder, nil
}

// thumbnailKey returns tenants/{t}/{folder}/thumbs/{file} for tenants/{t}/{folder}/{file}
func thumbnailKey(key string) (string, bool) {
	dir, file := path.Split(key)
	if path.Base(dir) == "thumbs" {
		return "", false
	}
	switch path.Ext(file) {
	case ".jpg", ".png":
		return path.Join(dir, "thumbs", file), true
	}
	return "", false
}
