package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"marketly/internal/models"
	"marketly/internal/repositories/interfaces"
	"marketly/internal/utils"
	"marketly/pkg/logger"
	"marketly/pkg/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MediaService interface {
	// PresignUpload records the media document and returns a signed URL the client
	// uploads the bytes to.
	PresignUpload(ctx context.Context, request *PresignUploadRequest, actor *Actor) (*MediaUpload, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Media, error)
	DownloadURL(ctx context.Context, id primitive.ObjectID) (*storage.PresignedURL, error)
	Remove(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, filter interfaces.MediaFilter, params *utils.PaginationParams) ([]*models.Media, int64, error)
}

type PresignUploadRequest struct {
	FileName    string `json:"file_name" validate:"required,min=1,max=255"`
	ContentType string `json:"content_type" validate:"required"`
	Size        int64  `json:"size" validate:"required,gt=0"`
	Folder      string `json:"folder" validate:"omitempty,slug"`
	Alt         string `json:"alt" validate:"max=200"`
}

type MediaUpload struct {
	Media     *models.Media     `json:"media"`
	UploadURL string            `json:"upload_url"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers,omitempty"`
	ExpiresAt time.Time         `json:"expires_at"`
}

type MediaSettings struct {
	PresignTTL  time.Duration
	MaxFileSize int64
}

type mediaService struct {
	mediaRepo interfaces.MediaRepository
	provider  storage.StorageProvider
	settings  MediaSettings
	logger    *logger.Logger
	now       func() time.Time
}

func NewMediaService(mediaRepo interfaces.MediaRepository, provider storage.StorageProvider, settings MediaSettings, logger *logger.Logger) MediaService {
	if settings.PresignTTL <= 0 {
		settings.PresignTTL = 15 * time.Minute
	}
	if settings.MaxFileSize <= 0 {
		settings.MaxFileSize = utils.MaxMediaSize
	}

	return &mediaService{
		mediaRepo: mediaRepo,
		provider:  provider,
		settings:  settings,
		logger:    logger,
		now:       time.Now,
	}
}

// objectKey lays uploads out as folder/yyyy/mm/uuid.ext.
func (s *mediaService) objectKey(folder, ext string) string {
	now := s.now().UTC()
	return path.Join(folder, fmt.Sprintf("%04d", now.Year()), fmt.Sprintf("%02d", int(now.Month())), uuid.NewString()+"."+ext)
}

func (s *mediaService) PresignUpload(ctx context.Context, request *PresignUploadRequest, actor *Actor) (*MediaUpload, error) {
	contentType := strings.ToLower(strings.TrimSpace(request.ContentType))
	ext, ok := utils.AllowedMediaTypes[contentType]
	if !ok {
		return nil, utils.NewValidationError(utils.ErrValidationFailed, map[string]string{"content_type": "unsupported media type"})
	}
	if request.Size > s.settings.MaxFileSize {
		return nil, utils.NewValidationError(utils.ErrValidationFailed, map[string]string{
			"size": fmt.Sprintf("file exceeds the %d byte limit", s.settings.MaxFileSize),
		})
	}
	if s.provider == nil {
		return nil, utils.NewInternalError(fmt.Errorf("no storage provider configured"))
	}

	folder := request.Folder
	if folder == "" {
		folder = "uploads"
	}
	key := s.objectKey(folder, ext)
	signed, err := s.provider.PresignUpload(ctx, &storage.PresignRequest{
		Key:         key,
		ContentType: contentType,
		Size:        request.Size,
		Expiration:  s.settings.PresignTTL,
	})
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	media := &models.Media{
		Key:         key,
		URL:         s.provider.PublicURL(key),
		FileName:    request.FileName,
		ContentType: contentType,
		Size:        request.Size,
		Folder:      folder,
		Alt:         request.Alt,
	}
	if actor != nil {
		media.UploadedBy = actor.UserID
	}
	if err := s.mediaRepo.Create(ctx, media); err != nil {
		return nil, repoError(err, "media")
	}

	s.logger.WithFields(map[string]interface{}{
		"media_id":     media.ID.Hex(),
		"key":          key,
		"content_type": contentType,
		"size":         request.Size,
	}).Info("Media upload presigned")

	return &MediaUpload{
		Media:     media,
		UploadURL: signed.URL,
		Method:    signed.Method,
		Headers:   signed.Headers,
		ExpiresAt: signed.ExpiresAt,
	}, nil
}

func (s *mediaService) Get(ctx context.Context, id primitive.ObjectID) (*models.Media, error) {
	media, err := s.mediaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "media")
	}
	return media, nil
}

func (s *mediaService) DownloadURL(ctx context.Context, id primitive.ObjectID) (*storage.PresignedURL, error) {
	media, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.provider == nil {
		return nil, utils.NewInternalError(fmt.Errorf("no storage provider configured"))
	}

	signed, err := s.provider.PresignDownload(ctx, media.Key, s.settings.PresignTTL)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}
	return signed, nil
}

// Remove retires the record. The stored object is left in the bucket.
func (s *mediaService) Remove(ctx context.Context, id primitive.ObjectID) error {
	return repoError(s.mediaRepo.Retire(ctx, id), "media")
}

func (s *mediaService) List(ctx context.Context, filter interfaces.MediaFilter, params *utils.PaginationParams) ([]*models.Media, int64, error) {
	media, total, err := s.mediaRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, repoError(err, "media")
	}
	return media, total, nil
}
