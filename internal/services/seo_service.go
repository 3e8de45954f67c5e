package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"marketly/internal/models"
	"marketly/internal/repositories/interfaces"
	"marketly/internal/utils"
	"marketly/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SeoService interface {
	Create(ctx context.Context, request *CreateSeoRequest) (*models.SeoRecord, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.SeoRecord, error)
	Update(ctx context.Context, id primitive.ObjectID, request *UpdateSeoRequest) (*models.SeoRecord, error)
	Remove(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, entityType models.SeoEntityType, params *utils.PaginationParams) ([]*models.SeoRecord, int64, error)

	// Resolve looks a record up by slug, or by entity when no slug is given, reading
	// through the cache.
	Resolve(ctx context.Context, request *SeoResolveRequest) (*models.SeoRecord, error)
}

type CreateSeoRequest struct {
	EntityType      models.SeoEntityType `json:"entity_type" validate:"required,oneof=global product category brand page"`
	EntityID        string               `json:"entity_id" validate:"seo_entity,max=100"`
	Slug            string               `json:"slug" validate:"omitempty,slug"`
	MetaTitle       string               `json:"meta_title" validate:"required,min=1,max=70"`
	MetaDescription string               `json:"meta_description" validate:"max=160"`
	Keywords        []string             `json:"keywords" validate:"omitempty,max=20,dive,min=1,max=50"`
	CanonicalURL    string               `json:"canonical_url" validate:"omitempty,url"`
	OGImage         string               `json:"og_image" validate:"omitempty,url"`
	Robots          string               `json:"robots" validate:"max=50"`
}

type UpdateSeoRequest struct {
	Slug            *string   `json:"slug" validate:"omitempty,slug"`
	MetaTitle       *string   `json:"meta_title" validate:"omitempty,min=1,max=70"`
	MetaDescription *string   `json:"meta_description" validate:"omitempty,max=160"`
	Keywords        *[]string `json:"keywords" validate:"omitempty,max=20,dive,min=1,max=50"`
	CanonicalURL    *string   `json:"canonical_url" validate:"omitempty,url"`
	OGImage         *string   `json:"og_image" validate:"omitempty,url"`
	Robots          *string   `json:"robots" validate:"omitempty,max=50"`
}

type SeoResolveRequest struct {
	Slug       string               `form:"slug" json:"slug" validate:"required_without=EntityType,omitempty,slug"`
	EntityType models.SeoEntityType `form:"entity_type" json:"entity_type" validate:"omitempty,oneof=global product category brand page"`
	EntityID   string               `form:"entity_id" json:"entity_id" validate:"seo_entity,max=100"`
}

type seoService struct {
	seoRepo  interfaces.SeoRepository
	cache    CacheService
	cacheTTL time.Duration
	logger   *logger.Logger
}

// NewSeoService builds the service. A nil cache disables read-through caching.
func NewSeoService(seoRepo interfaces.SeoRepository, cache CacheService, cacheTTL time.Duration, logger *logger.Logger) SeoService {
	return &seoService{
		seoRepo:  seoRepo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

func seoEntityID(entityType models.SeoEntityType, entityID string) string {
	if entityType == models.SeoEntityGlobal {
		return ""
	}
	return entityID
}

func seoSlugKey(slug string) string {
	return utils.CacheSEOSlugPrefix + slug
}

func seoQueryKey(entityType models.SeoEntityType, entityID string) string {
	sum := sha256.Sum256([]byte(string(entityType) + "|" + entityID))
	return utils.CacheSEOQueryPrefix + hex.EncodeToString(sum[:])
}

func (s *seoService) checkSlug(ctx context.Context, slug string, self primitive.ObjectID) error {
	if slug == "" {
		return nil
	}
	existing, err := s.seoRepo.GetBySlug(ctx, slug)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return repoError(err, "seo record")
	}
	if existing.ID != self {
		return utils.NewConflictError("seo slug already in use")
	}
	return nil
}

func (s *seoService) Create(ctx context.Context, request *CreateSeoRequest) (*models.SeoRecord, error) {
	entityID := seoEntityID(request.EntityType, request.EntityID)

	existing, err := s.seoRepo.FindAnyByEntity(ctx, request.EntityType, entityID)
	if err != nil && !isNotFound(err) {
		return nil, repoError(err, "seo record")
	}
	if existing != nil && existing.IsActive() {
		return nil, utils.NewConflictError("seo record already exists for this entity")
	}

	self := primitive.NilObjectID
	if existing != nil {
		self = existing.ID
	}
	if err := s.checkSlug(ctx, request.Slug, self); err != nil {
		return nil, err
	}

	var record *models.SeoRecord
	if existing != nil {
		record, err = s.seoRepo.Restore(ctx, existing.ID, map[string]interface{}{
			"slug":             request.Slug,
			"meta_title":       request.MetaTitle,
			"meta_description": request.MetaDescription,
			"keywords":         request.Keywords,
			"canonical_url":    request.CanonicalURL,
			"og_image":         request.OGImage,
			"robots":           request.Robots,
		})
		if err != nil {
			return nil, repoError(err, "seo record")
		}
		s.logger.WithField("seo_id", record.ID.Hex()).Info("SEO record restored")
	} else {
		record = &models.SeoRecord{
			EntityType:      request.EntityType,
			EntityID:        entityID,
			Slug:            request.Slug,
			MetaTitle:       request.MetaTitle,
			MetaDescription: request.MetaDescription,
			Keywords:        request.Keywords,
			CanonicalURL:    request.CanonicalURL,
			OGImage:         request.OGImage,
			Robots:          request.Robots,
		}
		if err := s.seoRepo.Create(ctx, record); err != nil {
			return nil, repoError(err, "seo record")
		}
		s.logger.WithField("seo_id", record.ID.Hex()).Info("SEO record created")
	}

	s.invalidate(ctx)
	return record, nil
}

func (s *seoService) Get(ctx context.Context, id primitive.ObjectID) (*models.SeoRecord, error) {
	record, err := s.seoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "seo record")
	}
	return record, nil
}

func (s *seoService) Update(ctx context.Context, id primitive.ObjectID, request *UpdateSeoRequest) (*models.SeoRecord, error) {
	updates := map[string]interface{}{}
	setIf(updates, "slug", request.Slug)
	setIf(updates, "meta_title", request.MetaTitle)
	setIf(updates, "meta_description", request.MetaDescription)
	setIf(updates, "keywords", request.Keywords)
	setIf(updates, "canonical_url", request.CanonicalURL)
	setIf(updates, "og_image", request.OGImage)
	setIf(updates, "robots", request.Robots)
	if len(updates) == 0 {
		return nil, errNothingToUpdate()
	}

	if request.Slug != nil {
		if err := s.checkSlug(ctx, *request.Slug, id); err != nil {
			return nil, err
		}
	}

	record, err := s.seoRepo.Update(ctx, id, updates)
	if err != nil {
		return nil, repoError(err, "seo record")
	}

	s.invalidate(ctx)
	return record, nil
}

func (s *seoService) Remove(ctx context.Context, id primitive.ObjectID) error {
	if err := s.seoRepo.Retire(ctx, id); err != nil {
		return repoError(err, "seo record")
	}
	s.invalidate(ctx)
	return nil
}

func (s *seoService) List(ctx context.Context, entityType models.SeoEntityType, params *utils.PaginationParams) ([]*models.SeoRecord, int64, error) {
	records, total, err := s.seoRepo.List(ctx, entityType, params)
	if err != nil {
		return nil, 0, repoError(err, "seo record")
	}
	return records, total, nil
}

func (s *seoService) Resolve(ctx context.Context, request *SeoResolveRequest) (*models.SeoRecord, error) {
	var key string
	var load func() (*models.SeoRecord, error)

	if request.Slug != "" {
		key = seoSlugKey(request.Slug)
		load = func() (*models.SeoRecord, error) { return s.seoRepo.GetBySlug(ctx, request.Slug) }
	} else {
		entityID := seoEntityID(request.EntityType, request.EntityID)
		key = seoQueryKey(request.EntityType, entityID)
		load = func() (*models.SeoRecord, error) { return s.seoRepo.GetByEntity(ctx, request.EntityType, entityID) }
	}

	if s.cache != nil {
		var cached models.SeoRecord
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.logger.WithError(err).WithField("cache_key", key).Warn("SEO cache read failed")
		}
	}

	record, err := load()
	if err != nil {
		return nil, repoError(err, "seo record")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, record, s.cacheTTL); err != nil {
			s.logger.WithError(err).WithField("cache_key", key).Warn("SEO cache write failed")
		}
	}

	return record, nil
}

func (s *seoService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, utils.CacheSEOPrefix+"*"); err != nil {
		s.logger.WithError(err).Warn("SEO cache invalidation failed")
	}
}
