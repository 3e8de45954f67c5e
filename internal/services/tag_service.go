package services

import (
	"context"
	"strings"

	"marketly/internal/models"
	"marketly/internal/repositories/interfaces"
	"marketly/internal/utils"
	"marketly/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TagService interface {
	Create(ctx context.Context, request *CreateTagRequest) (*models.Tag, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Tag, error)
	Update(ctx context.Context, id primitive.ObjectID, request *UpdateTagRequest) (*models.Tag, error)
	Remove(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.Tag, int64, error)
}

type CreateTagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
	Slug string `json:"slug" validate:"omitempty,slug"`
}

type UpdateTagRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=50"`
	Slug *string `json:"slug" validate:"omitempty,slug"`
}

type tagService struct {
	tagRepo interfaces.TagRepository
	logger  *logger.Logger
}

func NewTagService(tagRepo interfaces.TagRepository, logger *logger.Logger) TagService {
	return &tagService{tagRepo: tagRepo, logger: logger}
}

func (s *tagService) Create(ctx context.Context, request *CreateTagRequest) (*models.Tag, error) {
	name := strings.TrimSpace(request.Name)
	slug := slugOrDefault(request.Slug, name)

	existing, err := s.tagRepo.FindAnyByName(ctx, name)
	if err != nil && !isNotFound(err) {
		return nil, repoError(err, "tag")
	}
	if existing != nil {
		if existing.IsActive() {
			return nil, utils.NewConflictError("tag with this name already exists")
		}
		restored, err := s.tagRepo.Restore(ctx, existing.ID, map[string]interface{}{"slug": slug})
		if err != nil {
			return nil, repoError(err, "tag")
		}
		return restored, nil
	}

	tag := &models.Tag{Name: name, Slug: slug}
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		return nil, repoError(err, "tag")
	}
	return tag, nil
}

func (s *tagService) Get(ctx context.Context, id primitive.ObjectID) (*models.Tag, error) {
	tag, err := s.tagRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "tag")
	}
	return tag, nil
}

func (s *tagService) Update(ctx context.Context, id primitive.ObjectID, request *UpdateTagRequest) (*models.Tag, error) {
	updates := map[string]interface{}{}
	if request.Name != nil {
		name := strings.TrimSpace(*request.Name)
		existing, err := s.tagRepo.FindAnyByName(ctx, name)
		if err != nil && !isNotFound(err) {
			return nil, repoError(err, "tag")
		}
		if existing != nil && existing.IsActive() && existing.ID != id {
			return nil, utils.NewConflictError("tag with this name already exists")
		}
		updates["name"] = name
	}
	setIf(updates, "slug", request.Slug)
	if len(updates) == 0 {
		return nil, errNothingToUpdate()
	}

	tag, err := s.tagRepo.Update(ctx, id, updates)
	if err != nil {
		return nil, repoError(err, "tag")
	}
	return tag, nil
}

func (s *tagService) Remove(ctx context.Context, id primitive.ObjectID) error {
	return repoError(s.tagRepo.Retire(ctx, id), "tag")
}

func (s *tagService) List(ctx context.Context, params *utils.PaginationParams) ([]*models.Tag, int64, error) {
	tags, total, err := s.tagRepo.List(ctx, params)
	if err != nil {
		return nil, 0, repoError(err, "tag")
	}
	return tags, total, nil
}
