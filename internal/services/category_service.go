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

// maxCategoryDepth bounds parent walks so a corrupted tree cannot loop forever.
const maxCategoryDepth = 32

type CategoryService interface {
	Create(ctx context.Context, request *CreateCategoryRequest) (*models.Category, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	Update(ctx context.Context, id primitive.ObjectID, request *UpdateCategoryRequest) (*models.Category, error)
	// Remove retires the category and every active descendant and returns how many were retired.
	Remove(ctx context.Context, id primitive.ObjectID) (int64, error)
	List(ctx context.Context, filter interfaces.CategoryFilter, params *utils.PaginationParams) ([]*models.Category, int64, error)
}

type CreateCategoryRequest struct {
	Name        string        `json:"name" validate:"required,min=1,max=100"`
	Slug        string        `json:"slug" validate:"omitempty,slug"`
	ParentID    string        `json:"parent_id" validate:"omitempty,object_id"`
	Description string        `json:"description" validate:"max=2000"`
	Image       string        `json:"image" validate:"max=500"`
	SortOrder   int           `json:"sort_order" validate:"min=0"`
	Status      models.Status `json:"status" validate:"omitempty,oneof=active inactive"`
}

type UpdateCategoryRequest struct {
	Name        *string        `json:"name" validate:"omitempty,min=1,max=100"`
	Slug        *string        `json:"slug" validate:"omitempty,slug"`
	ParentID    *string        `json:"parent_id" validate:"omitempty,object_id"`
	Description *string        `json:"description" validate:"omitempty,max=2000"`
	Image       *string        `json:"image" validate:"omitempty,max=500"`
	SortOrder   *int           `json:"sort_order" validate:"omitempty,min=0"`
	Status      *models.Status `json:"status" validate:"omitempty,oneof=active inactive"`
}

type categoryService struct {
	categoryRepo interfaces.CategoryRepository
	tx           Transactor
	logger       *logger.Logger
}

func NewCategoryService(categoryRepo interfaces.CategoryRepository, tx Transactor, logger *logger.Logger) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		tx:           transactorOrDirect(tx),
		logger:       logger,
	}
}

func (s *categoryService) Create(ctx context.Context, request *CreateCategoryRequest) (*models.Category, error) {
	parentID := objectIDPtr(request.ParentID)
	if parentID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *parentID); err != nil {
			return nil, repoError(err, "parent category")
		}
	}

	name := strings.TrimSpace(request.Name)
	category := &models.Category{
		Name:        name,
		Slug:        slugOrDefault(request.Slug, name),
		ParentID:    parentID,
		Description: request.Description,
		Image:       request.Image,
		SortOrder:   request.SortOrder,
		Status:      statusOrActive(request.Status),
	}

	existing, err := s.categoryRepo.FindAnyBySlug(ctx, category.Slug)
	if err != nil && !isNotFound(err) {
		return nil, repoError(err, "category")
	}
	if existing != nil {
		if existing.IsActive() {
			return nil, utils.NewConflictError("category with this slug already exists")
		}
		if parentID != nil && *parentID == existing.ID {
			return nil, utils.NewValidationError(utils.ErrValidationFailed, map[string]string{"parent_id": "category cannot be its own parent"})
		}

		restored, err := s.categoryRepo.Restore(ctx, existing.ID, map[string]interface{}{
			"name":        category.Name,
			"parent_id":   category.ParentID,
			"description": category.Description,
			"image":       category.Image,
			"sort_order":  category.SortOrder,
			"status":      category.Status,
		})
		if err != nil {
			return nil, repoError(err, "category")
		}
		s.logger.WithField("category_id", restored.ID.Hex()).Info("Category restored")
		return restored, nil
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, repoError(err, "category")
	}

	s.logger.WithField("category_id", category.ID.Hex()).Info("Category created")
	return category, nil
}

func (s *categoryService) Get(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "category")
	}
	return category, nil
}

func (s *categoryService) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, repoError(err, "category")
	}
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, id primitive.ObjectID, request *UpdateCategoryRequest) (*models.Category, error) {
	updates := map[string]interface{}{}
	setIf(updates, "name", request.Name)
	setIf(updates, "description", request.Description)
	setIf(updates, "image", request.Image)
	setIf(updates, "sort_order", request.SortOrder)
	setIf(updates, "status", request.Status)

	if request.Slug != nil {
		existing, err := s.categoryRepo.FindAnyBySlug(ctx, *request.Slug)
		if err != nil && !isNotFound(err) {
			return nil, repoError(err, "category")
		}
		if existing != nil && existing.IsActive() && existing.ID != id {
			return nil, utils.NewConflictError("category with this slug already exists")
		}
		updates["slug"] = *request.Slug
	}

	if request.ParentID != nil {
		if *request.ParentID == "" {
			updates["parent_id"] = nil
		} else {
			parentID := objectIDPtr(*request.ParentID)
			if err := s.checkParent(ctx, id, parentID); err != nil {
				return nil, err
			}
			updates["parent_id"] = parentID
		}
	}

	if len(updates) == 0 {
		return nil, errNothingToUpdate()
	}

	category, err := s.categoryRepo.Update(ctx, id, updates)
	if err != nil {
		return nil, repoError(err, "category")
	}
	return category, nil
}

// checkParent rejects a parent that is missing or that sits below id in the tree.
func (s *categoryService) checkParent(ctx context.Context, id primitive.ObjectID, parentID *primitive.ObjectID) error {
	invalid := utils.NewValidationError(utils.ErrValidationFailed, map[string]string{
		"parent_id": "category cannot be moved under itself or a descendant",
	})
	if parentID == nil {
		return utils.NewValidationError(utils.ErrValidationFailed, map[string]string{"parent_id": "Invalid ID format"})
	}

	current := parentID
	for depth := 0; current != nil && depth < maxCategoryDepth; depth++ {
		if *current == id {
			return invalid
		}
		parent, err := s.categoryRepo.GetByID(ctx, *current)
		if err != nil {
			return repoError(err, "parent category")
		}
		current = parent.ParentID
	}
	return nil
}

func (s *categoryService) Remove(ctx context.Context, id primitive.ObjectID) (int64, error) {
	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		return 0, repoError(err, "category")
	}

	var retired int64
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		ids := []primitive.ObjectID{id}
		frontier := []primitive.ObjectID{id}
		seen := map[primitive.ObjectID]bool{id: true}

		for depth := 0; len(frontier) > 0 && depth < maxCategoryDepth; depth++ {
			children, err := s.categoryRepo.ActiveChildIDs(ctx, frontier)
			if err != nil {
				return err
			}
			frontier = frontier[:0]
			for _, child := range children {
				if seen[child] {
					continue
				}
				seen[child] = true
				ids = append(ids, child)
				frontier = append(frontier, child)
			}
		}

		count, err := s.categoryRepo.RetireMany(ctx, ids)
		if err != nil {
			return err
		}
		retired = count
		return nil
	})
	if err != nil {
		return 0, repoError(err, "category")
	}

	s.logger.WithFields(map[string]interface{}{
		"category_id": id.Hex(),
		"retired":     retired,
	}).Info("Category removed")
	return retired, nil
}

func (s *categoryService) List(ctx context.Context, filter interfaces.CategoryFilter, params *utils.PaginationParams) ([]*models.Category, int64, error) {
	categories, total, err := s.categoryRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, repoError(err, "category")
	}
	return categories, total, nil
}
