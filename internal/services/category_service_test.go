package services

import (
	"context"
	"testing"
	"time"

	"marketly/internal/models"
	"marketly/internal/repositories/interfaces"
	"marketly/internal/utils"
	"marketly/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memCategories struct {
	interfaces.CategoryRepository
	items map[primitive.ObjectID]*models.Category
}

func (m *memCategories) Create(_ context.Context, category *models.Category) error {
	category.ID = primitive.NewObjectID()
	category.Stamp(time.Now())
	m.items[category.ID] = category
	return nil
}

func (m *memCategories) GetByID(_ context.Context, id primitive.ObjectID) (*models.Category, error) {
	if category, ok := m.items[id]; ok && category.IsActive() {
		return category, nil
	}
	return nil, interfaces.ErrNotFound
}

func (m *memCategories) FindAnyBySlug(_ context.Context, slug string) (*models.Category, error) {
	for _, category := range m.items {
		if category.Slug == slug {
			return category, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (m *memCategories) Update(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Category, error) {
	category := m.items[id]
	if parent, ok := updates["parent_id"].(*primitive.ObjectID); ok {
		category.ParentID = parent
	}
	return category, nil
}

func (m *memCategories) Restore(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Category, error) {
	category := m.items[id]
	restore(&category.Lifecycle)
	category.ParentID = updates["parent_id"].(*primitive.ObjectID)
	return category, nil
}

func (m *memCategories) ActiveChildIDs(_ context.Context, parentIDs []primitive.ObjectID) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	for _, category := range m.items {
		if category.IsActive() && containsID(parentIDs, category.ParentID) {
			ids = append(ids, category.ID)
		}
	}
	return ids, nil
}

func (m *memCategories) RetireMany(_ context.Context, ids []primitive.ObjectID) (int64, error) {
	var count int64
	for _, id := range ids {
		if category, ok := m.items[id]; ok && category.IsActive() {
			retire(&category.Lifecycle)
			count++
		}
	}
	return count, nil
}

func newCategoryTree(t *testing.T) (CategoryService, *memCategories, map[string]*models.Category) {
	t.Helper()
	repo := &memCategories{items: map[primitive.ObjectID]*models.Category{}}
	service := NewCategoryService(repo, nil, logger.NewNop())
	ctx := context.Background()

	nodes := map[string]*models.Category{}
	create := func(name, parent string) {
		request := &CreateCategoryRequest{Name: name}
		if parent != "" {
			request.ParentID = nodes[parent].ID.Hex()
		}
		category, err := service.Create(ctx, request)
		require.NoError(t, err)
		nodes[name] = category
	}
	create("Brakes", "")
	create("Brake Pads", "Brakes")
	create("Ceramic Pads", "Brake Pads")
	create("Rotors", "Brakes")
	create("Filters", "")
	return service, repo, nodes
}

func TestCategoryService_RemoveRetiresSubtree(t *testing.T) {
	service, repo, nodes := newCategoryTree(t)

	retired, err := service.Remove(context.Background(), nodes["Brakes"].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), retired)
	for _, name := range []string{"Brakes", "Brake Pads", "Ceramic Pads", "Rotors"} {
		assert.False(t, repo.items[nodes[name].ID].IsActive(), name)
	}
	assert.True(t, repo.items[nodes["Filters"].ID].IsActive())
}

func TestCategoryService_RejectsCycles(t *testing.T) {
	service, _, nodes := newCategoryTree(t)

	descendant := nodes["Ceramic Pads"].ID.Hex()
	_, err := service.Update(context.Background(), nodes["Brakes"].ID, &UpdateCategoryRequest{ParentID: &descendant})
	appErr := utils.AsAppError(err)
	assert.Equal(t, utils.CodeValidation, appErr.Code)
	assert.Contains(t, appErr.Details, "parent_id")

	self := nodes["Brakes"].ID.Hex()
	_, err = service.Update(context.Background(), nodes["Brakes"].ID, &UpdateCategoryRequest{ParentID: &self})
	assert.Equal(t, utils.CodeValidation, utils.AsAppError(err).Code)

	sibling := nodes["Filters"].ID.Hex()
	moved, err := service.Update(context.Background(), nodes["Rotors"].ID, &UpdateCategoryRequest{ParentID: &sibling})
	require.NoError(t, err)
	assert.Equal(t, nodes["Filters"].ID, *moved.ParentID)
}

func TestCategoryService_CreateRestoresBySlug(t *testing.T) {
	service, repo, nodes := newCategoryTree(t)
	_, err := service.Remove(context.Background(), nodes["Brake Pads"].ID)
	require.NoError(t, err)

	restored, err := service.Create(context.Background(), &CreateCategoryRequest{Name: "Brake Pads"})
	require.NoError(t, err)
	assert.Equal(t, nodes["Brake Pads"].ID, restored.ID)
	assert.Nil(t, restored.ParentID)
	assert.False(t, repo.items[nodes["Ceramic Pads"].ID].IsActive())

	_, err = service.Create(context.Background(), &CreateCategoryRequest{Name: "Filters"})
	assert.Equal(t, utils.CodeConflict, utils.AsAppError(err).Code)
}

func TestCategoryService_CreateUnderMissingParent(t *testing.T) {
	service, _, _ := newCategoryTree(t)

	_, err := service.Create(context.Background(), &CreateCategoryRequest{Name: "Orphan", ParentID: primitive.NewObjectID().Hex()})
	assert.Equal(t, utils.CodeNotFound, utils.AsAppError(err).Code)
}
