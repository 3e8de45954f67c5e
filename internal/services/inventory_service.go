package services

import (
	"context"
	"time"

	"marketly/internal/models"
	"marketly/internal/repositories/interfaces"
	"marketly/internal/utils"
	"marketly/pkg/logger"
	"marketly/pkg/queue"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InventoryService interface {
	// Adjust applies a stock delta atomically and records the movement. Stock never
	// goes below zero.
	Adjust(ctx context.Context, adjustment StockAdjustment) (*models.InventoryMovement, error)
	Movements(ctx context.Context, productID primitive.ObjectID, params *utils.PaginationParams) ([]*models.InventoryMovement, int64, error)
	LowStock(ctx context.Context, params *utils.PaginationParams) ([]*models.Product, int64, error)
}

// JobQueue accepts background jobs.
type JobQueue interface {
	Enqueue(ctx context.Context, jobType string, payload interface{}) (*queue.Job, error)
}

type StockAdjustment struct {
	ProductID primitive.ObjectID
	Delta     int
	Reason    models.MovementReason
	Note      string
	ActorID   *primitive.ObjectID
	OrderID   *primitive.ObjectID
}

type AdjustStockRequest struct {
	Delta  int                   `json:"delta" validate:"required,ne=0"`
	Reason models.MovementReason `json:"reason" validate:"required,oneof=restock adjustment return damage"`
	Note   string                `json:"note" validate:"max=500"`
}

type inventoryService struct {
	productRepo      interfaces.ProductRepository
	movementRepo     interfaces.InventoryMovementRepository
	jobs             JobQueue
	defaultThreshold int
	logger           *logger.Logger
	now              func() time.Time
}

// NewInventoryService builds the service. defaultThreshold applies to products without
// their own low stock threshold; a nil queue disables low stock alerts.
func NewInventoryService(productRepo interfaces.ProductRepository, movementRepo interfaces.InventoryMovementRepository, jobs JobQueue, defaultThreshold int, logger *logger.Logger) InventoryService {
	return &inventoryService{
		productRepo:      productRepo,
		movementRepo:     movementRepo,
		jobs:             jobs,
		defaultThreshold: defaultThreshold,
		logger:           logger,
		now:              time.Now,
	}
}

func (s *inventoryService) Adjust(ctx context.Context, adjustment StockAdjustment) (*models.InventoryMovement, error) {
	if adjustment.Delta == 0 {
		return nil, utils.NewValidationError(utils.ErrValidationFailed, map[string]string{"delta": "delta must not be zero"})
	}

	product, err := s.productRepo.AdjustStock(ctx, adjustment.ProductID, adjustment.Delta)
	if err != nil {
		return nil, repoError(err, "product")
	}

	movement := &models.InventoryMovement{
		ProductID:  product.ID,
		Delta:      adjustment.Delta,
		StockAfter: product.Stock,
		Reason:     adjustment.Reason,
		Note:       adjustment.Note,
		ActorID:    adjustment.ActorID,
		OrderID:    adjustment.OrderID,
		CreatedAt:  s.now(),
	}
	if err := s.movementRepo.Create(ctx, movement); err != nil {
		return nil, repoError(err, "inventory movement")
	}

	s.logger.WithFields(map[string]interface{}{
		"product_id":  product.ID.Hex(),
		"delta":       adjustment.Delta,
		"stock_after": product.Stock,
		"reason":      adjustment.Reason,
	}).Info("Stock adjusted")

	if adjustment.Delta < 0 {
		s.alertIfLow(ctx, product)
	}

	return movement, nil
}

func (s *inventoryService) threshold(product *models.Product) int {
	if product.LowStockThreshold > 0 {
		return product.LowStockThreshold
	}
	return s.defaultThreshold
}

// alertIfLow enqueues a low stock job. Queue failures never fail the adjustment.
func (s *inventoryService) alertIfLow(ctx context.Context, product *models.Product) {
	threshold := s.threshold(product)
	if s.jobs == nil || product.Stock > threshold {
		return
	}

	alert := models.LowStockAlert{
		ProductID: product.ID,
		SKU:       product.SKU,
		Name:      product.Name,
		Stock:     product.Stock,
		Threshold: threshold,
	}
	job, err := s.jobs.Enqueue(ctx, utils.JobInventoryLowStock, alert)
	if err != nil {
		s.logger.WithError(err).WithField("product_id", product.ID.Hex()).Error("Failed to enqueue low stock alert")
		return
	}

	s.logger.WithField("job_id", job.ID).WithField("sku", product.SKU).Info("Low stock alert enqueued")
}

func (s *inventoryService) Movements(ctx context.Context, productID primitive.ObjectID, params *utils.PaginationParams) ([]*models.InventoryMovement, int64, error) {
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, 0, repoError(err, "product")
	}

	movements, total, err := s.movementRepo.ListByProduct(ctx, productID, params)
	if err != nil {
		return nil, 0, repoError(err, "inventory movement")
	}
	return movements, total, nil
}

func (s *inventoryService) LowStock(ctx context.Context, params *utils.PaginationParams) ([]*models.Product, int64, error) {
	products, total, err := s.productRepo.LowStock(ctx, params)
	if err != nil {
		return nil, 0, repoError(err, "product")
	}
	return products, total, nil
}
