package services

import (
	"context"
	"time"

	"marketly/internal/models"
	"marketly/internal/repositories/interfaces"
	"marketly/internal/utils"
	"marketly/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderService interface {
	ListMine(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Order, int64, error)
	GetMine(ctx context.Context, userID, orderID primitive.ObjectID) (*models.Order, error)

	// Admin
	List(ctx context.Context, filter interfaces.OrderFilter, params *utils.PaginationParams) ([]*models.Order, int64, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	// UpdateStatus walks the order lifecycle. Cancelling returns every line to stock.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, request *UpdateOrderStatusRequest, actor *Actor) (*models.Order, error)
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required,oneof=confirmed shipped delivered cancelled"`
	Note   string             `json:"note" validate:"max=500"`
}

type orderService struct {
	orderRepo interfaces.OrderRepository
	inventory InventoryService
	tx        Transactor
	logger    *logger.Logger
	now       func() time.Time
}

func NewOrderService(orderRepo interfaces.OrderRepository, inventory InventoryService, tx Transactor, logger *logger.Logger) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		inventory: inventory,
		tx:        transactorOrDirect(tx),
		logger:    logger,
		now:       time.Now,
	}
}

func (s *orderService) ListMine(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Order, int64, error) {
	return s.List(ctx, interfaces.OrderFilter{UserID: &userID}, params)
}

func (s *orderService) GetMine(ctx context.Context, userID, orderID primitive.ObjectID) (*models.Order, error) {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	// other customers' orders are reported as missing
	if order.UserID != userID {
		return nil, utils.NewNotFoundError("order")
	}
	return order, nil
}

func (s *orderService) List(ctx context.Context, filter interfaces.OrderFilter, params *utils.PaginationParams) ([]*models.Order, int64, error) {
	orders, total, err := s.orderRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, repoError(err, "order")
	}
	return orders, total, nil
}

func (s *orderService) Get(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "order")
	}
	return order, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, id primitive.ObjectID, request *UpdateOrderStatusRequest, actor *Actor) (*models.Order, error) {
	var updated *models.Order

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		order, err := s.orderRepo.GetByID(ctx, id)
		if err != nil {
			return repoError(err, "order")
		}
		if !order.Status.CanTransitionTo(request.Status) {
			return utils.NewUnprocessableError("cannot move order from " + string(order.Status) + " to " + string(request.Status))
		}

		updated, err = s.orderRepo.UpdateStatus(ctx, id, order.Status, models.StatusChange{
			Status:    request.Status,
			Note:      request.Note,
			ChangedBy: actor.IDPtr(),
			ChangedAt: s.now(),
		})
		if err != nil {
			return repoError(err, "order")
		}

		if request.Status != models.OrderCancelled {
			return nil
		}
		for _, item := range order.Items {
			if _, err := s.inventory.Adjust(ctx, StockAdjustment{
				ProductID: item.ProductID,
				Delta:     item.Quantity,
				Reason:    models.MovementReturn,
				Note:      "order " + order.Number + " cancelled",
				ActorID:   actor.IDPtr(),
				OrderID:   &order.ID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"order_id": id.Hex(),
		"status":   request.Status,
	}).Info("Order status updated")
	return updated, nil
}
