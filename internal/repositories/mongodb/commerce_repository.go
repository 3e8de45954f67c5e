package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketly/internal/models"
	"marketly/internal/repositories/interfaces"
	"marketly/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type inventoryMovementRepository struct {
	collection *mongo.Collection
}

func NewInventoryMovementRepository(db *mongo.Database) interfaces.InventoryMovementRepository {
	return &inventoryMovementRepository{collection: db.Collection("inventory_movements")}
}

func (r *inventoryMovementRepository) Create(ctx context.Context, movement *models.InventoryMovement) error {
	movement.ID = primitive.NewObjectID()
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = time.Now()
	}

	if _, err := r.collection.InsertOne(ctx, movement); err != nil {
		return fmt.Errorf("failed to record inventory movement: %w", err)
	}
	return nil
}

func (r *inventoryMovementRepository) ListByProduct(ctx context.Context, productID primitive.ObjectID, params *utils.PaginationParams) ([]*models.InventoryMovement, int64, error) {
	filter := bson.M{"product_id": productID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count inventory movements: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find inventory movements: %w", err)
	}
	defer cursor.Close(ctx)

	movements := make([]*models.InventoryMovement, 0)
	if err := cursor.All(ctx, &movements); err != nil {
		return nil, 0, fmt.Errorf("failed to decode inventory movements: %w", err)
	}

	return movements, total, nil
}

type cartRepository struct {
	collection *mongo.Collection
}

func NewCartRepository(db *mongo.Database) interfaces.CartRepository {
	return &cartRepository{collection: db.Collection("carts")}
}

func (r *cartRepository) GetByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return &cart, nil
}

func (r *cartRepository) Save(ctx context.Context, cart *models.Cart) error {
	now := time.Now()
	cart.UpdatedAt = now
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"user_id": cart.UserID},
		bson.M{
			"$set": bson.M{"items": cart.Items, "updated_at": now},
			"$setOnInsert": bson.M{
				"_id":        primitive.NewObjectID(),
				"created_at": now,
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (r *cartRepository) Clear(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"items": []models.CartItem{}, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

type orderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) interfaces.OrderRepository {
	return &orderRepository{collection: db.Collection("orders")}
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	now := time.Now()
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	order.CreatedAt = now
	order.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, order); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("failed to create order: %w", interfaces.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, from models.OrderStatus, change models.StatusChange) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{
			"$set":  bson.M{"status": change.Status, "updated_at": change.ChangedAt},
			"$push": bson.M{"status_history": change},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)
	if err == nil {
		return &order, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, interfaces.ErrStaleStatus
}

func (r *orderRepository) CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"user_id": userID,
		"status":  bson.M{"$ne": models.OrderCancelled},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

func (r *orderRepository) CountByUserAndCoupon(ctx context.Context, userID, couponID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"user_id":   userID,
		"coupon_id": couponID,
		"status":    bson.M{"$ne": models.OrderCancelled},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count coupon orders: %w", err)
	}
	return count, nil
}

func (r *orderRepository) List(ctx context.Context, filter interfaces.OrderFilter, params *utils.PaginationParams) ([]*models.Order, int64, error) {
	query := bson.M{}
	if filter.UserID != nil {
		query["user_id"] = *filter.UserID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	created := bson.M{}
	if filter.From != nil {
		created["$gte"] = *filter.From
	}
	if filter.To != nil {
		created["$lt"] = *filter.To
	}
	if len(created) > 0 {
		query["created_at"] = created
	}
	if params.Search != "" {
		query["number"] = bson.M{"$regex": "^" + params.Search}
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	cursor, err := r.collection.Find(ctx, query, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := make([]*models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, fmt.Errorf("failed to decode orders: %w", err)
	}

	return orders, total, nil
}

// reportMatch selects non-cancelled orders created inside the window.
func reportMatch(window interfaces.ReportRange) bson.D {
	return bson.D{{Key: "$match", Value: bson.M{
		"status":     bson.M{"$ne": models.OrderCancelled},
		"created_at": bson.M{"$gte": window.From, "$lt": window.To},
	}}}
}

func (r *orderRepository) Summary(ctx context.Context, window interfaces.ReportRange) (*models.SalesSummary, error) {
	pipeline := mongo.Pipeline{
		reportMatch(window),
		{{Key: "$group", Value: bson.M{
			"_id":        nil,
			"orders":     bson.M{"$sum": 1},
			"units":      bson.M{"$sum": bson.M{"$sum": "$items.quantity"}},
			"gross":      bson.M{"$sum": "$pricing.subtotal"},
			"discounts":  bson.M{"$sum": "$pricing.discount"},
			"shipping":   bson.M{"$sum": "$pricing.shipping"},
			"tax":        bson.M{"$sum": "$pricing.tax"},
			"revenue":    bson.M{"$sum": "$pricing.total"},
			"commission": bson.M{"$sum": "$pricing.commission"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sales summary: %w", err)
	}
	defer cursor.Close(ctx)

	summary := &models.SalesSummary{}
	if cursor.Next(ctx) {
		if err := cursor.Decode(summary); err != nil {
			return nil, fmt.Errorf("failed to decode sales summary: %w", err)
		}
	}
	return summary, cursor.Err()
}

func (r *orderRepository) Daily(ctx context.Context, window interfaces.ReportRange, timezone string) ([]*models.DailySales, error) {
	if timezone == "" {
		timezone = "UTC"
	}

	pipeline := mongo.Pipeline{
		reportMatch(window),
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format":   "%Y-%m-%d",
				"date":     "$created_at",
				"timezone": timezone,
			}},
			"orders":  bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": "$pricing.total"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily sales: %w", err)
	}
	defer cursor.Close(ctx)

	days := make([]*models.DailySales, 0)
	if err := cursor.All(ctx, &days); err != nil {
		return nil, fmt.Errorf("failed to decode daily sales: %w", err)
	}
	return days, nil
}

func (r *orderRepository) TopProducts(ctx context.Context, window interfaces.ReportRange, limit int) ([]*models.TopProduct, error) {
	pipeline := mongo.Pipeline{
		reportMatch(window),
		{{Key: "$unwind", Value: "$items"}},
		{{Key: "$group", Value: bson.M{
			"_id":     "$items.product_id",
			"name":    bson.M{"$first": "$items.name"},
			"sku":     bson.M{"$first": "$items.sku"},
			"units":   bson.M{"$sum": "$items.quantity"},
			"revenue": bson.M{"$sum": "$items.line_total"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "revenue", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate top products: %w", err)
	}
	defer cursor.Close(ctx)

	products := make([]*models.TopProduct, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode top products: %w", err)
	}
	return products, nil
}
