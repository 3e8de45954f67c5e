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

const maxCartQuantity = 100

type CartService interface {
	Get(ctx context.Context, userID primitive.ObjectID) (*models.CartView, error)
	AddItem(ctx context.Context, userID primitive.ObjectID, request *AddCartItemRequest) (*models.CartView, error)
	// SetQuantity replaces the quantity of a line. Zero removes it.
	SetQuantity(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*models.CartView, error)
	RemoveItem(ctx context.Context, userID, productID primitive.ObjectID) (*models.CartView, error)
	Clear(ctx context.Context, userID primitive.ObjectID) error
}

type AddCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required,object_id"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=100"`
}

type SetCartQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=0,max=100"`
}

type cartService struct {
	cartRepo    interfaces.CartRepository
	productRepo interfaces.ProductRepository
	logger      *logger.Logger
	now         func() time.Time
}

func NewCartService(cartRepo interfaces.CartRepository, productRepo interfaces.ProductRepository, logger *logger.Logger) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// loadCart returns the stored cart or an empty one for users who never saved one.
func loadCart(ctx context.Context, cartRepo interfaces.CartRepository, userID primitive.ObjectID) (*models.Cart, error) {
	cart, err := cartRepo.GetByUser(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return &models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
		}
		return nil, repoError(err, "cart")
	}
	return cart, nil
}

// hydrateCart joins cart items with their products. Items whose product is gone are left out.
func hydrateCart(ctx context.Context, productRepo interfaces.ProductRepository, cart *models.Cart) (*models.CartView, error) {
	view := &models.CartView{UserID: cart.UserID, Lines: []models.CartLine{}}
	if len(cart.Items) == 0 {
		return view, nil
	}

	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, repoError(err, "product")
	}
	byID := make(map[primitive.ObjectID]*models.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	subtotal := utils.Dec(0)
	for _, item := range cart.Items {
		product, ok := byID[item.ProductID]
		if !ok {
			continue
		}
		lineTotal := utils.Dec(product.Price).Mul(utils.Dec(float64(item.Quantity)))
		line := models.CartLine{
			ProductID:  product.ID,
			Name:       product.Name,
			SKU:        product.SKU,
			UnitPrice:  product.Price,
			Quantity:   item.Quantity,
			LineTotal:  utils.Money(lineTotal),
			InStock:    product.Sellable() && product.Stock >= item.Quantity,
			BrandID:    product.BrandID,
			CategoryID: product.CategoryID,
			VendorID:   product.VendorID,
			HSNCode:    product.HSNCode,
			WeightKg:   product.WeightKg * float64(item.Quantity),
			VolumeCm3:  product.Dimensions.Volume() * float64(item.Quantity),
		}
		if len(product.Images) > 0 {
			line.Image = product.Images[0]
		}
		view.Lines = append(view.Lines, line)
		view.ItemCount += item.Quantity
		subtotal = subtotal.Add(lineTotal)
	}
	view.Subtotal = utils.Money(subtotal)

	return view, nil
}

func (s *cartService) Get(ctx context.Context, userID primitive.ObjectID) (*models.CartView, error) {
	cart, err := loadCart(ctx, s.cartRepo, userID)
	if err != nil {
		return nil, err
	}
	return hydrateCart(ctx, s.productRepo, cart)
}

func (s *cartService) sellable(ctx context.Context, productID primitive.ObjectID, quantity int) error {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return repoError(err, "product")
	}
	if !product.Sellable() {
		return utils.NewUnprocessableError("product is not available")
	}
	if product.Stock < quantity {
		return utils.NewUnprocessableError("insufficient stock")
	}
	return nil
}

func (s *cartService) save(ctx context.Context, cart *models.Cart) (*models.CartView, error) {
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, repoError(err, "cart")
	}
	return hydrateCart(ctx, s.productRepo, cart)
}

func (s *cartService) AddItem(ctx context.Context, userID primitive.ObjectID, request *AddCartItemRequest) (*models.CartView, error) {
	productID, err := primitive.ObjectIDFromHex(request.ProductID)
	if err != nil {
		return nil, utils.NewValidationError(utils.ErrValidationFailed, map[string]string{"product_id": "invalid id"})
	}

	cart, err := loadCart(ctx, s.cartRepo, userID)
	if err != nil {
		return nil, err
	}

	index := -1
	quantity := request.Quantity
	for i, item := range cart.Items {
		if item.ProductID == productID {
			index = i
			quantity += item.Quantity
			break
		}
	}
	if quantity > maxCartQuantity {
		return nil, utils.NewValidationError(utils.ErrValidationFailed, map[string]string{"quantity": "quantity exceeds the per item limit"})
	}
	if err := s.sellable(ctx, productID, quantity); err != nil {
		return nil, err
	}

	if index >= 0 {
		cart.Items[index].Quantity = quantity
	} else {
		cart.Items = append(cart.Items, models.CartItem{ProductID: productID, Quantity: quantity, AddedAt: s.now()})
	}

	s.logger.WithField("user_id", userID.Hex()).WithField("product_id", productID.Hex()).Debug("Cart item added")
	return s.save(ctx, cart)
}

func (s *cartService) SetQuantity(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*models.CartView, error) {
	if quantity < 0 || quantity > maxCartQuantity {
		return nil, utils.NewValidationError(utils.ErrValidationFailed, map[string]string{"quantity": "quantity out of range"})
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, userID, productID)
	}

	cart, err := loadCart(ctx, s.cartRepo, userID)
	if err != nil {
		return nil, err
	}

	index := -1
	for i, item := range cart.Items {
		if item.ProductID == productID {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, utils.NewNotFoundError("cart item")
	}
	if err := s.sellable(ctx, productID, quantity); err != nil {
		return nil, err
	}

	cart.Items[index].Quantity = quantity
	return s.save(ctx, cart)
}

func (s *cartService) RemoveItem(ctx context.Context, userID, productID primitive.ObjectID) (*models.CartView, error) {
	cart, err := loadCart(ctx, s.cartRepo, userID)
	if err != nil {
		return nil, err
	}

	items := make([]models.CartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	if len(items) == len(cart.Items) {
		return nil, utils.NewNotFoundError("cart item")
	}

	cart.Items = items
	return s.save(ctx, cart)
}

func (s *cartService) Clear(ctx context.Context, userID primitive.ObjectID) error {
	return repoError(s.cartRepo.Clear(ctx, userID), "cart")
}
