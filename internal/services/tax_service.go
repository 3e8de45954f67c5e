package services

import (
	"context"

	"marketly/internal/models"
	"marketly/internal/repositories/interfaces"
	"marketly/internal/utils"
	"marketly/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaxService interface {
	Create(ctx context.Context, request *CreateTaxSlabRequest) (*models.TaxSlab, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.TaxSlab, error)
	Update(ctx context.Context, id primitive.ObjectID, request *UpdateTaxSlabRequest) (*models.TaxSlab, error)
	Remove(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, hsnCode string, params *utils.PaginationParams) ([]*models.TaxSlab, int64, error)

	// Calculate applies the first active slab of hsnCode covering amount. Amounts
	// without a slab are not taxed.
	Calculate(ctx context.Context, hsnCode string, amount float64) (*models.TaxResult, error)
}

type CreateTaxSlabRequest struct {
	HSNCode     string        `json:"hsn_code" validate:"required,hsn_code"`
	Description string        `json:"description" validate:"max=200"`
	Rate        float64       `json:"rate" validate:"min=0,max=1"`
	MinAmount   float64       `json:"min_amount" validate:"min=0"`
	MaxAmount   float64       `json:"max_amount" validate:"min=0"`
	Status      models.Status `json:"status" validate:"omitempty,oneof=active inactive"`
}

type UpdateTaxSlabRequest struct {
	Description *string        `json:"description" validate:"omitempty,max=200"`
	Rate        *float64       `json:"rate" validate:"omitempty,min=0,max=1"`
	MinAmount   *float64       `json:"min_amount" validate:"omitempty,min=0"`
	MaxAmount   *float64       `json:"max_amount" validate:"omitempty,min=0"`
	Status      *models.Status `json:"status" validate:"omitempty,oneof=active inactive"`
}

type TaxCalculationRequest struct {
	HSNCode string  `json:"hsn_code" validate:"required,hsn_code"`
	Amount  float64 `json:"amount" validate:"min=0"`
}

type taxService struct {
	slabRepo interfaces.TaxSlabRepository
	logger   *logger.Logger
}

func NewTaxService(slabRepo interfaces.TaxSlabRepository, logger *logger.Logger) TaxService {
	return &taxService{
		slabRepo: slabRepo,
		logger:   logger,
	}
}

func checkSlabBounds(minAmount, maxAmount float64) error {
	if maxAmount > 0 && maxAmount < minAmount {
		return utils.NewValidationError(utils.ErrValidationFailed, map[string]string{"max_amount": "max_amount must not be below min_amount"})
	}
	return nil
}

func (s *taxService) Create(ctx context.Context, request *CreateTaxSlabRequest) (*models.TaxSlab, error) {
	if err := checkSlabBounds(request.MinAmount, request.MaxAmount); err != nil {
		return nil, err
	}

	slab := &models.TaxSlab{
		HSNCode:     request.HSNCode,
		Description: request.Description,
		Rate:        request.Rate,
		MinAmount:   request.MinAmount,
		MaxAmount:   request.MaxAmount,
		Status:      statusOrActive(request.Status),
	}
	if err := s.slabRepo.Create(ctx, slab); err != nil {
		return nil, repoError(err, "tax slab")
	}

	s.logger.WithFields(map[string]interface{}{
		"tax_slab_id": slab.ID.Hex(),
		"hsn_code":    slab.HSNCode,
	}).Info("Tax slab created")
	return slab, nil
}

func (s *taxService) Get(ctx context.Context, id primitive.ObjectID) (*models.TaxSlab, error) {
	slab, err := s.slabRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "tax slab")
	}
	return slab, nil
}

func (s *taxService) Update(ctx context.Context, id primitive.ObjectID, request *UpdateTaxSlabRequest) (*models.TaxSlab, error) {
	updates := map[string]interface{}{}
	setIf(updates, "description", request.Description)
	setIf(updates, "rate", request.Rate)
	setIf(updates, "min_amount", request.MinAmount)
	setIf(updates, "max_amount", request.MaxAmount)
	setIf(updates, "status", request.Status)
	if len(updates) == 0 {
		return nil, errNothingToUpdate()
	}

	if request.MinAmount != nil || request.MaxAmount != nil {
		current, err := s.slabRepo.GetByID(ctx, id)
		if err != nil {
			return nil, repoError(err, "tax slab")
		}
		minAmount, maxAmount := current.MinAmount, current.MaxAmount
		if request.MinAmount != nil {
			minAmount = *request.MinAmount
		}
		if request.MaxAmount != nil {
			maxAmount = *request.MaxAmount
		}
		if err := checkSlabBounds(minAmount, maxAmount); err != nil {
			return nil, err
		}
	}

	slab, err := s.slabRepo.Update(ctx, id, updates)
	if err != nil {
		return nil, repoError(err, "tax slab")
	}
	return slab, nil
}

func (s *taxService) Remove(ctx context.Context, id primitive.ObjectID) error {
	return repoError(s.slabRepo.Retire(ctx, id), "tax slab")
}

func (s *taxService) List(ctx context.Context, hsnCode string, params *utils.PaginationParams) ([]*models.TaxSlab, int64, error) {
	slabs, total, err := s.slabRepo.List(ctx, hsnCode, params)
	if err != nil {
		return nil, 0, repoError(err, "tax slab")
	}
	return slabs, total, nil
}

func (s *taxService) Calculate(ctx context.Context, hsnCode string, amount float64) (*models.TaxResult, error) {
	result := &models.TaxResult{HSNCode: hsnCode, Amount: utils.Round2(amount)}
	if hsnCode == "" || amount <= 0 {
		return result, nil
	}

	slabs, err := s.slabRepo.FindApplicable(ctx, hsnCode)
	if err != nil {
		return nil, repoError(err, "tax slab")
	}

	for _, slab := range slabs {
		if slab.Status != models.StatusActive || !slab.Covers(amount) {
			continue
		}
		id := slab.ID
		result.SlabID = &id
		result.Rate = slab.Rate
		result.Tax = utils.Money(utils.Dec(amount).Mul(utils.Dec(slab.Rate)))
		break
	}

	return result, nil
}
