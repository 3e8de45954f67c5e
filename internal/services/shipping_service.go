package services

import (
	"context"
	"strings"

	"marketly/internal/models"
	"marketly/internal/repositories/interfaces"
	"marketly/internal/utils"
	"marketly/pkg/logger"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ShippingService interface {
	Create(ctx context.Context, request *ShippingRuleRequest) (*models.ShippingRule, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.ShippingRule, error)
	Update(ctx context.Context, id primitive.ObjectID, request *UpdateShippingRuleRequest) (*models.ShippingRule, error)
	Remove(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.ShippingRule, int64, error)

	// Quote prices a parcel against the first matching rule. No match is a normal,
	// non-serviceable result rather than an error.
	Quote(ctx context.Context, input ShippingInput) (*models.ShippingQuote, error)
}

type PincodeRangeInput struct {
	From string `json:"from" validate:"required,pincode"`
	To   string `json:"to" validate:"required,pincode"`
}

type SurchargeInput struct {
	Name   string  `json:"name" validate:"required,max=50"`
	Amount float64 `json:"amount"`
}

type ShippingRuleRequest struct {
	Name              string              `json:"name" validate:"required,min=1,max=100"`
	Country           string              `json:"country" validate:"required,min=2,max=56"`
	States            []string            `json:"states" validate:"omitempty,dive,min=1,max=56"`
	Cities            []string            `json:"cities" validate:"omitempty,dive,min=1,max=85"`
	PincodeRanges     []PincodeRangeInput `json:"pincode_ranges" validate:"omitempty,dive"`
	MinWeight         float64             `json:"min_weight" validate:"min=0"`
	MaxWeight         float64             `json:"max_weight" validate:"min=0"`
	BaseRate          float64             `json:"base_rate" validate:"min=0"`
	PerKgRate         float64             `json:"per_kg_rate" validate:"min=0"`
	Surcharges        []SurchargeInput    `json:"surcharges" validate:"omitempty,dive"`
	FreeShippingAbove float64             `json:"free_shipping_above" validate:"min=0"`
	CODFee            float64             `json:"cod_fee" validate:"min=0"`
	VolumetricDivisor float64             `json:"volumetric_divisor" validate:"omitempty,gt=0"`
	EstimatedDays     int                 `json:"estimated_days" validate:"min=0,max=60"`
	Status            models.Status       `json:"status" validate:"omitempty,oneof=active inactive"`
}

type UpdateShippingRuleRequest struct {
	Name              *string              `json:"name" validate:"omitempty,min=1,max=100"`
	Country           *string              `json:"country" validate:"omitempty,min=2,max=56"`
	States            *[]string            `json:"states" validate:"omitempty,dive,min=1,max=56"`
	Cities            *[]string            `json:"cities" validate:"omitempty,dive,min=1,max=85"`
	PincodeRanges     *[]PincodeRangeInput `json:"pincode_ranges" validate:"omitempty,dive"`
	MinWeight         *float64             `json:"min_weight" validate:"omitempty,min=0"`
	MaxWeight         *float64             `json:"max_weight" validate:"omitempty,min=0"`
	BaseRate          *float64             `json:"base_rate" validate:"omitempty,min=0"`
	PerKgRate         *float64             `json:"per_kg_rate" validate:"omitempty,min=0"`
	Surcharges        *[]SurchargeInput    `json:"surcharges" validate:"omitempty,dive"`
	FreeShippingAbove *float64             `json:"free_shipping_above" validate:"omitempty,min=0"`
	CODFee            *float64             `json:"cod_fee" validate:"omitempty,min=0"`
	VolumetricDivisor *float64             `json:"volumetric_divisor" validate:"omitempty,gt=0"`
	EstimatedDays     *int                 `json:"estimated_days" validate:"omitempty,min=0,max=60"`
	Status            *models.Status       `json:"status" validate:"omitempty,oneof=active inactive"`
}

type ShippingQuoteRequest struct {
	Country       string               `json:"country" validate:"required,min=2,max=56"`
	State         string               `json:"state" validate:"max=56"`
	City          string               `json:"city" validate:"max=85"`
	Pincode       string               `json:"pincode" validate:"omitempty,pincode"`
	WeightKg      float64              `json:"weight_kg" validate:"min=0"`
	Dimensions    *ProductDimensions   `json:"dimensions"`
	Subtotal      float64              `json:"subtotal" validate:"min=0"`
	PaymentMethod models.PaymentMethod `json:"payment_method" validate:"omitempty,oneof=prepaid cod"`
}

func (r *ShippingQuoteRequest) Input() ShippingInput {
	return ShippingInput{
		Destination: models.Destination{
			Country: r.Country,
			State:   r.State,
			City:    r.City,
			Pincode: r.Pincode,
		},
		WeightKg:      r.WeightKg,
		VolumeCm3:     r.Dimensions.toModel().Volume(),
		Subtotal:      r.Subtotal,
		PaymentMethod: r.PaymentMethod,
	}
}

// ShippingInput describes one parcel. VolumeCm3 is the summed package volume.
type ShippingInput struct {
	Destination   models.Destination
	WeightKg      float64
	VolumeCm3     float64
	Subtotal      float64
	PaymentMethod models.PaymentMethod
}

type shippingService struct {
	ruleRepo interfaces.ShippingRuleRepository
	settings SettingsService
	logger   *logger.Logger
}

func NewShippingService(ruleRepo interfaces.ShippingRuleRepository, settings SettingsService, logger *logger.Logger) ShippingService {
	return &shippingService{
		ruleRepo: ruleRepo,
		settings: settings,
		logger:   logger,
	}
}

func pincodeRanges(inputs []PincodeRangeInput) ([]models.PincodeRange, error) {
	ranges := make([]models.PincodeRange, 0, len(inputs))
	for _, input := range inputs {
		if input.From > input.To {
			return nil, utils.NewValidationError(utils.ErrValidationFailed, map[string]string{
				"pincode_ranges": "range start must not be after range end",
			})
		}
		ranges = append(ranges, models.PincodeRange{From: input.From, To: input.To})
	}
	return ranges, nil
}

func surcharges(inputs []SurchargeInput) []models.Surcharge {
	out := make([]models.Surcharge, 0, len(inputs))
	for _, input := range inputs {
		out = append(out, models.Surcharge{Name: input.Name, Amount: input.Amount})
	}
	return out
}

func checkWeightBand(minWeight, maxWeight float64) error {
	if maxWeight > 0 && maxWeight < minWeight {
		return utils.NewValidationError(utils.ErrValidationFailed, map[string]string{"max_weight": "max_weight must not be below min_weight"})
	}
	return nil
}

func (s *shippingService) Create(ctx context.Context, request *ShippingRuleRequest) (*models.ShippingRule, error) {
	if err := checkWeightBand(request.MinWeight, request.MaxWeight); err != nil {
		return nil, err
	}
	ranges, err := pincodeRanges(request.PincodeRanges)
	if err != nil {
		return nil, err
	}

	rule := &models.ShippingRule{
		Name:              request.Name,
		Country:           strings.TrimSpace(request.Country),
		States:            request.States,
		Cities:            request.Cities,
		PincodeRanges:     ranges,
		MinWeight:         request.MinWeight,
		MaxWeight:         request.MaxWeight,
		BaseRate:          request.BaseRate,
		PerKgRate:         request.PerKgRate,
		Surcharges:        surcharges(request.Surcharges),
		FreeShippingAbove: request.FreeShippingAbove,
		CODFee:            request.CODFee,
		VolumetricDivisor: request.VolumetricDivisor,
		EstimatedDays:     request.EstimatedDays,
		Status:            statusOrActive(request.Status),
	}
	if err := s.ruleRepo.Create(ctx, rule); err != nil {
		return nil, repoError(err, "shipping rule")
	}

	s.logger.WithField("shipping_rule_id", rule.ID.Hex()).Info("Shipping rule created")
	return rule, nil
}

func (s *shippingService) Get(ctx context.Context, id primitive.ObjectID) (*models.ShippingRule, error) {
	rule, err := s.ruleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "shipping rule")
	}
	return rule, nil
}

func (s *shippingService) Update(ctx context.Context, id primitive.ObjectID, request *UpdateShippingRuleRequest) (*models.ShippingRule, error) {
	updates := map[string]interface{}{}
	setIf(updates, "name", request.Name)
	setIf(updates, "country", request.Country)
	setIf(updates, "states", request.States)
	setIf(updates, "cities", request.Cities)
	setIf(updates, "min_weight", request.MinWeight)
	setIf(updates, "max_weight", request.MaxWeight)
	setIf(updates, "base_rate", request.BaseRate)
	setIf(updates, "per_kg_rate", request.PerKgRate)
	setIf(updates, "free_shipping_above", request.FreeShippingAbove)
	setIf(updates, "cod_fee", request.CODFee)
	setIf(updates, "volumetric_divisor", request.VolumetricDivisor)
	setIf(updates, "estimated_days", request.EstimatedDays)
	setIf(updates, "status", request.Status)
	if request.PincodeRanges != nil {
		ranges, err := pincodeRanges(*request.PincodeRanges)
		if err != nil {
			return nil, err
		}
		updates["pincode_ranges"] = ranges
	}
	if request.Surcharges != nil {
		updates["surcharges"] = surcharges(*request.Surcharges)
	}
	if len(updates) == 0 {
		return nil, errNothingToUpdate()
	}

	if request.MinWeight != nil || request.MaxWeight != nil {
		current, err := s.ruleRepo.GetByID(ctx, id)
		if err != nil {
			return nil, repoError(err, "shipping rule")
		}
		minWeight, maxWeight := current.MinWeight, current.MaxWeight
		if request.MinWeight != nil {
			minWeight = *request.MinWeight
		}
		if request.MaxWeight != nil {
			maxWeight = *request.MaxWeight
		}
		if err := checkWeightBand(minWeight, maxWeight); err != nil {
			return nil, err
		}
	}

	rule, err := s.ruleRepo.Update(ctx, id, updates)
	if err != nil {
		return nil, repoError(err, "shipping rule")
	}
	return rule, nil
}

func (s *shippingService) Remove(ctx context.Context, id primitive.ObjectID) error {
	return repoError(s.ruleRepo.Retire(ctx, id), "shipping rule")
}

func (s *shippingService) List(ctx context.Context, params *utils.PaginationParams) ([]*models.ShippingRule, int64, error) {
	rules, total, err := s.ruleRepo.List(ctx, params)
	if err != nil {
		return nil, 0, repoError(err, "shipping rule")
	}
	return rules, total, nil
}

func (s *shippingService) Quote(ctx context.Context, input ShippingInput) (*models.ShippingQuote, error) {
	rules, err := s.ruleRepo.ListApplicable(ctx)
	if err != nil {
		return nil, repoError(err, "shipping rule")
	}

	divisor := utils.DefaultVolumetricDivisor
	if s.settings != nil {
		settings, err := s.settings.Get(ctx)
		if err != nil {
			return nil, err
		}
		if settings.DefaultVolumetricDivisor > 0 {
			divisor = settings.DefaultVolumetricDivisor
		}
	}

	return quoteShipping(rules, input, divisor), nil
}

// quoteShipping walks rules in order and prices the parcel with the first one that matches.
func quoteShipping(rules []*models.ShippingRule, input ShippingInput, defaultDivisor float64) *models.ShippingQuote {
	actual := utils.Dec(input.WeightKg)

	for _, rule := range rules {
		if !matchesDestination(rule, input.Destination) {
			continue
		}

		divisor := rule.VolumetricDivisor
		if divisor <= 0 {
			divisor = defaultDivisor
		}
		volumetric := decimal.Zero
		if input.VolumeCm3 > 0 {
			volumetric = utils.Dec(input.VolumeCm3).Div(utils.Dec(divisor))
		}
		billable := utils.MaxDecimal(actual, volumetric)

		if billable.LessThan(utils.Dec(rule.MinWeight)) {
			continue
		}
		if rule.MaxWeight > 0 && billable.GreaterThan(utils.Dec(rule.MaxWeight)) {
			continue
		}

		rate := utils.Dec(rule.BaseRate).Add(utils.Dec(rule.PerKgRate).Mul(billable))
		for _, surcharge := range rule.Surcharges {
			rate = rate.Add(utils.Dec(surcharge.Amount))
		}
		rate = utils.MaxDecimal(rate, decimal.Zero)

		free := rule.FreeShippingAbove > 0 && input.Subtotal > rule.FreeShippingAbove
		if free {
			rate = decimal.Zero
		}

		codFee := decimal.Zero
		if input.PaymentMethod == models.PaymentMethodCOD {
			codFee = utils.Dec(rule.CODFee)
		}

		id := rule.ID
		return &models.ShippingQuote{
			Serviceable:    true,
			RuleID:         &id,
			RuleName:       rule.Name,
			ActualWeight:   utils.Money(actual),
			Volumetric:     utils.Money(volumetric),
			BillableWeight: utils.Money(billable),
			Rate:           utils.Money(rate),
			CODFee:         utils.Money(codFee),
			FreeShipping:   free,
			Total:          utils.Money(rate.Add(codFee)),
			EstimatedDays:  rule.EstimatedDays,
		}
	}

	return &models.ShippingQuote{
		Serviceable:  false,
		ActualWeight: utils.Money(actual),
	}
}

func matchesDestination(rule *models.ShippingRule, destination models.Destination) bool {
	if !strings.EqualFold(strings.TrimSpace(rule.Country), strings.TrimSpace(destination.Country)) {
		return false
	}
	if len(rule.States) > 0 && !containsFold(rule.States, destination.State) {
		return false
	}
	if len(rule.Cities) > 0 && !containsFold(rule.Cities, destination.City) {
		return false
	}
	if len(rule.PincodeRanges) > 0 {
		for _, r := range rule.PincodeRanges {
			if pincodeInRange(destination.Pincode, r) {
				return true
			}
		}
		return false
	}
	return true
}

func containsFold(values []string, value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	for _, candidate := range values {
		if strings.EqualFold(strings.TrimSpace(candidate), value) {
			return true
		}
	}
	return false
}

// pincodeInRange compares fixed width numeric codes, so string order is numeric order.
func pincodeInRange(pincode string, r models.PincodeRange) bool {
	if pincode == "" || len(pincode) != len(r.From) || len(pincode) != len(r.To) {
		return false
	}
	return pincode >= r.From && pincode <= r.To
}
