package services

import (
	"context"
	"errors"
	"testing"

	"marketly/internal/models"
	"marketly/internal/repositories/interfaces"
	"marketly/internal/utils"
	"marketly/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeShippingRules struct {
	interfaces.ShippingRuleRepository
	rules []*models.ShippingRule
	err   error
}

func (f *fakeShippingRules) ListApplicable(context.Context) ([]*models.ShippingRule, error) {
	return f.rules, f.err
}

type fakeSettings struct {
	SettingsService
	settings *models.Settings
}

func (f *fakeSettings) Get(context.Context) (*models.Settings, error) {
	return f.settings, nil
}

type fakeTaxSlabs struct {
	interfaces.TaxSlabRepository
	slabs   []*models.TaxSlab
	queried string
}

func (f *fakeTaxSlabs) FindApplicable(_ context.Context, hsnCode string) ([]*models.TaxSlab, error) {
	f.queried = hsnCode
	return f.slabs, nil
}

func TestQuoteShipping(t *testing.T) {
	metro := &models.ShippingRule{
		ID:                primitive.NewObjectID(),
		Name:              "metro",
		Country:           "IN",
		PincodeRanges:     []models.PincodeRange{{From: "560001", To: "560099"}},
		MaxWeight:         10,
		BaseRate:          40,
		PerKgRate:         10,
		Surcharges:        []models.Surcharge{{Name: "fuel", Amount: 5}},
		FreeShippingAbove: 1000,
		CODFee:            25,
		EstimatedDays:     2,
	}
	national := &models.ShippingRule{
		ID:        primitive.NewObjectID(),
		Name:      "national",
		Country:   "in",
		BaseRate:  80,
		PerKgRate: 20,
	}
	rules := []*models.ShippingRule{metro, national}

	tests := []struct {
		name       string
		input      ShippingInput
		rule       string
		billable   float64
		rate       float64
		codFee     float64
		total      float64
		free       bool
		unservable bool
	}{
		{
			name:     "metro by weight",
			input:    ShippingInput{Destination: models.Destination{Country: "IN", Pincode: "560034"}, WeightKg: 2},
			rule:     "metro",
			billable: 2,
			rate:     65,
			total:    65,
		},
		{
			name:     "volumetric weight wins",
			input:    ShippingInput{Destination: models.Destination{Country: "IN", Pincode: "560034"}, WeightKg: 1, VolumeCm3: 15000},
			rule:     "metro",
			billable: 3,
			rate:     75,
			total:    75,
		},
		{
			name:     "free shipping keeps cod fee",
			input:    ShippingInput{Destination: models.Destination{Country: "IN", Pincode: "560034"}, WeightKg: 1, Subtotal: 1500, PaymentMethod: models.PaymentMethodCOD},
			rule:     "metro",
			billable: 1,
			rate:     0,
			codFee:   25,
			total:    25,
			free:     true,
		},
		{
			name:     "threshold is exclusive",
			input:    ShippingInput{Destination: models.Destination{Country: "IN", Pincode: "560034"}, WeightKg: 1, Subtotal: 1000},
			rule:     "metro",
			billable: 1,
			rate:     55,
			total:    55,
		},
		{
			name:     "outside pincode range falls through",
			input:    ShippingInput{Destination: models.Destination{Country: "IN", Pincode: "110001"}, WeightKg: 1},
			rule:     "national",
			billable: 1,
			rate:     100,
			total:    100,
		},
		{
			name:     "over max weight falls through",
			input:    ShippingInput{Destination: models.Destination{Country: "IN", Pincode: "560034"}, WeightKg: 12},
			rule:     "national",
			billable: 12,
			rate:     320,
			total:    320,
		},
		{
			name:       "no rule for country",
			input:      ShippingInput{Destination: models.Destination{Country: "US"}, WeightKg: 1},
			unservable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote := quoteShipping(rules, tt.input, utils.DefaultVolumetricDivisor)
			if tt.unservable {
				assert.False(t, quote.Serviceable)
				assert.Nil(t, quote.RuleID)
				return
			}
			require.True(t, quote.Serviceable)
			assert.Equal(t, tt.rule, quote.RuleName)
			assert.Equal(t, tt.billable, quote.BillableWeight)
			assert.Equal(t, tt.rate, quote.Rate)
			assert.Equal(t, tt.codFee, quote.CODFee)
			assert.Equal(t, tt.total, quote.Total)
			assert.Equal(t, tt.free, quote.FreeShipping)
		})
	}
}

func TestShippingService_QuoteUsesSettingsDivisor(t *testing.T) {
	repo := &fakeShippingRules{rules: []*models.ShippingRule{{ID: primitive.NewObjectID(), Country: "IN", PerKgRate: 10}}}
	settings := &fakeSettings{settings: &models.Settings{DefaultVolumetricDivisor: 4000}}
	service := NewShippingService(repo, settings, logger.NewNop())

	quote, err := service.Quote(context.Background(), ShippingInput{
		Destination: models.Destination{Country: "IN"},
		WeightKg:    1,
		VolumeCm3:   20000,
	})
	require.NoError(t, err)
	assert.Equal(t, 5.0, quote.Volumetric)
	assert.Equal(t, 50.0, quote.Rate)

	repo.err = errors.New("connection reset")
	_, err = service.Quote(context.Background(), ShippingInput{})
	assert.Equal(t, utils.CodeInternal, utils.AsAppError(err).Code)
}

func TestShippingService_CreateRejectsInvertedBands(t *testing.T) {
	service := NewShippingService(&fakeShippingRules{}, nil, logger.NewNop())

	_, err := service.Create(context.Background(), &ShippingRuleRequest{Name: "x", Country: "IN", MinWeight: 5, MaxWeight: 1})
	assert.Equal(t, utils.CodeValidation, utils.AsAppError(err).Code)

	_, err = service.Create(context.Background(), &ShippingRuleRequest{
		Name:          "x",
		Country:       "IN",
		PincodeRanges: []PincodeRangeInput{{From: "560099", To: "560001"}},
	})
	assert.Equal(t, utils.CodeValidation, utils.AsAppError(err).Code)
}

func TestTaxService_Calculate(t *testing.T) {
	low := &models.TaxSlab{ID: primitive.NewObjectID(), HSNCode: "87089900", Rate: 0.12, MaxAmount: 1000, Status: models.StatusActive}
	high := &models.TaxSlab{ID: primitive.NewObjectID(), HSNCode: "87089900", Rate: 0.18, MinAmount: 1000.01, Status: models.StatusActive}
	paused := &models.TaxSlab{ID: primitive.NewObjectID(), HSNCode: "87089900", Rate: 0.5, Status: models.StatusInactive}
	repo := &fakeTaxSlabs{slabs: []*models.TaxSlab{paused, low, high}}
	service := NewTaxService(repo, logger.NewNop())
	ctx := context.Background()

	result, err := service.Calculate(ctx, "87089900", 999.99)
	require.NoError(t, err)
	assert.Equal(t, 0.12, result.Rate)
	assert.Equal(t, 120.0, result.Tax)
	assert.Equal(t, low.ID, *result.SlabID)

	result, err = service.Calculate(ctx, "87089900", 2000)
	require.NoError(t, err)
	assert.Equal(t, 360.0, result.Tax)

	repo.queried = ""
	result, err = service.Calculate(ctx, "87089900", 0)
	require.NoError(t, err)
	assert.Zero(t, result.Tax)
	assert.Empty(t, repo.queried)

	repo.slabs = nil
	result, err = service.Calculate(ctx, "40111000", 500)
	require.NoError(t, err)
	assert.Nil(t, result.SlabID)
	assert.Zero(t, result.Tax)
}

func TestTaxService_CreateRejectsInvertedBounds(t *testing.T) {
	service := NewTaxService(&fakeTaxSlabs{}, logger.NewNop())

	_, err := service.Create(context.Background(), &CreateTaxSlabRequest{HSNCode: "87089900", Rate: 0.18, MinAmount: 500, MaxAmount: 100})
	assert.Equal(t, utils.CodeValidation, utils.AsAppError(err).Code)
}
