package validators

import (
	"net/http"
	"testing"

	"marketly/internal/models"
	"marketly/internal/services"
	"marketly/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestValidatePartial_RejectsEmptyBody(t *testing.T) {
	err := ValidatePartial(&services.UpdateBrandRequest{})
	require.Error(t, err)

	appErr := utils.AsAppError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, utils.ErrNothingToUpdate, appErr.Message)
}

func TestValidatePartial_AcceptsOneField(t *testing.T) {
	err := ValidatePartial(&services.UpdateBrandRequest{Name: strPtr("Bosch")})
	assert.NoError(t, err)
}

func TestValidatePartial_StillAppliesFieldRules(t *testing.T) {
	err := ValidatePartial(&services.UpdateBrandRequest{Slug: strPtr("Not A Slug")})
	require.Error(t, err)
	assert.Contains(t, utils.AsAppError(err).Details, "slug")
}

func TestRequireAtLeastOne(t *testing.T) {
	assert.ErrorIs(t, RequireAtLeastOne(nil), ErrNoFields)
	assert.ErrorIs(t, RequireAtLeastOne(&services.UpdateTagRequest{}), ErrNoFields)
	assert.NoError(t, RequireAtLeastOne(&services.UpdateTagRequest{Name: strPtr("oem")}))
	assert.NoError(t, RequireAtLeastOne("not a struct"))
}

func TestSeoResolveRequest_EntityRules(t *testing.T) {
	tests := []struct {
		name    string
		request services.SeoResolveRequest
		valid   bool
	}{
		{"slug only", services.SeoResolveRequest{Slug: "brake-pads"}, true},
		{"global without id", services.SeoResolveRequest{EntityType: models.SeoEntityGlobal}, true},
		{"product with id", services.SeoResolveRequest{EntityType: models.SeoEntityProduct, EntityID: "65f0c0ffee"}, true},
		{"product without id", services.SeoResolveRequest{EntityType: models.SeoEntityProduct}, false},
		{"nothing", services.SeoResolveRequest{}, false},
		{"unknown type", services.SeoResolveRequest{EntityType: "blog", EntityID: "x"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.request)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, utils.AsAppError(err).Status)
		})
	}
}

func TestCustomTags(t *testing.T) {
	slab := &services.CreateTaxSlabRequest{HSNCode: "8708", Rate: 0.18}
	errs := ValidateStruct(slab)
	require.Len(t, errs, 1)
	assert.Equal(t, "hsn_code", errs[0].Field)
	assert.Equal(t, "hsn_code", errs[0].Tag)

	slab.HSNCode = "87083000"
	assert.Empty(t, ValidateStruct(slab))

	slab.Rate = 1.5
	errs = ValidateStruct(slab)
	require.Len(t, errs, 1)
	assert.Equal(t, "rate", errs[0].Field)

	errs = ValidateStruct(&services.CouponPreviewRequest{})
	require.Len(t, errs, 1)
	assert.Equal(t, "code", errs[0].Field)
	assert.Equal(t, "required", errs[0].Tag)
}

func TestNestedFieldPath(t *testing.T) {
	request := &services.CheckoutRequest{
		Address: services.AddressInput{
			Name:    "Asha Rao",
			Phone:   "+919876543210",
			Line1:   "12 MG Road",
			Country: "IN",
			City:    "Bengaluru",
			Pincode: "0560",
		},
		CouponCode:    "no spaces allowed",
		PaymentMethod: models.PaymentMethodPrepaid,
	}

	err := Validate(request)
	require.Error(t, err)
	details := utils.AsAppError(err).Details
	assert.Contains(t, details, "address.pincode")
	assert.Contains(t, details, "coupon_code")
}

func TestValidateRegistration_Normalizes(t *testing.T) {
	request := &services.RegisterRequest{
		Name:     "<b>Ravi</b> Kumar",
		Email:    "  Ravi@Example.COM ",
		Phone:    "+91 98765-43210",
		Password: "onlyletters",
	}

	errs := ValidateRegistration(request)
	assert.Equal(t, "ravi@example.com", request.Email)
	assert.Equal(t, "Ravi Kumar", request.Name)
	assert.Equal(t, "+919876543210", request.Phone)
	require.Len(t, errs, 1)
	assert.Equal(t, "password", errs[0].Field)
}

func TestValidatePasswordChange_MustDiffer(t *testing.T) {
	errs := ValidatePasswordChange(&services.ChangePasswordRequest{
		CurrentPassword: "secret123",
		NewPassword:     "secret123",
	})
	require.Len(t, errs, 1)
	assert.Equal(t, "nefield", errs[0].Tag)
}
