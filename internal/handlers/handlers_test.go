package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"marketly/internal/middleware"
	"marketly/internal/models"
	"marketly/internal/repositories/interfaces"
	"marketly/internal/services"
	"marketly/internal/utils"
	"marketly/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubBrandService struct {
	services.BrandService
	created  *services.CreateBrandRequest
	updated  *services.UpdateBrandRequest
	status   models.Status
	getErr   error
	listSize int
}

func (s *stubBrandService) Create(_ context.Context, request *services.CreateBrandRequest) (*models.Brand, error) {
	s.created = request
	return &models.Brand{ID: primitive.NewObjectID(), Name: request.Name, Slug: utils.GenerateSlug(request.Name)}, nil
}

func (s *stubBrandService) Get(_ context.Context, id primitive.ObjectID) (*models.Brand, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &models.Brand{ID: id, Name: "Bosch"}, nil
}

func (s *stubBrandService) Update(_ context.Context, id primitive.ObjectID, request *services.UpdateBrandRequest) (*models.Brand, error) {
	s.updated = request
	return &models.Brand{ID: id, Name: *request.Name}, nil
}

func (s *stubBrandService) List(_ context.Context, status models.Status, params *utils.PaginationParams) ([]*models.Brand, int64, error) {
	s.status = status
	brands := make([]*models.Brand, s.listSize)
	for i := range brands {
		brands[i] = &models.Brand{ID: primitive.NewObjectID()}
	}
	return brands, int64(s.listSize), nil
}

type stubShippingService struct {
	services.ShippingService
	input services.ShippingInput
}

func (s *stubShippingService) Quote(_ context.Context, input services.ShippingInput) (*models.ShippingQuote, error) {
	s.input = input
	return &models.ShippingQuote{Serviceable: false}, nil
}

type stubProductService struct {
	services.ProductService
	filter   interfaces.ProductFilter
	status   models.Status
	vendorID *primitive.ObjectID
}

func (s *stubProductService) List(_ context.Context, filter interfaces.ProductFilter, _ *utils.PaginationParams) ([]*models.Product, int64, error) {
	s.filter = filter
	return []*models.Product{}, 0, nil
}

func (s *stubProductService) Get(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	return &models.Product{ID: id, Name: "Brake caliper", Status: s.status, VendorID: s.vendorID}, nil
}

type stubCouponService struct {
	services.CouponService
	customer *primitive.ObjectID
	request  *services.CouponPreviewRequest
}

func (s *stubCouponService) Preview(_ context.Context, customerID *primitive.ObjectID, request *services.CouponPreviewRequest) (*services.CouponPreview, error) {
	s.customer = customerID
	s.request = request
	return &services.CouponPreview{Code: request.Code, Eligible: true}, nil
}

// newTestRouter mounts handlers behind the error middleware, optionally as a given role.
func newTestRouter(role string, register func(r *gin.Engine)) *gin.Engine {
	router := gin.New()
	router.Use(middleware.ErrorHandler(logger.NewNop()))
	if role != "" {
		router.Use(func(c *gin.Context) {
			c.Set(utils.ContextUserID, primitive.NewObjectID())
			c.Set(utils.ContextUserRole, role)
			c.Next()
		})
	}
	register(router)
	return router
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestBrandHandler_Create(t *testing.T) {
	service := &stubBrandService{}
	handler := NewBrandHandler(service)
	router := newTestRouter(utils.RoleAdmin, func(r *gin.Engine) {
		r.POST("/brands", handler.Create)
	})

	w := doJSON(router, http.MethodPost, "/brands", map[string]string{"name": "Bosch"})
	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Bosch", body["data"].(map[string]interface{})["name"])
	require.NotNil(t, service.created)

	w = doJSON(router, http.MethodPost, "/brands", map[string]string{"name": "Bosch", "website": "not a url"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body = decode(t, w)
	assert.Equal(t, utils.CodeValidation, body["code"])
	assert.Contains(t, body["details"], "website")
}

func TestBrandHandler_UpdateRejectsEmptyBody(t *testing.T) {
	service := &stubBrandService{}
	handler := NewBrandHandler(service)
	router := newTestRouter(utils.RoleAdmin, func(r *gin.Engine) {
		r.PATCH("/brands/:id", handler.Update)
	})

	path := "/brands/" + primitive.NewObjectID().Hex()
	w := doJSON(router, http.MethodPatch, path, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, utils.ErrNothingToUpdate, decode(t, w)["message"])
	assert.Nil(t, service.updated)

	w = doJSON(router, http.MethodPatch, path, map[string]string{"name": "Denso"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBrandHandler_Get(t *testing.T) {
	service := &stubBrandService{}
	handler := NewBrandHandler(service)
	router := newTestRouter("", func(r *gin.Engine) {
		r.GET("/brands/:id", handler.Get)
	})

	w := doJSON(router, http.MethodGet, "/brands/not-an-id", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	service.getErr = utils.NewNotFoundError("brand")
	w = doJSON(router, http.MethodGet, "/brands/"+primitive.NewObjectID().Hex(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, utils.CodeNotFound, decode(t, w)["code"])
}

func TestBrandHandler_ListStatusScope(t *testing.T) {
	service := &stubBrandService{listSize: 3}
	handler := NewBrandHandler(service)

	public := newTestRouter("", func(r *gin.Engine) { r.GET("/brands", handler.List) })
	w := doJSON(public, http.MethodGet, "/brands?status=inactive", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StatusActive, service.status)

	meta := decode(t, w)["meta"].(map[string]interface{})["pagination"].(map[string]interface{})
	assert.Equal(t, float64(3), meta["total"])

	admin := newTestRouter(utils.RoleAdmin, func(r *gin.Engine) { r.GET("/brands", handler.List) })
	w = doJSON(admin, http.MethodGet, "/brands?status=inactive", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StatusInactive, service.status)

	w = doJSON(admin, http.MethodGet, "/brands?status=deleted", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestShippingHandler_QuoteUnserviceableIsOK(t *testing.T) {
	service := &stubShippingService{}
	handler := NewShippingHandler(service)
	router := newTestRouter("", func(r *gin.Engine) { r.POST("/shipping/quote", handler.Quote) })

	w := doJSON(router, http.MethodPost, "/shipping/quote", map[string]interface{}{
		"country":   "IN",
		"pincode":   "560001",
		"weight_kg": 1.5,
		"subtotal":  999,
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["data"].(map[string]interface{})["serviceable"])
	assert.Equal(t, "560001", service.input.Destination.Pincode)

	w = doJSON(router, http.MethodPost, "/shipping/quote", map[string]interface{}{"country": "IN", "pincode": "12"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductHandler_ListFilters(t *testing.T) {
	service := &stubProductService{}
	handler := NewProductHandler(service)
	router := newTestRouter("", func(r *gin.Engine) { r.GET("/products", handler.List) })

	brandID := primitive.NewObjectID()
	w := doJSON(router, http.MethodGet, "/products?brand_id="+brandID.Hex()+"&min_price=100&max_price=500", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, service.filter.BrandID)
	assert.Equal(t, brandID, *service.filter.BrandID)
	assert.Equal(t, 100.0, service.filter.MinPrice)
	assert.Equal(t, 500.0, service.filter.MaxPrice)
	assert.Equal(t, models.StatusActive, service.filter.Status)

	w = doJSON(router, http.MethodGet, "/products?min_price=900&max_price=100", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodGet, "/products?vehicle_id=nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductHandler_VendorManageScope(t *testing.T) {
	service := &stubProductService{}
	handler := NewProductHandler(service)
	vendorID := primitive.NewObjectID()

	router := gin.New()
	router.Use(middleware.ErrorHandler(logger.NewNop()), func(c *gin.Context) {
		c.Set(utils.ContextUserID, vendorID)
		c.Set(utils.ContextUserRole, utils.RoleVendor)
		c.Next()
	}, ManageScope())
	router.GET("/manage/products", handler.List)

	w := doJSON(router, http.MethodGet, "/manage/products?vendor_id="+primitive.NewObjectID().Hex(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, service.filter.VendorID)
	assert.Equal(t, vendorID, *service.filter.VendorID)
	assert.Equal(t, models.Status(""), service.filter.Status)
}

func TestProductHandler_GetHidesInactiveFromStorefront(t *testing.T) {
	vendorID := primitive.NewObjectID()
	service := &stubProductService{status: models.StatusInactive, vendorID: &vendorID}
	handler := NewProductHandler(service)
	path := "/products/" + primitive.NewObjectID().Hex()

	tests := []struct {
		name   string
		role   string
		manage bool
		status int
	}{
		{"anonymous", "", false, http.StatusNotFound},
		{"customer", utils.RoleCustomer, false, http.StatusNotFound},
		{"vendor on storefront", utils.RoleVendor, false, http.StatusNotFound},
		{"owning vendor under manage", utils.RoleVendor, true, http.StatusOK},
		{"admin", utils.RoleAdmin, false, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(middleware.ErrorHandler(logger.NewNop()), func(c *gin.Context) {
				if tt.role != "" {
					c.Set(utils.ContextUserID, vendorID)
					c.Set(utils.ContextUserRole, tt.role)
				}
				if tt.manage {
					c.Set(manageScopeKey, true)
				}
				c.Next()
			})
			router.GET("/products/:id", handler.Get)

			w := doJSON(router, http.MethodGet, path, nil)
			assert.Equal(t, tt.status, w.Code)
		})
	}

	service.status = models.StatusActive
	w := doJSON(newTestRouter("", func(r *gin.Engine) { r.GET("/products/:id", handler.Get) }), http.MethodGet, path, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCouponHandler_PreviewUsesCallerIdentity(t *testing.T) {
	service := &stubCouponService{}
	handler := NewCouponHandler(service)
	callerID := primitive.NewObjectID()
	body := map[string]interface{}{
		"code": "TEN",
		"cart": map[string]interface{}{"shipping": 60, "user_id": primitive.NewObjectID().Hex()},
	}

	router := gin.New()
	router.Use(middleware.ErrorHandler(logger.NewNop()), func(c *gin.Context) {
		c.Set(utils.ContextUserID, callerID)
		c.Set(utils.ContextUserRole, utils.RoleCustomer)
		c.Next()
	})
	router.POST("/coupons/preview", handler.Preview)

	w := doJSON(router, http.MethodPost, "/coupons/preview", body)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, service.customer)
	assert.Equal(t, callerID, *service.customer)
	assert.Equal(t, 60.0, service.request.Cart.Shipping)

	anonymous := newTestRouter("", func(r *gin.Engine) { r.POST("/coupons/preview", handler.Preview) })
	w = doJSON(anonymous, http.MethodPost, "/coupons/preview", body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, service.customer)
}
