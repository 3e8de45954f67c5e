package routes

import (
	"marketly/internal/handlers"
	"marketly/internal/handlers/shared"
	"marketly/internal/middleware"
	"marketly/internal/services"
	"marketly/internal/utils"
	"marketly/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Health    *shared.HealthHandler
	Auth      *handlers.AuthHandler
	User      *handlers.UserHandler
	Role      *handlers.RoleHandler
	Vehicle   *handlers.VehicleHandler
	Brand     *handlers.BrandHandler
	Category  *handlers.CategoryHandler
	Tag       *handlers.TagHandler
	Product   *handlers.ProductHandler
	Coupon    *handlers.CouponHandler
	Shipping  *handlers.ShippingHandler
	Tax       *handlers.TaxHandler
	Seo       *handlers.SeoHandler
	Settings  *handlers.SettingsHandler
	Media     *handlers.MediaHandler
	Inventory *handlers.InventoryHandler
	Cart      *handlers.CartHandler
	Checkout  *handlers.CheckoutHandler
	Order     *handlers.OrderHandler
	Report    *handlers.ReportHandler
}

type Options struct {
	JWT             *utils.JWTManager
	Cache           services.CacheService
	Logger          *logger.Logger
	CORSOrigins     []string
	TrustedProxies  []string
	PublicRateLimit int
	AdminRateLimit  int
}

// Guards holds the middleware chains shared by the route groups.
type Guards struct {
	auth     gin.HandlerFunc
	optional gin.HandlerFunc
	public   gin.HandlerFunc
	admin    []gin.HandlerFunc
	manage   []gin.HandlerFunc
}

// NewRouter builds the engine with the global middleware chain and every route.
func NewRouter(opts Options, h *Handlers) *gin.Engine {
	router := gin.New()
	if err := router.SetTrustedProxies(opts.TrustedProxies); err != nil {
		opts.Logger.WithError(err).Warn("Invalid trusted proxies, trusting none")
		_ = router.SetTrustedProxies(nil)
	}

	router.Use(
		middleware.RequestIDMiddleware(),
		shared.WithLogger(opts.Logger),
		middleware.LoggingMiddleware(opts.Logger),
		middleware.RecoveryMiddleware(opts.Logger),
		middleware.CORSMiddleware(opts.CORSOrigins),
		middleware.ErrorHandler(opts.Logger),
	)
	router.NoRoute(middleware.NoRouteHandler())

	g := Guards{
		auth:     middleware.AuthRequired(opts.JWT),
		optional: middleware.OptionalAuth(opts.JWT),
		public:   middleware.PublicLimiter(opts.Cache, opts.PublicRateLimit, opts.Logger),
	}
	g.admin = []gin.HandlerFunc{
		g.auth,
		middleware.AdminLimiter(opts.Cache, opts.AdminRateLimit, opts.Logger),
		middleware.AdminRequired(),
	}
	g.manage = []gin.HandlerFunc{
		g.auth,
		middleware.AdminLimiter(opts.Cache, opts.AdminRateLimit, opts.Logger),
		middleware.CatalogManagerRequired(),
		handlers.ManageScope(),
	}

	router.GET("/health", h.Health.Health)

	v1 := router.Group("/api/v1")
	SetupAuthRoutes(v1, g, h.Auth)
	SetupStorefrontRoutes(v1, g, h)
	SetupCustomerRoutes(v1, g, h)
	SetupManageRoutes(v1, g, h)
	SetupAdminRoutes(v1, g, h)

	return router
}
