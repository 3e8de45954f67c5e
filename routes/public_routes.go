package routes

import (
	"marketly/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up registration, login and the caller's own account
func SetupAuthRoutes(r *gin.RouterGroup, g Guards, authHandler *handlers.AuthHandler) {
	auth := r.Group("/auth")
	auth.Use(g.public)
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)

		auth.GET("/me", g.auth, authHandler.Me)
		auth.PUT("/password", g.auth, authHandler.ChangePassword)
	}
}

// SetupStorefrontRoutes exposes the read-only catalog. Admin callers may filter by status.
func SetupStorefrontRoutes(r *gin.RouterGroup, g Guards, h *Handlers) {
	store := r.Group("")
	store.Use(g.optional, g.public)

	brands := store.Group("/brands")
	{
		brands.GET("", h.Brand.List)
		brands.GET("/:id", h.Brand.Get)
		brands.GET("/slug/:slug", h.Brand.GetBySlug)
	}

	categories := store.Group("/categories")
	{
		categories.GET("", h.Category.List)
		categories.GET("/:id", h.Category.Get)
		categories.GET("/slug/:slug", h.Category.GetBySlug)
	}

	store.GET("/tags", h.Tag.List)
	store.GET("/tags/:id", h.Tag.Get)

	products := store.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/:id", h.Product.Get)
		products.GET("/slug/:slug", h.Product.GetBySlug)
	}

	vehicles := store.Group("")
	{
		vehicles.GET("/vehicle-brands", h.Vehicle.ListBrands)
		vehicles.GET("/vehicle-brands/:id", h.Vehicle.GetBrand)
		vehicles.GET("/vehicle-models", h.Vehicle.ListModels)
		vehicles.GET("/vehicle-models/:id", h.Vehicle.GetModel)
		vehicles.GET("/vehicle-model-years", h.Vehicle.ListModelYears)
		vehicles.GET("/vehicle-model-years/:id", h.Vehicle.GetModelYear)
		vehicles.GET("/vehicles", h.Vehicle.ListVehicles)
		vehicles.GET("/vehicles/:id", h.Vehicle.GetVehicle)
	}

	store.GET("/seo/resolve", h.Seo.Resolve)
	store.POST("/coupons/preview", h.Coupon.Preview)
	store.POST("/shipping/quote", h.Shipping.Quote)
	store.POST("/tax/calculate", h.Tax.Calculate)
}

// SetupCustomerRoutes covers the signed-in shopping flow
func SetupCustomerRoutes(r *gin.RouterGroup, g Guards, h *Handlers) {
	customer := r.Group("")
	customer.Use(g.auth, g.public)

	cart := customer.Group("/cart")
	{
		cart.GET("", h.Cart.Get)
		cart.POST("/items", h.Cart.AddItem)
		cart.PUT("/items/:product_id", h.Cart.SetQuantity)
		cart.DELETE("/items/:product_id", h.Cart.RemoveItem)
		cart.DELETE("", h.Cart.Clear)
	}

	checkout := customer.Group("/checkout")
	{
		checkout.POST("/quote", h.Checkout.Quote)
		checkout.POST("", h.Checkout.PlaceOrder)
	}

	orders := customer.Group("/orders")
	{
		orders.GET("", h.Order.ListMine)
		orders.GET("/:id", h.Order.GetMine)
	}
}
