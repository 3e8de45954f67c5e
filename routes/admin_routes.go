package routes

import (
	"github.com/gin-gonic/gin"
)

// SetupManageRoutes lets admins and vendors maintain products. Vendors are limited to
// their own.
func SetupManageRoutes(r *gin.RouterGroup, g Guards, h *Handlers) {
	manage := r.Group("/manage")
	manage.Use(g.manage...)
	{
		manage.GET("/products", h.Product.List)
		manage.POST("/products", h.Product.Create)
		manage.GET("/products/:id", h.Product.Get)
		manage.PATCH("/products/:id", h.Product.Update)
		manage.DELETE("/products/:id", h.Product.Remove)
		manage.POST("/media/presign", h.Media.PresignUpload)
	}
}

// SetupAdminRoutes mounts every administrative resource behind the admin guard
func SetupAdminRoutes(r *gin.RouterGroup, g Guards, h *Handlers) {
	admin := r.Group("/admin")
	admin.Use(g.admin...)

	crud := func(path string, list, create, get, update, remove gin.HandlerFunc) {
		group := admin.Group(path)
		group.GET("", list)
		group.POST("", create)
		group.GET("/:id", get)
		group.PATCH("/:id", update)
		group.DELETE("/:id", remove)
	}

	crud("/vehicle-brands", h.Vehicle.ListBrands, h.Vehicle.CreateBrand, h.Vehicle.GetBrand, h.Vehicle.UpdateBrand, h.Vehicle.RemoveBrand)
	crud("/vehicle-models", h.Vehicle.ListModels, h.Vehicle.CreateModel, h.Vehicle.GetModel, h.Vehicle.UpdateModel, h.Vehicle.RemoveModel)
	crud("/vehicle-model-years", h.Vehicle.ListModelYears, h.Vehicle.CreateModelYear, h.Vehicle.GetModelYear, h.Vehicle.UpdateModelYear, h.Vehicle.RemoveModelYear)
	crud("/vehicles", h.Vehicle.ListVehicles, h.Vehicle.CreateVehicle, h.Vehicle.GetVehicle, h.Vehicle.UpdateVehicle, h.Vehicle.RemoveVehicle)

	crud("/brands", h.Brand.List, h.Brand.Create, h.Brand.Get, h.Brand.Update, h.Brand.Remove)
	crud("/categories", h.Category.List, h.Category.Create, h.Category.Get, h.Category.Update, h.Category.Remove)
	crud("/tags", h.Tag.List, h.Tag.Create, h.Tag.Get, h.Tag.Update, h.Tag.Remove)
	crud("/products", h.Product.List, h.Product.Create, h.Product.Get, h.Product.Update, h.Product.Remove)

	crud("/coupons", h.Coupon.List, h.Coupon.Create, h.Coupon.Get, h.Coupon.Update, h.Coupon.Remove)
	crud("/shipping-rules", h.Shipping.List, h.Shipping.Create, h.Shipping.Get, h.Shipping.Update, h.Shipping.Remove)
	crud("/tax", h.Tax.List, h.Tax.Create, h.Tax.Get, h.Tax.Update, h.Tax.Remove)
	crud("/seo", h.Seo.List, h.Seo.Create, h.Seo.Get, h.Seo.Update, h.Seo.Remove)
	crud("/roles", h.Role.List, h.Role.Create, h.Role.Get, h.Role.Update, h.Role.Remove)

	settings := admin.Group("/settings")
	{
		settings.GET("", h.Settings.Get)
		settings.PATCH("", h.Settings.Update)
	}

	media := admin.Group("/media")
	{
		media.GET("", h.Media.List)
		media.POST("/presign", h.Media.PresignUpload)
		media.GET("/:id", h.Media.Get)
		media.GET("/:id/download", h.Media.DownloadURL)
		media.DELETE("/:id", h.Media.Remove)
	}

	users := admin.Group("/users")
	{
		users.GET("", h.User.List)
		users.GET("/:id", h.User.Get)
		users.PATCH("/:id", h.User.Update)
		users.DELETE("/:id", h.User.Remove)
	}

	inventory := admin.Group("/inventory")
	{
		inventory.GET("/low-stock", h.Inventory.LowStock)
		inventory.POST("/products/:id/adjust", h.Inventory.Adjust)
		inventory.GET("/products/:id/movements", h.Inventory.Movements)
	}

	orders := admin.Group("/orders")
	{
		orders.GET("", h.Order.List)
		orders.GET("/:id", h.Order.Get)
		orders.PATCH("/:id/status", h.Order.UpdateStatus)
	}

	admin.GET("/sales-reports", h.Report.Sales)
}
