package utils

import "time"

// Application Constants
const (
	AppName    = "Marketly"
	AppVersion = "1.0.0"

	DefaultCurrency = "INR"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Authentication
	JWTAccessTokenTTL  = 24 * time.Hour
	JWTRefreshTokenTTL = 7 * 24 * time.Hour
	PasswordMinLength  = 8
	PasswordMaxLength  = 128

	// Media
	MaxMediaSize = 10 * 1024 * 1024 // 10MB

	// Shipping
	DefaultVolumetricDivisor = 5000.0

	// Rate Limiting
	DefaultRateLimit = 120
	AdminRateLimit   = 60
)

// Roles
const (
	RoleAdmin    = "admin"
	RoleVendor   = "vendor"
	RoleCustomer = "customer"
)

var BuiltInRoles = []string{RoleAdmin, RoleVendor, RoleCustomer}

// Error codes rendered in the error envelope
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeBadRequest      = "BAD_REQUEST"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeUnprocessable   = "UNPROCESSABLE_ENTITY"
	CodeTooManyRequests = "TOO_MANY_REQUESTS"
	CodeInternal        = "INTERNAL_ERROR"
	CodeUnavailable     = "SERVICE_UNAVAILABLE"
)

// Error Messages
const (
	ErrInvalidCredentials = "invalid credentials"
	ErrInvalidToken       = "invalid token"
	ErrInternalServer     = "internal server error"
	ErrUnauthorized       = "unauthorized"
	ErrForbidden          = "forbidden"
	ErrValidationFailed   = "validation failed"
	ErrNothingToUpdate    = "at least one field must be provided"
)

// Cache Keys
const (
	CacheSEOPrefix       = "seo:"
	CacheSEOSlugPrefix   = "seo:slug:"
	CacheSEOQueryPrefix  = "seo:query:"
	CacheRateLimitPrefix = "rate_limit:"
)

// Job Types
const (
	JobInventoryLowStock = "inventory.low_stock"
)

// Context Keys
const (
	ContextUserID    = "user_id"
	ContextUserRole  = "user_role"
	ContextUserEmail = "user_email"
	ContextRequestID = "request_id"
)

// Media Types
var AllowedMediaTypes = map[string]string{
	"image/jpeg":      "jpg",
	"image/png":       "png",
	"image/webp":      "webp",
	"image/gif":       "gif",
	"image/svg+xml":   "svg",
	"application/pdf": "pdf",
}
