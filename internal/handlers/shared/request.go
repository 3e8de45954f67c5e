package shared

import (
	"marketly/internal/models"
	"marketly/internal/services"
	"marketly/internal/utils"
	"marketly/internal/validators"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BindJSON decodes the body into request and runs its validation tags.
func BindJSON(c *gin.Context, request interface{}) error {
	if err := c.ShouldBindJSON(request); err != nil {
		return utils.NewBadRequestError("Invalid request body: " + err.Error())
	}
	return validators.Validate(request)
}

// BindPartialJSON is BindJSON for partial updates, which must carry at least one field.
func BindPartialJSON(c *gin.Context, request interface{}) error {
	if err := c.ShouldBindJSON(request); err != nil {
		return utils.NewBadRequestError("Invalid request body: " + err.Error())
	}
	return validators.ValidatePartial(request)
}

// BindQuery decodes the query string into request and validates it.
func BindQuery(c *gin.Context, request interface{}) error {
	if err := c.ShouldBindQuery(request); err != nil {
		return utils.NewBadRequestError("Invalid query: " + err.Error())
	}
	return validators.Validate(request)
}

// ParamID parses the named path parameter as an ObjectID.
func ParamID(c *gin.Context, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, utils.NewValidationError("Invalid "+name, map[string]string{name: "Invalid ID format"})
	}
	return id, nil
}

// QueryID parses an optional query parameter as an ObjectID. Absent yields nil.
func QueryID(c *gin.Context, name string) (*primitive.ObjectID, error) {
	value := c.Query(name)
	if value == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(value)
	if err != nil {
		return nil, utils.NewValidationError("Invalid "+name, map[string]string{name: "Invalid ID format"})
	}
	return &id, nil
}

// UserID returns the authenticated user set by the auth middleware.
func UserID(c *gin.Context) (primitive.ObjectID, error) {
	value, exists := c.Get(utils.ContextUserID)
	if !exists {
		return primitive.NilObjectID, utils.NewUnauthorizedError(utils.ErrUnauthorized)
	}
	id, ok := value.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, utils.NewUnauthorizedError(utils.ErrInvalidToken)
	}
	return id, nil
}

// Actor returns the caller as the services see it, or nil for anonymous requests.
func Actor(c *gin.Context) *services.Actor {
	id, err := UserID(c)
	if err != nil {
		return nil
	}
	return &services.Actor{UserID: id, Role: c.GetString(utils.ContextUserRole)}
}

func IsAdmin(c *gin.Context) bool {
	return c.GetString(utils.ContextUserRole) == utils.RoleAdmin
}

// StatusFilter lets admins filter by the status query parameter. Everyone else only
// sees active records.
func StatusFilter(c *gin.Context) (models.Status, error) {
	if !IsAdmin(c) {
		return models.StatusActive, nil
	}
	switch status := models.Status(c.Query("status")); status {
	case "", models.StatusActive, models.StatusInactive:
		return status, nil
	default:
		return "", utils.NewValidationError("Invalid status", map[string]string{"status": "status must be one of: active inactive"})
	}
}

// Audit records an admin write against the caller.
func Audit(c *gin.Context, action, resource, resourceID string) {
	actorID := ""
	if id, err := UserID(c); err == nil {
		actorID = id.Hex()
	}
	Logger(c).LogAudit(action, resource, resourceID, actorID)
}
