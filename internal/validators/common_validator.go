package validators

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"marketly/internal/utils"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate *validator.Validate

var (
	phonePattern      = regexp.MustCompile(`^\+?[1-9]\d{9,14}$`)
	hsnPattern        = regexp.MustCompile(`^\d{8}$`)
	pincodePattern    = regexp.MustCompile(`^[1-9]\d{5}$`)
	couponCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,32}$`)
)

func init() {
	validate = validator.New()

	// report json field names so details line up with the request body
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		}
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	// Register custom validation functions
	validate.RegisterValidation("object_id", validateObjectID)
	validate.RegisterValidation("slug", validateSlug)
	validate.RegisterValidation("phone_number", validatePhoneNumber)
	validate.RegisterValidation("hsn_code", validateHSNCode)
	validate.RegisterValidation("pincode", validatePincode)
	validate.RegisterValidation("coupon_code", validateCouponCode)
	validate.RegisterValidation("seo_entity", validateSeoEntity)
}

// Common validation errors
var (
	ErrInvalidObjectID    = errors.New("invalid object ID format")
	ErrInvalidPhoneNumber = errors.New("invalid phone number format")
	ErrNoFields           = errors.New(utils.ErrNothingToUpdate)
)

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var messages []string
	for _, err := range v {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

// AppError renders the errors as a 400 with one detail per field.
func (v ValidationErrors) AppError() *utils.AppError {
	details := make(map[string]string, len(v))
	for _, err := range v {
		if _, seen := details[err.Field]; !seen {
			details[err.Field] = err.Message
		}
	}
	return utils.NewValidationError(utils.ErrValidationFailed, details)
}

// ValidateStruct validates a struct and returns detailed errors
func ValidateStruct(s interface{}) ValidationErrors {
	var validationErrors ValidationErrors

	err := validate.Struct(s)
	if err != nil {
		var fieldErrors validator.ValidationErrors
		if !errors.As(err, &fieldErrors) {
			return ValidationErrors{{Field: "body", Tag: "invalid", Message: err.Error()}}
		}
		for _, err := range fieldErrors {
			validationError := ValidationError{
				Field:   fieldPath(err),
				Tag:     err.Tag(),
				Value:   fmt.Sprintf("%v", err.Value()),
				Message: getErrorMessage(err),
			}
			validationErrors = append(validationErrors, validationError)
		}
	}

	return validationErrors
}

// Validate runs ValidateStruct and converts failures to an AppError.
func Validate(s interface{}) error {
	if errs := ValidateStruct(s); len(errs) > 0 {
		return errs.AppError()
	}
	return nil
}

// ValidatePartial validates a partial update: the usual field rules plus at least one
// supplied field.
func ValidatePartial(s interface{}) error {
	if err := RequireAtLeastOne(s); err != nil {
		return utils.NewValidationError(utils.ErrNothingToUpdate, nil)
	}
	return Validate(s)
}

// RequireAtLeastOne fails when every pointer, slice or map field of the struct is nil.
func RequireAtLeastOne(s interface{}) error {
	value := reflect.ValueOf(s)
	if !value.IsValid() {
		return ErrNoFields
	}
	for value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return ErrNoFields
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil
	}

	for i := 0; i < value.NumField(); i++ {
		field := value.Field(i)
		if !value.Type().Field(i).IsExported() {
			continue
		}
		switch field.Kind() {
		case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface:
			if !field.IsNil() {
				return nil
			}
		default:
			if !field.IsZero() {
				return nil
			}
		}
	}
	return ErrNoFields
}

// fieldPath drops the top level struct name from the namespace: address.pincode, not
// CheckoutRequest.address.pincode.
func fieldPath(err validator.FieldError) string {
	namespace := err.Namespace()
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return err.Field()
}

func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required", "required_without":
		return fmt.Sprintf("%s is required", err.Field())
	case "email":
		return "Invalid email format"
	case "url":
		return "Invalid URL"
	case "min", "gte":
		if err.Kind() == reflect.String || err.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param())
		}
		return fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
	case "max", "lte":
		if err.Kind() == reflect.String || err.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		}
		return fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
	case "gtfield":
		return fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
	case "nefield":
		return fmt.Sprintf("%s must differ from %s", err.Field(), err.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", err.Field(), err.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
	case "object_id":
		return "Invalid ID format"
	case "slug":
		return "Must be lowercase letters, digits and single hyphens"
	case "phone_number":
		return "Invalid phone number format"
	case "hsn_code":
		return "HSN code must be 8 digits"
	case "pincode":
		return "Pincode must be 6 digits"
	case "coupon_code":
		return "Coupon code must be 3 to 32 letters, digits, hyphens or underscores"
	case "seo_entity":
		return "entity_id is required unless entity_type is global"
	case "timezone":
		return "Unknown timezone"
	case "uppercase":
		return fmt.Sprintf("%s must be uppercase", err.Field())
	default:
		return fmt.Sprintf("Validation failed for %s", err.Field())
	}
}

// Custom validation functions
func validateObjectID(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Let required tag handle empty values
	}
	_, err := primitive.ObjectIDFromHex(value)
	return err == nil
}

func validateSlug(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return utils.IsValidSlug(value)
}

func validatePhoneNumber(fl validator.FieldLevel) bool {
	phone := fl.Field().String()
	if phone == "" {
		return true
	}
	return phonePattern.MatchString(phone)
}

func validateHSNCode(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if code == "" {
		return true
	}
	return hsnPattern.MatchString(code)
}

func validatePincode(fl validator.FieldLevel) bool {
	pincode := fl.Field().String()
	if pincode == "" {
		return true
	}
	return pincodePattern.MatchString(pincode)
}

func validateCouponCode(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if code == "" {
		return true
	}
	return couponCodePattern.MatchString(code)
}

// validateSeoEntity requires the tagged entity id whenever a sibling EntityType names
// something other than the global record.
func validateSeoEntity(fl validator.FieldLevel) bool {
	if fl.Field().String() != "" {
		return true
	}
	parent := fl.Parent()
	for parent.Kind() == reflect.Ptr {
		parent = parent.Elem()
	}
	if parent.Kind() != reflect.Struct {
		return true
	}
	entityType := parent.FieldByName("EntityType")
	if !entityType.IsValid() {
		return true
	}
	value := entityType.String()
	return value == "" || value == "global"
}

// Helper functions for common validations
func IsValidObjectID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

func SanitizeInput(input string) string {
	// Remove HTML tags and trim whitespace
	cleaned := htmlTagPattern.ReplaceAllString(input, "")
	return strings.TrimSpace(cleaned)
}
