package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	// Queue item type validation
	validate.RegisterValidation("item_type", func(fl validator.FieldLevel) bool {
		itemType := fl.Field().String()
		validTypes := []string{"report", "user", "hackathon", "project"}
		for _, t := range validTypes {
			if itemType == t {
				return true
			}
		}
		return false
	})

	// Resolution kind validation
	validate.RegisterValidation("resolution", func(fl validator.FieldLevel) bool {
		resolution := fl.Field().String()
		validKinds := []string{"approved", "rejected", "removed", "warned", "banned", "dismissed"}
		for _, k := range validKinds {
			if resolution == k {
				return true
			}
		}
		return false
	})

	// Admin role validation
	validate.RegisterValidation("admin_role", func(fl validator.FieldLevel) bool {
		role := fl.Field().String()
		validRoles := []string{"super_admin", "admin", "moderator", "support"}
		for _, r := range validRoles {
			if role == r {
				return true
			}
		}
		return false
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "uuid":
			errors[field] = "Invalid identifier format"
		case "item_type":
			errors[field] = "Invalid item type. Must be: report, user, hackathon, or project"
		case "resolution":
			errors[field] = "Invalid resolution. Must be: approved, rejected, removed, warned, banned, or dismissed"
		case "admin_role":
			errors[field] = "Invalid role. Must be: super_admin, admin, moderator, or support"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}
