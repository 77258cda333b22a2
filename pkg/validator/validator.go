package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/johnquangdev/meeting-notes/internal/domain/entities"
)

// rules are the custom tags every request may use
var rules = map[string]validator.Func{
	"section_key": func(fl validator.FieldLevel) bool {
		return entities.SectionKey(fl.Field().String()).IsValid()
	},
}

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a new CustomValidator with the custom rules registered.
// It panics if a rule cannot be registered.
func New() *CustomValidator {
	v := validator.New()
	if err := register(v, rules); err != nil {
		panic(err)
	}
	return &CustomValidator{v: v}
}

func register(v *validator.Validate, fns map[string]validator.Func) error {
	for tag, fn := range fns {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %q validation: %w", tag, err)
		}
	}
	return nil
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}
