package validator

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator is the main validator instance that combines all validation types
type Validator struct {
	structValidator   *validator.Validate
	businessValidator *BusinessValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		businessValidator: NewBusinessValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if errs := ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// ValidateBusiness validates business rules only
func (v *Validator) ValidateBusiness(s interface{}) ValidationErrors {
	return v.businessValidator.Validate(s)
}

// Validate performs complete validation (struct + business rules)
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		return err
	}

	if errors := v.ValidateBusiness(s); len(errors) > 0 {
		return errors
	}

	return nil
}

// Business returns the business validator
func (v *Validator) Business() *BusinessValidator {
	return v.businessValidator
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("grade_level", validateGradeLevel)
	validate.RegisterValidation("answer_letter", validateAnswerLetter)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

var gradeLevelPattern = regexp.MustCompile(`(?i)^(kindergarten|k|(grade\s*)?([1-9]|1[0-2]))$`)

// IsGradeLevel accepts "Kindergarten", "K", "Grade 7" and bare "7" (1 to 12).
func IsGradeLevel(value string) bool {
	return gradeLevelPattern.MatchString(strings.TrimSpace(value))
}

func validateGradeLevel(fl validator.FieldLevel) bool {
	return IsGradeLevel(fl.Field().String())
}

const maxAnswerLength = 8

func validateAnswerLetter(fl validator.FieldLevel) bool {
	return len(strings.TrimSpace(fl.Field().String())) <= maxAnswerLength
}
