package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance for Settings.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the settings and returns every problem found in one error.
func (s Settings) Validate() error {
	var problems []string

	if err := validate.Struct(s); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return fmt.Errorf("validating settings: %w", err)
		}
		for _, e := range validationErrors {
			problems = append(problems, fmt.Sprintf("%s %s", e.Field(), formatValidationMessage(e)))
		}
	}

	// yuv420p needs even dimensions
	if s.Width%2 != 0 || s.Height%2 != 0 {
		problems = append(problems, fmt.Sprintf("canvas %dx%d must have even dimensions", s.Width, s.Height))
	}
	if s.AnchorX < 0 || s.AnchorY < 0 || s.AnchorX >= s.Width || s.AnchorY >= s.Height {
		problems = append(problems, fmt.Sprintf("anchor (%d,%d) lies outside the %dx%d canvas", s.AnchorX, s.AnchorY, s.Width, s.Height))
	}
	if _, err := s.BackgroundRGBA(); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := s.CaptionRGBA(); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
}

// formatValidationMessage creates a human-readable message from a validator error.
func formatValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", e.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", e.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", e.Param())
	case "gtfield":
		return fmt.Sprintf("must be greater than %s", e.Param())
	default:
		return fmt.Sprintf("failed validation '%s'", e.Tag())
	}
}
