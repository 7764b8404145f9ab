package validate

import (
	"fmt"

	"scouthub/internal/core/domain"

	"github.com/go-playground/validator/v10"
)

var v = validator.New()

// Struct validates an input struct against its validate tags, wrapping
// the first failure as a domain input error.
func Struct(input interface{}) error {
	err := v.Struct(input)
	if err == nil {
		return nil
	}
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		e := errs[0]
		return fmt.Errorf("%w: field %s failed on %s", domain.ErrInvalidInput, e.Field(), e.Tag())
	}
	return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
}
