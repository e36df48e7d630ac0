package serverutils

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"tapcard-be/internal/entity"
)

var validate = validator.New()

// ValidateRequest runs struct tag validation and maps failures to a typed
// validation error.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			first := errs[0]
			return entity.NewDomainError(entity.ErrKindValidation,
				fmt.Sprintf("field %s failed on %s", first.Field(), first.Tag()))
		}
		return entity.WrapDomainError(entity.ErrKindValidation, "invalid request", err)
	}
	return nil
}
