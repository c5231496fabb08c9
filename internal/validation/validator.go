// Package validation holds the shared validator instance used by all
// request handlers.
package validation

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}
