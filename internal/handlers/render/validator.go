package render

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nkiryanov/grail/internal/models"
)

func configureValidator(validate *validator.Validate) {
	_ = validate.RegisterValidation("payment_method", validatePaymentMethod)
	validate.RegisterTagNameFunc(useJSONTagNames)
}

func useJSONTagNames(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	// skip if tag key says it should be ignored
	if name == "-" {
		return ""
	}
	return name
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	return models.ValidPaymentMethod(fl.Field().String())
}
