package utils

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate is the shared request-payload validator.
var Validate = validator.New(validator.WithRequiredStructEnabled())

// FailValidation writes a 400 envelope listing the offending fields.
func FailValidation(w http.ResponseWriter, err error) {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		Fail(w, http.StatusBadRequest, CodeValidation, "Invalid input")
		return
	}
	fields := make([]string, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, fe.Field()+" ("+fe.Tag()+")")
	}
	Fail(w, http.StatusBadRequest, CodeValidation, "Invalid input: "+strings.Join(fields, ", "))
}
