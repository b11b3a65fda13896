package apperror

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FromValidation turns validator errors into an INVALID_INPUT error whose
// details list the failing fields and rules.
func FromValidation(err error) *AppError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Wrap(err, CodeInvalidInput, "Invalid input", http.StatusBadRequest)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[lowerFirst(fe.Field())] = fe.Tag()
	}

	appErr := Wrap(err, CodeInvalidInput, "Invalid input", http.StatusBadRequest)
	appErr.Details = fields
	return appErr
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
