package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate instancia compartida; validator.Validate es seguro para uso concurrente.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Los mensajes usan el nombre del parámetro (query/json), no el del campo Go.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"query", "json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// validationMessage arma un mensaje legible a partir de los errores del validador.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s es requerido", fe.Field()))
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s debe ser uno de: %s", fe.Field(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s inválido (%s)", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
