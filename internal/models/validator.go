package models

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator that reports fields by their JSON name and
// sees through Optional wrappers. An unset Optional validates as its zero value.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	v.RegisterCustomTypeFunc(optionalValue[string], Optional[string]{})
	v.RegisterCustomTypeFunc(optionalValue[float64], Optional[float64]{})
	v.RegisterCustomTypeFunc(optionalValue[int], Optional[int]{})
	v.RegisterCustomTypeFunc(optionalValue[bool], Optional[bool]{})
	v.RegisterCustomTypeFunc(optionalValue[[]string], Optional[[]string]{})
	v.RegisterCustomTypeFunc(optionalValue[LaptopSpec], Optional[LaptopSpec]{})
	return v
}

func optionalValue[T any](field reflect.Value) interface{} {
	if o, ok := field.Interface().(Optional[T]); ok {
		return o.Value
	}
	return nil
}

// ValidationMessages flattens validator errors into a field to message map.
func ValidationMessages(err error) map[string]string {
	messages := make(map[string]string)
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		messages["_"] = err.Error()
		return messages
	}
	for _, e := range validationErrors {
		field := e.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		if e.Param() != "" {
			messages[field] = fmt.Sprintf("Field '%s' failed on the '%s=%s' tag", field, e.Tag(), e.Param())
		} else {
			messages[field] = fmt.Sprintf("Field '%s' failed on the '%s' tag", field, e.Tag())
		}
	}
	return messages
}
