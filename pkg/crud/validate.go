package crud

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrymomot/natours/handler"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("bson"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return strings.ToLower(f.Name)
		}
		return name
	})
	return v
}

// validateStruct runs the validate tags of v. When only is not nil, errors
// of fields outside only are ignored.
func (s *Schema) validateStruct(v any, only Document) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("crud: validate: %w", err)
	}

	out := handler.NewValidationError()
	for _, fe := range verrs {
		top, _, _ := strings.Cut(topLevel(fe.Namespace()), ".")
		if only != nil {
			if _, ok := only[top]; !ok {
				continue
			}
		}
		out.Add(fe.Field(), s.message(fe))
	}
	if out.IsEmpty() {
		return nil
	}
	return out
}

// topLevel strips the struct name from a validator namespace ("Tour.name").
func topLevel(ns string) string {
	_, rest, ok := strings.Cut(ns, ".")
	if !ok {
		return ns
	}
	return rest
}

// message returns the `message` tag override or a generic sentence.
// The tag holds either one message or "rule=message;rule=message" pairs.
func (s *Schema) message(fe validator.FieldError) string {
	if sf, ok := s.structField(fe); ok {
		if tag := sf.Tag.Get("message"); tag != "" {
			if !strings.Contains(tag, "=") {
				return tag
			}
			for _, pair := range strings.Split(tag, ";") {
				rule, msg, _ := strings.Cut(pair, "=")
				if strings.TrimSpace(rule) == fe.Tag() {
					return strings.TrimSpace(msg)
				}
			}
		}
	}
	return defaultMessage(fe)
}

func (s *Schema) structField(fe validator.FieldError) (reflect.StructField, bool) {
	ns := topLevel(fe.StructNamespace())
	if strings.Contains(ns, ".") || strings.Contains(ns, "[") {
		return reflect.StructField{}, false
	}
	return s.typ.FieldByName(ns)
}

func defaultMessage(fe validator.FieldError) string {
	field := fe.Field()
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if isString {
			return fmt.Sprintf("%s must have at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("%s must have at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater or equal to %s", field, fe.Param())
	case "lt", "ltfield":
		return fmt.Sprintf("%s must be less than %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less or equal to %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s is either: %s", field, strings.Join(strings.Fields(fe.Param()), ", "))
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	}
	return fmt.Sprintf("%s is invalid", field)
}
