// Package validate wraps a process-wide go-playground validator that reports json field names
package validate

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entrans "github.com/go-playground/validator/v10/translations/en"
)

// Errors aliases validator.ValidationErrors
type Errors = validator.ValidationErrors

// FieldError aliases validator.FieldError
type FieldError = validator.FieldError

type instance struct {
	v     *validator.Validate
	trans ut.Translator
}

var get = sync.OnceValue(func() *instance {
	loc := en.New()
	trans, _ := ut.New(loc, loc).GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	_ = entrans.RegisterDefaultTranslations(v, trans)

	_ = v.RegisterValidation("nonblank", nonBlank)
	message(v, trans, "nonblank", "{0} must be a non-empty string")

	return &instance{v: v, trans: trans}
})

// Struct validates s against its validate tags
func Struct(s any) error { return get().v.Struct(s) }

// Message renders fe in english, naming the json field
func Message(fe FieldError) string { return fe.Translate(get().trans) }

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

// nonBlank wants a string, or a non-nil string pointer, with a non-space rune
func nonBlank(fl validator.FieldLevel) bool {
	f := fl.Field()
	if f.Kind() == reflect.Pointer {
		if f.IsNil() {
			return false
		}
		f = f.Elem()
	}
	return f.Kind() == reflect.String && strings.TrimSpace(f.String()) != ""
}

func message(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field(), fe.Param())
			return s
		},
	)
}
