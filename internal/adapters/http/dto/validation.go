package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/jsamuelsen/artistly/internal/domain"
)

var (
	// ErrValidation wraps struct validation failures.
	ErrValidation = errors.New("validation failed")

	// ErrBinding wraps JSON or query decoding failures.
	ErrBinding = errors.New("binding failed")
)

var (
	validate   *validator.Validate
	translator ut.Translator
	initOnce   sync.Once
)

// Validator returns the shared validator. Field errors are named after the
// json tag, and messages come from the English translations plus the
// "theme" rule.
func Validator() *validator.Validate {
	initOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonName)

		english := en.New()
		translator, _ = ut.New(english, english).GetTranslator("en")

		if err := entranslations.RegisterDefaultTranslations(validate, translator); err != nil {
			panic(fmt.Sprintf("registering validator translations: %v", err))
		}

		mustRegister("theme", validateTheme, "{0} must be dark or light")
	})

	return validate
}

// mustRegister adds a custom rule together with its message.
func mustRegister(tag string, fn validator.Func, message string) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("registering %s validation: %v", tag, err))
	}

	err := validate.RegisterTranslation(tag, translator,
		func(t ut.Translator) error { return t.Add(tag, message, false) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field())
			return msg
		},
	)
	if err != nil {
		panic(fmt.Sprintf("registering %s translation: %v", tag, err))
	}
}

func jsonName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}

	return name
}

// Validate runs struct validation on v.
func Validate(v any) error {
	if err := Validator().Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return nil
}

// BindAndValidate decodes the JSON body into v and validates it.
func BindAndValidate(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}

	return Validate(v)
}

// BindQueryAndValidate decodes the query string into v and validates it.
func BindQueryAndValidate(c *gin.Context, v any) error {
	if err := c.ShouldBindQuery(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}

	return Validate(v)
}

// ValidationErrors maps each failing field to its message. Messages omit the
// field name, matching the domain's FieldErrors.
func ValidationErrors(err error) map[string]string {
	out := make(map[string]string)

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return out
	}

	Validator()

	for _, fe := range fieldErrs {
		out[fe.Field()] = strings.TrimPrefix(fe.Translate(translator), fe.Field()+" ")
	}

	return out
}

// IsValidationError reports whether err carries validator field errors.
func IsValidationError(err error) bool {
	var fieldErrs validator.ValidationErrors
	return errors.As(err, &fieldErrs)
}

func validateTheme(fl validator.FieldLevel) bool {
	return domain.Theme(fl.Field().String()).Valid()
}
