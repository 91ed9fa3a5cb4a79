// Package validate contains the support for validating models.
package validate

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// validate holds the settings and caches for validating request struct values.
var validate *validator.Validate

// translator is a cache of locale and translation information.
var translator ut.Translator

func init() {

	// Instantiate a validator.
	validate = validator.New()

	// Create a translator for english so the error messages are
	// more human-readable than technical.
	translator, _ = ut.New(en.New(), en.New()).GetTranslator("en")

	// Register the english error messages for use.
	en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	// Algorand addresses are 58 characters of upper case base32.
	validate.RegisterValidation("algoaddr", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if len(s) != 58 {
			return false
		}
		for _, c := range s {
			if (c < 'A' || c > 'Z') && (c < '2' || c > '7') {
				return false
			}
		}
		return true
	})
	validate.RegisterTranslation("algoaddr", translator, func(ut ut.Translator) error {
		return ut.Add("algoaddr", "{0} must be a valid algorand address", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("algoaddr", fe.Field())
		return t
	})
}

// Check validates the provided model against it's declared tags.
func Check(val any) error {
	if err := validate.Struct(val); err != nil {

		// Use a type assertion to get the real error value.
		var verrors validator.ValidationErrors
		if !errors.As(err, &verrors) {
			return err
		}

		var fields FieldErrors
		for _, verror := range verrors {
			field := FieldError{
				Field: verror.Field(),
				Error: verror.Translate(translator),
			}
			fields = append(fields, field)
		}

		return fields
	}

	return nil
}

// Var validates a single value against the provided tag.
func Var(field any, tag string) error {
	return validate.Var(field, tag)
}
