package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/opencloze/opencloze/internal/language"
)

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation("language", isKnownLanguage); err != nil {
		return nil, nil, fmt.Errorf("failed to register language validation: %w", err)
	}
	if err := validate.RegisterTranslation("language", trans, func(ut ut.Translator) error {
		return ut.Add("language", "{0} must be a supported language name", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("language", strings.TrimPrefix(fe.Namespace(), "Config."))
		return t
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to register language translation: %w", err)
	}

	return validate, trans, nil
}

func isKnownLanguage(fl validator.FieldLevel) bool {
	_, err := language.Lookup(fl.Field().String())
	return err == nil
}
