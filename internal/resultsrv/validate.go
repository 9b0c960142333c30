package resultsrv

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// recordValidator validates request bodies and translates failures to
// English, keyed by JSON field name.
type recordValidator struct {
	v     *validator.Validate
	trans ut.Translator
}

func newRecordValidator() *recordValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Use JSON tag name for field names in error messages.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	return &recordValidator{v: v, trans: trans}
}

// Check returns nil or a map of field name to message.
func (rv *recordValidator) Check(dst any) map[string]string {
	err := rv.v.Struct(dst)
	if err == nil {
		return nil
	}

	fields := make(map[string]string)
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fe.Field()] = fe.Translate(rv.trans)
		}
		return fields
	}
	fields["detail"] = err.Error()
	return fields
}
