package dto

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	estranslations "github.com/go-playground/validator/v10/translations/es"
)

var (
	setupOnce  sync.Once
	uni        *ut.UniversalTranslator
	setupError error
)

// SetupValidator registers JSON field names and the Spanish and English
// translations on gin's validator. It is safe to call more than once.
func SetupValidator() error {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			setupError = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)

		esLocale := es.New()
		uni = ut.New(esLocale, esLocale, en.New())

		esTrans, _ := uni.GetTranslator("es")
		if err := estranslations.RegisterDefaultTranslations(v, esTrans); err != nil {
			setupError = err
			return
		}
		enTrans, _ := uni.GetTranslator("en")
		setupError = entranslations.RegisterDefaultTranslations(v, enTrans)
	})
	return setupError
}

func jsonFieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form", "uri"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// TranslateValidationErrors renders validator errors field by field in the given
// language ("es" or "en"). ok is false when err is not a validation error.
func TranslateValidationErrors(err error, lang string) (details []ValidationDetail, ok bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}
	_ = SetupValidator()

	var trans ut.Translator
	if uni != nil {
		trans, _ = uni.GetTranslator(lang)
	}
	details = make([]ValidationDetail, 0, len(verrs))
	for _, fe := range verrs {
		msg := fe.Error()
		if trans != nil {
			msg = fe.Translate(trans)
		}
		details = append(details, ValidationDetail{
			Field:   fieldPath(fe.Namespace()),
			Tag:     fe.Tag(),
			Message: msg,
		})
	}
	return details, true
}

// fieldPath drops the struct name from a validator namespace: "PlaceOrderRequest.items[0].quantity" -> "items[0].quantity"
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
