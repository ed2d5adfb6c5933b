package util

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/chetan123445/VK-WebPortal-sub002/model"
)

const topicTag = "topictag"

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	enLocale := en.New()
	translator, _ = ut.New(enLocale, enLocale).GetTranslator("en")

	validate = validator.New()
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(topicTag, func(fl validator.FieldLevel) bool {
		return model.IsValidTag(fl.Field().String())
	})
	_ = validate.RegisterTranslation(
		topicTag, translator,
		func(t ut.Translator) error { return t.Add(topicTag, "unknown tag", false) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(topicTag, fe.Field())
			return s
		},
	)
}

// ValidateReq runs the request struct's validate tags and reports failures as
// a single HTTPError carrying field-level messages.
func ValidateReq(req interface{}) *HTTPError {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return &HTTPError{Status: http.StatusBadRequest, Message: err.Error()}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Translate(translator)
	}
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Message: "validation failed",
		Fields:  fields,
	}
}
