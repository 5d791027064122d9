package core

import (
	"reflect"
	"regexp"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	// Validate and Translator are set by InitValidators and shared by all
	// model Validate() methods.
	Validate   *validator.Validate
	Translator ut.Translator

	// custom validation tags & texts
	alphaNumUnderTag   = "alphanum_"
	alphaNumUnderText  = "only alphanumeric characters and underscores are allowed"
	alphaNumUnderRegex = regexp.MustCompile(`^[\w\s]+$`)

	classCodeTag   = "classcode"
	classCodeText  = "must be a 6-character code of uppercase letters and digits"
	classCodeRegex = regexp.MustCompile(`^[A-Z0-9]{6}$`)

	strongPwdTag  = "strongpwd"
	strongPwdText = "password must contain at least 8 characters, a lowercase letter, an uppercase letter, a number and a special character (e.g., @$!%*?&)"

	lowerRegex   = regexp.MustCompile(`[a-z]`)
	upperRegex   = regexp.MustCompile(`[A-Z]`)
	digitRegex   = regexp.MustCompile(`\d`)
	specialRegex = regexp.MustCompile(`[@$!%*?&]`)

	requiredTag     = "required"
	requiredWithTag = "required_with"
	requiredText    = "this field is required"
)

// InitValidators instantiates the validators for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(alphaNumUnderTag, alphaNumUnderValidation)
	RegisterCustomTranslation(validate, translator, alphaNumUnderTag, alphaNumUnderText)

	_ = validate.RegisterValidation(classCodeTag, classCodeValidation)
	RegisterCustomTranslation(validate, translator, classCodeTag, classCodeText)

	_ = validate.RegisterValidation(strongPwdTag, strongPwdValidation)
	RegisterCustomTranslation(validate, translator, strongPwdTag, strongPwdText)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
	RegisterCustomTranslation(validate, translator, requiredWithTag, requiredText, true)

	Validate = validate
	Translator = translator
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Custom Global Validators

// alphaNumUnderValidation only allows alphanumeric characters and underscores.
func alphaNumUnderValidation(fl validator.FieldLevel) bool {
	return alphaNumUnderRegex.MatchString(fl.Field().String())
}

// classCodeValidation matches a classroom code: 6 uppercase alphanumeric characters.
func classCodeValidation(fl validator.FieldLevel) bool {
	return classCodeRegex.MatchString(fl.Field().String())
}

// strongPwdValidation enforces the signup password policy.
func strongPwdValidation(fl validator.FieldLevel) bool {
	pwd := fl.Field().String()
	return len(pwd) >= 8 &&
		lowerRegex.MatchString(pwd) &&
		upperRegex.MatchString(pwd) &&
		digitRegex.MatchString(pwd) &&
		specialRegex.MatchString(pwd)
}
