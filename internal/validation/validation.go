package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// messages override the stock English wording. {0} is the display name of the
// field and {1} its value.
var messages = []struct{ tag, text string }{
	{"required", "{0} is required"},
	{"template_name", "{0} must be a single directory name: {1}"},
	{"http_url", "{0} must be a valid HTTP URL: {1}"},
}

// ValidationError is one failing field.
type ValidationError struct {
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	return e.Detail
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	var b strings.Builder
	b.WriteString("validation error\n")
	for _, e := range ve {
		b.WriteString(e.Detail)
		b.WriteByte('\n')
	}
	return b.String()
}

// structError carries the translated messages while still unwrapping to the
// raw validator.ValidationErrors.
type structError struct {
	fields ValidationErrors
	raw    validator.ValidationErrors
}

func (e *structError) Error() string { return e.fields.Error() }

func (e *structError) Unwrap() error { return e.raw }

// Validator checks `validate` struct tags and renders failures as English
// sentences. A `cli` tag replaces the Go field name in messages.
type Validator struct {
	engine *validator.Validate
	trans  ut.Translator
}

func NewValidator() (*Validator, error) {
	locale := en.New()
	trans, ok := ut.New(locale, locale).GetTranslator("en")
	if !ok {
		return nil, errors.New("english translator not available")
	}

	v := &Validator{engine: validator.New(), trans: trans}
	v.engine.RegisterTagNameFunc(displayName)

	if err := v.engine.RegisterValidation("template_name", isTemplateName); err != nil {
		return nil, err
	}
	if err := en_translations.RegisterDefaultTranslations(v.engine, trans); err != nil {
		return nil, fmt.Errorf("failed to register default translations: %w", err)
	}
	for _, m := range messages {
		if err := v.RegisterCustomTranslation(m.tag, m.text); err != nil {
			return nil, fmt.Errorf("failed to register translation for %s: %w", m.tag, err)
		}
	}
	return v, nil
}

func displayName(fld reflect.StructField) string {
	if name := fld.Tag.Get("cli"); name != "" {
		return name
	}
	return fld.Name
}

// RegisterCustomTranslation replaces the message rendered for tag.
func (v *Validator) RegisterCustomTranslation(tag, text string) error {
	return v.engine.RegisterTranslation(tag, v.trans,
		func(t ut.Translator) error {
			return t.Add(tag, text, true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field(), fmt.Sprint(fe.Value()))
			return msg
		},
	)
}

// Struct validates s and reports every failing field.
func (v *Validator) Struct(s any) error {
	err := v.engine.Struct(s)
	var raw validator.ValidationErrors
	if !errors.As(err, &raw) {
		return err
	}
	return &structError{fields: v.translate(raw), raw: raw}
}

// First validates s and returns only the first failing field, in declaration
// order, as a *ValidationError.
func (v *Validator) First(s any) error {
	err := v.engine.Struct(s)
	var raw validator.ValidationErrors
	if !errors.As(err, &raw) {
		return err
	}
	fields := v.translate(raw[:1])
	return &fields[0]
}

// ParseValidationErrors extracts the translated field errors from an error
// returned by Struct. Other errors yield an empty list.
func (v *Validator) ParseValidationErrors(err error) ValidationErrors {
	var raw validator.ValidationErrors
	if !errors.As(err, &raw) {
		return ValidationErrors{}
	}
	return v.translate(raw)
}

func (v *Validator) translate(raw validator.ValidationErrors) ValidationErrors {
	out := make(ValidationErrors, 0, len(raw))
	for _, fe := range raw {
		out = append(out, ValidationError{
			Field:  fe.StructNamespace(),
			Detail: fe.Translate(v.trans),
		})
	}
	return out
}
