package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

func isTemplateName(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		panic(fmt.Sprintf("input field name is not a string: %s", fl.FieldName()))
	}

	return IsValidTemplateName(field.String()) == nil
}

// IsValidTemplateName accepts names that denote exactly one top-level entry
// of the repository. Separators and dot segments are rejected so the name
// cannot point outside the fetched tree.
func IsValidTemplateName(name string) error {
	if name == "" {
		return fmt.Errorf("template name can't be an empty string")
	}

	if name == "." || name == ".." {
		return fmt.Errorf("template name can't be %q", name)
	}

	if strings.ContainsAny(name, "/\\\x00") {
		return fmt.Errorf("template name can't contain path separators")
	}

	return nil
}
