package validator

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// ValidatorFunc builds a Rule for a field value and the parameters given in its tag.
type ValidatorFunc func(field string, value reflect.Value, params []string) Rule

var (
	registryMu sync.RWMutex
	registry   = map[string]ValidatorFunc{
		"required":       requiredValidator,
		"in":             inValidator,
		"email":          emailValidator,
		"min":            minValidator,
		"max":            maxValidator,
		"no_blank_items": noBlankItemsValidator,
	}
)

// RegisterValidator adds a custom validator function to the registry.
func RegisterValidator(name string, fn ValidatorFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = fn
}

// ValidateStruct validates a struct based on its `validate` field tags.
// Rules are separated by ";" and parameters by ",", e.g. `validate:"required;in:Yes,No"`.
// Fields are reported by their json name when one is declared.
func ValidateStruct(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer {
		return fmt.Errorf("validator: must pass a pointer to struct")
	}

	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("validator: must pass a pointer to struct")
	}

	var errs ValidationErrors
	validateStructRecursive(rv, "", &errs)

	if errs.IsEmpty() {
		return nil
	}
	return errs
}

func validateStructRecursive(rv reflect.Value, prefix string, errs *ValidationErrors) {
	rt := rv.Type()

	for i := 0; i < rv.NumField(); i++ {
		field := rv.Field(i)
		if !field.CanSet() {
			continue
		}

		structField := rt.Field(i)
		tag := structField.Tag.Get("validate")
		if tag == "-" {
			continue
		}

		fieldPath := fieldName(structField)
		if prefix != "" {
			fieldPath = prefix + "." + fieldPath
		}

		if field.Kind() == reflect.Struct && tag == "" {
			validateStructRecursive(field, fieldPath, errs)
			continue
		}

		if tag == "" {
			continue
		}

		validateField(fieldPath, field, tag, errs)
	}
}

// fieldName prefers the json key so errors name the field the way the input spells it.
func fieldName(sf reflect.StructField) string {
	name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return sf.Name
	}
	return name
}

func validateField(fieldPath string, field reflect.Value, tag string, errs *ValidationErrors) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for ruleStr := range strings.SplitSeq(tag, ";") {
		ruleStr = strings.TrimSpace(ruleStr)
		if ruleStr == "" {
			continue
		}

		name, paramStr, _ := strings.Cut(ruleStr, ":")
		name = strings.TrimSpace(name)

		var params []string
		if paramStr = strings.TrimSpace(paramStr); paramStr != "" {
			params = strings.Split(paramStr, ",")
			for i := range params {
				params[i] = strings.TrimSpace(params[i])
			}
		}

		validatorFn, ok := registry[name]
		if !ok {
			continue
		}
		rule := validatorFn(fieldPath, field, params)
		if !rule.Check() {
			errs.Add(rule.Error)
			// A missing value makes the remaining rules noise.
			if name == "required" {
				return
			}
		}
	}
}

func pass() Rule {
	return Rule{Check: func() bool { return true }}
}

func requiredValidator(field string, value reflect.Value, _ []string) Rule {
	switch value.Kind() {
	case reflect.String:
		return Required(field, value.String())
	case reflect.Slice, reflect.Map, reflect.Array:
		return Rule{
			Check: func() bool { return value.Len() > 0 },
			Error: ValidationError{Field: field, Message: "must not be empty"},
		}
	default:
		return Rule{
			Check: func() bool { return !value.IsZero() },
			Error: ValidationError{Field: field, Message: "field is required"},
		}
	}
}

func inValidator(field string, value reflect.Value, params []string) Rule {
	if value.Kind() != reflect.String {
		return pass()
	}
	return InList(field, value.String(), params)
}

func emailValidator(field string, value reflect.Value, _ []string) Rule {
	if value.Kind() != reflect.String {
		return pass()
	}
	return ValidEmail(field, value.String())
}

func minValidator(field string, value reflect.Value, params []string) Rule {
	if len(params) < 1 {
		return pass()
	}
	switch value.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		limit, _ := strconv.ParseInt(params[0], 10, 64)
		return Rule{
			Check: func() bool { return value.Int() >= limit },
			Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at least %d", limit)},
		}
	case reflect.Slice, reflect.Array:
		limit, _ := strconv.Atoi(params[0])
		return Rule{
			Check: func() bool { return value.Len() >= limit },
			Error: ValidationError{Field: field, Message: fmt.Sprintf("must have at least %d items", limit)},
		}
	default:
		return pass()
	}
}

func maxValidator(field string, value reflect.Value, params []string) Rule {
	if len(params) < 1 {
		return pass()
	}
	switch value.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		limit, _ := strconv.ParseInt(params[0], 10, 64)
		return Rule{
			Check: func() bool { return value.Int() <= limit },
			Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d", limit)},
		}
	case reflect.Slice, reflect.Array:
		limit, _ := strconv.Atoi(params[0])
		return Rule{
			Check: func() bool { return value.Len() <= limit },
			Error: ValidationError{Field: field, Message: fmt.Sprintf("must have at most %d items", limit)},
		}
	default:
		return pass()
	}
}

func noBlankItemsValidator(field string, value reflect.Value, _ []string) Rule {
	items, ok := value.Interface().([]string)
	if !ok {
		return pass()
	}
	return NoBlankItems(field, items)
}
