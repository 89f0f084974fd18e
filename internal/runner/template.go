package runner

import (
	"errors"
	"fmt"
	"os"
	"reflect"
)

// ExpandTemplates replaces ${VAR} references in place across the struct
// pointed to by in. Strings, *string and []string fields are expanded only
// when tagged `template:""`; map[string]string values are always expanded.
// Nested structs, pointers to structs and slices of structs are walked.
// Nil pointers, maps and slices are left as-is.
func ExpandTemplates[T any](in *T, variables map[string]string) error {
	if in == nil {
		return nil
	}
	v := reflect.ValueOf(in).Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("ExpandTemplates expects *struct; got *%s", v.Type())
	}
	return expandStruct(v, variables)
}

func expandStruct(v reflect.Value, variables map[string]string) error {
	typ := v.Type()
	var errs error

	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag, tagged := sf.Tag.Lookup("template")
		tagged = tagged && tag != "-"

		if err := expandValue(v.Field(i), tagged, variables); err != nil {
			errs = errors.Join(errs, fmt.Errorf("%s: %w", sf.Name, err))
		}
	}

	return errs
}

func expandValue(field reflect.Value, tagged bool, variables map[string]string) error {
	switch field.Kind() {
	case reflect.String:
		if !tagged {
			return nil
		}
		return expandInPlace(field, variables)

	case reflect.Ptr:
		if field.IsNil() {
			return nil
		}
		elem := field.Elem()
		switch elem.Kind() {
		case reflect.String:
			if !tagged {
				return nil
			}
			expanded, err := Expand(elem.String(), variables)
			if err != nil {
				return err
			}
			// Replace the pointer rather than writing through it, the
			// original string may be shared.
			ptr := reflect.New(elem.Type())
			ptr.Elem().SetString(expanded)
			field.Set(ptr)
			return nil
		case reflect.Struct:
			return expandStruct(elem, variables)
		}
		return nil

	case reflect.Struct:
		return expandStruct(field, variables)

	case reflect.Map:
		if field.IsNil() || field.Type().Key().Kind() != reflect.String || field.Type().Elem().Kind() != reflect.String {
			return nil
		}
		expanded, err := ExpandMap(field.Interface().(map[string]string), variables)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(expanded))
		return nil

	case reflect.Slice:
		var errs error
		for i := 0; i < field.Len(); i++ {
			el := field.Index(i)
			if el.Kind() == reflect.String && !tagged {
				return nil
			}
			if err := expandValue(el, true, variables); err != nil {
				errs = errors.Join(errs, fmt.Errorf("[%d]: %w", i, err))
			}
		}
		return errs
	}

	return nil
}

func expandInPlace(v reflect.Value, variables map[string]string) error {
	expanded, err := Expand(v.String(), variables)
	if err != nil {
		return err
	}
	v.SetString(expanded)
	return nil
}

// Expand replaces ${VAR} references in value using variables.
// Returns an error if any referenced variable is not in the variables map.
func Expand(value string, variables map[string]string) (string, error) {
	var errs error

	result := os.Expand(value, func(key string) string {
		if val, ok := variables[key]; ok {
			return val
		}
		errs = errors.Join(errs, fmt.Errorf("variable %q is not defined or not in the allowed list", key))
		return ""
	})

	if errs != nil {
		return "", errs
	}

	return result, nil
}

// ExpandMap expands all values in a map[string]string.
func ExpandMap(values map[string]string, variables map[string]string) (map[string]string, error) {
	if values == nil {
		return nil, nil
	}

	result := make(map[string]string, len(values))
	var errs error

	for k, v := range values {
		expanded, err := Expand(v, variables)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		result[k] = expanded
	}

	if errs != nil {
		return nil, errs
	}

	return result, nil
}
