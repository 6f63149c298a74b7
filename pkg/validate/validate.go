// Package validate checks request structs against `validate` struct tags.
//
// Rules are comma separated and applied in order; the first failure wins:
//
//	required      value must be present and non-zero
//	nullable      skip the remaining rules when the value is empty
//	email         valid email address
//	url           absolute http(s) URL
//	slug          lowercase letters, digits and dashes
//	date          RFC 3339 or YYYY-MM-DD
//	min=N max=N   string length, slice length or numeric bound
//	gt=N gte=N    numeric lower bounds
//	lt=N lte=N    numeric upper bounds
//	in=A|B|C      one of the listed values, compared case-insensitively
//
// Pointer fields left nil are treated as absent: only `required` can fail on
// them. This lets partial-update payloads share the same rules as creates.
//
//	type ClassInput struct {
//	    Title string  `json:"title" validate:"required,max=200"`
//	    Level *string `json:"level" validate:"in=BEGINNER|INTERMEDIATE|ADVANCED"`
//	}
package validate

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	slugRE  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Struct validates the exported, tagged fields of v (a struct or pointer to
// one). The result maps json field names to messages and is empty when v is valid.
func Struct(v any) map[string]string {
	errs := map[string]string{}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return errs
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		tag, ok := sf.Tag.Lookup("validate")
		if !ok || tag == "" || !sf.IsExported() {
			continue
		}

		name := fieldName(sf)
		if msg := check(name, rv.Field(i), strings.Split(tag, ",")); msg != "" {
			errs[name] = msg
		}
	}
	return errs
}

// HasErrors reports whether errs contains any failure.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func check(name string, v reflect.Value, rules []string) string {
	required := contains(rules, "required")

	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			if required {
				return fmt.Sprintf("The %s field is required.", name)
			}
			return ""
		}
		v = v.Elem()
	}

	if isZero(v) {
		if required {
			return fmt.Sprintf("The %s field is required.", name)
		}
		if contains(rules, "nullable") || v.Kind() == reflect.String {
			return ""
		}
	}

	for _, rule := range rules {
		key, param, _ := strings.Cut(strings.TrimSpace(rule), "=")
		if msg := apply(key, param, name, v); msg != "" {
			return msg
		}
	}
	return ""
}

func apply(key, param, name string, v reflect.Value) string {
	switch key {
	case "required", "nullable", "":
		return ""

	case "email":
		if !emailRE.MatchString(asString(v)) {
			return fmt.Sprintf("The %s must be a valid email address.", name)
		}

	case "url":
		u, err := url.ParseRequestURI(asString(v))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Sprintf("The %s must be a valid URL.", name)
		}

	case "slug":
		if !slugRE.MatchString(asString(v)) {
			return fmt.Sprintf("The %s may only contain lowercase letters, numbers and dashes.", name)
		}

	case "date":
		if _, err := ParseDate(asString(v)); err != nil {
			return fmt.Sprintf("The %s is not a valid date.", name)
		}

	case "min", "max":
		n, _ := strconv.ParseFloat(param, 64)
		size, unit := measure(v)
		if key == "min" && size < n {
			return fmt.Sprintf("The %s must be at least %s%s.", name, param, unit)
		}
		if key == "max" && size > n {
			return fmt.Sprintf("The %s may not be greater than %s%s.", name, param, unit)
		}

	case "gt", "gte", "lt", "lte":
		n, _ := strconv.ParseFloat(param, 64)
		f, ok := number(v)
		if !ok {
			return fmt.Sprintf("The %s must be a number.", name)
		}
		switch {
		case key == "gt" && f <= n:
			return fmt.Sprintf("The %s must be greater than %s.", name, param)
		case key == "gte" && f < n:
			return fmt.Sprintf("The %s must be greater than or equal to %s.", name, param)
		case key == "lt" && f >= n:
			return fmt.Sprintf("The %s must be less than %s.", name, param)
		case key == "lte" && f > n:
			return fmt.Sprintf("The %s must be less than or equal to %s.", name, param)
		}

	case "in":
		raw := asString(v)
		for _, allowed := range strings.Split(param, "|") {
			if strings.EqualFold(raw, strings.TrimSpace(allowed)) {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", name)

	default:
		return fmt.Sprintf("The %s has an unknown validation rule %q.", name, key)
	}
	return ""
}

// ParseDate accepts the two date layouts the API documents.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("validate: cannot parse %q as date", s)
}

func measure(v reflect.Value) (float64, string) {
	switch v.Kind() {
	case reflect.String:
		return float64(len([]rune(v.String()))), " characters"
	case reflect.Slice, reflect.Map, reflect.Array:
		return float64(v.Len()), " items"
	}
	f, _ := number(v)
	return f, ""
}

func number(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
		return f, err == nil
	}
	return 0, false
}

func asString(v reflect.Value) string {
	if v.Kind() == reflect.String {
		return v.String()
	}
	return fmt.Sprint(v.Interface())
}

func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	case reflect.Bool:
		return false
	}
	return v.IsZero()
}

func fieldName(sf reflect.StructField) string {
	name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return sf.Name
	}
	return name
}

func contains(rules []string, want string) bool {
	for _, r := range rules {
		if strings.TrimSpace(r) == want {
			return true
		}
	}
	return false
}
