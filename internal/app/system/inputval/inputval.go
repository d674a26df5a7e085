// internal/app/system/inputval/inputval.go
package inputval

import (
	"fmt"
	"net/mail"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/scribehq/scribe/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FieldError is a single validation failure, keyed by the field's wire name.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result collects validation failures for one input struct.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any field failed validation.
func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first error message, or "" when validation passed.
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every error message with "; ".
func (r *Result) All() string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// Map returns field → message, the shape API handlers serialize into 400
// responses. Later errors for the same field do not overwrite earlier ones.
func (r *Result) Map() map[string]string {
	m := make(map[string]string, len(r.Errors))
	for _, e := range r.Errors {
		if _, seen := m[e.Field]; !seen {
			m[e.Field] = e.Message
		}
	}
	return m
}

func (r *Result) add(field, msg string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: msg})
}

// Validate checks the string fields of a struct against its `validate` tags
// and returns per-field errors. Supported rules:
//
//	required          non-empty after trimming
//	min=N / max=N     length bounds in runes
//	email             RFC 5322 address
//	status            one of the article statuses
//	objectid          24-char hex Mongo ObjectID
//
// Pointer-to-string fields are skipped when nil, so partial-update patches
// validate only the fields they carry. The `label` tag names the field in
// messages; the `json` tag names it in the error map.
func Validate(input any) *Result {
	res := &Result{}

	v := reflect.ValueOf(input)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return res
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		rules := sf.Tag.Get("validate")
		if rules == "" {
			continue
		}

		fv := v.Field(i)
		if fv.Kind() == reflect.Pointer {
			if fv.IsNil() {
				continue
			}
			fv = fv.Elem()
		}
		if fv.Kind() != reflect.String {
			continue
		}

		value := fv.String()
		label := sf.Tag.Get("label")
		if label == "" {
			label = sf.Name
		}
		field := wireName(sf)

		for _, rule := range strings.Split(rules, ",") {
			if msg := apply(rule, value, label); msg != "" {
				res.add(field, msg)
			}
		}
	}
	return res
}

func apply(rule, value, label string) string {
	switch {
	case rule == "required":
		if strings.TrimSpace(value) == "" {
			return label + " is required."
		}
	case strings.HasPrefix(rule, "min="):
		n, _ := strconv.Atoi(rule[len("min="):])
		if value != "" && utf8.RuneCountInString(value) < n {
			return fmt.Sprintf("%s must be at least %d characters.", label, n)
		}
	case strings.HasPrefix(rule, "max="):
		n, _ := strconv.Atoi(rule[len("max="):])
		if utf8.RuneCountInString(value) > n {
			return fmt.Sprintf("%s must be at most %d characters.", label, n)
		}
	case rule == "email":
		if value != "" && !IsValidEmail(value) {
			return "A valid email address is required."
		}
	case rule == "status":
		if value != "" && !models.ValidStatus(value) {
			return label + ` must be "draft", "published", or "unpublished".`
		}
	case rule == "objectid":
		if value != "" && !IsValidObjectID(value) {
			return label + " must be a valid id."
		}
	}
	return ""
}

// wireName returns the field's JSON name, falling back to the Go name.
func wireName(sf reflect.StructField) string {
	tag := sf.Tag.Get("json")
	if tag == "" || tag == "-" {
		return sf.Name
	}
	if idx := strings.Index(tag, ","); idx >= 0 {
		tag = tag[:idx]
	}
	if tag == "" {
		return sf.Name
	}
	return tag
}

// IsValidEmail reports whether s parses as a bare RFC 5322 address.
// Display-name forms ("Name <a@b>") are rejected.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == s
}

// IsValidObjectID reports whether s is a well-formed Mongo ObjectID hex.
func IsValidObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(s)
	return err == nil
}
