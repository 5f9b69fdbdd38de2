// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package validate implements declarative payload validation. A Schema maps
// field names to rules; applying it to a decoded JSON payload yields a
// normalized copy (unknown fields stripped, defaults filled in, values
// coerced) or the full list of violations. Validation never stops at the
// first error.
package validate

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Kind is the declared type of a schema field.
type Kind string

const (
	String      Kind = "string"
	Bool        Kind = "bool"
	StringSlice Kind = "[]string"
	// ID fields must be well-formed UUIDs. Only the identifier shape is
	// checked here; whether the referenced record exists is not this
	// layer's concern.
	ID Kind = "id"
)

// emailPattern is deliberately loose: anything@anything.anything.
var emailPattern = regexp.MustCompile(`^.+@.+\..+$`)

// Field declares the rules for a single payload field.
type Field struct {
	Kind     Kind
	Required bool
	MaxLen   int  // max rune count; for StringSlice, per element
	MinLen   int  // min rune count (strings only)
	Email    bool // value must look like an email address
	URL      bool // value must be an absolute URL
	Default  any  // applied when the field is absent
	// AllowEmpty permits an explicit empty string. Without it "" is a
	// violation even on optional fields; clearable fields opt in.
	AllowEmpty bool
}

// Schema maps field names to their rules. Fields present in the payload
// but absent from the schema are dropped silently.
type Schema map[string]Field

// FieldError describes one violated rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the full set of violations found in one validation pass.
type Errors []FieldError

// Error joins all violation messages so Errors can travel as an error value.
func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Messages returns the human-readable reasons, one per violation.
func (e Errors) Messages() []string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return msgs
}

// Apply validates payload against the schema. It returns the normalized
// payload and nil, or nil and every violation found. The input map is not
// modified.
func (s Schema) Apply(payload map[string]any) (map[string]any, Errors) {
	normalized := make(map[string]any, len(s))
	var errs Errors

	for name, field := range s {
		raw, present := payload[name]
		if !present || raw == nil {
			if field.Required {
				errs = append(errs, FieldError{
					Field:   name,
					Message: fmt.Sprintf("%s is required", name),
				})
				continue
			}
			if field.Default != nil {
				normalized[name] = field.Default
			}
			continue
		}

		value, fieldErrs := coerce(name, field, raw)
		if len(fieldErrs) > 0 {
			errs = append(errs, fieldErrs...)
			continue
		}
		normalized[name] = value
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return normalized, nil
}

// coerce converts a raw payload value to the field's declared type and
// checks its rules. Returns every violation for this field.
func coerce(name string, field Field, raw any) (any, Errors) {
	switch field.Kind {
	case String:
		return coerceString(name, field, raw)
	case Bool:
		v, ok := raw.(bool)
		if !ok {
			return nil, Errors{{Field: name, Message: fmt.Sprintf("%s must be a boolean", name)}}
		}
		return v, nil
	case ID:
		str, ok := raw.(string)
		if !ok {
			return nil, Errors{{Field: name, Message: fmt.Sprintf("%s must be an identifier string", name)}}
		}
		if _, err := uuid.Parse(str); err != nil {
			return nil, Errors{{Field: name, Message: fmt.Sprintf("%s is not a valid identifier", name)}}
		}
		return str, nil
	case StringSlice:
		return coerceStringSlice(name, field, raw)
	default:
		return nil, Errors{{Field: name, Message: fmt.Sprintf("%s has an unknown schema kind", name)}}
	}
}

func coerceString(name string, field Field, raw any) (any, Errors) {
	str, ok := raw.(string)
	if !ok {
		return nil, Errors{{Field: name, Message: fmt.Sprintf("%s must be a string", name)}}
	}
	str = strings.TrimSpace(str)

	var errs Errors
	if str == "" && !field.AllowEmpty {
		if field.Required {
			errs = append(errs, FieldError{Field: name, Message: fmt.Sprintf("%s is required", name)})
		} else {
			errs = append(errs, FieldError{Field: name, Message: fmt.Sprintf("%s cannot be empty", name)})
		}
	}
	if field.MaxLen > 0 && utf8.RuneCountInString(str) > field.MaxLen {
		errs = append(errs, FieldError{
			Field:   name,
			Message: fmt.Sprintf("%s cannot be more than %d characters", name, field.MaxLen),
		})
	}
	if field.MinLen > 0 && str != "" && utf8.RuneCountInString(str) < field.MinLen {
		errs = append(errs, FieldError{
			Field:   name,
			Message: fmt.Sprintf("%s must be at least %d characters", name, field.MinLen),
		})
	}
	if field.Email && str != "" && !emailPattern.MatchString(str) {
		errs = append(errs, FieldError{
			Field:   name,
			Message: fmt.Sprintf("%s must be a valid email address", name),
		})
	}
	if field.URL && str != "" {
		if u, err := url.ParseRequestURI(str); err != nil || u.Scheme == "" {
			errs = append(errs, FieldError{
				Field:   name,
				Message: fmt.Sprintf("%s must be a valid URL", name),
			})
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return str, nil
}

func coerceStringSlice(name string, field Field, raw any) (any, Errors) {
	items, ok := raw.([]any)
	if !ok {
		// A pre-typed []string also passes (payloads built in-process).
		if typed, isTyped := raw.([]string); isTyped {
			items = make([]any, len(typed))
			for i, s := range typed {
				items[i] = s
			}
		} else {
			return nil, Errors{{Field: name, Message: fmt.Sprintf("%s must be an array of strings", name)}}
		}
	}

	var errs Errors
	out := make([]string, 0, len(items))
	for i, item := range items {
		str, isStr := item.(string)
		if !isStr {
			errs = append(errs, FieldError{
				Field:   name,
				Message: fmt.Sprintf("%s[%d] must be a string", name, i),
			})
			continue
		}
		str = strings.TrimSpace(str)
		if field.MaxLen > 0 && utf8.RuneCountInString(str) > field.MaxLen {
			errs = append(errs, FieldError{
				Field:   name,
				Message: fmt.Sprintf("%s[%d] cannot be more than %d characters", name, i, field.MaxLen),
			})
			continue
		}
		out = append(out, str)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}
