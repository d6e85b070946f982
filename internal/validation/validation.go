// Package validation runs per-field sanitize/validate chains over submitted form values
// and collects every failing rule as a FieldError.
package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// FieldError is a single failed rule for a named form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"msg"`
}

// Errors keeps failures in the order the rules ran.
type Errors []FieldError

func (e Errors) Valid() bool {
	return len(e) == 0
}

// Has reports whether any rule failed for field.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// For returns the messages recorded against field.
func (e Errors) For(field string) []string {
	var msgs []string
	for _, fe := range e {
		if fe.Field == field {
			msgs = append(msgs, fe.Message)
		}
	}
	return msgs
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("iso8601", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(fmt.Sprintf("validation: register iso8601: %v", err))
	}
	return v
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDate accepts the ISO-8601 calendar date and date-time forms a browser date
// input or an API client will send.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("validation: %q is not an ISO-8601 date", s)
}

// Validator accumulates failures across any number of field chains.
type Validator struct {
	errs Errors
}

func New() *Validator {
	return &Validator{}
}

// Check records message against field when ok is false.
func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.errs = append(v.errs, FieldError{Field: field, Message: message})
	}
}

func (v *Validator) Errors() Errors {
	return v.errs
}

func (v *Validator) Valid() bool {
	return v.errs.Valid()
}

// Field starts a rule chain over *value. Sanitizers rewrite *value in place so the
// caller ends up holding the cleaned input.
func (v *Validator) Field(name string, value *string) *Chain {
	return &Chain{v: v, name: name, value: value}
}

// Chain applies rules to one field in call order. Every rule runs; a failing rule
// does not stop later ones.
type Chain struct {
	v       *Validator
	name    string
	value   *string
	skipped bool
}

func (c *Chain) tag(tag, message string) *Chain {
	if c.skipped {
		return c
	}
	c.v.Check(validate.Var(*c.value, tag) == nil, c.name, message)
	return c
}

func (c *Chain) Trim() *Chain {
	*c.value = strings.TrimSpace(*c.value)
	return c
}

// Optional skips the remaining validators when the value is empty.
func (c *Chain) Optional() *Chain {
	if *c.value == "" {
		c.skipped = true
	}
	return c
}

func (c *Chain) Required(message string) *Chain {
	return c.tag("min=1", message)
}

func (c *Chain) MaxLength(n int, message string) *Chain {
	return c.tag(fmt.Sprintf("max=%d", n), message)
}

func (c *Chain) Alphanumeric(message string) *Chain {
	return c.tag("alphanum", message)
}

func (c *Chain) ISO8601(message string) *Chain {
	return c.tag("iso8601", message)
}

func (c *Chain) UUID(message string) *Chain {
	return c.tag("uuid", message)
}

func (c *Chain) OneOf(message string, allowed ...string) *Chain {
	return c.tag("oneof="+strings.Join(allowed, " "), message)
}

// Escape HTML-escapes the value. Sanitizers run even on skipped chains.
func (c *Chain) Escape() *Chain {
	*c.value = Escape(*c.value)
	return c
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#x27;",
	"<", "&lt;",
	">", "&gt;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

// Escape replaces the characters that are significant in HTML with entities.
func Escape(s string) string {
	return escaper.Replace(s)
}
