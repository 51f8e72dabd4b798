// Package validation runs ordered field rules over submitted forms and
// sanitizes the accepted input before it reaches persistence.
//
// Every rule of every field is evaluated; the caller receives the complete
// ordered list of failures, not just the first one.
package validation

import (
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Form is a flat set of named inputs. Only the first value per key is kept.
type Form map[string]string

func FormFrom(v url.Values) Form {
	f := make(Form, len(v))
	for k, vals := range v {
		if len(vals) > 0 {
			f[k] = vals[0]
		}
	}
	return f
}

func (f Form) Float(key string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(f[key]), 64)
}

func (f Form) Int(key string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(f[key]))
}

// Bool treats an absent key as false, which is how unchecked boxes arrive.
func (f Form) Bool(key string) (bool, error) {
	s := strings.TrimSpace(f[key])
	if s == "" {
		return false, nil
	}
	if s == "on" {
		return true, nil
	}
	return strconv.ParseBool(s)
}

type FieldError struct {
	Field   string
	Message string
}

type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Messages returns the failure messages in order, for rendering.
func (e Errors) Messages() []string {
	out := make([]string, 0, len(e))
	for _, fe := range e {
		out = append(out, fe.Message)
	}
	return out
}

// Rule is a pure check over the whole form.
type Rule func(Form) Errors

// Run evaluates all rules in order and concatenates their failures.
func Run(f Form, rules ...Rule) Errors {
	var out Errors
	for _, r := range rules {
		out = append(out, r(f)...)
	}
	return out
}

var formats = validator.New()

type check struct {
	ok  func(v string, f Form) bool
	msg string
}

// Chain builds the rule list for a single field.
type Chain struct {
	field  string
	checks []check
}

func Field(name string) *Chain { return &Chain{field: name} }

func (c *Chain) add(msg string, ok func(v string, f Form) bool) *Chain {
	c.checks = append(c.checks, check{ok: ok, msg: msg})
	return c
}

func (c *Chain) NotEmpty(msg string) *Chain {
	return c.MinLen(1, msg)
}

func (c *Chain) MinLen(n int, msg string) *Chain {
	return c.add(msg, func(v string, _ Form) bool { return utf8.RuneCountInString(v) >= n })
}

func (c *Chain) MaxLen(n int, msg string) *Chain {
	return c.add(msg, func(v string, _ Form) bool { return utf8.RuneCountInString(v) <= n })
}

func (c *Chain) Alphanumeric(msg string) *Chain {
	return c.add(msg, func(v string, _ Form) bool { return v != "" && formats.Var(v, "alphanum") == nil })
}

func (c *Chain) Email(msg string) *Chain {
	return c.add(msg, func(v string, _ Form) bool { return v != "" && formats.Var(v, "email") == nil })
}

func (c *Chain) Numeric(msg string) *Chain {
	return c.add(msg, func(v string, _ Form) bool {
		v = strings.TrimSpace(v)
		return v != "" && formats.Var(v, "numeric") == nil
	})
}

func (c *Chain) Boolean(msg string) *Chain {
	return c.add(msg, func(v string, f Form) bool {
		_, err := Form{c.field: v}.Bool(c.field)
		return err == nil
	})
}

// Between passes non-numeric values through; pair it with Numeric.
func (c *Chain) Between(lo, hi float64, msg string) *Chain {
	return c.add(msg, func(v string, _ Form) bool {
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return true
		}
		return n >= lo && n <= hi
	})
}

func (c *Chain) OneOf(msg string, allowed ...string) *Chain {
	return c.add(msg, func(v string, _ Form) bool {
		for _, a := range allowed {
			if strings.TrimSpace(v) == a {
				return true
			}
		}
		return false
	})
}

// Matches compares against the sibling field exactly as submitted.
func (c *Chain) Matches(other, msg string) *Chain {
	return c.add(msg, func(v string, f Form) bool { return v == f[other] })
}

func (c *Chain) Rule() Rule {
	field, checks := c.field, append([]check(nil), c.checks...)
	return func(f Form) Errors {
		var out Errors
		v := f[field]
		for _, ch := range checks {
			if !ch.ok(v, f) {
				out = append(out, FieldError{Field: field, Message: ch.msg})
			}
		}
		return out
	}
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

// Sanitize trims every field and escapes markup-significant characters.
// Fields named in raw are trimmed only; secrets are hashed, never rendered,
// and must compare equal at login.
func Sanitize(f Form, raw ...string) Form {
	skip := make(map[string]struct{}, len(raw))
	for _, k := range raw {
		skip[k] = struct{}{}
	}
	out := make(Form, len(f))
	for k, v := range f {
		v = strings.TrimSpace(v)
		if _, ok := skip[k]; !ok {
			v = escaper.Replace(v)
		}
		out[k] = v
	}
	return out
}
