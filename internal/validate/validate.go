package validate

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"workconnect/pkg/apierror"
)

var engine = validator.New(validator.WithRequiredStructEnabled())

// Input is the raw, string-typed view of a request.
type Input map[string]string

// Errors maps a field to its first failure.
type Errors map[string]string

func (e Errors) Fails() bool {
	return len(e) > 0
}

// Err converts failures to a 422 API error, or nil when there are none.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return apierror.Validation(map[string]string(e))
}

type Rule struct {
	check   func(value string, in Input) bool
	message func(label string) string
	// onEmpty rules also run when the value is blank.
	onEmpty bool
}

// WithMessage overrides the rule's default message.
func (r Rule) WithMessage(message string) Rule {
	r.message = func(string) string { return message }
	return r
}

type FieldRules struct {
	Name  string
	Rules []Rule
}

func Field(name string, rules ...Rule) FieldRules {
	return FieldRules{Name: name, Rules: rules}
}

// Check runs every field's rules in order. Optional rules skip blank values;
// the first failing rule decides the field's message.
func Check(in Input, fields ...FieldRules) Errors {
	errs := Errors{}
	for _, field := range fields {
		value := in[field.Name]
		blank := strings.TrimSpace(value) == ""

		for _, rule := range field.Rules {
			if blank && !rule.onEmpty {
				continue
			}
			if !rule.check(value, in) {
				errs[field.Name] = rule.message(label(field.Name))
				break
			}
		}
	}
	return errs
}

func Required() Rule {
	return Rule{
		check:   func(v string, _ Input) bool { return strings.TrimSpace(v) != "" },
		message: func(l string) string { return l + " is required" },
		onEmpty: true,
	}
}

func Email() Rule {
	return Rule{
		check:   tag("email"),
		message: func(string) string { return "Invalid email format" },
	}
}

func MinLength(n int) Rule {
	return Rule{
		check:   func(v string, _ Input) bool { return utf8.RuneCountInString(v) >= n },
		message: func(l string) string { return fmt.Sprintf("%s must be at least %d characters", l, n) },
	}
}

func MaxLength(n int) Rule {
	return Rule{
		check:   func(v string, _ Input) bool { return utf8.RuneCountInString(v) <= n },
		message: func(l string) string { return fmt.Sprintf("%s must not exceed %d characters", l, n) },
	}
}

// Matches requires the value to equal another field's value, e.g. a password confirmation.
func Matches(other string) Rule {
	return Rule{
		check: func(v string, in Input) bool { return v == in[other] },
		message: func(l string) string {
			return fmt.Sprintf("%s and %s must match", l, strings.ToLower(label(other)))
		},
		onEmpty: true,
	}
}

func Numeric() Rule {
	return Rule{
		check:   tag("numeric"),
		message: func(l string) string { return l + " must be a number" },
	}
}

// DateFormat checks the value against a Go time layout such as "2006-01-02".
func DateFormat(layout string) Rule {
	return Rule{
		check:   tag("datetime=" + layout),
		message: func(string) string { return "Invalid date format" },
	}
}

func OneOf(values ...string) Rule {
	return Rule{
		check:   func(v string, _ Input) bool { return slices.Contains(values, v) },
		message: func(l string) string { return l + " has an invalid value" },
	}
}

func URL() Rule {
	return Rule{
		check:   tag("http_url"),
		message: func(l string) string { return l + " must be a valid URL" },
	}
}

func Custom(predicate func(value string) bool, message string) Rule {
	return Rule{
		check:   func(v string, _ Input) bool { return predicate(v) },
		message: func(string) string { return message },
	}
}

func tag(t string) func(string, Input) bool {
	return func(v string, _ Input) bool {
		return engine.Var(strings.TrimSpace(v), t) == nil
	}
}

func label(field string) string {
	words := strings.ReplaceAll(field, "_", " ")
	if words == "" {
		return words
	}
	return strings.ToUpper(words[:1]) + words[1:]
}
