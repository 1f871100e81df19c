package validator

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"slices"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

// Kind tags a check so rule tables stay inspectable.
type Kind string

const (
	KindRequired Kind = "required"
	KindOptional Kind = "optional"
	KindType     Kind = "type"
	KindLength   Kind = "length"
	KindRange    Kind = "range"
	KindPattern  Kind = "pattern"
	KindOneOf    Kind = "one_of"
	KindCustom   Kind = "custom"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex    = regexp.MustCompile(`^(0|\+84)[0-9]{9,10}$`)
	objectIDRegex = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
)

// Check is one predicate with exactly one message.
type Check struct {
	Kind           Kind
	Message        string
	TranslationKey string
	Params         map[string]any

	test func(v Value, doc Document) error
}

var errCheckFailed = errors.New("check failed")

func boolTest(fn func(v Value) bool) func(Value, Document) error {
	return func(v Value, _ Document) error {
		if fn(v) {
			return nil
		}
		return errCheckFailed
	}
}

// FieldRule is a field path with its ordered checks.
type FieldRule struct {
	path   string
	always bool
	checks []Check
}

// Field starts a rule for the given path.
func Field(path string) *FieldRule {
	return &FieldRule{path: path}
}

// Path returns the declared path, wildcards included.
func (f *FieldRule) Path() string {
	return f.path
}

// Checks returns a copy of the declared checks.
func (f *FieldRule) Checks() []Check {
	return slices.Clone(f.checks)
}

func (f *FieldRule) add(c Check) *FieldRule {
	f.checks = append(f.checks, c)
	return f
}

func orDefault(message, fallback string) string {
	if message != "" {
		return message
	}
	return fallback
}

// Required fails when the value is missing, null or the empty string.
func (f *FieldRule) Required(message string) *FieldRule {
	return f.add(Check{
		Kind:           KindRequired,
		Message:        orDefault(message, "field is required"),
		TranslationKey: "validation.required",
		test:           boolTest(Value.Present),
	})
}

// Optional skips the remaining checks when the value is not present.
func (f *FieldRule) Optional() *FieldRule {
	return f.add(Check{Kind: KindOptional})
}

// Always keeps the field's checks unchanged in the Partial variant of a rule set.
func (f *FieldRule) Always() *FieldRule {
	f.always = true
	return f
}

func (f *FieldRule) String(message string) *FieldRule {
	return f.add(Check{
		Kind:           KindType,
		Message:        orDefault(message, "must be a string"),
		TranslationKey: "validation.string",
		test: boolTest(func(v Value) bool {
			return v.Type == gjson.String
		}),
	})
}

func (f *FieldRule) Bool(message string) *FieldRule {
	return f.add(Check{
		Kind:           KindType,
		Message:        orDefault(message, "must be a boolean"),
		TranslationKey: "validation.bool",
		test: boolTest(func(v Value) bool {
			return v.IsBool()
		}),
	})
}

func (f *FieldRule) Object(message string) *FieldRule {
	return f.add(Check{
		Kind:           KindType,
		Message:        orDefault(message, "must be an object"),
		TranslationKey: "validation.object",
		test: boolTest(func(v Value) bool {
			return v.IsObject()
		}),
	})
}

// Array requires a JSON array with at least minItems elements.
func (f *FieldRule) Array(minItems int, message string) *FieldRule {
	return f.add(Check{
		Kind:           KindType,
		Message:        orDefault(message, fmt.Sprintf("must have at least %d items", minItems)),
		TranslationKey: "validation.min_items",
		Params:         map[string]any{"min": minItems},
		test: boolTest(func(v Value) bool {
			return v.IsArray() && len(v.Array()) >= minItems
		}),
	})
}

// Int requires an integer (number or numeric string) not lower than min.
func (f *FieldRule) Int(min int64, message string) *FieldRule {
	return f.add(Check{
		Kind:           KindRange,
		Message:        orDefault(message, fmt.Sprintf("must be an integer of at least %d", min)),
		TranslationKey: "validation.int",
		Params:         map[string]any{"min": min},
		test: boolTest(func(v Value) bool {
			n, ok := v.number()
			return ok && n == math.Trunc(n) && n >= float64(min)
		}),
	})
}

// Float requires a number strictly greater than gt.
func (f *FieldRule) Float(gt float64, message string) *FieldRule {
	return f.add(Check{
		Kind:           KindRange,
		Message:        orDefault(message, fmt.Sprintf("must be greater than %v", gt)),
		TranslationKey: "validation.gt",
		Params:         map[string]any{"gt": gt},
		test: boolTest(func(v Value) bool {
			n, ok := v.number()
			return ok && n > gt
		}),
	})
}

// Range requires a number within [min, max].
func (f *FieldRule) Range(min, max float64, message string) *FieldRule {
	return f.add(Check{
		Kind:           KindRange,
		Message:        orDefault(message, fmt.Sprintf("must be between %v and %v", min, max)),
		TranslationKey: "validation.range",
		Params:         map[string]any{"min": min, "max": max},
		test: boolTest(func(v Value) bool {
			n, ok := v.number()
			return ok && n >= min && n <= max
		}),
	})
}

// Length bounds the rune length of a string. A max of zero means unbounded.
func (f *FieldRule) Length(min, max int, message string) *FieldRule {
	fallback := fmt.Sprintf("must be at least %d characters long", min)
	if max > 0 {
		fallback = fmt.Sprintf("must be between %d and %d characters long", min, max)
	}
	return f.add(Check{
		Kind:           KindLength,
		Message:        orDefault(message, fallback),
		TranslationKey: "validation.length",
		Params:         map[string]any{"min": min, "max": max},
		test: boolTest(func(v Value) bool {
			if v.Type != gjson.String {
				return false
			}
			n := utf8.RuneCountInString(v.Str)
			return n >= min && (max <= 0 || n <= max)
		}),
	})
}

// Pattern requires a string matching re.
func (f *FieldRule) Pattern(re *regexp.Regexp, message string) *FieldRule {
	return f.add(Check{
		Kind:           KindPattern,
		Message:        orDefault(message, "has an invalid format"),
		TranslationKey: "validation.regex_pattern",
		Params:         map[string]any{"pattern": re.String()},
		test: boolTest(func(v Value) bool {
			return v.Type == gjson.String && re.MatchString(v.Str)
		}),
	})
}

func (f *FieldRule) Email(message string) *FieldRule {
	return f.Pattern(emailRegex, orDefault(message, "must be a valid email address"))
}

// Phone accepts Vietnamese mobile numbers (0xxxxxxxxx or +84xxxxxxxxx).
func (f *FieldRule) Phone(message string) *FieldRule {
	return f.Pattern(phoneRegex, orDefault(message, "must be a valid phone number"))
}

// ObjectID requires a 24 character hex document identifier.
func (f *FieldRule) ObjectID(message string) *FieldRule {
	return f.Pattern(objectIDRegex, orDefault(message, "must be a valid id"))
}

// OneOf requires the value's string form to be one of values.
func (f *FieldRule) OneOf(values []string, message string) *FieldRule {
	return f.add(Check{
		Kind:           KindOneOf,
		Message:        orDefault(message, fmt.Sprintf("must be one of: %v", values)),
		TranslationKey: "validation.in_list",
		Params:         map[string]any{"allowed_values": values},
		test: boolTest(func(v Value) bool {
			return v.Exists() && slices.Contains(values, v.String())
		}),
	})
}

// Must adds a boolean predicate.
func (f *FieldRule) Must(fn func(v Value) bool, message string) *FieldRule {
	return f.add(Check{
		Kind:           KindCustom,
		Message:        orDefault(message, "is invalid"),
		TranslationKey: "validation.custom",
		test:           boolTest(fn),
	})
}

// Custom adds a predicate with access to the whole document. A returned error
// fails the check; its text is used when message is empty.
func (f *FieldRule) Custom(fn func(v Value, doc Document) error, message string) *FieldRule {
	return f.add(Check{
		Kind:           KindCustom,
		Message:        message,
		TranslationKey: "validation.custom",
		test:           fn,
	})
}

// evaluate runs the checks for every concrete path the rule expands to.
func (f *FieldRule) evaluate(doc Document) ValidationErrors {
	var errs ValidationErrors
	for _, path := range doc.expand(f.path) {
		if err, failed := f.evaluatePath(doc, path); failed {
			errs = append(errs, err)
		}
	}
	return errs
}

func (f *FieldRule) evaluatePath(doc Document, path string) (ValidationError, bool) {
	v := doc.Get(path)
	for _, c := range f.checks {
		if c.Kind == KindOptional {
			if !v.Present() {
				return ValidationError{}, false
			}
			continue
		}

		err := c.test(v, doc)
		if err == nil {
			continue
		}

		field := displayPath(path)
		message := c.Message
		if message == "" {
			message = err.Error()
		}
		values := map[string]any{"field": field}
		for k, p := range c.Params {
			values[k] = p
		}
		return ValidationError{
			Field:             field,
			Message:           message,
			TranslationKey:    c.TranslationKey,
			TranslationValues: values,
		}, true
	}
	return ValidationError{}, false
}

// clone copies the rule so Partial never aliases the original checks.
func (f *FieldRule) clone() *FieldRule {
	return &FieldRule{
		path:   f.path,
		always: f.always,
		checks: slices.Clone(f.checks),
	}
}
