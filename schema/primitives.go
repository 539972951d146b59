package schema

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Role codes accepted by the portal.
const (
	RoleAdministrador = 1
	RoleOperador      = 2
	RoleInspector     = 3
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// National mobile format: 1-2 digit country/trunk prefix, 1-2 digit
	// area, then two groups of four digits. Spacing may vary.
	phoneRe = regexp.MustCompile(`^\+\d{1,2}\s?\d{1,2}\s?\d{4}\s?\d{4}$`)
	plateRe = regexp.MustCompile(`^[A-Z]{2,4}[0-9]{2,4}$`)
)

// StringSchema validates strings with optional normalization and
// constraints. Zero values of min/max mean unconstrained.
type StringSchema struct {
	trim    bool
	lower   bool
	upper   bool
	minLen  int
	maxLen  int
	pattern *regexp.Regexp
	message string // pattern violation message
}

// String builds an unconstrained string schema.
func String() *StringSchema { return &StringSchema{} }

func (s *StringSchema) clone() *StringSchema { c := *s; return &c }

// Trim strips surrounding whitespace before any other check.
func (s *StringSchema) Trim() *StringSchema { c := s.clone(); c.trim = true; return c }

// Lower lower-cases the value before any other check.
func (s *StringSchema) Lower() *StringSchema { c := s.clone(); c.lower = true; return c }

// Upper upper-cases the value before any other check.
func (s *StringSchema) Upper() *StringSchema { c := s.clone(); c.upper = true; return c }

// Min requires at least n characters.
func (s *StringSchema) Min(n int) *StringSchema { c := s.clone(); c.minLen = n; return c }

// Max allows at most n characters.
func (s *StringSchema) Max(n int) *StringSchema { c := s.clone(); c.maxLen = n; return c }

// Pattern requires the normalized value to match re; message is reported on
// violation.
func (s *StringSchema) Pattern(re *regexp.Regexp, message string) *StringSchema {
	c := s.clone()
	c.pattern = re
	c.message = message
	return c
}

func (s *StringSchema) Parse(value any) (any, error) {
	if value == nil {
		return nil, fail("", "campo requerido")
	}
	str, ok := value.(string)
	if !ok {
		return nil, fail("", "se esperaba texto")
	}
	if s.trim {
		str = strings.TrimSpace(str)
	}
	if s.lower {
		str = strings.ToLower(str)
	}
	if s.upper {
		str = strings.ToUpper(str)
	}
	var issues []Issue
	if s.minLen > 0 && len(str) < s.minLen {
		if s.minLen == 1 {
			issues = append(issues, Issue{Message: "campo requerido"})
		} else {
			issues = append(issues, Issue{Message: fmt.Sprintf("mínimo %d caracteres", s.minLen)})
		}
	}
	if s.maxLen > 0 && len(str) > s.maxLen {
		issues = append(issues, Issue{Message: fmt.Sprintf("máximo %d caracteres", s.maxLen)})
	}
	if s.pattern != nil && !s.pattern.MatchString(str) {
		issues = append(issues, Issue{Message: s.message})
	}
	if len(issues) > 0 {
		return nil, &Error{Issues: issues}
	}
	return str, nil
}

// UUID accepts only the canonical 8-4-4-4-12 hex representation.
type uuidSchema struct{}

func UUID() Schema { return uuidSchema{} }

func (uuidSchema) Parse(value any) (any, error) {
	if value == nil {
		return nil, fail("", "campo requerido")
	}
	str, ok := value.(string)
	if !ok {
		return nil, fail("", "identificador inválido")
	}
	// uuid.Parse also accepts urn: and braced forms; the wire format is
	// fixed to the canonical 36-character one.
	if len(str) != 36 {
		return nil, fail("", "identificador inválido")
	}
	if _, err := uuid.Parse(str); err != nil {
		return nil, fail("", "identificador inválido")
	}
	return strings.ToLower(str), nil
}

// Email trims and lower-cases before matching; applying it twice to an
// already-normalized address returns the identical string.
func Email() Schema {
	return String().Trim().Lower().Pattern(emailRe, "email inválido")
}

// Phone matches the national mobile format, e.g. "+56 9 1234 5678".
func Phone() Schema {
	return String().Trim().Pattern(phoneRe, "teléfono inválido")
}

// Name is a trimmed non-empty string of at most 100 characters.
func Name() Schema {
	return String().Trim().Min(1).Max(100)
}

// Password only requires a minimum length of 6.
func Password() Schema {
	return String().Min(6)
}

// Plate is a vehicle plate: trimmed, upper-cased, 2-4 letters followed by
// 2-4 digits.
func Plate() Schema {
	return String().Trim().Upper().Pattern(plateRe, "patente inválida")
}

// NumberSchema validates a float64 within an inclusive range.
type NumberSchema struct {
	min, max float64
	message  string
}

// Number builds a numeric schema over the inclusive range [min, max].
func Number(min, max float64, message string) *NumberSchema {
	return &NumberSchema{min: min, max: max, message: message}
}

func (n *NumberSchema) Parse(value any) (any, error) {
	if value == nil {
		return nil, fail("", "campo requerido")
	}
	f, ok := toFloat(value)
	if !ok {
		return nil, fail("", "se esperaba un número")
	}
	if f < n.min || f > n.max {
		return nil, fail("", n.message)
	}
	return f, nil
}

// Latitude is an inclusive range check over [-90, 90].
func Latitude() Schema {
	return Number(-90, 90, "latitud fuera de rango (-90 a 90)")
}

// Longitude is an inclusive range check over [-180, 180].
func Longitude() Schema {
	return Number(-180, 180, "longitud fuera de rango (-180 a 180)")
}

// Bool accepts a boolean value.
type boolSchema struct{}

func Bool() Schema { return boolSchema{} }

func (boolSchema) Parse(value any) (any, error) {
	if value == nil {
		return nil, fail("", "campo requerido")
	}
	b, ok := value.(bool)
	if !ok {
		return nil, fail("", "se esperaba un booleano")
	}
	return b, nil
}

// IntEnum accepts an integer restricted to a closed set of codes.
type IntEnum struct {
	values  []int
	message string
}

func NewIntEnum(message string, values ...int) *IntEnum {
	return &IntEnum{values: values, message: message}
}

func (e *IntEnum) Parse(value any) (any, error) {
	if value == nil {
		return nil, fail("", "campo requerido")
	}
	f, ok := toFloat(value)
	if !ok || f != float64(int(f)) {
		return nil, fail("", e.message)
	}
	n := int(f)
	if n <= 0 {
		return nil, fail("", e.message)
	}
	for _, v := range e.values {
		if n == v {
			return n, nil
		}
	}
	return nil, fail("", e.message)
}

// Role is the closed enumeration of portal role codes.
func Role() Schema {
	return NewIntEnum("rol inválido", RoleAdministrador, RoleOperador, RoleInspector)
}

// CoercedInt parses query-string integers. A nil input resolves to the
// default; values above max (when set) are a validation failure, never
// silently clamped.
type CoercedInt struct {
	def     int
	max     int
	message string
}

func NewCoercedInt(def, max int, message string) *CoercedInt {
	return &CoercedInt{def: def, max: max, message: message}
}

func (c *CoercedInt) Parse(value any) (any, error) {
	if value == nil {
		return c.def, nil
	}
	var n int
	switch v := value.(type) {
	case string:
		if v == "" {
			return c.def, nil
		}
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fail("", c.message)
		}
		n = parsed
	default:
		f, ok := toFloat(value)
		if !ok || f != float64(int(f)) {
			return nil, fail("", c.message)
		}
		n = int(f)
	}
	if n <= 0 {
		return nil, fail("", c.message)
	}
	if c.max > 0 && n > c.max {
		return nil, fail("", fmt.Sprintf("%s (máximo %d)", c.message, c.max))
	}
	return n, nil
}

// Page is the page-number query parameter: positive, defaults to 1.
func Page() Schema {
	return NewCoercedInt(1, 0, "página inválida")
}

// Limit is the page-size query parameter: positive, defaults to 20, hard
// cap 100.
func Limit() Schema {
	return NewCoercedInt(20, 100, "tamaño de página inválido")
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
