// Package schema defines the declarative input/output contracts for the
// portal's API operations. Schemas are immutable once built and free of
// side effects: applying one either yields the normalized value or an
// *Error listing every violated constraint keyed by dotted field path.
package schema

import "strings"

// Issue is a single violated constraint. Path is the dotted field path
// ("ubicacion.latitud"), empty for the root value.
type Issue struct {
	Path    string
	Message string
}

// Error aggregates every issue found while applying a schema.
type Error struct {
	Issues []Issue
}

// Error returns the first issue as a short human-readable summary.
func (e *Error) Error() string {
	if len(e.Issues) == 0 {
		return "valor inválido"
	}
	first := e.Issues[0]
	if first.Path == "" {
		return first.Message
	}
	return first.Path + ": " + first.Message
}

// Details groups every issue message by dotted field path. Root issues are
// keyed under "_".
func (e *Error) Details() map[string][]string {
	details := make(map[string][]string, len(e.Issues))
	for _, issue := range e.Issues {
		path := issue.Path
		if path == "" {
			path = "_"
		}
		details[path] = append(details[path], issue.Message)
	}
	return details
}

func fail(path, message string) error {
	return &Error{Issues: []Issue{{Path: path, Message: message}}}
}

// Schema validates and normalizes a raw value. Parse(nil) is how a missing
// value is presented; schemas with a default resolve it there.
type Schema interface {
	Parse(value any) (any, error)
}

// Field is a named member of an object schema.
type Field struct {
	Name     string
	Schema   Schema
	Optional bool
}

// Required declares an object field that must be present (or carry a
// default).
func Required(name string, s Schema) Field { return Field{Name: name, Schema: s} }

// Optional declares an object field that may be absent.
func Optional(name string, s Schema) Field { return Field{Name: name, Schema: s, Optional: true} }

// Refinement is a named cross-field rule applied after all field schemas
// pass. Check returns nil when satisfied.
type Refinement struct {
	Name  string
	Check func(data map[string]any) *Issue
}

// ObjectSchema validates a map of named fields. Unknown keys are dropped.
type ObjectSchema struct {
	fields      []Field
	refinements []Refinement
}

// Object builds an object schema. Fields are validated in declaration
// order, which makes the first-issue summary deterministic.
func Object(fields ...Field) *ObjectSchema {
	return &ObjectSchema{fields: fields}
}

// Refine returns a copy of the schema with an additional named cross-field
// rule. The receiver is not modified.
func (o *ObjectSchema) Refine(name string, check func(data map[string]any) *Issue) *ObjectSchema {
	clone := &ObjectSchema{fields: o.fields}
	clone.refinements = append(append([]Refinement{}, o.refinements...), Refinement{Name: name, Check: check})
	return clone
}

// Parse validates every field, collecting all issues rather than stopping
// at the first. Refinements run only once every field passed.
func (o *ObjectSchema) Parse(value any) (any, error) {
	raw, ok := value.(map[string]any)
	if value == nil {
		raw = map[string]any{}
	} else if !ok {
		return nil, fail("", "se esperaba un objeto")
	}

	data := make(map[string]any, len(o.fields))
	var issues []Issue
	for _, field := range o.fields {
		rawValue, present := raw[field.Name]
		if !present || rawValue == nil {
			if field.Optional {
				continue
			}
			parsed, err := field.Schema.Parse(nil)
			if err != nil {
				issues = append(issues, prefixIssues(field.Name, err)...)
				continue
			}
			data[field.Name] = parsed
			continue
		}
		parsed, err := field.Schema.Parse(rawValue)
		if err != nil {
			issues = append(issues, prefixIssues(field.Name, err)...)
			continue
		}
		data[field.Name] = parsed
	}

	if len(issues) == 0 {
		for _, ref := range o.refinements {
			if issue := ref.Check(data); issue != nil {
				issues = append(issues, *issue)
			}
		}
	}

	if len(issues) > 0 {
		return nil, &Error{Issues: issues}
	}
	return data, nil
}

func prefixIssues(name string, err error) []Issue {
	schemaErr, ok := err.(*Error)
	if !ok {
		return []Issue{{Path: name, Message: err.Error()}}
	}
	prefixed := make([]Issue, 0, len(schemaErr.Issues))
	for _, issue := range schemaErr.Issues {
		path := name
		if issue.Path != "" {
			path = name + "." + issue.Path
		}
		prefixed = append(prefixed, Issue{Path: path, Message: issue.Message})
	}
	return prefixed
}

// AtLeastOne is the cross-field refinement used by update schemas: at least
// one of the named fields must be present in the parsed data.
func AtLeastOne(fields ...string) func(data map[string]any) *Issue {
	return func(data map[string]any) *Issue {
		for _, name := range fields {
			if _, ok := data[name]; ok {
				return nil
			}
		}
		return &Issue{Message: "debe incluir al menos un campo para actualizar: " + strings.Join(fields, ", ")}
	}
}
