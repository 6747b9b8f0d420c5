package plan

import (
	"errors"
	"fmt"
	"strings"

	"dto-generator/internal/analyze"
)

var (
	// ErrPropertyNotFound is matched by every PropertyNotFoundError.
	ErrPropertyNotFound = errors.New("property not found")
	// ErrDtoDefinitionConflict is matched by every ConflictError.
	ErrDtoDefinitionConflict = errors.New("dto definition conflict")
)

// PropertyNotFoundError reports names absent from a candidate set. All
// missing names found in one pass are listed.
type PropertyNotFoundError struct {
	// Owner is the type whose properties were searched.
	Owner analyze.TypeID
	// Referrer is the definition holding a dangling "from", zero otherwise.
	Referrer analyze.TypeID
	// Field is the configuration option the names came from (include, exclude, from).
	Field string
	Names []string
	// Candidates are the names that were available.
	Candidates []string
}

func (e *PropertyNotFoundError) Error() string {
	var b strings.Builder

	b.WriteString(ErrPropertyNotFound.Error())
	b.WriteString(": ")

	if !e.Referrer.IsZero() {
		fmt.Fprintf(&b, "%s: ", e.Referrer)
	}

	fmt.Fprintf(&b, "%s has no properties %s", e.Owner, quoteAll(e.Names))

	if e.Field != "" {
		fmt.Fprintf(&b, " (referenced by %s)", e.Field)
	}

	return b.String()
}

// Is matches ErrPropertyNotFound.
func (e *PropertyNotFoundError) Is(target error) bool {
	return target == ErrPropertyNotFound
}

// ConflictError reports a contradictory definition.
type ConflictError struct {
	Definition analyze.TypeID
	Source     analyze.TypeID
	// Properties names every offending property.
	Properties []string
	Reason     string
}

func (e *ConflictError) Error() string {
	var b strings.Builder

	b.WriteString(ErrDtoDefinitionConflict.Error())
	b.WriteString(": ")
	b.WriteString(e.Definition.String())

	if !e.Source.IsZero() {
		fmt.Fprintf(&b, " (source %s)", e.Source)
	}

	b.WriteString(": ")
	b.WriteString(e.Reason)

	if len(e.Properties) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Properties, ", "))
	}

	return b.String()
}

// Is matches ErrDtoDefinitionConflict.
func (e *ConflictError) Is(target error) bool {
	return target == ErrDtoDefinitionConflict
}

func quoteAll(names []string) string {
	q := make([]string, len(names))
	for i, n := range names {
		q[i] = fmt.Sprintf("%q", n)
	}

	return "[" + strings.Join(q, ", ") + "]"
}
