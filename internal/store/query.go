// Package store provides query building for the records table. Field
// names are interpolated into json_extract paths, so they are
// restricted to identifier characters; values are always bound as
// arguments.
package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/studyhub-app/backend/internal/errors"
)

// SortSpec is a parsed "field:asc|desc" sort directive.
type SortSpec struct {
	Field string
	Desc  bool
}

// ParseSort parses a sort spec. The empty string parses to the zero
// spec, meaning server-default (insertion) order. A bare field name
// sorts ascending.
func ParseSort(s string) (SortSpec, error) {
	if s == "" {
		return SortSpec{}, nil
	}

	field := s
	dir := "asc"
	if i := strings.IndexByte(s, ':'); i >= 0 {
		field = s[:i]
		dir = strings.ToLower(s[i+1:])
	}

	if !validFieldName(field) {
		return SortSpec{}, errors.Newf(errors.ErrValidation, "invalid sort field: %s", field)
	}

	switch dir {
	case "asc":
		return SortSpec{Field: field}, nil
	case "desc":
		return SortSpec{Field: field, Desc: true}, nil
	default:
		return SortSpec{}, errors.Newf(errors.ErrValidation, "invalid sort direction: %s", dir)
	}
}

// String renders the spec back to "field:asc|desc" form.
func (s SortSpec) String() string {
	if s.Field == "" {
		return ""
	}
	if s.Desc {
		return s.Field + ":desc"
	}
	return s.Field + ":asc"
}

// validFieldName reports whether s is safe to embed in a JSON path.
func validFieldName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return true
}

// buildListQuery renders a List call into SQL. Filter fields are sorted
// so the statement text is deterministic.
func buildListQuery(kind string, opts ListOptions) (string, []interface{}, error) {
	var sb strings.Builder
	sb.WriteString("SELECT data FROM records WHERE kind = ?")
	args := []interface{}{kind}

	if len(opts.Filter) > 0 {
		fields := make([]string, 0, len(opts.Filter))
		for f := range opts.Filter {
			fields = append(fields, f)
		}
		sort.Strings(fields)

		for _, f := range fields {
			if !validFieldName(f) {
				return "", nil, errors.Newf(errors.ErrValidation, "invalid filter field: %s", f)
			}
			sb.WriteString(fmt.Sprintf(" AND json_extract(data, '$.%s') = ?", f))
			args = append(args, opts.Filter[f])
		}
	}

	spec, err := ParseSort(opts.Sort)
	if err != nil {
		return "", nil, err
	}
	if spec.Field != "" {
		dir := "ASC"
		if spec.Desc {
			dir = "DESC"
		}
		// rowid keeps equal keys in insertion order
		sb.WriteString(fmt.Sprintf(" ORDER BY json_extract(data, '$.%s') %s, rowid ASC", spec.Field, dir))
	} else {
		sb.WriteString(" ORDER BY rowid ASC")
	}

	if opts.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, opts.Limit)
	}

	return sb.String(), args, nil
}
