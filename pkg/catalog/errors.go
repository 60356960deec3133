package catalog

import "fmt"

// ParseError reports a malformed input table: a missing header line or a row
// whose column count disagrees with the header.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("catalog: line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("catalog: %s", e.Msg)
}

// SchemaError reports a column that was expected but is absent from the table.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("catalog: no such column %q", e.Column)
}
