package dataprep

import (
	"fmt"
	"strings"
)

// SchemaError reports a dataset that cannot be normalized into a numeric
// table with a binary target. Row is 1-based over data rows; zero means the
// error is not tied to a row.
type SchemaError struct {
	Disease string
	Column  string
	Row     int
	Reason  string
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("schema error")
	if e.Disease != "" {
		fmt.Fprintf(&b, " (%s)", e.Disease)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, ": column %q", e.Column)
	}
	if e.Row > 0 {
		fmt.Fprintf(&b, " row %d", e.Row)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}
