// Package export renders schedule data as CSV tables and PDF documents.
package export

// Dataset defines tabular export content. Row values are looked up by header.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// Len returns the number of data rows.
func (d Dataset) Len() int {
	return len(d.Rows)
}
