package ingest

// RawRecords is the first sheet of a workbook (or a CSV file) as produced by the loader.
// Headers keep the order of the header row; empty cells are "".
type RawRecords struct {
	Headers []string
	Rows    []map[string]string
}

// Record is one row after header normalization.
type Record map[string]string

type NormalizedRecords struct {
	Headers []string
	Rows    []Record
}

func (n *NormalizedRecords) Len() int {
	if n == nil {
		return 0
	}
	return len(n.Rows)
}
