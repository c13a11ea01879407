package entities

// FlatRow maps each declared column name to its string value.
type FlatRow map[string]string

// Values returns the row's values in the order of columns. Columns missing
// from the row come back as "".
func (r FlatRow) Values(columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = r[c]
	}
	return out
}
