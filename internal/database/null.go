package database

// nullableString converts an optional string into a query argument (NULL if absent)
func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// nullableInt64 converts an optional int64 into a query argument (NULL if absent)
func nullableInt64(n *int64) any {
	if n == nil {
		return nil
	}
	return *n
}

// filterClause collects "column = ?" conditions for the filters that are present
type filterClause struct {
	conditions []string
	args       []any
}

func (f *filterClause) equals(column string, value *string) {
	if value == nil {
		return
	}
	f.conditions = append(f.conditions, column+" = ?")
	f.args = append(f.args, *value)
}
