package engine

import "trashday/internal/core"

// Distinct returns the values of col present in the view in first-seen order.
// The empty string is a value like any other.
func Distinct(v View, col core.Column) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	v.Each(func(r core.Record) bool {
		val := r.Value(col)
		if _, ok := seen[val]; !ok {
			seen[val] = struct{}{}
			out = append(out, val)
		}
		return true
	})
	return out
}
