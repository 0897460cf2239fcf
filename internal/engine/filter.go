package engine

import "trashday/internal/core"

// Predicate keeps rows whose value in Column is one of Allowed.
// An empty Allowed set keeps nothing.
type Predicate struct {
	Column  core.Column
	Allowed []string
}

// In builds a set-membership predicate.
func In(col core.Column, values ...string) Predicate {
	return Predicate{Column: col, Allowed: values}
}

// Equals builds a single-value predicate.
func Equals(col core.Column, value string) Predicate {
	return Predicate{Column: col, Allowed: []string{value}}
}

type compiledPredicate struct {
	col core.Column
	set map[string]struct{}
}

// Filter returns the rows of v that satisfy every predicate, in input order.
// With no predicates the result has the same rows as v.
func Filter(v View, preds ...Predicate) View {
	if len(preds) == 0 {
		return v
	}

	compiled := make([]compiledPredicate, 0, len(preds))
	for _, p := range preds {
		if len(p.Allowed) == 0 {
			return v.sub([]int{})
		}
		set := make(map[string]struct{}, len(p.Allowed))
		for _, a := range p.Allowed {
			set[a] = struct{}{}
		}
		compiled = append(compiled, compiledPredicate{col: p.Column, set: set})
	}

	n := v.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		r := v.At(i)
		keep := true
		for _, c := range compiled {
			if _, ok := c.set[r.Value(c.col)]; !ok {
				keep = false
				break
			}
		}
		if keep {
			indices = append(indices, v.parentIndex(i))
		}
	}
	return v.sub(indices)
}

// FilterByNeighborhoodsAndDays backs the address page. Both predicates are
// always applied, so nothing chosen on either dimension means no rows.
func FilterByNeighborhoodsAndDays(v View, neighborhoods, days []string) View {
	return Filter(v, In(core.ColumnNeighborhood, neighborhoods...), In(core.ColumnTrashDay, days...))
}

// FilterByZip keeps rows with exactly the given zip code.
func FilterByZip(v View, zip string) View {
	return Filter(v, Equals(core.ColumnZipCode, zip))
}

// FilterByDistricts keeps rows whose district is one of districts.
func FilterByDistricts(v View, districts []string) View {
	return Filter(v, In(core.ColumnDistrict, districts...))
}
