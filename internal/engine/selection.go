package engine

import "trashday/internal/core"

// Selection is the set of predicates chosen for one render cycle. A column
// that is present is applied even when it holds no values.
type Selection struct {
	order  []core.Column
	values map[core.Column][]string
}

func NewSelection() Selection {
	return Selection{values: make(map[core.Column][]string)}
}

// With returns a copy of s constraining col to values, replacing any
// earlier constraint on col.
func (s Selection) With(col core.Column, values ...string) Selection {
	out := Selection{
		order:  make([]core.Column, 0, len(s.order)+1),
		values: make(map[core.Column][]string, len(s.values)+1),
	}
	for _, c := range s.order {
		out.order = append(out.order, c)
		out.values[c] = s.values[c]
	}
	if _, exists := out.values[col]; !exists {
		out.order = append(out.order, col)
	}
	out.values[col] = append([]string(nil), values...)
	return out
}

// Applies reports whether col is constrained.
func (s Selection) Applies(col core.Column) bool {
	_, ok := s.values[col]
	return ok
}

// Values returns the allowed values for col.
func (s Selection) Values(col core.Column) []string {
	return append([]string(nil), s.values[col]...)
}

// Columns lists the constrained columns in the order they were added.
func (s Selection) Columns() []core.Column {
	return append([]core.Column(nil), s.order...)
}

// Predicates converts the selection into filter predicates.
func (s Selection) Predicates() []Predicate {
	preds := make([]Predicate, 0, len(s.order))
	for _, c := range s.order {
		preds = append(preds, In(c, s.values[c]...))
	}
	return preds
}

// Apply filters v by every constraint of the selection.
func (s Selection) Apply(v View) View {
	return Filter(v, s.Predicates()...)
}
