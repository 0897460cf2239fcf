package engine

import "trashday/internal/core"

// CategoryCount is the number of rows holding Value.
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CategoryCounts keeps candidate order; zero counts are present.
type CategoryCounts []CategoryCount

// Count tallies rows of v per candidate value of col. Every candidate is
// reported, including those with no rows. Repeated candidates appear once.
func Count(v View, col core.Column, candidates []string) CategoryCounts {
	pos := make(map[string]int, len(candidates))
	out := make(CategoryCounts, 0, len(candidates))
	for _, c := range candidates {
		if _, dup := pos[c]; dup {
			continue
		}
		pos[c] = len(out)
		out = append(out, CategoryCount{Value: c})
	}

	v.Each(func(r core.Record) bool {
		if i, ok := pos[r.Value(col)]; ok {
			out[i].Count++
		}
		return true
	})
	return out
}

// CountAll counts over the values present in v itself.
func CountAll(v View, col core.Column) CategoryCounts {
	return Count(v, col, Distinct(v, col))
}

// Total sums all counts.
func (cc CategoryCounts) Total() int {
	total := 0
	for _, c := range cc {
		total += c.Count
	}
	return total
}

// Get returns the count for value, or 0 and false if value is not a candidate.
func (cc CategoryCounts) Get(value string) (int, bool) {
	for _, c := range cc {
		if c.Value == value {
			return c.Count, true
		}
	}
	return 0, false
}

func (cc CategoryCounts) Map() map[string]int {
	m := make(map[string]int, len(cc))
	for _, c := range cc {
		m[c.Value] = c.Count
	}
	return m
}

func (cc CategoryCounts) Values() []string {
	out := make([]string, len(cc))
	for i, c := range cc {
		out[i] = c.Value
	}
	return out
}
