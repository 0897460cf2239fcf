// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing selections out of query
// strings. Multi-select inputs arrive as repeated keys, so every parameter
// is read as a list.

package http

import (
	"net/url"

	"trashday/internal/core"
	"trashday/internal/engine"
)

// Query parameter names used by the pages and their API counterparts.
const (
	ParamNeighborhood = "neighborhood"
	ParamDay          = "day"
	ParamZip          = "zip"
	ParamDistrict     = "district"
	ParamCandidate    = "candidate"
)

// QueryValues returns the sanitized values of key in request order with
// duplicates removed. Empty values are kept: a blank cell is a category.
func QueryValues(query url.Values, key string) []string {
	raw := query[key]
	if len(raw) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		v = sanitizeInput(v)
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// QueryValue returns the first sanitized value of key, or "".
func QueryValue(query url.Values, key string) string {
	return sanitizeInput(query.Get(key))
}

// ParseSelection builds a selection from query keys named after categorical
// columns. A column is applied only when its key is present; a present key
// with no matching rows yields an empty result, never an error.
func ParseSelection(query url.Values) engine.Selection {
	sel := engine.NewSelection()
	for _, col := range core.CategoricalColumns() {
		if _, ok := query[col.String()]; !ok {
			continue
		}
		sel = sel.With(col, QueryValues(query, col.String())...)
	}
	return sel
}

// ParseCandidates returns the explicit candidate list, or nil when the
// caller wants every known value of the dimension.
func ParseCandidates(query url.Values) []string {
	if _, ok := query[ParamCandidate]; !ok {
		return nil
	}
	values := QueryValues(query, ParamCandidate)
	if values == nil {
		return []string{}
	}
	return values
}
