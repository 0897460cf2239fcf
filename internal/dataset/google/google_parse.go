package google

import (
	"fmt"
	"strings"

	"trashday/internal/core"
	"trashday/internal/dataset"
)

// parseValues converts a Sheets value range into a dataset. Blank rows are
// skipped; every other row must satisfy the header.
func parseValues(source string, values [][]interface{}) (*core.Dataset, error) {
	if len(values) == 0 {
		return nil, core.NewLoadError(source, fmt.Errorf("%w: sheet is empty", core.ErrSourceMissing))
	}

	header := toStrings(values[0])
	rows := make([][]string, 0, len(values)-1)
	for _, v := range values[1:] {
		row := toStrings(v)
		if blank(row) {
			continue
		}
		rows = append(rows, row)
	}
	return dataset.Build(source, header, rows)
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func blank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
