package google

import (
	"errors"
	"math"
	"testing"

	"trashday/internal/core"
)

func TestParseValues(t *testing.T) {
	values := [][]interface{}{
		{"sam_address_id", "mailing_neighborhood", "zip_code", "pwd_district", "trashday", "recollect", "x_coord", "y_coord", "full_address"},
		{"1", "Elm", "19103", "1", "Mon", "none", -75.1, 39.9, "1 Elm"},
		{},
		{"2", "Oak", "19104", 2, "Tue", "Tue", "", ""},
	}

	ds, err := parseValues("sheet", values)
	if err != nil {
		t.Fatalf("parseValues() error = %v", err)
	}
	if ds.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", ds.Len())
	}
	if r := ds.At(0); r.Lon != -75.1 || r.Lat != 39.9 {
		t.Errorf("coordinates = (%v, %v)", r.Lon, r.Lat)
	}
	r := ds.At(1)
	if r.District != "2" || r.FullAddress != "" || !math.IsNaN(r.Lon) {
		t.Errorf("short row not padded: %+v", r)
	}
}

func TestParseValuesErrors(t *testing.T) {
	tests := []struct {
		name   string
		values [][]interface{}
		want   error
	}{
		{"empty sheet", nil, core.ErrSourceMissing},
		{"bad header", [][]interface{}{{"id", "name"}}, core.ErrMalformedSource},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseValues("sheet", tt.values)
			if !errors.Is(err, tt.want) || !core.IsLoadError(err) {
				t.Fatalf("parseValues() error = %v, want %v", err, tt.want)
			}
		})
	}
}
