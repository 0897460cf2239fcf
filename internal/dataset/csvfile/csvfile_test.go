package csvfile

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"trashday/internal/core"
)

const sample = `sam_address_id,mailing_neighborhood,zip_code,pwd_district,trashday,recollect,x_coord,y_coord,full_address,extra
101,Elm,08103,01,Mon,none,-75.16,39.95,1 Elm St,x
102,Oak,19104,2,Tue,Thu,-75.18,39.96,2 Oak St,y
103,Oak,19104,2,Tue,Thu,NaN,,3 Oak St,z
`

func TestParseKeepsStringsAndNaN(t *testing.T) {
	ds, err := Parse(strings.NewReader(sample), "test")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if ds.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", ds.Len())
	}

	first := ds.At(0)
	if first.ZipCode != "08103" || first.District != "01" {
		t.Fatalf("leading zeros lost: %+v", first)
	}
	if first.Lon != -75.16 || first.Lat != 39.95 {
		t.Fatalf("coordinates = (%v, %v)", first.Lon, first.Lat)
	}

	last := ds.At(2)
	if !math.IsNaN(last.Lon) || !math.IsNaN(last.Lat) {
		t.Fatalf("expected NaN coordinates, got (%v, %v)", last.Lon, last.Lat)
	}
	if _, ok := ds.Lookup("102"); !ok {
		t.Fatal("Lookup(102) not found")
	}
}

func TestParseAliases(t *testing.T) {
	in := "address_id,mailing_neighborhood,zip_code,pwd_district,trashday,recollect,lon,lat,full_address\n" +
		"a,Elm,19103,1,Mon,none,1.5,2.5,addr\n"
	ds, err := Parse(strings.NewReader(in), "alias")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := ds.At(0); got.AddressID != "a" || got.Lon != 1.5 || got.Lat != 2.5 {
		t.Fatalf("unexpected record %+v", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{
			name: "missing column",
			in:   "sam_address_id,mailing_neighborhood\n1,Elm\n",
			want: core.ErrMalformedSource,
		},
		{
			name: "bad coordinate",
			in: "sam_address_id,mailing_neighborhood,zip_code,pwd_district,trashday,recollect,x_coord,y_coord,full_address\n" +
				"1,Elm,19103,1,Mon,none,west,39.9,addr\n",
			want: core.ErrMalformedSource,
		},
		{
			name: "duplicate address id",
			in: "sam_address_id,mailing_neighborhood,zip_code,pwd_district,trashday,recollect,x_coord,y_coord,full_address\n" +
				"1,Elm,19103,1,Mon,none,1,1,a\n" +
				"1,Oak,19104,2,Tue,none,1,1,b\n",
			want: core.ErrDuplicateAddress,
		},
		{
			name: "empty input",
			in:   "",
			want: core.ErrMalformedSource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.in), "bad")
			if err == nil {
				t.Fatal("Parse() error = nil")
			}
			if !core.IsLoadError(err) {
				t.Errorf("expected LoadError, got %T", err)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseHeaderOnlyIsEmptyDataset(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"trailing newline", "sam_address_id,mailing_neighborhood,zip_code,pwd_district,trashday,recollect,x_coord,y_coord,full_address\n"},
		{"no trailing newline", "sam_address_id,mailing_neighborhood,zip_code,pwd_district,trashday,recollect,x_coord,y_coord,full_address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := Parse(strings.NewReader(tt.in), "empty")
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if ds.Len() != 0 {
				t.Fatalf("Len() = %d, want 0", ds.Len())
			}
		})
	}

	_, err := Parse(strings.NewReader("sam_address_id,mailing_neighborhood\n"), "partial")
	if !errors.Is(err, core.ErrMalformedSource) {
		t.Fatalf("header missing columns: error = %v, want ErrMalformedSource", err)
	}
}

func TestLoader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schedules.csv")
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatalf("write sample: %v", err)
	}

	l := New(path)
	ds, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ds.Len() != 3 || ds.Source() != l.Name() {
		t.Fatalf("unexpected dataset %s with %d rows", ds.Source(), ds.Len())
	}

	_, err = New(filepath.Join(dir, "missing.csv")).Load(context.Background())
	if !errors.Is(err, core.ErrSourceMissing) || !core.IsLoadError(err) {
		t.Fatalf("Load() missing file error = %v", err)
	}
}
