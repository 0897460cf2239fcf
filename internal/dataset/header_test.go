package dataset

import (
	"errors"
	"math"
	"strings"
	"testing"

	"trashday/internal/core"
)

func TestParseHeader(t *testing.T) {
	_, err := ParseHeader([]string{"sam_address_id", "mailing_neighborhood"})
	if !errors.Is(err, core.ErrMalformedSource) {
		t.Fatalf("ParseHeader() error = %v", err)
	}
	if !strings.Contains(err.Error(), "zip_code") {
		t.Errorf("error should name missing columns: %v", err)
	}

	h, err := ParseHeader([]string{" Full_Address ", "LON", "lat", "recollect", "trashday", "pwd_district", "zip_code", "mailing_neighborhood", "address_id"})
	if err != nil {
		t.Fatalf("ParseHeader() error = %v", err)
	}
	rec, err := h.Record([]string{"addr", "1", "2", "none", "Mon", "3", "19103", "Elm", "id"})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	want := core.Record{AddressID: "id", MailingNeighborhood: "Elm", ZipCode: "19103", District: "3", TrashDay: "Mon", Recollect: "none", Lon: 1, Lat: 2, FullAddress: "addr"}
	if rec != want {
		t.Errorf("Record() = %+v, want %+v", rec, want)
	}
}

func TestParseCoordinate(t *testing.T) {
	for _, in := range []string{"", "NaN", "nan", " NA "} {
		v, err := ParseCoordinate(in)
		if err != nil || !math.IsNaN(v) {
			t.Errorf("ParseCoordinate(%q) = %v, %v; want NaN", in, v, err)
		}
	}
	if v, err := ParseCoordinate("-75.5"); err != nil || v != -75.5 {
		t.Errorf("ParseCoordinate(-75.5) = %v, %v", v, err)
	}
	if _, err := ParseCoordinate("north"); err == nil {
		t.Error("ParseCoordinate(north) error = nil")
	}
}

func TestBuildReportsRow(t *testing.T) {
	names := []string{"sam_address_id", "mailing_neighborhood", "zip_code", "pwd_district", "trashday", "recollect", "x_coord", "y_coord", "full_address"}
	_, err := Build("src", names, [][]string{
		{"1", "Elm", "19103", "1", "Mon", "none", "1", "1", "a"},
		{"2", "Elm", "19103", "1", "Mon", "none", "x", "1", "b"},
	})
	if !core.IsLoadError(err) || !strings.Contains(err.Error(), "row 3") {
		t.Fatalf("Build() error = %v", err)
	}
}
