package core

import (
	"errors"
	"testing"
)

func TestNewDatasetIndexesAndCopies(t *testing.T) {
	in := []Record{
		{AddressID: "1", MailingNeighborhood: "Elm"},
		{AddressID: "2", MailingNeighborhood: "Oak"},
	}
	ds, err := NewDataset("test", in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	in[0].MailingNeighborhood = "changed"

	r, ok := ds.Lookup("1")
	if !ok || r.MailingNeighborhood != "Elm" {
		t.Fatalf("lookup returned %+v ok=%v", r, ok)
	}
	if ds.Len() != 2 || ds.Source() != "test" {
		t.Fatalf("unexpected dataset: len=%d source=%q", ds.Len(), ds.Source())
	}
	if _, ok := ds.Lookup("missing"); ok {
		t.Fatalf("expected missing id to be absent")
	}
}

func TestNewDatasetRejectsDuplicateIDs(t *testing.T) {
	_, err := NewDataset("test", []Record{{AddressID: "1"}, {AddressID: "1"}})
	if !errors.Is(err, ErrDuplicateAddress) {
		t.Fatalf("expected ErrDuplicateAddress, got %v", err)
	}
}

func TestRecordValue(t *testing.T) {
	r := Record{
		AddressID:           "42",
		MailingNeighborhood: "Elm",
		ZipCode:             "19103",
		District:            "2",
		TrashDay:            "Mon",
		Recollect:           "none",
		FullAddress:         "1 Main St",
	}
	tests := []struct {
		col  Column
		want string
	}{
		{ColumnAddressID, "42"},
		{ColumnNeighborhood, "Elm"},
		{ColumnZipCode, "19103"},
		{ColumnDistrict, "2"},
		{ColumnTrashDay, "Mon"},
		{ColumnRecollect, "none"},
		{ColumnFullAddress, "1 Main St"},
		{Column("bogus"), ""},
	}
	for _, tt := range tests {
		if got := r.Value(tt.col); got != tt.want {
			t.Errorf("Value(%s) = %q, want %q", tt.col, got, tt.want)
		}
	}
}

func TestParseColumn(t *testing.T) {
	if c, err := ParseColumn(" TrashDay "); err != nil || c != ColumnTrashDay {
		t.Fatalf("ParseColumn = %q, %v", c, err)
	}
	if _, err := ParseColumn("full_address"); !errors.Is(err, ErrUnknownColumn) {
		t.Fatalf("expected ErrUnknownColumn for non-categorical column, got %v", err)
	}
}

func TestLoadErrorWrapping(t *testing.T) {
	err := NewLoadError("file.csv", ErrSourceMissing)
	if !IsLoadError(err) {
		t.Fatalf("expected load error")
	}
	if !errors.Is(err, ErrSourceMissing) {
		t.Fatalf("expected wrapped sentinel")
	}
	if again := NewLoadError("other", err); again != err {
		t.Fatalf("expected existing LoadError to be returned unchanged")
	}
	if NewLoadError("x", nil) != nil {
		t.Fatalf("nil error must stay nil")
	}
}
