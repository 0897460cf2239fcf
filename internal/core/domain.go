package core

import (
	"errors"
	"fmt"
	"strings"
)

// Column names a field of the address dataset.
type Column string

const (
	ColumnAddressID    Column = "address_id"
	ColumnNeighborhood Column = "mailing_neighborhood"
	ColumnZipCode      Column = "zip_code"
	ColumnDistrict     Column = "pwd_district"
	ColumnTrashDay     Column = "trashday"
	ColumnRecollect    Column = "recollect"
	ColumnFullAddress  Column = "full_address"
)

var ErrUnknownColumn = errors.New("unknown column")

// CategoricalColumns returns the columns that can be enumerated, filtered and counted.
func CategoricalColumns() []Column {
	return []Column{ColumnNeighborhood, ColumnZipCode, ColumnDistrict, ColumnTrashDay, ColumnRecollect}
}

// ParseColumn maps user input to a categorical column.
func ParseColumn(s string) (Column, error) {
	c := Column(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range CategoricalColumns() {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownColumn, s)
}

func (c Column) String() string {
	return string(c)
}

type (
	// Record is one address row of the schedule dataset.
	Record struct {
		AddressID           string
		MailingNeighborhood string
		ZipCode             string
		District            string
		TrashDay            string
		Recollect           string
		Lon                 float64
		Lat                 float64
		FullAddress         string
	}

	// Dataset is the immutable, session-scoped set of address records in load order.
	Dataset struct {
		source  string
		records []Record
		index   map[string]int
	}
)

// Value returns the record's value for a column; unknown columns yield "".
func (r Record) Value(c Column) string {
	switch c {
	case ColumnAddressID:
		return r.AddressID
	case ColumnNeighborhood:
		return r.MailingNeighborhood
	case ColumnZipCode:
		return r.ZipCode
	case ColumnDistrict:
		return r.District
	case ColumnTrashDay:
		return r.TrashDay
	case ColumnRecollect:
		return r.Recollect
	case ColumnFullAddress:
		return r.FullAddress
	default:
		return ""
	}
}

// NewDataset indexes records by address id. The slice is copied.
func NewDataset(source string, records []Record) (*Dataset, error) {
	ds := &Dataset{
		source:  source,
		records: make([]Record, len(records)),
		index:   make(map[string]int, len(records)),
	}
	copy(ds.records, records)
	for i, r := range ds.records {
		if _, dup := ds.index[r.AddressID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAddress, r.AddressID)
		}
		ds.index[r.AddressID] = i
	}
	return ds, nil
}

// Source names where the dataset was loaded from.
func (d *Dataset) Source() string {
	if d == nil {
		return ""
	}
	return d.source
}

func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// At returns the i-th record in load order.
func (d *Dataset) At(i int) Record {
	return d.records[i]
}

// Records returns a copy of all records.
func (d *Dataset) Records() []Record {
	if d == nil {
		return nil
	}
	out := make([]Record, len(d.records))
	copy(out, d.records)
	return out
}

// Lookup finds a record by address id.
func (d *Dataset) Lookup(addressID string) (Record, bool) {
	if d == nil {
		return Record{}, false
	}
	i, ok := d.index[addressID]
	if !ok {
		return Record{}, false
	}
	return d.records[i], true
}
