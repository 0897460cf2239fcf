package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"trashday/internal/core"
)

// Source header names. Aliases map onto the same field.
const (
	HeaderAddressID = "sam_address_id"
	HeaderXCoord    = "x_coord"
	HeaderYCoord    = "y_coord"
	headerAliasID   = "address_id"
	headerAliasLon  = "lon"
	headerAliasLat  = "lat"
	numFields       = 9
)

type field int

const (
	fieldAddressID field = iota
	fieldNeighborhood
	fieldZipCode
	fieldDistrict
	fieldTrashDay
	fieldRecollect
	fieldLon
	fieldLat
	fieldFullAddress
)

var headerNames = map[string]field{
	HeaderAddressID:                 fieldAddressID,
	headerAliasID:                   fieldAddressID,
	string(core.ColumnNeighborhood): fieldNeighborhood,
	string(core.ColumnZipCode):      fieldZipCode,
	string(core.ColumnDistrict):     fieldDistrict,
	string(core.ColumnTrashDay):     fieldTrashDay,
	string(core.ColumnRecollect):    fieldRecollect,
	HeaderXCoord:                    fieldLon,
	headerAliasLon:                  fieldLon,
	HeaderYCoord:                    fieldLat,
	headerAliasLat:                  fieldLat,
	string(core.ColumnFullAddress):  fieldFullAddress,
}

var canonicalNames = [numFields]string{
	HeaderAddressID,
	string(core.ColumnNeighborhood),
	string(core.ColumnZipCode),
	string(core.ColumnDistrict),
	string(core.ColumnTrashDay),
	string(core.ColumnRecollect),
	HeaderXCoord,
	HeaderYCoord,
	string(core.ColumnFullAddress),
}

// Header maps the recognised source columns to their position in a row.
// Unrecognised columns are ignored.
type Header struct {
	pos [numFields]int
}

// ParseHeader resolves column positions from a header row. Every field of
// an address record must be present under its name or an alias.
func ParseHeader(names []string) (Header, error) {
	var h Header
	for i := range h.pos {
		h.pos[i] = -1
	}
	for i, name := range names {
		f, ok := headerNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok || h.pos[f] >= 0 {
			continue
		}
		h.pos[f] = i
	}
	var missing []string
	for f, p := range h.pos {
		if p < 0 {
			missing = append(missing, canonicalNames[f])
		}
	}
	if len(missing) > 0 {
		return Header{}, fmt.Errorf("%w: missing columns %s", core.ErrMalformedSource, strings.Join(missing, ", "))
	}
	return h, nil
}

// Record builds an address record from one source row. Short rows are
// padded with empty cells.
func (h Header) Record(row []string) (core.Record, error) {
	cell := func(f field) string {
		p := h.pos[f]
		if p >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[p])
	}

	lon, err := ParseCoordinate(cell(fieldLon))
	if err != nil {
		return core.Record{}, fmt.Errorf("%w: %s: %v", core.ErrMalformedSource, HeaderXCoord, err)
	}
	lat, err := ParseCoordinate(cell(fieldLat))
	if err != nil {
		return core.Record{}, fmt.Errorf("%w: %s: %v", core.ErrMalformedSource, HeaderYCoord, err)
	}

	return core.Record{
		AddressID:           cell(fieldAddressID),
		MailingNeighborhood: cell(fieldNeighborhood),
		ZipCode:             cell(fieldZipCode),
		District:            cell(fieldDistrict),
		TrashDay:            cell(fieldTrashDay),
		Recollect:           cell(fieldRecollect),
		Lon:                 lon,
		Lat:                 lat,
		FullAddress:         cell(fieldFullAddress),
	}, nil
}

// ParseCoordinate parses a coordinate cell. Blank and NaN cells yield NaN.
func ParseCoordinate(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "nan", "na", "null", "none":
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid coordinate %q", s)
	}
	return v, nil
}

// Build turns a header and its rows into a dataset. Any failure is reported
// as a LoadError for source.
func Build(source string, names []string, rows [][]string) (*core.Dataset, error) {
	records, err := Records(names, rows)
	if err != nil {
		return nil, core.NewLoadError(source, err)
	}
	ds, err := core.NewDataset(source, records)
	if err != nil {
		return nil, core.NewLoadError(source, err)
	}
	return ds, nil
}

// Records converts rows into address records using the given header.
func Records(names []string, rows [][]string) ([]core.Record, error) {
	h, err := ParseHeader(names)
	if err != nil {
		return nil, err
	}
	records := make([]core.Record, 0, len(rows))
	for i, row := range rows {
		rec, err := h.Record(row)
		if err != nil {
			// +2: one for the header, one for 1-based numbering
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
