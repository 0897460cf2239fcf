// Package memory keeps the dataset in process. It backs tests and the
// "memory" backend.
package memory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"trashday/internal/core"
	"trashday/internal/dataset"
	"trashday/internal/dataset/csvfile"
)

const sourceName = "memory"

type Store struct {
	mu      sync.Mutex
	records []core.Record
	version int
}

var (
	_ dataset.Loader   = (*Store)(nil)
	_ dataset.Importer = (*Store)(nil)
	_ dataset.Named    = (*Store)(nil)
)

// New returns a store holding a copy of records at version 1.
func New(records []core.Record) *Store {
	return &Store{records: append([]core.Record(nil), records...), version: 1}
}

// NewFromFile seeds the store from a CSV export. A missing file falls back
// to a small built-in sample so the explorer still has something to show.
func NewFromFile(path string) (*Store, error) {
	records, err := csvfile.New(path).ReadRecords()
	if errors.Is(err, core.ErrSourceMissing) {
		return New(SampleRecords()), nil
	}
	if err != nil {
		return nil, err
	}
	return New(records), nil
}

func (s *Store) Name() string {
	return sourceName
}

// Load builds a fresh dataset from the stored records.
func (s *Store) Load(_ context.Context) (*core.Dataset, error) {
	s.mu.Lock()
	records := s.records
	s.mu.Unlock()

	ds, err := core.NewDataset(sourceName, records)
	if err != nil {
		return nil, core.NewLoadError(sourceName, err)
	}
	return ds, nil
}

// ReplaceAll swaps the stored records and bumps the version.
func (s *Store) ReplaceAll(_ context.Context, records []core.Record) (int, error) {
	if _, err := core.NewDataset(sourceName, records); err != nil {
		return 0, fmt.Errorf("replace records: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]core.Record(nil), records...)
	s.version++
	return s.version, nil
}

// Version returns the current dataset version.
func (s *Store) Version() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// SampleRecords returns a handful of addresses covering every page.
func SampleRecords() []core.Record {
	return []core.Record{
		{AddressID: "1001", MailingNeighborhood: "Fishtown", ZipCode: "19125", District: "1", TrashDay: "Monday", Recollect: "Monday", Lon: -75.1335, Lat: 39.9713, FullAddress: "1200 E Columbia Ave"},
		{AddressID: "1002", MailingNeighborhood: "Fishtown", ZipCode: "19125", District: "1", TrashDay: "Monday", Recollect: "Monday", Lon: -75.1311, Lat: 39.9698, FullAddress: "1100 Frankford Ave"},
		{AddressID: "1003", MailingNeighborhood: "Kensington", ZipCode: "19134", District: "2", TrashDay: "Tuesday", Recollect: "Tuesday", Lon: -75.1262, Lat: 39.9912, FullAddress: "2800 Kensington Ave"},
		{AddressID: "1004", MailingNeighborhood: "Kensington", ZipCode: "19134", District: "2", TrashDay: "Wednesday", Recollect: "none", Lon: -75.1241, Lat: 39.9937, FullAddress: "2900 Kensington Ave"},
		{AddressID: "1005", MailingNeighborhood: "Germantown", ZipCode: "19144", District: "3", TrashDay: "Thursday", Recollect: "Thursday", Lon: -75.1734, Lat: 40.0348, FullAddress: "5500 Germantown Ave"},
		{AddressID: "1006", MailingNeighborhood: "Germantown", ZipCode: "19144", District: "3", TrashDay: "Friday", Recollect: "Friday", Lon: math.NaN(), Lat: math.NaN(), FullAddress: "5600 Germantown Ave"},
	}
}
