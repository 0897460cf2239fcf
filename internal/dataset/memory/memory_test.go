package memory

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"trashday/internal/core"
)

func TestStoreLoadAndReplace(t *testing.T) {
	ctx := context.Background()
	s := New(SampleRecords())

	ds, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ds.Len() != len(SampleRecords()) {
		t.Fatalf("Len() = %d", ds.Len())
	}

	v, err := s.ReplaceAll(ctx, []core.Record{{AddressID: "x", TrashDay: "Monday"}})
	if err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}
	if v != 2 || s.Version() != 2 {
		t.Fatalf("version = %d, want 2", v)
	}

	ds, _ = s.Load(ctx)
	if ds.Len() != 1 || ds.At(0).AddressID != "x" {
		t.Fatalf("unexpected dataset after replace: %v", ds.Records())
	}
}

func TestStoreRejectsDuplicates(t *testing.T) {
	s := New(nil)
	_, err := s.ReplaceAll(context.Background(), []core.Record{{AddressID: "a"}, {AddressID: "a"}})
	if !errors.Is(err, core.ErrDuplicateAddress) {
		t.Fatalf("ReplaceAll() error = %v, want ErrDuplicateAddress", err)
	}
	if s.Version() != 1 {
		t.Fatalf("version changed on failed replace: %d", s.Version())
	}
}

func TestNewFromFileFallsBackToSample(t *testing.T) {
	s, err := NewFromFile(filepath.Join(t.TempDir(), "none.csv"))
	if err != nil {
		t.Fatalf("NewFromFile() error = %v", err)
	}
	ds, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ds.Len() != len(SampleRecords()) {
		t.Fatalf("Len() = %d, want sample size", ds.Len())
	}
}
