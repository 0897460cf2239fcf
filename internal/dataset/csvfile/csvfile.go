// Package csvfile loads the trash schedule dataset from a CSV export.
package csvfile

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"trashday/internal/core"
	"trashday/internal/dataset"
)

// Loader reads a CSV file on every Load call. Callers own any caching.
type Loader struct {
	path string
}

var (
	_ dataset.Loader = (*Loader)(nil)
	_ dataset.Named  = (*Loader)(nil)
)

func New(path string) *Loader {
	return &Loader{path: path}
}

func (l *Loader) Name() string {
	return "csv:" + l.path
}

// Load opens the file and parses it into a dataset.
func (l *Loader) Load(ctx context.Context) (*core.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, err := l.ReadRecords()
	if err != nil {
		return nil, err
	}
	ds, err := core.NewDataset(l.Name(), records)
	if err != nil {
		return nil, core.NewLoadError(l.Name(), err)
	}
	return ds, nil
}

// ReadRecords parses the file without building a dataset, so importers can
// forward the rows elsewhere.
func (l *Loader) ReadRecords() ([]core.Record, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, core.NewLoadError(l.Name(), fmt.Errorf("%w: %s", core.ErrSourceMissing, l.path))
		}
		return nil, core.NewLoadError(l.Name(), err)
	}
	defer f.Close()

	records, err := ParseRecords(f)
	if err != nil {
		return nil, core.NewLoadError(l.Name(), err)
	}
	return records, nil
}

// Parse reads a CSV stream into a dataset named source.
func Parse(r io.Reader, source string) (*core.Dataset, error) {
	records, err := ParseRecords(r)
	if err != nil {
		return nil, core.NewLoadError(source, err)
	}
	ds, err := core.NewDataset(source, records)
	if err != nil {
		return nil, core.NewLoadError(source, err)
	}
	return ds, nil
}

// ParseRecords reads every column as a string so zip codes and district
// identifiers keep their leading zeros. Coordinates are parsed afterwards.
func ParseRecords(r io.Reader) ([]core.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		// gota refuses a frame without rows; a bare header is an empty dataset.
		if header, ok := headerOnly(data); ok {
			return dataset.Records(header, nil)
		}
		return nil, fmt.Errorf("%w: %v", core.ErrMalformedSource, df.Err)
	}

	names := df.Names()
	columns := make([][]string, len(names))
	for i, name := range names {
		columns[i] = df.Col(name).Records()
	}

	rows := make([][]string, df.Nrow())
	for i := range rows {
		row := make([]string, len(names))
		for c := range names {
			row[c] = columns[c][i]
		}
		rows[i] = row
	}

	return dataset.Records(names, rows)
}

// headerOnly returns the header row of data when it is the only record.
func headerOnly(data []byte) ([]string, bool) {
	cr := csv.NewReader(bytes.NewReader(data))
	header, err := cr.Read()
	if err != nil {
		return nil, false
	}
	if _, err := cr.Read(); err != io.EOF {
		return nil, false
	}
	return header, true
}
