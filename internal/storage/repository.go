package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"trashday/internal/core"
	"trashday/internal/dataset"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	path    string
}

var (
	_ dataset.Loader   = (*SQLiteRepository)(nil)
	_ dataset.Importer = (*SQLiteRepository)(nil)
	_ dataset.Named    = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := migrateSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	repo := &SQLiteRepository{
		db:      db,
		queries: New(db),
		path:    dbPath,
	}

	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Name() string {
	return "sqlite:" + r.path
}

// Load implements dataset.Loader. Rows come back in insertion order.
func (r *SQLiteRepository) Load(ctx context.Context) (*core.Dataset, error) {
	rows, err := r.queries.ListAddresses(ctx)
	if err != nil {
		return nil, core.NewLoadError(r.Name(), fmt.Errorf("list addresses: %w", err))
	}

	records := make([]core.Record, len(rows))
	for i, a := range rows {
		records[i] = core.Record{
			AddressID:           a.AddressID,
			MailingNeighborhood: a.MailingNeighborhood,
			ZipCode:             a.ZipCode,
			District:            a.PwdDistrict,
			TrashDay:            a.Trashday,
			Recollect:           a.Recollect,
			Lon:                 fromNullFloat(a.Lon),
			Lat:                 fromNullFloat(a.Lat),
			FullAddress:         a.FullAddress,
		}
	}

	ds, err := core.NewDataset(r.Name(), records)
	if err != nil {
		return nil, core.NewLoadError(r.Name(), err)
	}
	return ds, nil
}

// ReplaceAll implements dataset.Importer. The old rows are removed and the
// new ones inserted in a single transaction, and a new version is recorded.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, records []core.Record) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if err := q.DeleteAllAddresses(ctx); err != nil {
		return 0, fmt.Errorf("delete addresses: %w", err)
	}

	for _, rec := range records {
		err := q.InsertAddress(ctx, InsertAddressParams{
			AddressID:           rec.AddressID,
			MailingNeighborhood: rec.MailingNeighborhood,
			ZipCode:             rec.ZipCode,
			PwdDistrict:         rec.District,
			Trashday:            rec.TrashDay,
			Recollect:           rec.Recollect,
			Lon:                 toNullFloat(rec.Lon),
			Lat:                 toNullFloat(rec.Lat),
			FullAddress:         rec.FullAddress,
		})
		if err != nil {
			return 0, fmt.Errorf("insert address %s: %w", rec.AddressID, err)
		}
	}

	version, err := q.CreateDatasetVersion(ctx, int64(len(records)))
	if err != nil {
		return 0, fmt.Errorf("create dataset version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Dataset replaced in SQLite",
		"version", version,
		"rows", len(records))

	return int(version), nil
}

// CurrentVersion returns the latest imported version, or 0 when nothing has
// been imported yet.
func (r *SQLiteRepository) CurrentVersion(ctx context.Context) (int, error) {
	v, err := r.queries.GetCurrentVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("get current version: %w", err)
	}
	return int(v), nil
}

// Versions lists the most recent imports, newest first.
func (r *SQLiteRepository) Versions(ctx context.Context, limit int) ([]DatasetVersion, error) {
	if limit <= 0 {
		limit = 10
	}
	versions, err := r.queries.ListDatasetVersions(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list dataset versions: %w", err)
	}
	return versions, nil
}

// Count returns the number of stored addresses.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	n, err := r.queries.CountAddresses(ctx)
	if err != nil {
		return 0, fmt.Errorf("count addresses: %w", err)
	}
	return int(n), nil
}

// SQLite stores NaN as NULL, so missing coordinates round-trip through NULL.
func toNullFloat(f float64) sql.NullFloat64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

func fromNullFloat(n sql.NullFloat64) float64 {
	if !n.Valid {
		return math.NaN()
	}
	return n.Float64
}
