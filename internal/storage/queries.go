package storage

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type Address struct {
	ID                  int64
	AddressID           string
	MailingNeighborhood string
	ZipCode             string
	PwdDistrict         string
	Trashday            string
	Recollect           string
	Lon                 sql.NullFloat64
	Lat                 sql.NullFloat64
	FullAddress         string
}

type DatasetVersion struct {
	Version    int64
	Records    int64
	ImportedAt time.Time
}

const deleteAllAddresses = `DELETE FROM addresses`

func (q *Queries) DeleteAllAddresses(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllAddresses)
	return err
}

const insertAddress = `INSERT INTO addresses (
    address_id, mailing_neighborhood, zip_code, pwd_district, trashday, recollect, lon, lat, full_address
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

type InsertAddressParams struct {
	AddressID           string
	MailingNeighborhood string
	ZipCode             string
	PwdDistrict         string
	Trashday            string
	Recollect           string
	Lon                 sql.NullFloat64
	Lat                 sql.NullFloat64
	FullAddress         string
}

func (q *Queries) InsertAddress(ctx context.Context, arg InsertAddressParams) error {
	_, err := q.db.ExecContext(ctx, insertAddress,
		arg.AddressID,
		arg.MailingNeighborhood,
		arg.ZipCode,
		arg.PwdDistrict,
		arg.Trashday,
		arg.Recollect,
		arg.Lon,
		arg.Lat,
		arg.FullAddress,
	)
	return err
}

const listAddresses = `SELECT id, address_id, mailing_neighborhood, zip_code, pwd_district, trashday, recollect, lon, lat, full_address
FROM addresses
ORDER BY id`

func (q *Queries) ListAddresses(ctx context.Context) ([]Address, error) {
	rows, err := q.db.QueryContext(ctx, listAddresses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Address
	for rows.Next() {
		var i Address
		if err := rows.Scan(
			&i.ID,
			&i.AddressID,
			&i.MailingNeighborhood,
			&i.ZipCode,
			&i.PwdDistrict,
			&i.Trashday,
			&i.Recollect,
			&i.Lon,
			&i.Lat,
			&i.FullAddress,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countAddresses = `SELECT COUNT(*) FROM addresses`

func (q *Queries) CountAddresses(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countAddresses)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createDatasetVersion = `INSERT INTO dataset_versions (records) VALUES (?) RETURNING version`

func (q *Queries) CreateDatasetVersion(ctx context.Context, records int64) (int64, error) {
	row := q.db.QueryRowContext(ctx, createDatasetVersion, records)
	var version int64
	err := row.Scan(&version)
	return version, err
}

const getCurrentVersion = `SELECT COALESCE(MAX(version), 0) FROM dataset_versions`

func (q *Queries) GetCurrentVersion(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, getCurrentVersion)
	var version int64
	err := row.Scan(&version)
	return version, err
}

const listDatasetVersions = `SELECT version, records, imported_at FROM dataset_versions
ORDER BY version DESC
LIMIT ?`

func (q *Queries) ListDatasetVersions(ctx context.Context, limit int64) ([]DatasetVersion, error) {
	rows, err := q.db.QueryContext(ctx, listDatasetVersions, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DatasetVersion
	for rows.Next() {
		var i DatasetVersion
		if err := rows.Scan(&i.Version, &i.Records, &i.ImportedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
