package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AndreKortesz/mosgsm-duplicates-service/internal/model"
	apperrors "github.com/AndreKortesz/mosgsm-duplicates-service/pkg/errors"
)

// Repository is the record store contract consumed by the ingestion pipeline
// and the duplicate analyzer. Records are written once, as a unit with their
// file, and never updated; the nil fileID on the query methods means "across
// all ingested files".
type Repository interface {
	InsertFileWithRecords(ctx context.Context, filename string, records []model.Record) (int64, error)
	GetFile(ctx context.Context, fileID int64) (*model.File, error)
	ListFiles(ctx context.Context) ([]model.File, error)
	DeleteFile(ctx context.Context, fileID int64) error
	RecordsForFile(ctx context.Context, fileID int64) ([]model.Record, error)
	RecordsWithOrderAndAddress(ctx context.Context, fileID *int64) ([]model.Record, error)
	RecordsWithAddress(ctx context.Context, fileID *int64) ([]model.Record, error)
	ProblematicRecords(ctx context.Context, fileID *int64) ([]model.Record, error)
	CountProblematic(ctx context.Context, fileID *int64) (int, error)
	Reset(ctx context.Context) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const recordColumns = `id, file_id, raw_text, order_number, address, amount, worker_name, work_type, comment, parsed_ok, is_problematic, created_at`

func (r *repository) InsertFileWithRecords(ctx context.Context, filename string, records []model.Record) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO files (filename, created_at) VALUES (?, NOW())`, filename)
	if err != nil {
		return 0, fmt.Errorf("failed to insert file: %w", err)
	}

	fileID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	query := `INSERT INTO records (file_id, raw_text, order_number, address, amount, worker_name, work_type, comment, parsed_ok, is_problematic, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())`

	for _, rec := range records {
		_, err := tx.ExecContext(ctx, query, fileID, rec.RawText, rec.OrderNumber,
			rec.Address, rec.Amount, rec.WorkerName, rec.WorkType, rec.Comment,
			rec.ParsedOK, rec.IsProblematic)
		if err != nil {
			return 0, fmt.Errorf("failed to insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return fileID, nil
}

func (r *repository) GetFile(ctx context.Context, fileID int64) (*model.File, error) {
	query := `SELECT id, filename, created_at FROM files WHERE id = ?`

	var file model.File
	err := r.db.QueryRowContext(ctx, query, fileID).Scan(&file.ID, &file.Filename, &file.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *repository) ListFiles(ctx context.Context) ([]model.File, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, filename, created_at FROM files ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []model.File
	for rows.Next() {
		var file model.File
		if err := rows.Scan(&file.ID, &file.Filename, &file.CreatedAt); err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, rows.Err()
}

func (r *repository) DeleteFile(ctx context.Context, fileID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE file_id = ?`, fileID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM files WHERE id = ?`, fileID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrFileNotFound
	}

	return tx.Commit()
}

func (r *repository) RecordsForFile(ctx context.Context, fileID int64) ([]model.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE file_id = ? ORDER BY id`
	return r.queryRecords(ctx, query, fileID)
}

func (r *repository) RecordsWithOrderAndAddress(ctx context.Context, fileID *int64) ([]model.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE order_number IS NOT NULL AND address IS NOT NULL`
	return r.queryScoped(ctx, query, fileID)
}

func (r *repository) RecordsWithAddress(ctx context.Context, fileID *int64) ([]model.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE address IS NOT NULL`
	return r.queryScoped(ctx, query, fileID)
}

func (r *repository) ProblematicRecords(ctx context.Context, fileID *int64) ([]model.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE is_problematic = TRUE`
	return r.queryScoped(ctx, query, fileID)
}

func (r *repository) CountProblematic(ctx context.Context, fileID *int64) (int, error) {
	query := `SELECT COUNT(*) FROM records WHERE is_problematic = TRUE`
	args := []interface{}{}
	if fileID != nil {
		query += ` AND file_id = ?`
		args = append(args, *fileID)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) Reset(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM files`); err != nil {
		return err
	}
	return tx.Commit()
}

// queryScoped appends the optional file filter. ORDER BY id keeps member
// iteration stable for a fixed record set, which the analyzer's determinism
// guarantee relies on.
func (r *repository) queryScoped(ctx context.Context, query string, fileID *int64) ([]model.Record, error) {
	args := []interface{}{}
	if fileID != nil {
		query += ` AND file_id = ?`
		args = append(args, *fileID)
	}
	query += ` ORDER BY id`
	return r.queryRecords(ctx, query, args...)
}

func (r *repository) queryRecords(ctx context.Context, query string, args ...interface{}) ([]model.Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		var rec model.Record
		err := rows.Scan(&rec.ID, &rec.FileID, &rec.RawText, &rec.OrderNumber,
			&rec.Address, &rec.Amount, &rec.WorkerName, &rec.WorkType,
			&rec.Comment, &rec.ParsedOK, &rec.IsProblematic, &rec.CreatedAt)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
