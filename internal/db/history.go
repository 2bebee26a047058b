package db

import (
	"context"
	"fmt"
	"time"
)

// maxHistoryRows bounds the uploads table; older rows are pruned on insert.
const maxHistoryRows = 50

// UploadRecord is one remembered dataset upload.
type UploadRecord struct {
	UploadedAt  time.Time
	FileID      string
	Filename    string
	RowCount    int
	ColumnCount int
}

// RecordUpload appends an upload to the history and prunes old rows.
func (db *DB) RecordUpload(rec UploadRecord) error {
	uploadedAt := rec.UploadedAt
	if uploadedAt.IsZero() {
		uploadedAt = time.Now()
	}

	_, err := db.ExecContext(context.Background(),
		`INSERT INTO uploads (file_id, filename, row_count, column_count, uploaded_at)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.FileID, rec.Filename, rec.RowCount, rec.ColumnCount,
		uploadedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to record upload: %w", err)
	}

	_, err = db.ExecContext(context.Background(),
		`DELETE FROM uploads WHERE id NOT IN (
			SELECT id FROM uploads ORDER BY id DESC LIMIT ?
		)`, maxHistoryRows)
	if err != nil {
		return fmt.Errorf("failed to prune upload history: %w", err)
	}

	return nil
}

// RecentUploads returns the newest uploads first, at most limit rows.
func (db *DB) RecentUploads(limit int) ([]UploadRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := db.QueryContext(context.Background(),
		`SELECT file_id, filename, row_count, column_count, uploaded_at
		 FROM uploads ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query uploads: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []UploadRecord
	for rows.Next() {
		var rec UploadRecord
		var uploadedAt string
		if err := rows.Scan(&rec.FileID, &rec.Filename, &rec.RowCount, &rec.ColumnCount, &uploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan upload row: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339, uploadedAt); err == nil {
			rec.UploadedAt = ts
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate uploads: %w", err)
	}

	return records, nil
}
