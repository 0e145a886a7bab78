package model

import "time"

// File is one ingested spreadsheet export. It owns its records: deleting a
// file deletes every record extracted from it.
type File struct {
	ID        int64     `json:"id" db:"id"`
	Filename  string    `json:"filename" db:"filename"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
