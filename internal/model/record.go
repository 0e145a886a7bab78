package model

import "time"

type WorkType string

const (
	WorkTypeDiagnostic   WorkType = "diagnostic"
	WorkTypeInspection   WorkType = "inspection"
	WorkTypeInstallation WorkType = "installation"
	WorkTypeOther        WorkType = "other"
)

// Record is one accepted spreadsheet row after extraction. Records are
// immutable once created; they disappear only when their file is deleted or
// the store is reset.
//
// OrderNumber, when set, matches 2-5 uppercase letters (Latin or Cyrillic),
// a dash, and 5-7 digits. WorkType is always one of the four categories,
// never empty.
type Record struct {
	ID            int64     `json:"id" db:"id"`
	FileID        int64     `json:"file_id" db:"file_id"`
	RawText       string    `json:"raw_text" db:"raw_text"`
	OrderNumber   *string   `json:"order_number,omitempty" db:"order_number"`
	Address       *string   `json:"address,omitempty" db:"address"`
	Amount        *float64  `json:"amount,omitempty" db:"amount"`
	WorkerName    *string   `json:"worker_name,omitempty" db:"worker_name"`
	WorkType      WorkType  `json:"work_type" db:"work_type"`
	Comment       string    `json:"comment" db:"comment"`
	ParsedOK      bool      `json:"parsed_ok" db:"parsed_ok"`
	IsProblematic bool      `json:"is_problematic" db:"is_problematic"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
