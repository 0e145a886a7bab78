package model

// IngestionJob is the queue payload for the backfill path: a spreadsheet
// already staged in object storage, waiting to be parsed.
type IngestionJob struct {
	S3Key    string `json:"s3_key"`
	Filename string `json:"filename"`
}

// BackfillRequest is the API body that enqueues an IngestionJob.
type BackfillRequest struct {
	S3Key    string `json:"s3_key"`
	Filename string `json:"filename"`
}

// IngestSummary is returned to the caller after one file is fully processed.
type IngestSummary struct {
	FileID          int64 `json:"file_id"`
	TotalRows       int   `json:"total_rows"`
	SavedRows       int   `json:"saved_rows"`
	ProblematicRows int   `json:"problematic_rows"`
}
