package model

import "time"

// DuplicateGroup is the hard-duplicate signal: two or more records with the
// same order number, the same normalized address, and the same work type.
type DuplicateGroup struct {
	OrderNumber string   `json:"order_number"`
	Address     string   `json:"address"`
	WorkType    WorkType `json:"work_type"`
	Records     []Record `json:"records"`
}

// ComboGroup is a diagnostic/inspection visit followed by an installation at
// the same order and address. Expected workflow, surfaced for review rather
// than flagged as fraud.
type ComboGroup struct {
	OrderNumber string   `json:"order_number"`
	Address     string   `json:"address"`
	Records     []Record `json:"records"`
}

// ReviewGroup collects records sharing only a normalized address, across
// differing or missing order numbers. Catches near-duplicates hidden by a
// typo in the order number.
type ReviewGroup struct {
	Address string   `json:"address"`
	Records []Record `json:"records"`
}

// AddressConflict is a data-quality signal: one order number appearing with
// more than one normalized address.
type AddressConflict struct {
	OrderNumber string   `json:"order_number"`
	Addresses   []string `json:"addresses"`
	Records     []Record `json:"records"`
}

// ReportBundle is the result of one analysis run. Counts cover everything
// found; the embedded slices are bounded samples.
type ReportBundle struct {
	FileID               *int64            `json:"file_id,omitempty"`
	TotalClusters        int               `json:"total_clusters"`
	HardDuplicateCount   int               `json:"hard_duplicate_count"`
	HardDuplicates       []DuplicateGroup  `json:"hard_duplicates"`
	ComboCount           int               `json:"combo_count"`
	Combos               []ComboGroup      `json:"combos"`
	ReviewCount          int               `json:"review_count"`
	ReviewCandidates     []ReviewGroup     `json:"review_candidates"`
	AddressConflictCount int               `json:"address_conflict_count"`
	AddressConflicts     []AddressConflict `json:"address_conflicts"`
	ProblematicCount     int               `json:"problematic_count"`
	GeneratedAt          time.Time         `json:"generated_at"`
}
