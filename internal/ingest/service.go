package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/AndreKortesz/mosgsm-duplicates-service/internal/config"
	"github.com/AndreKortesz/mosgsm-duplicates-service/internal/db"
	"github.com/AndreKortesz/mosgsm-duplicates-service/internal/excel"
	"github.com/AndreKortesz/mosgsm-duplicates-service/internal/extract"
	"github.com/AndreKortesz/mosgsm-duplicates-service/internal/logger"
	"github.com/AndreKortesz/mosgsm-duplicates-service/internal/model"
	apperrors "github.com/AndreKortesz/mosgsm-duplicates-service/pkg/errors"

	"github.com/rs/zerolog"
)

// Raw text snapshots are bounded so a pathological cell cannot bloat the
// store.
const maxRawTextLen = 1024

// Options tweak a single ingestion call.
type Options struct {
	// InstallationThreshold overrides the configured payout threshold for
	// this file only (the upload form exposes it as min_amount).
	InstallationThreshold *float64
}

// Service is the ingestion pipeline: locate columns once per file, then
// classify, extract and resolve each row, and persist everything as one
// unit. Per-field extraction misses degrade to nil fields — an ambiguous row
// is always kept and flagged rather than silently dropped.
type Service struct {
	repo db.Repository
	cfg  config.AnalysisConfig
	log  zerolog.Logger
}

func NewService(repo db.Repository, cfg config.AnalysisConfig) *Service {
	return &Service{
		repo: repo,
		cfg:  cfg,
		log:  logger.Component("ingest"),
	}
}

func (s *Service) Ingest(ctx context.Context, filename string, sheet *excel.Sheet, opts *Options) (*model.IngestSummary, error) {
	if sheet == nil || len(sheet.Header) == 0 {
		return nil, apperrors.ErrInvalidFileFormat
	}

	threshold := s.cfg.InstallationThreshold
	if opts != nil && opts.InstallationThreshold != nil {
		threshold = *opts.InstallationThreshold
	}

	layout := extract.LocateColumns(sheet.Header)
	s.log.Debug().
		Str("filename", filename).
		Int("order_col", layout.Order).
		Int("payout_col", layout.Payout).
		Int("worker_col", layout.Worker).
		Msg("Resolved sheet columns")

	var (
		records     []model.Record
		problematic int
	)
	for _, row := range sheet.Rows {
		rec, ok := s.buildRecord(row, layout, threshold)
		if !ok {
			continue
		}
		if rec.IsProblematic {
			problematic++
		}
		records = append(records, rec)
	}

	fileID, err := s.repo.InsertFileWithRecords(ctx, filename, records)
	if err != nil {
		return nil, fmt.Errorf("failed to persist file: %w", err)
	}

	summary := &model.IngestSummary{
		FileID:          fileID,
		TotalRows:       len(sheet.Rows),
		SavedRows:       len(records),
		ProblematicRows: problematic,
	}

	s.log.Info().
		Int64("file_id", fileID).
		Str("filename", filename).
		Int("total_rows", summary.TotalRows).
		Int("saved_rows", summary.SavedRows).
		Int("problematic_rows", summary.ProblematicRows).
		Msg("File ingested")

	return summary, nil
}

// buildRecord turns one data row into a record. The second return is false
// for rows skipped entirely (template noise, technician banners).
func (s *Service) buildRecord(row []string, layout extract.Layout, threshold float64) (model.Record, bool) {
	if extract.IsTemplateRow(row) {
		return model.Record{}, false
	}

	text := cellAt(row, layout.Order)
	if text == "" {
		text = extract.JoinCells(row)
	}
	if extract.IsWorkerHeader(text) {
		return model.Record{}, false
	}

	orderNumber := extract.OrderNumber(text)
	address := extract.Address(text)
	amount := extract.ParseAmount(cellAt(row, layout.Payout))
	diagnostic := extract.ParseAmount(cellAt(row, layout.Diagnostic))
	inspection := extract.ParseAmount(cellAt(row, layout.Inspection))

	rec := model.Record{
		RawText:       truncateRunes(extract.JoinCells(row), maxRawTextLen),
		OrderNumber:   optional(orderNumber),
		Address:       optional(address),
		Amount:        amount,
		WorkerName:    workerName(cellAt(row, layout.Worker)),
		WorkType:      extract.ResolveWorkType(diagnostic, inspection, amount, threshold),
		Comment:       cellAt(row, layout.Comment),
		ParsedOK:      orderNumber != "" && address != "",
		IsProblematic: s.isProblematic(orderNumber, address),
	}
	return rec, true
}

func (s *Service) isProblematic(orderNumber, address string) bool {
	if s.cfg.ProblematicPolicy == config.PolicyAllMissing {
		return orderNumber == "" && address == ""
	}
	return orderNumber == "" || address == ""
}

// workerName filters out header labels that leak into the worker column of
// merged-cell exports.
func workerName(raw string) *string {
	name := strings.TrimSpace(raw)
	if name == "" || extract.IsHeaderArtifact(name) {
		return nil
	}
	return &name
}

func cellAt(row []string, idx int) string {
	if idx >= 0 && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
