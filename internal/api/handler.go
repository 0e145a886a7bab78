package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/AndreKortesz/mosgsm-duplicates-service/internal/analyzer"
	"github.com/AndreKortesz/mosgsm-duplicates-service/internal/config"
	"github.com/AndreKortesz/mosgsm-duplicates-service/internal/db"
	"github.com/AndreKortesz/mosgsm-duplicates-service/internal/excel"
	"github.com/AndreKortesz/mosgsm-duplicates-service/internal/ingest"
	"github.com/AndreKortesz/mosgsm-duplicates-service/internal/logger"
	"github.com/AndreKortesz/mosgsm-duplicates-service/internal/model"
	"github.com/AndreKortesz/mosgsm-duplicates-service/internal/queue"
	"github.com/AndreKortesz/mosgsm-duplicates-service/internal/storage"
	apperrors "github.com/AndreKortesz/mosgsm-duplicates-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Handler struct {
	repo     db.Repository
	ingestor *ingest.Service
	analyzer *analyzer.Analyzer
	reader   *excel.Reader
	storage  storage.Storage
	producer *queue.Producer
	cfg      *config.Config
	log      zerolog.Logger
}

func NewHandler(
	repo db.Repository,
	store storage.Storage,
	producer *queue.Producer,
	cfg *config.Config,
) *Handler {
	return &Handler{
		repo:     repo,
		ingestor: ingest.NewService(repo, cfg.Analysis),
		analyzer: analyzer.New(repo, cfg.Analysis),
		reader:   excel.NewReader(),
		storage:  store,
		producer: producer,
		cfg:      cfg,
		log:      logger.Component("api"),
	}
}

// Upload ingests one payout spreadsheet synchronously and returns the
// ingestion summary. The optional min_amount form field overrides the
// installation threshold for this upload only.
func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file"})
		return
	}
	if fileHeader.Size > h.cfg.Server.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
		return
	}

	var opts ingest.Options
	if raw := c.PostForm("min_amount"); raw != "" {
		minAmount, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid min_amount"})
			return
		}
		opts.InstallationThreshold = &minAmount
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to open uploaded file"})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	sheet, err := h.reader.Read(c.Request.Context(), data)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidFileFormat) || errors.Is(err, apperrors.ErrEmptySheet) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to read spreadsheet")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	summary, err := h.ingestor.Ingest(c.Request.Context(), fileHeader.Filename, sheet, &opts)
	if err != nil {
		h.log.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Ingestion failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ingestion failed"})
		return
	}

	// Archive the original; the summary is valid even when archiving fails.
	key := h.cfg.Storage.S3.UploadPrefix + uuid.New().String() + filepath.Ext(fileHeader.Filename)
	if err := h.storage.Upload(c.Request.Context(), key, bytes.NewReader(data)); err != nil {
		h.log.Warn().Err(err).Str("s3_key", key).Msg("Failed to archive original upload")
		key = ""
	}

	c.JSON(http.StatusOK, gin.H{
		"summary": summary,
		"s3_key":  key,
	})
}

func (h *Handler) ListFiles(c *gin.Context) {
	files, err := h.repo.ListFiles(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list files")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}

func (h *Handler) FileRecords(c *gin.Context) {
	fileID, ok := h.fileIDParam(c)
	if !ok {
		return
	}

	records, err := h.repo.RecordsForFile(c.Request.Context(), fileID)
	if err != nil {
		h.log.Error().Err(err).Int64("file_id", fileID).Msg("Failed to load records")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"file_id": fileID, "records": records})
}

func (h *Handler) ProblematicRecords(c *gin.Context) {
	fileID, ok := h.fileIDParam(c)
	if !ok {
		return
	}

	records, err := h.repo.ProblematicRecords(c.Request.Context(), &fileID)
	if err != nil {
		h.log.Error().Err(err).Int64("file_id", fileID).Msg("Failed to load problematic records")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"file_id": fileID, "records": records})
}

func (h *Handler) DeleteFile(c *gin.Context) {
	fileID, ok := h.fileIDParam(c)
	if !ok {
		return
	}

	if err := h.repo.DeleteFile(c.Request.Context(), fileID); err != nil {
		if errors.Is(err, apperrors.ErrFileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		h.log.Error().Err(err).Int64("file_id", fileID).Msg("Failed to delete file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.log.Info().Int64("file_id", fileID).Msg("File deleted")
	c.JSON(http.StatusOK, gin.H{"deleted": fileID})
}

// DuplicateReport runs the analyzer across all files, or one file when
// file_id is given.
func (h *Handler) DuplicateReport(c *gin.Context) {
	var fileID *int64
	if raw := c.Query("file_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file ID"})
			return
		}
		fileID = &id
	}

	bundle, err := h.analyzer.Analyze(c.Request.Context(), fileID)
	if err != nil {
		h.log.Error().Err(err).Msg("Analysis failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Analysis failed"})
		return
	}
	c.JSON(http.StatusOK, bundle)
}

// Backfill enqueues a spreadsheet already staged in object storage.
func (h *Handler) Backfill(c *gin.Context) {
	var req model.BackfillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.S3Key == "" {
		err := apperrors.ValidationError{Field: "s3_key", Value: req.S3Key, Message: "must not be empty"}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exists, err := h.storage.Exists(c.Request.Context(), req.S3Key)
	if err != nil {
		h.log.Error().Err(err).Str("s3_key", req.S3Key).Msg("Failed to check object")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": apperrors.ErrObjectNotFound.Error()})
		return
	}

	job := model.IngestionJob{S3Key: req.S3Key, Filename: req.Filename}
	if err := h.producer.EnqueueIngestionJob(c.Request.Context(), job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue ingestion job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue ingestion job"})
		return
	}

	h.log.Info().Str("s3_key", req.S3Key).Msg("Ingestion job enqueued")
	c.JSON(http.StatusAccepted, gin.H{"message": "Ingestion job queued", "job": job})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.cfg.App.Name,
		"version": h.cfg.App.Version,
	})
}

func (h *Handler) fileIDParam(c *gin.Context) (int64, bool) {
	fileID, err := strconv.ParseInt(c.Param("file_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file ID"})
		return 0, false
	}
	return fileID, true
}
