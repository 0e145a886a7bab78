package worker

import (
	"context"
	"encoding/json"
	"io"

	"github.com/AndreKortesz/mosgsm-duplicates-service/internal/config"
	"github.com/AndreKortesz/mosgsm-duplicates-service/internal/db"
	"github.com/AndreKortesz/mosgsm-duplicates-service/internal/excel"
	"github.com/AndreKortesz/mosgsm-duplicates-service/internal/ingest"
	"github.com/AndreKortesz/mosgsm-duplicates-service/internal/logger"
	"github.com/AndreKortesz/mosgsm-duplicates-service/internal/model"
	"github.com/AndreKortesz/mosgsm-duplicates-service/internal/queue"
	"github.com/AndreKortesz/mosgsm-duplicates-service/internal/storage"

	"github.com/rs/zerolog"
)

// IngestionWorker drains the backfill queue: spreadsheets staged in object
// storage are downloaded, parsed and ingested with the same pipeline the
// upload endpoint uses. A file that cannot be read leaves no trace in the
// store — the job just lands in the DLQ.
type IngestionWorker struct {
	cfg      *config.Config
	ingestor *ingest.Service
	reader   *excel.Reader
	storage  storage.Storage
	consumer *queue.Consumer
	pool     *Pool
	log      zerolog.Logger
}

func NewIngestionWorker(
	cfg *config.Config,
	repo db.Repository,
	store storage.Storage,
	redisClient *queue.RedisClient,
) *IngestionWorker {
	return &IngestionWorker{
		cfg:      cfg,
		ingestor: ingest.NewService(repo, cfg.Analysis),
		reader:   excel.NewReader(),
		storage:  store,
		consumer: queue.NewConsumer(redisClient, cfg),
		pool:     NewPool(cfg.Workers.Ingestion.Count, cfg.Workers.Ingestion.QueueSize),
		log:      logger.Component("ingestion-worker"),
	}
}

func (w *IngestionWorker) Start(ctx context.Context) error {
	w.log.Info().Msg("Starting ingestion worker")

	w.pool.Start(ctx)

	return w.consumer.ConsumeIngestionQueue(ctx, w.handleMessage)
}

func (w *IngestionWorker) Stop() {
	w.log.Info().Msg("Stopping ingestion worker")
	w.pool.Stop()
}

func (w *IngestionWorker) handleMessage(ctx context.Context, data []byte) error {
	var job model.IngestionJob
	if err := json.Unmarshal(data, &job); err != nil {
		w.log.Error().Err(err).Msg("Failed to unmarshal ingestion job")
		return err
	}

	w.log.Info().Str("s3_key", job.S3Key).Str("filename", job.Filename).Msg("Processing ingestion job")

	return w.pool.Submit(ctx, func(ctx context.Context) error {
		return w.processFile(ctx, job)
	})
}

func (w *IngestionWorker) processFile(ctx context.Context, job model.IngestionJob) error {
	log := w.log.With().Str("s3_key", job.S3Key).Logger()

	reader, err := w.storage.Download(ctx, job.S3Key)
	if err != nil {
		log.Error().Err(err).Msg("Failed to download file")
		return err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read file data")
		return err
	}

	sheet, err := w.reader.Read(ctx, data)
	if err != nil {
		log.Error().Err(err).Msg("Failed to parse spreadsheet")
		return err
	}

	filename := job.Filename
	if filename == "" {
		filename = job.S3Key
	}

	summary, err := w.ingestor.Ingest(ctx, filename, sheet, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to ingest spreadsheet")
		return err
	}

	log.Info().
		Int64("file_id", summary.FileID).
		Int("saved_rows", summary.SavedRows).
		Int("problematic_rows", summary.ProblematicRows).
		Msg("Backfill file processed")
	return nil
}
