package worker

import (
	"context"
	"sync"

	"github.com/AndreKortesz/mosgsm-duplicates-service/internal/logger"

	"github.com/rs/zerolog"
)

type Job func(ctx context.Context) error

type Pool struct {
	workerCount int
	jobChan     chan Job
	wg          sync.WaitGroup
	log         zerolog.Logger
}

func NewPool(workerCount, queueSize int) *Pool {
	return &Pool{
		workerCount: workerCount,
		jobChan:     make(chan Job, queueSize),
		log:         logger.Component("worker-pool"),
	}
}

func (p *Pool) Start(ctx context.Context) {
	p.log.Info().Int("worker_count", p.workerCount).Msg("Starting worker pool")

	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

func (p *Pool) Stop() {
	p.log.Info().Msg("Stopping worker pool")
	close(p.jobChan)
	p.wg.Wait()
	p.log.Info().Msg("Worker pool stopped")
}

// Submit queues a job, blocking until a slot frees up or the context ends.
// Ingestion jobs must not be silently dropped; backpressure on the queue
// consumer is the correct behavior.
func (p *Pool) Submit(ctx context.Context, job Job) error {
	select {
	case p.jobChan <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	log := p.log.With().Int("worker_id", id).Logger()
	log.Debug().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("Worker stopping due to context cancellation")
			return
		case job, ok := <-p.jobChan:
			if !ok {
				log.Debug().Msg("Worker stopping due to closed job channel")
				return
			}

			if err := job(ctx); err != nil {
				log.Error().Err(err).Msg("Job execution failed")
			}
		}
	}
}
