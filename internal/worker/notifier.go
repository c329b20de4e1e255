package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/jmehdipour/phone-engine/internal/kafka"
	"github.com/jmehdipour/phone-engine/internal/logger"
	"github.com/jmehdipour/phone-engine/internal/metrics"
	"github.com/jmehdipour/phone-engine/internal/model"
	"github.com/jmehdipour/phone-engine/internal/phone"
	"github.com/jmehdipour/phone-engine/internal/repository"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Deliverer hands one envelope to downstream systems.
type Deliverer interface {
	Deliver(ctx context.Context, env model.Envelope) error
}

// StatusWriter persists the outcome of a batch of deliveries.
type StatusWriter interface {
	WriteStatuses(ctx context.Context, delivered, failed []string) error
}

// TxStatusWriter applies both status updates in a single MySQL transaction.
type TxStatusWriter struct {
	DB      *sqlx.DB
	Actions repository.ActionsRepository
}

func (w TxStatusWriter) WriteStatuses(ctx context.Context, delivered, failed []string) error {
	tx, err := w.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := w.Actions.BatchUpdateStatus(ctx, tx, delivered, model.ActionDelivered); err != nil {
		return err
	}
	if err := w.Actions.BatchUpdateStatus(ctx, tx, failed, model.ActionFailed); err != nil {
		return err
	}
	return tx.Commit()
}

// Notifier:
// - fetches contact envelopes from Kafka,
// - re-canonicalizes the phone with the engine,
// - relays them to webhook sinks,
// - batches delivered/failed status updates.
type Notifier struct {
	// Dependencies
	Source kafka.Source
	Relay  Deliverer
	Writer StatusWriter
	Engine *phone.Engine

	// Behavior
	Workers   int           // number of goroutines processing messages
	BatchSize int           // max buffered updates per flush
	BatchWait time.Duration // max time to wait before flush

	log *zap.Logger
}

func NewNotifier(src kafka.Source, relay Deliverer, writer StatusWriter, engine *phone.Engine) *Notifier {
	return &Notifier{
		Source:    src,
		Relay:     relay,
		Writer:    writer,
		Engine:    engine,
		Workers:   16,
		BatchSize: 200,
		BatchWait: 300 * time.Millisecond,
	}
}

// Run starts the worker and blocks until ctx is cancelled and the last
// batch is flushed.
func (w *Notifier) Run(ctx context.Context) error {
	if w.Source == nil || w.Relay == nil || w.Writer == nil || w.Engine == nil {
		return errors.New("notifier: missing dependency")
	}
	if w.Workers <= 0 {
		w.Workers = 16
	}
	if w.BatchSize <= 0 {
		w.BatchSize = 200
	}
	if w.BatchWait <= 0 {
		w.BatchWait = 300 * time.Millisecond
	}
	w.log = logger.Named("notifier")

	updates := make(chan updateItem, w.BatchSize*2)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		w.runBatchWriter(updates)
	}()

	msgCh := make(chan kafka.Message, w.Workers*2)
	go w.fetch(ctx, msgCh)

	var wg sync.WaitGroup
	for i := 0; i < w.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.runProcessor(ctx, msgCh, updates)
		}()
	}

	wg.Wait()
	close(updates)
	<-writerDone
	return nil
}

func (w *Notifier) fetch(ctx context.Context, out chan<- kafka.Message) {
	defer close(out)
	for {
		m, err := w.Source.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.log.Warn("kafka fetch failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(200 * time.Millisecond):
			}
			continue
		}
		select {
		case out <- m:
		case <-ctx.Done():
			return
		}
	}
}

type updateItem struct {
	id     string
	status model.ActionStatus // delivered | failed
}

func (w *Notifier) runProcessor(ctx context.Context, in <-chan kafka.Message, out chan<- updateItem) {
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-in:
			if !ok {
				return
			}
			w.processOne(ctx, m, out)
		}
	}
}

func (w *Notifier) processOne(ctx context.Context, m kafka.Message, out chan<- updateItem) {
	var env model.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil || env.ID == "" {
		// poison: commit and skip
		_ = w.Source.Commit(ctx, m)
		w.log.Warn("dropping bad envelope", zap.Int64("offset", m.Offset), zap.Error(err))
		return
	}

	w.canonicalize(&env)

	status := model.ActionDelivered
	if err := w.Relay.Deliver(ctx, env); err != nil {
		if ctx.Err() != nil {
			// shutting down: leave uncommitted so it is redelivered
			return
		}
		status = model.ActionFailed
		w.log.Warn("relay failed", zap.String("id", env.ID), zap.Error(err))
	}
	metrics.ContactActionsTotal.WithLabelValues(status.String(), env.Event.Intent).Inc()
	out <- updateItem{id: env.ID, status: status}

	// at-least-once; sinks dedupe on Idempotency-Key
	if err := w.Source.Commit(ctx, m); err != nil {
		w.log.Error("kafka commit failed", zap.String("id", env.ID), zap.Error(err))
	}
}

// canonicalize rewrites the event phone in E.164 when the engine accepts it,
// so events written by older producers reach sinks in the same shape.
func (w *Notifier) canonicalize(env *model.Envelope) {
	res := w.Engine.Process(env.Event.Phone)
	if !res.IsValid {
		return
	}
	env.Event.Phone = res.FullNumber
	env.Event.Masked = w.Engine.Mask(res.FullNumber)
}

// runBatchWriter flushes on size, on tick, and once more when in closes.
func (w *Notifier) runBatchWriter(in <-chan updateItem) {
	tick := time.NewTicker(w.BatchWait)
	defer tick.Stop()

	var delivered, failed []string

	flush := func() {
		if len(delivered) == 0 && len(failed) == 0 {
			return
		}
		// detached from the run context so the final flush survives shutdown
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := w.Writer.WriteStatuses(ctx, delivered, failed); err != nil {
			w.log.Error("status batch failed",
				zap.Int("delivered", len(delivered)), zap.Int("failed", len(failed)), zap.Error(err))
		} else {
			w.log.Info("flushed", zap.Int("delivered", len(delivered)), zap.Int("failed", len(failed)))
		}
		delivered = nil
		failed = nil
	}

	for {
		select {
		case u, ok := <-in:
			if !ok {
				flush()
				return
			}
			switch u.status {
			case model.ActionDelivered:
				delivered = append(delivered, u.id)
			case model.ActionFailed:
				failed = append(failed, u.id)
			}
			if len(delivered)+len(failed) >= w.BatchSize {
				flush()
			}
		case <-tick.C:
			flush()
		}
	}
}
