package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"soldi/internal/amqp"
	"soldi/internal/core"
	"soldi/internal/log"
	"soldi/internal/storage"
)

// Worker follows record-change events and mirrors new transactions to
// the export target. Only transaction inserts are exported; the sheet
// is an append-only journal, so updates and deletes are ignored.
type Worker struct {
	client   *amqp.Client
	store    *storage.Store
	appender TransactionAppender
}

func NewWorker(client *amqp.Client, store *storage.Store, appender TransactionAppender) *Worker {
	return &Worker{client: client, store: store, appender: appender}
}

// Run consumes record-change events until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	err := w.client.ConsumeRecordChanges(ctx, func(msg *amqp.RecordChangedMessage) error {
		return w.handleChange(ctx, msg)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// handleChange exports a single event. Returning an error requeues the
// message; a transaction deleted before the event was handled is not an
// error, the row is simply gone.
func (w *Worker) handleChange(ctx context.Context, msg *amqp.RecordChangedMessage) error {
	if msg.Kind != string(storage.KindTransaction) || msg.Op != "insert" {
		return nil
	}

	t, err := w.store.GetTransaction(ctx, msg.ID)
	if errors.Is(err, core.ErrNotFound) {
		slog.WarnContext(ctx, "Transaction vanished before export",
			"component", log.ComponentExport, "id", msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load transaction %d: %w", msg.ID, err)
	}

	if err := w.appender.AppendTransaction(ctx, t); err != nil {
		return fmt.Errorf("export transaction %d: %w", msg.ID, err)
	}

	slog.InfoContext(ctx, "Transaction exported",
		"component", log.ComponentExport,
		"id", t.ID,
		"type", t.Type,
		"amount_cents", t.Amount.Cents)
	return nil
}
