package export

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"soldi/internal/amqp"
	"soldi/internal/core"
	"soldi/internal/storage"
)

type memoryAppender struct {
	appended []core.Transaction
	fail     error
}

func (m *memoryAppender) AppendTransaction(_ context.Context, t core.Transaction) error {
	if m.fail != nil {
		return m.fail
	}
	m.appended = append(m.appended, t)
	return nil
}

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	s, err := storage.New(filepath.Join(t.TempDir(), "soldi.db"), nil)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestHandleChangeExportsTransactionInsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.InsertTransaction(ctx, core.Transaction{
		AccountID: 1, Type: core.Expense, Date: core.NewDate(2025, 3, 9),
		Description: "groceries", Amount: core.Money{Cents: 1250},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	appender := &memoryAppender{}
	w := NewWorker(nil, store, appender)

	msg := amqp.NewRecordChangedMessage(string(storage.KindTransaction), "insert", id)
	if err := w.handleChange(ctx, msg); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(appender.appended) != 1 {
		t.Fatalf("expected 1 export, got %d", len(appender.appended))
	}
	if appender.appended[0].Description != "groceries" {
		t.Fatalf("wrong transaction exported: %+v", appender.appended[0])
	}
}

func TestHandleChangeIgnoresOtherEvents(t *testing.T) {
	store := newTestStore(t)
	appender := &memoryAppender{}
	w := NewWorker(nil, store, appender)
	ctx := context.Background()

	msgs := []*amqp.RecordChangedMessage{
		amqp.NewRecordChangedMessage(string(storage.KindLoan), "insert", 1),
		amqp.NewRecordChangedMessage(string(storage.KindTransaction), "update", 1),
		amqp.NewRecordChangedMessage(string(storage.KindTransaction), "delete", 1),
	}
	for _, msg := range msgs {
		if err := w.handleChange(ctx, msg); err != nil {
			t.Fatalf("handle %s/%s: %v", msg.Kind, msg.Op, err)
		}
	}
	if len(appender.appended) != 0 {
		t.Fatalf("non-insert events should not export, got %d", len(appender.appended))
	}
}

func TestHandleChangeToleratesVanishedTransaction(t *testing.T) {
	store := newTestStore(t)
	appender := &memoryAppender{}
	w := NewWorker(nil, store, appender)

	msg := amqp.NewRecordChangedMessage(string(storage.KindTransaction), "insert", 999)
	if err := w.handleChange(context.Background(), msg); err != nil {
		t.Fatalf("vanished transaction should not requeue: %v", err)
	}
}

func TestHandleChangeReturnsAppenderFailure(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.InsertTransaction(ctx, core.Transaction{
		AccountID: 1, Type: core.Income, Date: core.NewDate(2025, 1, 1),
		Description: "pay", Amount: core.Money{Cents: 100},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	appender := &memoryAppender{fail: errors.New("sheet unavailable")}
	w := NewWorker(nil, store, appender)

	msg := amqp.NewRecordChangedMessage(string(storage.KindTransaction), "insert", id)
	if err := w.handleChange(ctx, msg); err == nil {
		t.Fatal("appender failure must propagate so the message requeues")
	}
}
