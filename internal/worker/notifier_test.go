package worker_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jmehdipour/phone-engine/internal/kafka"
	"github.com/jmehdipour/phone-engine/internal/model"
	"github.com/jmehdipour/phone-engine/internal/phone"
	"github.com/jmehdipour/phone-engine/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chanSource struct {
	ch chan kafka.Message

	mu        sync.Mutex
	committed []int64
}

func (s *chanSource) Fetch(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-s.ch:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (s *chanSource) Commit(_ context.Context, m kafka.Message) error {
	s.mu.Lock()
	s.committed = append(s.committed, m.Offset)
	s.mu.Unlock()
	return nil
}

func (s *chanSource) commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.committed)
}

type recordingRelay struct {
	mu   sync.Mutex
	seen map[string]model.Envelope
	fail map[string]bool
}

func (r *recordingRelay) Deliver(_ context.Context, env model.Envelope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen[env.ID] = env
	if r.fail[env.ID] {
		return errors.New("sink down")
	}
	return nil
}

type recordingWriter struct {
	mu        sync.Mutex
	delivered []string
	failed    []string
}

func (w *recordingWriter) WriteStatuses(_ context.Context, delivered, failed []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.delivered = append(w.delivered, delivered...)
	w.failed = append(w.failed, failed...)
	return nil
}

func (w *recordingWriter) snapshot() ([]string, []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.delivered...), append([]string(nil), w.failed...)
}

func envMessage(t *testing.T, offset int64, id, ph string) kafka.Message {
	t.Helper()
	b, err := json.Marshal(model.Envelope{ID: id, ClientID: 1, Event: model.ContactEvent{Phone: ph, Intent: "call"}})
	require.NoError(t, err)
	return kafka.Message{Offset: offset, Value: b}
}

func TestNotifierRun(t *testing.T) {
	src := &chanSource{ch: make(chan kafka.Message, 8)}
	relay := &recordingRelay{seen: map[string]model.Envelope{}, fail: map[string]bool{"b": true}}
	writer := &recordingWriter{}

	src.ch <- envMessage(t, 1, "a", "0926183185")
	src.ch <- envMessage(t, 2, "b", "+201012345678")
	src.ch <- kafka.Message{Offset: 3, Value: []byte("{not json")}

	n := worker.NewNotifier(src, relay, writer, phone.Default())
	n.Workers = 2
	n.BatchWait = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- n.Run(ctx) }()

	assert.Eventually(t, func() bool {
		d, f := writer.snapshot()
		return len(d) == 1 && len(f) == 1 && src.commits() == 3
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("notifier did not stop")
	}

	d, f := writer.snapshot()
	assert.Equal(t, []string{"a"}, d)
	assert.Equal(t, []string{"b"}, f)

	relay.mu.Lock()
	defer relay.mu.Unlock()
	assert.Equal(t, "+218926183185", relay.seen["a"].Event.Phone)
	assert.Equal(t, "0926183xxx", relay.seen["a"].Event.Masked)
	assert.Equal(t, "+201012345678", relay.seen["b"].Event.Phone)
}

func TestNotifierRequiresDependencies(t *testing.T) {
	n := worker.NewNotifier(nil, nil, nil, nil)
	assert.Error(t, n.Run(context.Background()))
}
