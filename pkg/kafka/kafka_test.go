package kafka

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestProducerEncodesValues(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "snappy")

	if err := p.Publish(context.Background(), "farm.telemetry", []byte("farm"), map[string]int{"version": 3}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := p.PublishMessage(context.Background(), "logs", []byte("raw")); err != nil {
		t.Fatalf("publish message: %v", err)
	}
	if len(w.msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(w.msgs))
	}
	if string(w.msgs[0].Value) != `{"version":3}` || string(w.msgs[0].Key) != "farm" {
		t.Fatalf("unexpected first message %s/%s", w.msgs[0].Key, w.msgs[0].Value)
	}
	if w.msgs[1].Topic != "logs" || string(w.msgs[1].Value) != "raw" {
		t.Fatalf("unexpected second message %+v", w.msgs[1])
	}
}

func TestProducerWrapsWriteErrors(t *testing.T) {
	boom := errors.New("broker down")
	p := newProducer(&fakeWriter{err: boom}, "snappy")
	if err := p.Publish(context.Background(), "t", nil, "x"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped broker error, got %v", err)
	}
}

type fakeReader struct {
	mu        sync.Mutex
	pending   []kafka.Message
	committed []int64
	closed    bool
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	for {
		r.mu.Lock()
		if r.closed {
			r.mu.Unlock()
			return kafka.Message{}, io.EOF
		}
		if len(r.pending) > 0 {
			m := r.pending[0]
			r.pending = r.pending[1:]
			r.mu.Unlock()
			return m, nil
		}
		r.mu.Unlock()
		select {
		case <-ctx.Done():
			return kafka.Message{}, ctx.Err()
		case <-time.After(time.Millisecond):
		}
	}
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	return nil
}

func (r *fakeReader) commits() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.committed)
}

type flakyHandler struct {
	mu       sync.Mutex
	failures int
	calls    int
	traces   []string
}

func (h *flakyHandler) Topic() string { return "farm.commands" }

func (h *flakyHandler) Handle(ctx context.Context, _ []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls++
	h.traces = append(h.traces, TraceID(ctx))
	if h.calls <= h.failures {
		return errors.New("transient")
	}
	return nil
}

func TestConsumerRetriesAndCommits(t *testing.T) {
	reader := &fakeReader{pending: []kafka.Message{{
		Topic:   "farm.commands",
		Offset:  7,
		Value:   []byte(`{"type":"recompute"}`),
		Headers: []kafka.Header{{Key: TraceHeader, Value: []byte("abc")}},
	}}}
	c := newConsumer(&ConsumerConfig{
		WorkerCount: 1,
		BufferSize:  1,
		RetryMax:    2,
		BackoffMin:  time.Millisecond,
		BackoffMax:  time.Millisecond,
	})
	c.newReader = func(string) messageReader { return reader }
	c.WithConsumerHook(TraceHook())

	h := &flakyHandler{failures: 2}
	c.RegisterHandler(h)
	if err := c.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for reader.commits() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := c.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}

	if h.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", h.calls)
	}
	if h.traces[0] != "abc" {
		t.Fatalf("trace id not propagated: %v", h.traces)
	}
	if reader.commits() != 1 || reader.committed[0] != 7 {
		t.Fatalf("expected offset 7 committed once, got %v", reader.committed)
	}
}

func TestConsumerStartRequiresHandlers(t *testing.T) {
	c := newConsumer(&ConsumerConfig{WorkerCount: 1, BufferSize: 1})
	if err := c.Start(); err == nil {
		t.Fatalf("expected error without handlers")
	}
}

func TestBackoffWithJitterBounds(t *testing.T) {
	for attempt := 1; attempt < 10; attempt++ {
		d := backoffWithJitter(10*time.Millisecond, 80*time.Millisecond, attempt)
		if d <= 0 || d > 80*time.Millisecond {
			t.Fatalf("attempt %d: backoff %v out of bounds", attempt, d)
		}
	}
}
