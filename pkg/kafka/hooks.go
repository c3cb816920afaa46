package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// ConsumerHook observes the lifecycle of message handling. BeforeHandle may
// replace the context, message, or payload; returning an error skips the
// handler and routes the message through OnError, DLQ, and offset commit.
type ConsumerHook interface {
	BeforeHandle(ctx context.Context, topic string, km kafka.Message, data []byte) (context.Context, kafka.Message, []byte, error)
	AfterHandle(ctx context.Context, topic string, km kafka.Message, data []byte, err error)
	OnError(ctx context.Context, topic string, km kafka.Message, data []byte, err error)
}

// NoopHook is the default hook when none is configured.
type NoopHook struct{}

func (NoopHook) BeforeHandle(ctx context.Context, topic string, km kafka.Message, data []byte) (context.Context, kafka.Message, []byte, error) {
	return ctx, km, data, nil
}

func (NoopHook) AfterHandle(ctx context.Context, topic string, km kafka.Message, data []byte, err error) {}

func (NoopHook) OnError(ctx context.Context, topic string, km kafka.Message, data []byte, err error) {}

// HookMetrics is the slice of the metrics recorder the consumer hook needs.
type HookMetrics interface {
	RecordStage(stage string, degraded bool, seconds float64)
	RecordError(kind string)
}

type ctxKey string

const ctxHandleStart ctxKey = "kafka_handle_start"

// TimingHook records per-topic handle latency and consumer errors.
// Retries go through AfterHandle once per attempt, so the recorded
// durations cover individual attempts rather than whole deliveries.
type TimingHook struct {
	m HookMetrics
}

func NewTimingHook(m HookMetrics) *TimingHook {
	return &TimingHook{m: m}
}

func (h *TimingHook) BeforeHandle(ctx context.Context, topic string, km kafka.Message, data []byte) (context.Context, kafka.Message, []byte, error) {
	return context.WithValue(ctx, ctxHandleStart, time.Now()), km, data, nil
}

func (h *TimingHook) AfterHandle(ctx context.Context, topic string, km kafka.Message, data []byte, err error) {
	if h.m == nil {
		return
	}
	start, ok := ctx.Value(ctxHandleStart).(time.Time)
	if !ok {
		return
	}
	h.m.RecordStage("consume_"+topic, err != nil, time.Since(start).Seconds())
}

func (h *TimingHook) OnError(ctx context.Context, topic string, km kafka.Message, data []byte, err error) {
	if h.m == nil {
		return
	}
	h.m.RecordError("consume_" + topic)
}
