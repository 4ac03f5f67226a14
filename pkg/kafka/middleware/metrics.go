package kafka_middleware

import (
	"context"
	"sync/atomic"
	"time"

	"bookingflow/pkg/kafka"
)

// Metrics counts publish outcomes. Safe for concurrent use.
type Metrics struct {
	published     atomic.Int64
	failed        atomic.Int64
	durationTotal atomic.Int64 // nanoseconds
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

type Snapshot struct {
	Published         int64         `json:"published"`
	Failed            int64         `json:"failed"`
	AvgPublishLatency time.Duration `json:"avg_publish_latency_ns"`
}

func (m *Metrics) Snapshot() Snapshot {
	published := m.published.Load()
	failed := m.failed.Load()
	s := Snapshot{Published: published, Failed: failed}
	if total := published + failed; total > 0 {
		s.AvgPublishLatency = time.Duration(m.durationTotal.Load() / total)
	}
	return s
}

// MetricsProducerMiddleware records every publish attempt in m
func MetricsProducerMiddleware(m *Metrics) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)
		m.durationTotal.Add(int64(time.Since(start)))
		if err != nil {
			m.failed.Add(1)
		} else {
			m.published.Add(1)
		}
		return err
	}
}
