// Package observability emits operational metrics for the cache and
// rate-limit layers: hit ratios and throttling decisions are the signals
// that show whether the caching tier is earning its keep.
package observability

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// Well-known counter names
const (
	MetricCacheHit        = "CacheHit"
	MetricCacheMiss       = "CacheMiss"
	MetricRateLimitDenied = "RateLimitDenied"
	MetricRequests        = "Requests"
)

// Metrics buffers counters in memory and flushes them to CloudWatch on an
// interval. With a nil client every operation is a no-op, so metrics can be
// disabled without touching call sites.
type Metrics struct {
	namespace string
	client    *cloudwatch.Client
	logger    *zap.Logger

	mu       sync.Mutex
	counters map[string]float64
}

// NewMetrics creates a metrics buffer publishing under namespace
func NewMetrics(namespace string, client *cloudwatch.Client, logger *zap.Logger) *Metrics {
	return &Metrics{
		namespace: namespace,
		client:    client,
		logger:    logger,
		counters:  make(map[string]float64),
	}
}

// IncrCounter adds delta to the named counter
func (m *Metrics) IncrCounter(name string, delta float64) {
	if m == nil || m.client == nil {
		return
	}

	m.mu.Lock()
	m.counters[name] += delta
	m.mu.Unlock()
}

// Flush publishes and resets all buffered counters
func (m *Metrics) Flush(ctx context.Context) {
	if m == nil || m.client == nil {
		return
	}

	m.mu.Lock()
	if len(m.counters) == 0 {
		m.mu.Unlock()
		return
	}
	snapshot := m.counters
	m.counters = make(map[string]float64)
	m.mu.Unlock()

	now := time.Now()
	data := make([]types.MetricDatum, 0, len(snapshot))
	for name, value := range snapshot {
		data = append(data, types.MetricDatum{
			MetricName: aws.String(name),
			Timestamp:  aws.Time(now),
			Unit:       types.StandardUnitCount,
			Value:      aws.Float64(value),
		})
	}

	input := &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: data,
	}

	if _, err := m.client.PutMetricData(ctx, input); err != nil {
		// Metrics loss is tolerable; the request path never depends on it
		m.logger.Warn("failed to publish metrics", zap.Error(err))
	}
}

// Start flushes buffered counters every interval until ctx is cancelled
func (m *Metrics) Start(ctx context.Context, interval time.Duration) {
	if m == nil || m.client == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				m.Flush(context.Background())
				return
			case <-ticker.C:
				m.Flush(ctx)
			}
		}
	}()
}
