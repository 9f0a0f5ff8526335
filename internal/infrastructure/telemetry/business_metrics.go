package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics tracks document outcomes: how many documents are created,
// their value, how many requests are rejected and by which error code, and
// the number of live documents per status.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	documentCreatedTotal  *Counter
	documentValueTotal    *FloatCounter
	documentRejectedTotal *Counter
	documentsByStatus     *Gauge

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	statsProvider DocumentStatsProvider
}

// DocumentStatsProvider reports the number of non-deleted documents per
// document type and status for periodic gauge collection.
type DocumentStatsProvider interface {
	CountDocumentsByStatus(ctx context.Context) (map[string]map[string]int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter         metric.Meter
	Logger        *zap.Logger
	StatsProvider DocumentStatsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:         cfg.Meter,
		logger:        logger,
		stopChan:      make(chan struct{}),
		statsProvider: cfg.StatsProvider,
	}

	var err error
	bm.documentCreatedTotal, err = NewCounter(cfg.Meter,
		"planner_document_created_total",
		"Total number of documents created",
		"{documents}",
	)
	if err != nil {
		return nil, err
	}

	bm.documentValueTotal, err = NewFloatCounter(cfg.Meter,
		"planner_document_value_total",
		"Sum of the totals of created documents",
		"{currency}",
	)
	if err != nil {
		return nil, err
	}

	bm.documentRejectedTotal, err = NewCounter(cfg.Meter,
		"planner_document_rejected_total",
		"Total number of rejected document operations by error code",
		"{requests}",
	)
	if err != nil {
		return nil, err
	}

	bm.documentsByStatus, err = NewGauge(cfg.Meter,
		"planner_documents",
		"Current number of documents by type and status",
		"{documents}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordDocumentCreated counts a created document and adds its total
func (bm *BusinessMetrics) RecordDocumentCreated(ctx context.Context, docType string, total decimal.Decimal) {
	bm.documentCreatedTotal.Inc(ctx, AttrDocumentType.String(docType))
	if value := total.InexactFloat64(); value > 0 {
		bm.documentValueTotal.Add(ctx, value, AttrDocumentType.String(docType))
	}
}

// RecordDocumentRejected counts an operation that failed with code
func (bm *BusinessMetrics) RecordDocumentRejected(ctx context.Context, docType, code string) {
	bm.documentRejectedTotal.Inc(ctx,
		AttrDocumentType.String(docType),
		AttrErrorCode.String(code),
	)
}

// StartPeriodicCollection records the per-status gauge every interval
// (default 5 minutes) until Stop is called or ctx ends. It is non-blocking
// and only the first call has an effect.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	if bm.statsProvider == nil {
		bm.logger.Debug("No document stats provider configured, skipping periodic collection")
		return
	}
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		go bm.runPeriodicCollection(ctx, interval)
	})
}

func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	bm.collectDocumentStats(ctx)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			bm.collectDocumentStats(ctx)
		}
	}
}

func (bm *BusinessMetrics) collectDocumentStats(ctx context.Context) {
	stats, err := bm.statsProvider.CountDocumentsByStatus(ctx)
	if err != nil {
		bm.logger.Warn("Failed to collect document stats", zap.Error(err))
		return
	}
	for docType, byStatus := range stats {
		for status, count := range byStatus {
			bm.documentsByStatus.Record(ctx, count,
				AttrDocumentType.String(docType),
				AttrDocumentStatus.String(status),
			)
		}
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
