package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type sampleRow struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&sampleRow{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestDetectOperationType(t *testing.T) {
	assert.Equal(t, "SELECT", detectOperationType("  select * from services"))
	assert.Equal(t, "INSERT", detectOperationType("INSERT INTO clients"))
	assert.Equal(t, "UPDATE", detectOperationType("update contracts set"))
	assert.Equal(t, "DELETE", detectOperationType("DELETE FROM users"))
	assert.Equal(t, "OTHER", detectOperationType("PRAGMA foreign_keys"))
}

func TestDBMetricsPlugin(t *testing.T) {
	reader, provider := newTestMeter(t)
	m, err := NewDBMetrics(provider.Meter("db"), DBMetricsConfig{Enabled: true, SlowQueryThreshold: time.Hour}, zap.NewNop())
	require.NoError(t, err)

	db := openSQLite(t)
	require.NoError(t, db.Use(NewDBMetricsPlugin(m, zap.NewNop())))

	ctx := context.Background()
	require.NoError(t, db.WithContext(ctx).Create(&sampleRow{Name: "a"}).Error)
	var rows []sampleRow
	require.NoError(t, db.WithContext(ctx).Find(&rows).Error)
	var missing sampleRow
	assert.ErrorIs(t, db.WithContext(ctx).First(&missing, 99).Error, gorm.ErrRecordNotFound)
	assert.Error(t, db.WithContext(ctx).Exec("INSERT INTO no_such_table VALUES (1)").Error)

	metrics := collect(t, reader)

	total, ok := metrics["planner_db_query_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	byOp := map[string]int64{}
	for _, dp := range total.DataPoints {
		byOp[attrValue(dp.Attributes, AttrDBOperation)] += dp.Value
	}
	assert.Equal(t, int64(2), byOp["INSERT"])
	assert.Equal(t, int64(2), byOp["SELECT"])

	errs, ok := metrics["planner_db_query_errors_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, errs.DataPoints, 1)
	assert.Equal(t, "INSERT", attrValue(errs.DataPoints[0].Attributes, AttrDBOperation))

	_, ok = metrics["planner_db_query_duration_seconds"].Data.(metricdata.Histogram[float64])
	assert.True(t, ok)
	_, ok = metrics["planner_db_slow_query_total"]
	assert.False(t, ok)
}

func TestDBMetrics_SlowQueryAndPoolStats(t *testing.T) {
	reader, provider := newTestMeter(t)
	m, err := NewDBMetrics(provider.Meter("db"), DBMetricsConfig{SlowQueryThreshold: time.Millisecond, PoolStatsInterval: time.Hour}, nil)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordQuery(ctx, "select", "contracts", 5*time.Millisecond, nil)

	db := openSQLite(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	m.SetSQLDB(sqlDB)
	m.StartPoolStatsCollection(ctx)
	t.Cleanup(m.Stop)

	assert.Eventually(t, func() bool {
		_, ok := collect(t, reader)["planner_db_pool_connections"]
		return ok
	}, time.Second, 10*time.Millisecond)

	metrics := collect(t, reader)
	slow, ok := metrics["planner_db_slow_query_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, slow.DataPoints, 1)
	assert.Equal(t, "contracts", attrValue(slow.DataPoints[0].Attributes, AttrDBTable))

	pool := metrics["planner_db_pool_connections"].Data.(metricdata.Gauge[int64])
	states := map[string]bool{}
	for _, dp := range pool.DataPoints {
		states[attrValue(dp.Attributes, AttrDBState)] = true
	}
	assert.Equal(t, map[string]bool{"idle": true, "in_use": true, "open": true}, states)
}

func TestRegisterDBMetrics_Disabled(t *testing.T) {
	db := openSQLite(t)

	m, err := RegisterDBMetrics(db, nil, DBMetricsConfig{Enabled: false}, zap.NewNop())
	assert.NoError(t, err)
	assert.Nil(t, m)

	mp, err := NewMeterProvider(context.Background(), MetricsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	m, err = RegisterDBMetrics(db, mp, DBMetricsConfig{Enabled: true}, zap.NewNop())
	assert.NoError(t, err)
	assert.Nil(t, m)
}

func TestDBTracingPlugin(t *testing.T) {
	recorder := setupSpanRecorder(t)
	db := openSQLite(t)

	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, DBSystem: "sqlite", SlowQueryThresh: time.Hour}, zap.NewNop())
	require.NoError(t, plugin.RegisterOtelGorm(db))

	ctx, span := StartSpan(context.Background(), "test.parent")
	require.NoError(t, db.WithContext(ctx).Create(&sampleRow{Name: "b"}).Error)
	assert.Error(t, db.WithContext(ctx).Exec("SELECT * FROM no_such_table").Error)
	span.End()

	var dbSpans int
	for _, s := range recorder.Ended() {
		if s.Name() == "test.parent" {
			continue
		}
		dbSpans++
		assert.Equal(t, span.SpanContext().TraceID(), s.SpanContext().TraceID())
	}
	assert.GreaterOrEqual(t, dbSpans, 2)
}

func TestDBTracingPlugin_Disabled(t *testing.T) {
	db := openSQLite(t)
	plugin := NewDBTracingPlugin(DefaultDBTracingConfig(), nil)
	assert.NoError(t, plugin.RegisterOtelGorm(db))
	_, registered := db.Plugins["otelgorm"]
	assert.False(t, registered)
}
