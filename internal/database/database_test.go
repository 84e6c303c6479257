package database

import (
	"testing"

	"ripple/internal/models"
	"ripple/internal/observability"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormLoggerRecordsQueryLatency(t *testing.T) {
	db, err := ConnectSQLite("latency_metrics")
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)

	// Every statement that runs through the connection must leave a sample
	// in the histogram.
	series := testutil.CollectAndCount(observability.DatabaseQueryLatency,
		"ripple_database_query_latency_seconds")
	assert.Greater(t, series, 0)
}
