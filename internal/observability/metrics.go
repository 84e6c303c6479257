package observability

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReactionsTotal counts resolved reaction requests by target kind,
	// requested action, and resulting state.
	ReactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ripple_reactions_total",
		Help: "Total number of resolved reaction requests",
	}, []string{"target", "action", "result"})

	// ReactionConflicts counts unique-constraint rejections resolved by
	// re-reading state instead of failing the request.
	ReactionConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ripple_reaction_conflicts_total",
		Help: "Total number of reaction writes rejected by the storage constraint and reconciled",
	}, []string{"target"})

	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ripple_redis_error_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ripple_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// ObserveQueryLatency records one SQL statement's latency. The operation and
// table labels are derived from the statement text; statements that fit no
// known shape are grouped under "other".
func ObserveQueryLatency(sql string, elapsed time.Duration) {
	op, table := parseStatement(sql)
	DatabaseQueryLatency.WithLabelValues(op, table).Observe(elapsed.Seconds())
}

func parseStatement(sql string) (operation, table string) {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "other", ""
	}

	operation = strings.ToLower(fields[0])
	var keyword string
	switch operation {
	case "select", "delete":
		keyword = "from"
	case "insert":
		keyword = "into"
	case "update":
		if len(fields) > 1 {
			return operation, trimIdentifier(fields[1])
		}
		return operation, ""
	default:
		return "other", ""
	}

	for i, f := range fields {
		if strings.EqualFold(f, keyword) && i+1 < len(fields) {
			return operation, trimIdentifier(fields[i+1])
		}
	}
	return operation, ""
}

func trimIdentifier(s string) string {
	return strings.Trim(s, "\"`")
}
