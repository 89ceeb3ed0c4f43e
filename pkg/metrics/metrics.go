package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP 请求延迟（秒）
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// 表单提交结果计数
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_submissions_total",
			Help: "Total number of contact form submissions by outcome",
		},
		[]string{"result"}, // accepted, identity_rejected, missing_fields, failed
	)

	// 登录校验结果计数
	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_login_attempts_total",
			Help: "Total number of login identity checks by outcome",
		},
		[]string{"result"}, // success, failure, error
	)

	// 各个 sink 的写入延迟（秒）
	SinkWriteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "contact_sink_write_duration_seconds",
			Help:    "Duration of a single sink write in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"sink", "status"},
	)

	// 数据库查询延迟（秒）
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"operation", "table"},
	)

	SlowQueryTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "db_slow_query_total",
			Help: "Total number of queries slower than the configured threshold",
		},
	)

	// 事件发布计数
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_events_published_total",
			Help: "Total number of submission events handed to the broker by outcome",
		},
		[]string{"routing_key", "status"}, // status: success, failed, breaker_open
	)

	// 事件发布熔断器状态，当前状态为 1
	PublisherBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "contact_event_publisher_breaker_state",
			Help: "Current state of the event publisher circuit breaker (1 for the active state)",
		},
		[]string{"state"}, // closed, open, half_open
	)

	ThrottledRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_throttled_requests_total",
			Help: "Total number of requests rejected by the attempt limiter",
		},
		[]string{"path"},
	)
)

// RecordHTTPRequestDuration 记录 HTTP 请求延迟
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncrementSubmission 增加表单提交计数
func IncrementSubmission(result string) {
	SubmissionsTotal.WithLabelValues(result).Inc()
}

// IncrementLoginAttempt 增加登录校验计数
func IncrementLoginAttempt(result string) {
	LoginAttemptsTotal.WithLabelValues(result).Inc()
}

// RecordSinkWrite 记录 sink 写入耗时
func RecordSinkWrite(sink string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "failed"
	}
	SinkWriteDuration.WithLabelValues(sink, status).Observe(duration.Seconds())
}

// RecordDBQueryDuration 记录数据库查询延迟
func RecordDBQueryDuration(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// IncrementSlowQuery 增加慢查询计数
func IncrementSlowQuery() {
	SlowQueryTotal.Inc()
}

// IncrementEventPublished 增加事件发布计数
func IncrementEventPublished(routingKey, status string) {
	EventsPublishedTotal.WithLabelValues(routingKey, status).Inc()
}

// SetPublisherBreakerState 记录熔断器当前状态
func SetPublisherBreakerState(state string) {
	PublisherBreakerState.Reset()
	PublisherBreakerState.WithLabelValues(state).Set(1)
}

// IncrementThrottled 增加限流计数
func IncrementThrottled(path string) {
	ThrottledRequestsTotal.WithLabelValues(path).Inc()
}
