package orm

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// queryMetrics 语句执行指标
type queryMetrics struct {
	queries  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	active   *prometheus.GaugeVec
}

func newQueryMetrics(name string, reg prometheus.Registerer) *queryMetrics {
	return &queryMetrics{
		queries: register(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: name + "_queries_total",
				Help: "Total number of sql statements",
			},
			[]string{"operation", "status"},
		)),
		duration: register(reg, prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    name + "_query_duration_seconds",
				Help:    "Duration of sql statements in seconds, connection wait included",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"operation"},
		)),
		active: register(reg, prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: name + "_active_queries",
				Help: "Number of sql statements in flight",
			},
			[]string{"operation"},
		)),
	}
}

// register 重复注册时复用已有的 collector，多个 Executor 可以共享同一个名字
func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// observe 统一的语句观测：tracing span、指标、日志
func (e *Executor) observe(ctx context.Context, operation string, query string, fn func(context.Context) error) error {
	start := time.Now()

	var span trace.Span
	if e.tracer != nil {
		ctx, span = e.tracer.Start(ctx, "orm."+operation,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				attribute.String("component", e.options.Name),
				attribute.String("db.system", e.pool.Driver()),
				attribute.String("db.statement", query),
			),
		)
		defer span.End()
	}

	if e.metrics != nil {
		e.metrics.active.WithLabelValues(operation).Inc()
		defer e.metrics.active.WithLabelValues(operation).Dec()
	}

	err := fn(ctx)
	duration := time.Since(start)

	if span != nil {
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
		} else {
			span.SetStatus(codes.Ok, "")
		}
	}

	if e.metrics != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		e.metrics.queries.WithLabelValues(operation, status).Inc()
		e.metrics.duration.WithLabelValues(operation).Observe(duration.Seconds())
	}

	switch {
	case err != nil:
		e.logger.ErrorContext(ctx, "sql failed", "operation", operation, "sql", query, "duration_ms", duration.Milliseconds(), "error", err)
	case e.options.SlowThreshold > 0 && duration >= e.options.SlowThreshold:
		e.logger.WarnContext(ctx, "slow sql", "operation", operation, "sql", query, "duration_ms", duration.Milliseconds())
	}

	return err
}

func newTracer(name string) trace.Tracer {
	return otel.Tracer("github.com/hatlonely/awesome/orm/" + name)
}

// PoolCollector 以 gauge 形式导出连接池状态
type PoolCollector struct {
	pool     *Pool
	maxOpen  *prometheus.Desc
	open     *prometheus.Desc
	inUse    *prometheus.Desc
	idle     *prometheus.Desc
	waitCnt  *prometheus.Desc
	waitTime *prometheus.Desc
}

func NewPoolCollector(pool *Pool, name string) *PoolCollector {
	desc := func(metric, help string) *prometheus.Desc {
		return prometheus.NewDesc(name+"_pool_"+metric, help, nil, nil)
	}
	return &PoolCollector{
		pool:     pool,
		maxOpen:  desc("max_open_connections", "Maximum number of open connections"),
		open:     desc("open_connections", "Number of established connections"),
		inUse:    desc("in_use_connections", "Number of connections currently in use"),
		idle:     desc("idle_connections", "Number of idle connections"),
		waitCnt:  desc("wait_count_total", "Total number of connections waited for"),
		waitTime: desc("wait_duration_seconds_total", "Total time blocked waiting for a connection"),
	}
}

func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.maxOpen
	ch <- c.open
	ch <- c.inUse
	ch <- c.idle
	ch <- c.waitCnt
	ch <- c.waitTime
}

func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.pool.Stats()
	ch <- prometheus.MustNewConstMetric(c.maxOpen, prometheus.GaugeValue, float64(s.MaxOpen))
	ch <- prometheus.MustNewConstMetric(c.open, prometheus.GaugeValue, float64(s.Open))
	ch <- prometheus.MustNewConstMetric(c.inUse, prometheus.GaugeValue, float64(s.InUse))
	ch <- prometheus.MustNewConstMetric(c.idle, prometheus.GaugeValue, float64(s.Idle))
	ch <- prometheus.MustNewConstMetric(c.waitCnt, prometheus.CounterValue, float64(s.WaitCount))
	ch <- prometheus.MustNewConstMetric(c.waitTime, prometheus.CounterValue, s.WaitDuration.Seconds())
}
