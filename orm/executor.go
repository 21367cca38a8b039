package orm

import (
	"context"
	"time"

	"github.com/hatlonely/awesome/cfg"
	"github.com/hatlonely/awesome/log"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/trace"
)

type ExecutorOptions struct {
	// Name 指标前缀和 tracer 名字
	Name string `cfg:"name" def:"orm"`
	// Timeout 单条语句超时，包括等待连接的时间，0 表示不限制
	Timeout time.Duration `cfg:"timeout"`
	// SlowThreshold 超过该耗时的语句记录 warn 日志，0 表示不记录
	SlowThreshold time.Duration `cfg:"slowThreshold" def:"500ms"`
	// EnableTracing 是否创建 opentelemetry span
	EnableTracing bool `cfg:"enableTracing"`
}

// Executor 执行 SQL，每条语句单独借出连接并在结束时归还
type Executor struct {
	pool    *Pool
	options ExecutorOptions
	dialect dialect
	logger  log.Logger
	metrics *queryMetrics
	tracer  trace.Tracer
}

func NewExecutorWithOptions(pool *Pool, options *ExecutorOptions, opts ...Option) (*Executor, error) {
	var o ExecutorOptions
	if options != nil {
		o = *options
	}
	if err := cfg.SetDefaults(&o); err != nil {
		return nil, errors.WithMessage(err, "cfg.SetDefaults failed")
	}
	s := newSettings(opts)

	e := &Executor{
		pool:    pool,
		options: o,
		dialect: dialectFor(pool.Driver()),
		logger:  s.logger.With("component", o.Name),
	}
	if s.registerer != nil {
		e.metrics = newQueryMetrics(o.Name, s.registerer)
	}
	if o.EnableTracing {
		e.tracer = newTracer(o.Name)
	}
	return e, nil
}

func (e *Executor) Pool() *Pool {
	return e.pool
}

// Select 执行查询，limit > 0 时只读取前 limit 行
func (e *Executor) Select(ctx context.Context, query string, args []any, limit int) ([]Row, error) {
	var rows []Row
	err := e.run(ctx, "select", query, args, func(ctx context.Context, conn *Conn, stmt string) error {
		rs, err := conn.QueryContext(ctx, stmt, args...)
		if err != nil {
			return err
		}
		defer rs.Close()

		rows, err = scanRows(rs, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	e.logger.DebugContext(ctx, "rows returned", "rows", len(rows))
	return rows, nil
}

// Execute 执行 insert/update/delete，返回影响行数
func (e *Executor) Execute(ctx context.Context, query string, args []any) (int64, error) {
	var affected int64
	err := e.run(ctx, "execute", query, args, func(ctx context.Context, conn *Conn, stmt string) error {
		res, err := conn.ExecContext(ctx, stmt, args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	return affected, err
}

func (e *Executor) run(ctx context.Context, operation string, query string, args []any,
	fn func(ctx context.Context, conn *Conn, stmt string) error) error {
	if e == nil || !e.pool.ready() {
		return ErrPoolNotInitialized
	}

	stmt, n, err := translatePlaceholders(query, e.dialect)
	if err != nil {
		return &QueryError{SQL: query, Args: args, Err: err}
	}
	if n != len(args) {
		return &QueryError{SQL: query, Args: args, Err: errors.Errorf("%d placeholders but %d args", n, len(args))}
	}

	if e.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.options.Timeout)
		defer cancel()
	}

	e.logger.DebugContext(ctx, "sql", "operation", operation, "sql", query, "args", args)

	return e.observe(ctx, operation, query, func(ctx context.Context) error {
		conn, err := e.pool.Acquire(ctx)
		if err != nil {
			return err
		}
		defer conn.Release()

		if err := fn(ctx, conn, stmt); err != nil {
			return &QueryError{SQL: query, Args: args, Err: err}
		}
		return nil
	})
}
