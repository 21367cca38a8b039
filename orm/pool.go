package orm

import (
	"context"
	"database/sql"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/hatlonely/awesome/cfg"
	"github.com/hatlonely/awesome/log"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

type PoolOptions struct {
	// Driver mysql 用于线上，sqlite3 用于本地开发和测试
	Driver string `cfg:"driver" def:"mysql" validate:"oneof=mysql sqlite3"`
	// DSN 不为空时忽略下面的连接参数
	DSN      string `cfg:"dsn"`
	Host     string `cfg:"host" def:"localhost"`
	Port     int    `cfg:"port" def:"3306" validate:"gte=0,lte=65535"`
	User     string `cfg:"user"`
	Password string `cfg:"password"`
	// Database sqlite3 时为数据库文件路径
	Database   string `cfg:"database"`
	Charset    string `cfg:"charset" def:"utf8"`
	Autocommit *bool  `cfg:"autocommit" def:"true"`

	MinPoolSize int `cfg:"minPoolSize" def:"1" validate:"gte=0"`
	MaxPoolSize int `cfg:"maxPoolSize" def:"10" validate:"gte=1,gtefield=MinPoolSize"`

	ConnectTimeout  time.Duration `cfg:"connectTimeout" def:"5s"`
	ConnMaxLifetime time.Duration `cfg:"connMaxLifetime" def:"1h"`
	ConnMaxIdleTime time.Duration `cfg:"connMaxIdleTime" def:"10m"`
}

// Pool 连接池，由应用入口创建并显式传递
// 同一时刻借出的连接数不超过 MaxPoolSize，超出的调用方阻塞等待
type Pool struct {
	db     *sql.DB
	driver string
	addr   string
	closed atomic.Bool
	logger log.Logger
}

func NewPoolWithOptions(ctx context.Context, options *PoolOptions, opts ...Option) (*Pool, error) {
	if options == nil {
		return nil, errors.New("options is nil")
	}
	o := *options
	if err := cfg.SetDefaults(&o); err != nil {
		return nil, errors.WithMessage(err, "cfg.SetDefaults failed")
	}
	if err := cfg.Validate(&o); err != nil {
		return nil, errors.WithMessage(err, "invalid pool options")
	}
	s := newSettings(opts)

	dsn, addr, err := buildDSN(&o)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(o.Driver, dsn)
	if err != nil {
		return nil, &PoolInitError{Driver: o.Driver, Addr: addr, Err: err}
	}
	db.SetMaxOpenConns(o.MaxPoolSize)
	db.SetMaxIdleConns(o.MaxPoolSize)
	db.SetConnMaxLifetime(o.ConnMaxLifetime)
	db.SetConnMaxIdleTime(o.ConnMaxIdleTime)

	p := &Pool{
		db:     db,
		driver: o.Driver,
		addr:   addr,
		logger: s.logger.With("component", "pool", "driver", o.Driver, "addr", addr),
	}

	p.logger.InfoContext(ctx, "create database connection pool", "minPoolSize", o.MinPoolSize, "maxPoolSize", o.MaxPoolSize)
	if err := p.warmUp(ctx, o.MinPoolSize); err != nil {
		_ = db.Close()
		return nil, &PoolInitError{Driver: o.Driver, Addr: addr, Err: err}
	}

	return p, nil
}

// warmUp 校验连通性，并预先建立 min 个连接放入空闲队列
func (p *Pool) warmUp(ctx context.Context, min int) error {
	if err := p.db.PingContext(ctx); err != nil {
		return err
	}

	conns := make([]*sql.Conn, 0, min)
	defer func() {
		for _, c := range conns {
			_ = c.Close()
		}
	}()
	for i := 0; i < min; i++ {
		c, err := p.db.Conn(ctx)
		if err != nil {
			return err
		}
		conns = append(conns, c)
	}
	return nil
}

func buildDSN(o *PoolOptions) (dsn string, addr string, err error) {
	switch o.Driver {
	case "mysql":
		addr = net.JoinHostPort(o.Host, strconv.Itoa(o.Port))
		if o.DSN != "" {
			return o.DSN, addr, nil
		}
		c := mysql.NewConfig()
		c.User = o.User
		c.Passwd = o.Password
		c.Net = "tcp"
		c.Addr = addr
		c.DBName = o.Database
		c.Timeout = o.ConnectTimeout
		// update 未改变数据时也返回匹配行数，便于校验影响行数
		c.ClientFoundRows = true
		autocommit := "0"
		if o.Autocommit == nil || *o.Autocommit {
			autocommit = "1"
		}
		c.Params = map[string]string{
			"charset":    o.Charset,
			"autocommit": autocommit,
		}
		return c.FormatDSN(), addr, nil
	case "sqlite3":
		if o.DSN != "" {
			return o.DSN, o.DSN, nil
		}
		if o.Database == "" {
			return "", "", errors.New("database is required for sqlite3")
		}
		addr = o.Database
		dsn = o.Database
		// 多个连接写同一个文件时等待锁而不是立即失败
		if !strings.Contains(dsn, "_busy_timeout") {
			sep := "?"
			if strings.Contains(dsn, "?") {
				sep = "&"
			}
			dsn += sep + "_busy_timeout=" + strconv.FormatInt(o.ConnectTimeout.Milliseconds(), 10)
		}
		return dsn, addr, nil
	default:
		return "", "", errors.Errorf("unsupported driver: %s", o.Driver)
	}
}

// Conn 从连接池借出的连接，使用完必须 Release
type Conn struct {
	raw  *sql.Conn
	once sync.Once
}

// Release 归还连接，可以重复调用
func (c *Conn) Release() {
	c.once.Do(func() {
		_ = c.raw.Close()
	})
}

func (c *Conn) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return c.raw.QueryContext(ctx, query, args...)
}

func (c *Conn) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return c.raw.ExecContext(ctx, query, args...)
}

func (p *Pool) ready() bool {
	return p != nil && p.db != nil && !p.closed.Load()
}

// Acquire 借出一个连接，连接池耗尽时阻塞直到有连接归还或 ctx 结束
func (p *Pool) Acquire(ctx context.Context) (*Conn, error) {
	if !p.ready() {
		return nil, ErrPoolNotInitialized
	}
	raw, err := p.db.Conn(ctx)
	if err != nil {
		if p.closed.Load() {
			return nil, ErrPoolNotInitialized
		}
		return nil, errors.Wrap(err, "acquire connection failed")
	}
	return &Conn{raw: raw}, nil
}

// With 借出连接执行 fn，任何路径退出都会归还连接
func (p *Pool) With(ctx context.Context, fn func(conn *Conn) error) error {
	conn, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()
	return fn(conn)
}

func (p *Pool) Ping(ctx context.Context) error {
	if !p.ready() {
		return ErrPoolNotInitialized
	}
	return p.db.PingContext(ctx)
}

func (p *Pool) Driver() string {
	if p == nil {
		return ""
	}
	return p.driver
}

type PoolStats struct {
	MaxOpen      int
	Open         int
	InUse        int
	Idle         int
	WaitCount    int64
	WaitDuration time.Duration
}

func (p *Pool) Stats() PoolStats {
	if p == nil || p.db == nil {
		return PoolStats{}
	}
	s := p.db.Stats()
	return PoolStats{
		MaxOpen:      s.MaxOpenConnections,
		Open:         s.OpenConnections,
		InUse:        s.InUse,
		Idle:         s.Idle,
		WaitCount:    s.WaitCount,
		WaitDuration: s.WaitDuration,
	}
}

// Close 关闭连接池，之后的调用返回 ErrPoolNotInitialized
func (p *Pool) Close() error {
	if p == nil || p.db == nil || !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	p.logger.Info("close database connection pool")
	return p.db.Close()
}
