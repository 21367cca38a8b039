package orm

import (
	"github.com/hatlonely/awesome/log"
	"github.com/prometheus/client_golang/prometheus"
)

type settings struct {
	logger     log.Logger
	registerer prometheus.Registerer
	policy     RowCountPolicy
}

// Option Pool、Executor、Model 共用的可选项，不相关的项会被忽略
type Option func(*settings)

// WithLogger 指定 logger，默认使用 log.Default()
func WithLogger(l log.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithRegisterer 指定 prometheus 注册器，不指定时不采集指标
func WithRegisterer(r prometheus.Registerer) Option {
	return func(s *settings) { s.registerer = r }
}

// WithRowCountPolicy 写操作影响行数不为 1 时的处理方式
func WithRowCountPolicy(p RowCountPolicy) Option {
	return func(s *settings) { s.policy = p }
}

func newSettings(opts []Option) *settings {
	s := &settings{policy: RowCountStrict}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	return s
}
