package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hatlonely/awesome/cfg"
	"github.com/hatlonely/awesome/log"
	"github.com/hatlonely/awesome/model"
	"github.com/hatlonely/awesome/orm"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Options struct {
	DB       orm.PoolOptions     `cfg:"db"`
	Executor orm.ExecutorOptions `cfg:"executor"`
	Log      log.Options         `cfg:"log"`
	Metrics  struct {
		Addr string `cfg:"addr" def:":9090"`
	} `cfg:"metrics"`
	// RowCountPolicy strict 或 warn
	RowCountPolicy string `cfg:"rowCountPolicy" def:"strict" validate:"oneof=strict warn"`
}

func main() {
	defaultFile := flag.String("config", "config/default.yaml", "default config file")
	overrideFile := flag.String("override", "config/override.yaml", "override config file, merged when APP_ENV=pro")
	flag.Parse()

	if err := run(*defaultFile, *overrideFile); err != nil {
		fmt.Fprintf(os.Stderr, "awesome: %+v\n", err)
		os.Exit(1)
	}
}

func loadOptions(defaultFile, overrideFile string) (*Options, error) {
	var options Options
	if err := cfg.Load(&cfg.Options{
		DefaultFile:  defaultFile,
		OverrideFile: overrideFile,
		EnvPrefix:    "AWESOME",
	}, &options); err != nil {
		return nil, errors.WithMessage(err, "load config failed")
	}
	return &options, nil
}

func run(defaultFile, overrideFile string) error {
	options, err := loadOptions(defaultFile, overrideFile)
	if err != nil {
		return err
	}

	logger, err := log.NewWithOptions(&options.Log)
	if err != nil {
		return errors.WithMessage(err, "create logger failed")
	}
	defer logger.Close()
	log.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	policy := orm.RowCountStrict
	if options.RowCountPolicy == "warn" {
		policy = orm.RowCountWarn
	}
	opts := []orm.Option{
		orm.WithLogger(logger),
		orm.WithRegisterer(prometheus.DefaultRegisterer),
		orm.WithRowCountPolicy(policy),
	}

	pool, err := orm.NewPoolWithOptions(ctx, &options.DB, opts...)
	if err != nil {
		return err
	}
	defer pool.Close()
	prometheus.MustRegister(orm.NewPoolCollector(pool, options.Executor.Name))

	exec, err := orm.NewExecutorWithOptions(pool, &options.Executor, opts...)
	if err != nil {
		return err
	}
	store := model.NewStore(exec, opts...)

	users, err := store.Users.Count(ctx)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "store ready", "users", users)

	// 只跟随日志级别，其他配置需要重启生效
	watcher, err := cfg.Watch(defaultFile, func() {
		reloaded, err := loadOptions(defaultFile, overrideFile)
		if err != nil {
			logger.Warn("reload config failed", "error", err)
			return
		}
		if err := logger.SetLevel(reloaded.Log.Level); err != nil {
			logger.Warn("set log level failed", "error", err)
			return
		}
		logger.Info("log level changed", "level", reloaded.Log.Level)
	}, func(err error) {
		logger.Warn("watch config failed", "error", err)
	})
	if err != nil {
		return err
	}
	defer watcher.Close()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	})
	server := &http.Server{Addr: options.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serve metrics", "addr", options.Metrics.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "serve metrics failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
