/*
Package logpool organizes loggers into a tree of dotted categories.

A Factory resolves a logger for any category ("", "http", "http.client") on
first use. Each logger is derived from its parent's emitter using the merged
configuration of every configured ancestor, so "http.client" inherits the
level of "http" unless it has an entry of its own. Loggers are cached: asking
for the same category twice returns the same *Logger.

Every record is enriched before it reaches the backend:

  - category: the category of the logger
  - caller:   "path:line" of the call site, only when "caller" is enabled
  - context:  a snapshot of the mapped diagnostic context (MDC)

The MDC is shared by every logger of a Factory. Request-scoped values can be
attached to a context.Context with ContextWithMDC and picked up through
Logger.WithContext, which also adds the trace and span ids of an active
OpenTelemetry span.

Basic Usage:

	factory, err := logpool.NewFactory(logpool.PoolConfig{
	    Root: emitter.Config{"level": "info"},
	    Categories: map[string]emitter.Config{
	        "db": {"level": "debug", "caller": true},
	    },
	})
	if err != nil {
	    log.Fatal(err)
	}
	defer factory.Finish(context.Background())

	dbLog, _ := factory.GetLogger("db.pool")
	factory.SetMdc("tenant", "acme")
	dbLog.Debug(map[string]any{"conns": 4}, "pool resized to %d", 4)

Process-wide Pool:

Applications that prefer a single global factory call Initialize once at
startup and Shutdown before exit:

	if err := logpool.Initialize(cfg); err != nil {
	    log.Fatal(err)
	}
	defer logpool.Shutdown(context.Background())

	l, err := logpool.GetLogger("worker")

Shutdown:

Finish flushes and closes every emitter concurrently and waits for them to
settle. Emitters that share a transport close it once. Failures are collected
into a *ShutdownError instead of aborting the remaining closes.

FX Integration:

	app := fx.New(
	    logpool.FXModule,
	    fx.Provide(func() logpool.PoolConfig { return cfg }),
	)
*/
package logpool
