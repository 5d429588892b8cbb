// Command sessiond serves a small web application protected by
// fingerprint-bound sessions. It exists to run the session packages end to
// end against a real store: visitors get temporary sessions, POST /login
// starts a continuous session for a user, /account requires one.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/dmitrymomot/sessionguard/pkg/clientip"
	"github.com/dmitrymomot/sessionguard/pkg/config"
	"github.com/dmitrymomot/sessionguard/pkg/cookie"
	"github.com/dmitrymomot/sessionguard/pkg/fingerprint"
	"github.com/dmitrymomot/sessionguard/pkg/httpserver"
	"github.com/dmitrymomot/sessionguard/pkg/logger"
	"github.com/dmitrymomot/sessionguard/pkg/metrics"
	"github.com/dmitrymomot/sessionguard/pkg/requestid"
	"github.com/dmitrymomot/sessionguard/pkg/session"
)

// appConfig holds settings owned by the binary itself.
type appConfig struct {
	// Store selects the session backend: memory, redis, postgres or mongo.
	Store string `env:"SESSION_STORE" envDefault:"memory"`
	// TrustedHeaders lists proxy headers that carry the client address.
	TrustedHeaders []string `env:"TRUSTED_IP_HEADERS" envSeparator:","`
	// HeaderTransport also accepts and returns identifiers in X-Session-*
	// headers, for API clients without a cookie jar.
	HeaderTransport bool `env:"SESSION_HEADER_TRANSPORT" envDefault:"false"`
}

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("sessiond stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		appCfg    appConfig
		logCfg    logger.Config
		httpCfg   httpserver.Config
		cookieCfg cookie.Config
		sessCfg   session.Config
	)
	for _, load := range []func() error{
		func() error { return config.Load(&appCfg) },
		func() error { return config.Load(&logCfg) },
		func() error { return config.Load(&httpCfg) },
		func() error { return config.Load(&cookieCfg) },
		func() error { return config.Load(&sessCfg) },
	} {
		if err := load(); err != nil {
			return err
		}
	}

	log, err := logger.NewFromConfig(logCfg, logger.WithContextExtractors(
		requestid.LoggerExtractor(),
		func(ctx context.Context) (slog.Attr, bool) {
			ip := clientip.GetIPFromContext(ctx)
			return logger.ClientIP(ip), ip != ""
		},
	))
	if err != nil {
		return err
	}
	logger.SetAsDefault(log)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cookies, err := cookie.NewFromConfig(cookieCfg)
	if err != nil {
		return err
	}
	var transport session.Transport = session.NewCookieTransport(cookies)
	if appCfg.HeaderTransport {
		transport = session.NewCompositeTransport(transport, session.NewHeaderTransport())
	}

	backend, err := openStore(ctx, appCfg.Store, sessCfg, log)
	if err != nil {
		return err
	}

	var resolverOpts []clientip.Option
	if len(appCfg.TrustedHeaders) > 0 {
		resolverOpts = append(resolverOpts, clientip.WithTrustedHeaders(appCfg.TrustedHeaders...))
	}
	resolver := clientip.NewResolver(resolverOpts...)

	collector := fingerprint.NewCollector(resolver)
	observer := metrics.New(nil)
	manager := session.NewFromConfig(sessCfg,
		session.WithTransport(transport),
		session.WithStore(backend.store),
		session.WithCollector(collector),
		session.WithObserver(observer),
		session.WithLogger(log),
	)

	srv := httpserver.NewFromConfig(httpCfg,
		httpserver.WithLogger(log),
		httpserver.WithOnShutdown(func() {
			cancel()
			if err := backend.close(context.Background()); err != nil {
				log.Error("failed to close session store", logger.Error(err))
			}
		}),
	)

	return srv.Run(ctx, newRouter(routerDeps{
		manager:   manager,
		resolver:  resolver,
		collector: collector,
		metrics:   observer.Handler(),
		checks:    backend.checks,
		log:       log,
	}))
}
