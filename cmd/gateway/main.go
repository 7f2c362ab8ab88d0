// Command gateway serves the Sidequest Plugins API: newsletter subscription
// with email confirmation, the contact form, robots.txt and the /docs proxy.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	goredis "github.com/redis/go-redis/v9"

	"github.com/sidequestplugins/gateway/internal/config"
	"github.com/sidequestplugins/gateway/internal/gateway"
	"github.com/sidequestplugins/gateway/internal/site"
	"github.com/sidequestplugins/gateway/internal/web"
	"github.com/sidequestplugins/gateway/middlewares"
	"github.com/sidequestplugins/gateway/pkg/logger"
	"github.com/sidequestplugins/gateway/pkg/mailer"
	"github.com/sidequestplugins/gateway/pkg/mailer/resend"
	"github.com/sidequestplugins/gateway/pkg/mailgun"
	"github.com/sidequestplugins/gateway/pkg/ratelimit"
	"github.com/sidequestplugins/gateway/pkg/redis"
	"github.com/sidequestplugins/gateway/pkg/turnstile"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.NewWithSentry(cfg.Log, cfg.Sentry, middlewares.RequestIDExtractor())
	defer sentry.Flush(2 * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("gateway stopped", slog.Any("error", err))
		stop()
		sentry.Flush(2 * time.Second)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	httpClient := &http.Client{Timeout: cfg.HTTPClientTimeout}

	runOpts := []web.RunOption{
		web.Address(cfg.Address),
		web.Logger(log),
		web.ShutdownTimeout(cfg.ShutdownTimeout),
	}
	var healthOpts []web.HealthOption

	var rdb *goredis.Client
	if cfg.Redis.Enabled() {
		var err error
		rdb, err = redis.Open(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		healthOpts = append(healthOpts, web.WithReadinessCheck("redis", redis.Healthcheck(rdb)))
		runOpts = append(runOpts, web.ShutdownHook(func(context.Context) error { return rdb.Close() }))
	}

	var limiter ratelimit.Store
	switch {
	case !cfg.RateLimit.Enabled():
		log.Warn("rate limiting disabled")
	case rdb != nil:
		limiter = ratelimit.NewRedis(rdb, cfg.RateLimit, ratelimit.WithKeyPrefix(cfg.RateLimit.KeyPrefix))
	default:
		mem := ratelimit.NewMemory(cfg.RateLimit)
		runOpts = append(runOpts, web.ShutdownHook(func(context.Context) error {
			mem.Stop()
			return nil
		}))
		limiter = mem
	}

	deps := gateway.Deps{RateLimiter: limiter}

	mg, err := mailgun.New(cfg.Mailgun, mailgun.WithHTTPClient(httpClient))
	if err != nil {
		log.Warn("mailgun not configured, subscription confirmation disabled")
	} else {
		deps.Lists = mg
	}

	if sender := newSender(cfg, mg, httpClient); sender != nil {
		renderer := mailer.NewRendererWithConfig(gateway.Templates(), mailer.RendererConfig{LayoutDir: "layouts"})
		deps.Mailer = mailer.New(sender, renderer, cfg.Mailer)
	} else {
		log.Warn("email provider not configured", slog.String("provider", cfg.EmailProvider))
	}

	if cfg.TurnstileSecret != "" {
		v, err := turnstile.New(cfg.TurnstileSecret, turnstile.WithHTTPClient(httpClient))
		if err != nil {
			return fmt.Errorf("turnstile: %w", err)
		}
		deps.Verifier = v
	}

	siteHandler, err := site.NewHandler(site.Config{SiteURL: cfg.SiteURL, DocsOrigin: cfg.DocsOrigin}, nil)
	if err != nil {
		return err
	}

	proxies, err := web.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return err
	}

	app := web.New(
		web.WithLogger(log),
		web.WithTrustedProxies(proxies),
		web.WithMiddleware(
			middlewares.RequestID(),
			middlewares.RequestLogger(),
			middlewares.Recover(),
			middlewares.CORS(middlewares.CORSConfig{
				AllowedOrigins: cfg.CORSAllowedOrigins,
				PathPrefix:     "/api/",
			}),
			middlewares.Timeout(cfg.RequestTimeout),
		),
		web.WithHealthChecks(healthOpts...),
		web.WithHandlers(
			gateway.NewHandler(gateway.Config{
				SubscribeSecret:   cfg.SubscribeSecret,
				PublicBaseURL:     cfg.PublicBaseURL,
				SenderAddress:     cfg.SenderAddress(),
				ListDomain:        cfg.Mailgun.Domain,
				SupportEmail:      cfg.SupportEmail,
				TurnstileRequired: cfg.TurnstileRequired,
			}, deps),
			siteHandler,
		),
	)

	if cfg.SubscribeSecret == "" {
		log.Warn("SUBSCRIBE_SECRET not set, subscription endpoints will fail")
	}

	return web.Run(ctx, app, runOpts...)
}

// newSender picks the transactional provider. It returns nil when the
// selected provider has no credentials.
func newSender(cfg config.Config, mg *mailgun.Client, httpClient *http.Client) mailer.Sender {
	if !cfg.EmailConfigured() {
		return nil
	}
	if cfg.EmailProvider == config.ProviderResend {
		return resend.New(cfg.Resend, resend.WithHTTPClient(httpClient))
	}
	return mg
}
