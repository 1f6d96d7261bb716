// @title           BreachSignal API
// @version         1.0
// @description     Breach lookups, IP reputation, WHOIS and site security scans for the BreachSignal lead funnel.

// @contact.name   BreachSignal Support
// @contact.email  info@BreachSignal.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/vit0-9/breachsignal_api/docs"
	"github.com/vit0-9/breachsignal_api/handlers"
	"github.com/vit0-9/breachsignal_api/pkg/breachcheck"
	"github.com/vit0-9/breachsignal_api/pkg/config"
	"github.com/vit0-9/breachsignal_api/pkg/leads"
	"github.com/vit0-9/breachsignal_api/pkg/logger"
	"github.com/vit0-9/breachsignal_api/pkg/mailer"
	"github.com/vit0-9/breachsignal_api/pkg/metrics"
	"github.com/vit0-9/breachsignal_api/pkg/providers"
	"github.com/vit0-9/breachsignal_api/pkg/report"
	"github.com/vit0-9/breachsignal_api/pkg/scan"
	"github.com/vit0-9/breachsignal_api/pkg/utils"
	"github.com/vit0-9/breachsignal_api/pkg/utils/domain"
)

// App encapsulates all the components of the application
type App struct {
	Router  *gin.Engine
	Metrics *metrics.Metrics

	LeadHandlers        *handlers.LeadHandlers
	NetIntelHandlers    *handlers.NetworkIntelligenceHandlers
	WebAnalysisHandlers *handlers.WebAnalysisHandlers
	ScanHandlers        *handlers.ScanHandlers
	ReportHandlers      *handlers.ReportHandlers
	HealthHandler       *handlers.HealthHandler

	log     logger.Logger
	closers []func() error
}

// NewApp builds every adapter, store and handler from cfg.
func NewApp(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	app := &App{Metrics: metrics.New(), log: log}
	obs := providers.WithObserver(app.Metrics)
	client := utils.NewHTTPClient(cfg.UpstreamTimeout)

	geo, err := utils.OpenGeoIP(cfg.MMDBCityPath, cfg.MMDBASNPath)
	if err != nil {
		log.Warn("GeoIP enrichment disabled", logger.Error(err))
	}
	if geo.Enabled() {
		app.closers = append(app.closers, geo.Close)
	}

	store, err := app.openLeadStore(ctx, cfg, client)
	if err != nil {
		app.Close()
		return nil, err
	}

	var sender mailer.Sender = mailer.NewLogSender(log)
	if cfg.ResendAPIKey != "" {
		sender = mailer.NewResendSender(cfg.ResendAPIKey, cfg.MailFrom, client)
	} else {
		log.Warn("RESEND_API_KEY not set; result emails are logged, not sent")
	}

	var verifier providers.Verifier = providers.NewRecaptchaVerifier(cfg.RecaptchaSecret, client, obs)
	if cfg.RecaptchaSecret == "" {
		log.Warn("RECAPTCHA_SECRET_KEY not set; captcha tokens are not checked")
		verifier = providers.AllowAllVerifier{}
	}

	dnsServer := cfg.DNSResolver
	if dnsServer == "" {
		dnsServer = utils.SystemResolver()
	}

	resolveRedirect := func(ctx context.Context, u string) (string, int, error) {
		return utils.ResolveRedirect(ctx, client, u)
	}

	breach := providers.NewBreachClient(cfg.HIBPAPIKey, client, obs)
	ipReputation := providers.NewIPReputationClient(cfg.AbuseIPDBAPIKey, client, geo, obs)
	whois := providers.NewWhoisClient(cfg.WhoisAPIKey, client, domain.NewWhoisClient(cfg.UpstreamTimeout), obs)
	site := providers.NewSiteSecurityScanner(providers.SiteSecurityConfig{
		HTTPClient:   client,
		DNS:          utils.NewDNSProbe(dnsServer),
		Certificate:  domain.InspectCertificate,
		Redirects:    resolveRedirect,
		Technologies: utils.NewStackAnalyzer(client),
		Observer:     app.Metrics,
	})
	aggregator := scan.NewAggregator(breach, whois, ipReputation, site, log)

	checker := breachcheck.NewService(verifier, breach, store, sender, breachcheck.Config{
		BaseURL:    cfg.BaseURL,
		BookingURL: cfg.BookingURL,
		Identity:   report.DefaultIdentity,
	}, log)

	app.LeadHandlers = handlers.NewLeadHandlers(checker, store, log)
	app.NetIntelHandlers = handlers.NewNetworkIntelligenceHandlers(ipReputation, whois, cfg.UpstreamTimeout, log)
	app.WebAnalysisHandlers = handlers.NewWebAnalysisHandlers(site, scanTimeout(cfg), log)
	app.ScanHandlers = handlers.NewScanHandlers(aggregator, verifier, scanTimeout(cfg), log)
	app.ReportHandlers = handlers.NewReportHandlers(report.DefaultIdentity, cfg.BookingURL, log)
	app.HealthHandler = handlers.NewHealthHandler()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	app.Router = gin.New()
	app.Router.HandleMethodNotAllowed = true
	app.Router.Use(gin.Recovery(), handlers.RequestLogger(log), app.Metrics.Middleware())
	app.setupRoutes()
	return app, nil
}

// scanTimeout leaves room for the sequential calls of a site security scan.
func scanTimeout(cfg config.Config) time.Duration {
	return 3 * cfg.UpstreamTimeout
}

func (app *App) openLeadStore(ctx context.Context, cfg config.Config, client *http.Client) (leads.Store, error) {
	switch cfg.LeadStore {
	case config.LeadStoreAirtable:
		return leads.NewAirtableStore(cfg.AirtableAPIKey, cfg.AirtableBaseID, cfg.AirtableTable, client), nil
	case config.LeadStorePostgres:
		pg, err := leads.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open lead store: %w", err)
		}
		app.closers = append(app.closers, func() error { pg.Close(); return nil })
		return pg, nil
	default:
		app.log.Warn("using in-memory lead store; leads are lost on restart")
		return leads.NewMemoryStore(), nil
	}
}

// setupRoutes defines all the application routes
func (app *App) setupRoutes() {
	r := app.Router
	r.NoMethod(handlers.MethodNotAllowed)
	r.NoRoute(handlers.NotFound)

	r.GET("/health", app.HealthHandler.HealthCheckHandler)
	r.GET("/metrics", gin.WrapH(app.Metrics.Handler()))

	r.POST("/check-breach", app.LeadHandlers.CheckBreachHandler)
	r.GET("/leads", app.LeadHandlers.ListLeadsHandler)
	r.POST("/breach-report", app.ReportHandlers.BreachReportHandler)

	r.POST("/ip-reputation", app.NetIntelHandlers.IPReputationHandler)
	r.POST("/whois-lookup", app.NetIntelHandlers.WhoisLookupHandler)
	r.POST("/site-security-scan", app.WebAnalysisHandlers.SiteSecurityScanHandler)
	r.POST("/scan", app.ScanHandlers.ScanHandler)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests.
func (app *App) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.log.Info("API server starting", logger.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	app.log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Close releases databases held by the app.
func (app *App) Close() {
	for _, c := range app.closers {
		if err := c(); err != nil {
			app.log.Warn("close failed", logger.Error(err))
		}
	}
	app.closers = nil
}
