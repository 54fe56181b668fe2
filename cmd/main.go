package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/ijalalfrz/business-travel-service/internal/app/config"
	"github.com/ijalalfrz/business-travel-service/internal/app/dto"
	"github.com/ijalalfrz/business-travel-service/internal/app/endpoints"
	"github.com/ijalalfrz/business-travel-service/internal/app/service"
	"github.com/ijalalfrz/business-travel-service/internal/app/transport"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/anthropic"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/enrichment"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/flight"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/flightprovider"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/flightprovider/airlabs"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/flightprovider/duffel"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/intent"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/logger"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/mem0"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/ocrspace"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/places"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/ratelimit"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/store"
	"github.com/ijalalfrz/business-travel-service/internal/pkg/tools"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// @title           Business Travel Service API
// @version         0.0.1
// @description     business-travel-service
// @host      localhost:8080
// @BasePath  /
func main() {
	cfg := config.MustInitConfig(".env")
	logger.InitStructuredLogger(cfg.LogLevel, cfg.IsDevelopment())

	slog.Debug("config loaded successfully", slog.String("environment", cfg.Environment))
	runApp(cfg)
}

func runApp(cfg config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slog.InfoContext(ctx, "starting...", slog.String("log_level", string(cfg.LogLevel)))

	var waitGroup sync.WaitGroup
	// Starts the server in a go routine
	waitGroup.Add(1)
	go func() {
		defer waitGroup.Done()
		startHTTPServer(ctx, cfg)
	}()

	sigChannel := make(chan os.Signal, 1)
	signal.Notify(sigChannel, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case sig := <-sigChannel:
		cancel()
		slog.InfoContext(ctx, "received OS signal. Exiting...", slog.String("signal", sig.String()))
	case <-ctx.Done():
		slog.ErrorContext(ctx, "failed to start HTTP server")
	}

	waitGroup.Wait()
	slog.InfoContext(ctx, "All service closed...")
}

func startHTTPServer(ctx context.Context, cfg config.Config) {
	deps := mustInitDependencies(ctx, &cfg)
	defer deps.close()

	endpts := makeEndpoints(&cfg, deps)
	router := transport.MakeHTTPRouter(&cfg, endpts, deps.limiter)
	server := &http.Server{
		Handler:      router,
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		WriteTimeout: cfg.HTTP.Timeout,
		ReadTimeout:  cfg.HTTP.Timeout,
	}

	slog.Info("running HTTP server...", slog.Int("port", cfg.HTTP.Port))

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "failed to start HTTP server", slog.String("error", err.Error()))
		}
	}()

	<-ctx.Done()

	if err := server.Shutdown(context.WithoutCancel(ctx)); err != nil {
		slog.ErrorContext(ctx, "failed to shutdown HTTP server", slog.String("error", err.Error()))
	}

	slog.InfoContext(ctx, "HTTP server shutdown gracefully")
}

type dependencies struct {
	redis        *redis.Client
	db           *sqlx.DB
	limiter      ratelimit.Limiter
	airlineCache *enrichment.BadgerAirlineCache
}

func (d dependencies) close() {
	if d.airlineCache != nil {
		if err := d.airlineCache.Close(); err != nil {
			slog.Error("failed to close airline cache", slog.String("error", err.Error()))
		}
	}

	if d.db != nil {
		if err := d.db.Close(); err != nil {
			slog.Error("failed to close database", slog.String("error", err.Error()))
		}
	}

	if err := d.redis.Close(); err != nil {
		slog.Error("failed to close redis", slog.String("error", err.Error()))
	}
}

func mustInitDependencies(ctx context.Context, cfg *config.Config) dependencies {
	// init validator
	if err := dto.InitValidator(); err != nil {
		slog.ErrorContext(ctx, "failed to init validator", slog.String("error", err.Error()))
		panic(err)
	}

	// init redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  cfg.Redis.Timeout,
		ReadTimeout:  cfg.Redis.Timeout,
		WriteTimeout: cfg.Redis.Timeout,
	})

	deps := dependencies{
		redis: redisClient,
		// redis outages fall back to per instance buckets
		limiter: ratelimit.Fallback{
			Primary:   ratelimit.NewRedisLimiter(redisClient),
			Secondary: ratelimit.NewLocalLimiter(),
		},
	}

	airlineCache, err := enrichment.NewBadgerAirlineCache(cfg.AirlineCache.TTL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to open airline cache", slog.String("error", err.Error()))
		panic(err)
	}

	deps.airlineCache = airlineCache

	if cfg.DB.DSN == "" {
		slog.WarnContext(ctx, "DB_DSN not set, conversation log, subscriptions and expenses are disabled")

		return deps
	}

	db, err := store.Connect(ctx, store.Config{
		DSN:                   cfg.DB.DSN,
		MaxOpenConnections:    cfg.DB.MaxOpenConnections,
		MaxIdleConnections:    cfg.DB.MaxIdleConnections,
		MaxConnectionLifetime: cfg.DB.MaxConnectionLifetime,
		MaxConnectionIdleTime: cfg.DB.MaxConnectionIdleTime,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", slog.String("error", err.Error()))
		panic(err)
	}

	deps.db = db

	return deps
}

func makeEndpoints(cfg *config.Config, deps dependencies) endpoints.Endpoints {
	// vendors
	duffelProvider := duffel.NewProvider(flightprovider.FlightProviderConfig{
		BaseURL:      cfg.Duffel.BaseURL,
		Token:        cfg.Duffel.Token(),
		Version:      cfg.Duffel.Version,
		Timeout:      cfg.Duffel.Timeout,
		RateLimitRPS: cfg.Duffel.RateLimitRPS,
		Limiter:      deps.limiter,
	})

	var placeFallback flightprovider.PlaceProvider
	if cfg.AirLabs.APIKey != "" {
		placeFallback = airlabs.NewProvider(flightprovider.FlightProviderConfig{
			BaseURL: cfg.AirLabs.BaseURL,
			Token:   cfg.AirLabs.APIKey,
			Timeout: cfg.AirLabs.Timeout,
		})
	}

	llm := anthropic.NewClient(anthropic.Config{
		BaseURL:   cfg.Anthropic.BaseURL,
		APIKey:    cfg.Anthropic.APIKey,
		Model:     cfg.Anthropic.Model,
		MaxTokens: cfg.Anthropic.MaxTokens,
		Timeout:   cfg.Anthropic.Timeout,
	})

	memory := mem0.NewClient(mem0.Config{
		BaseURL: cfg.Mem0.BaseURL,
		APIKey:  cfg.Mem0.APIKey,
		Timeout: cfg.Mem0.Timeout,
	})

	ocr := ocrspace.NewClient(ocrspace.Config{
		BaseURL: cfg.OCR.BaseURL,
		APIKey:  cfg.OCR.APIKey,
		Timeout: cfg.OCR.Timeout,
	})

	// storage, left as nil interfaces when no database is configured
	var (
		chatLog            service.ChatLogger
		chatHistory        service.HistoryReader
		subscriptionStore  service.SubscriptionStore
		subscriptionFinder service.SubscriptionFinder
		expenses           service.ExpenseReader
	)

	if deps.db != nil {
		subscriptions := store.NewSubscriptionRepository(deps.db)

		chatLogRepository := store.NewChatLogRepository(deps.db)

		chatLog = chatLogRepository
		chatHistory = chatLogRepository
		subscriptionStore = subscriptions
		subscriptionFinder = subscriptions
		expenses = store.NewExpenseRepository(deps.db)
	}

	// services
	enricher := enrichment.NewEnricher(deps.airlineCache, duffelProvider, cfg.AirlineCache.FetchConcurrency)
	offerService := service.NewOfferService(duffelProvider, flight.NewSearchCache(deps.redis), enricher,
		cfg.Duffel.SearchCacheExpiration, cfg.Duffel.LockTimeout, cfg.Duffel.MaxOffers)
	placeService := service.NewPlaceService(places.NewResolver(duffelProvider, placeFallback))
	chatService := service.NewChatService(intent.NewClassifier(nil),
		tools.NewHTTPInvoker(cfg.Tools.BaseURL, cfg.Tools.Timeout), llm, memory, chatLog)
	chatService.History = chatHistory
	toolService := service.NewToolService(offerService, llm, expenses)
	documentService := service.NewDocumentService(ocr, cfg.OCR.MaxUploadBytes)
	policyService := service.NewPolicyService(subscriptionFinder)
	billingService := service.NewBillingService(subscriptionStore, cfg.Stripe.WebhookSecret)

	// endpoints
	return endpoints.Endpoints{
		Offer:    endpoints.MakeOfferEndpoint(offerService),
		Place:    endpoints.MakePlaceEndpoint(placeService),
		Chat:     endpoints.MakeChatEndpoint(chatService),
		Policy:   endpoints.MakePolicyEndpoint(policyService),
		Billing:  endpoints.MakeBillingEndpoint(billingService),
		Document: endpoints.MakeDocumentEndpoint(documentService),
		Tool:     endpoints.MakeToolEndpoint(toolService),
	}
}
