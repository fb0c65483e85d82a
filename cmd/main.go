package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/sbilibin2017/gw-currency-converter/internal/debounce"
	"github.com/sbilibin2017/gw-currency-converter/internal/facades"
	"github.com/sbilibin2017/gw-currency-converter/internal/handlers"
	"github.com/sbilibin2017/gw-currency-converter/internal/logger"
	"github.com/sbilibin2017/gw-currency-converter/internal/middlewares"
	"github.com/sbilibin2017/gw-currency-converter/internal/models"
	"github.com/sbilibin2017/gw-currency-converter/internal/repositories"
	"github.com/sbilibin2017/gw-currency-converter/internal/services"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// config holds every setting read by parseConfig.
type config struct {
	appHost  string
	appPort  string
	logLevel string
	timezone string

	ratesURL         string
	ratesHTTPTimeout time.Duration
	ratesRefresh     time.Duration

	debounce       time.Duration
	maxAmount      float64
	currencyDigits map[string]int

	redisHost     string
	redisPort     int
	redisDB       int
	redisPassword string
	redisExp      time.Duration

	kafkaBrokers []string
	kafkaTopic   string
}

// @title gw-currency-converter API
// @version 1.0.0
// @description Converts BRL into USD, EUR and BTC with live AwesomeAPI quotes
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Version: %s\n", buildVersion)
	fmt.Printf("Commit: %s\n", buildCommit)
	fmt.Printf("Build: %s\n", buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns
// the application, rate source, widget, Redis and Kafka configuration.
func parseConfig(path string) (cfg config, err error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}
	getInt := func(key, defaultValue string) (int, error) {
		v, err := strconv.Atoi(getEnv(key, defaultValue))
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return v, nil
	}

	// Application config
	cfg.appHost = getEnv("APP_HOST", "localhost")
	cfg.appPort = getEnv("APP_PORT", "8080")
	cfg.logLevel = getEnv("APP_LOG_LEVEL", "info")
	cfg.timezone = getEnv("APP_TIMEZONE", "America/Sao_Paulo")

	// Rate source config
	cfg.ratesURL = getEnv("RATES_URL", facades.DefaultAwesomeAPIURL)
	var n int
	if n, err = getInt("RATES_HTTP_TIMEOUT_SECOND", "10"); err != nil {
		return
	}
	cfg.ratesHTTPTimeout = time.Duration(n) * time.Second
	if n, err = getInt("RATES_REFRESH_SECOND", "0"); err != nil {
		return
	}
	cfg.ratesRefresh = time.Duration(n) * time.Second

	// Widget config
	if n, err = getInt("DEBOUNCE_MILLISECOND", "500"); err != nil {
		return
	}
	cfg.debounce = time.Duration(n) * time.Millisecond
	if cfg.maxAmount, err = strconv.ParseFloat(getEnv("MAX_CONVERSION_AMOUNT", "999999999"), 64); err != nil {
		err = fmt.Errorf("MAX_CONVERSION_AMOUNT: %w", err)
		return
	}
	if cfg.currencyDigits, err = parseDecimals(getEnv("CURRENCY_DECIMALS", "")); err != nil {
		return
	}

	// Redis config
	cfg.redisHost = getEnv("REDIS_HOST", "")
	if cfg.redisPort, err = getInt("REDIS_PORT", "6379"); err != nil {
		return
	}
	if cfg.redisDB, err = getInt("REDIS_DB", "0"); err != nil {
		return
	}
	cfg.redisPassword = getEnv("REDIS_PASSWORD", "")
	if n, err = getInt("REDIS_EXP_SECOND", "0"); err != nil {
		return
	}
	cfg.redisExp = time.Duration(n) * time.Second

	// Kafka config
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.kafkaBrokers = strings.Split(brokers, ",")
	}
	cfg.kafkaTopic = getEnv("KAFKA_TOPIC", "rates.updated")

	return
}

// parseDecimals parses "BTC:8,USD:2" into decimals per currency code.
func parseDecimals(s string) (map[string]int, error) {
	out := make(map[string]int)
	if strings.TrimSpace(s) == "" {
		return out, nil
	}
	for _, pair := range strings.Split(s, ",") {
		code, digits, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok || code == "" {
			return nil, fmt.Errorf("CURRENCY_DECIMALS: malformed entry %q", pair)
		}
		d, err := strconv.Atoi(digits)
		if err != nil || d < 0 {
			return nil, fmt.Errorf("CURRENCY_DECIMALS: bad decimals for %s: %q", code, digits)
		}
		out[strings.ToUpper(code)] = d
	}
	return out, nil
}

// run initializes the logger, rate store, Kafka writer, rate source and HTTP server.
// It sets up routes, applies middleware, and handles graceful shutdown.
func run(ctx context.Context, cfg config) error {
	// Initialize logger
	if err := logger.Initialize(cfg.logLevel, "service", "gw-currency-converter", "version", buildVersion); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.logLevel)

	loc, err := time.LoadLocation(cfg.timezone)
	if err != nil {
		logger.Log.Warnw("unknown timezone, using UTC", "timezone", cfg.timezone, "error", err)
		loc = time.UTC
	}

	specs := models.DefaultCurrencySpecs()
	for code, digits := range cfg.currencyDigits {
		spec, ok := specs[code]
		if !ok {
			spec = models.FallbackCurrencySpec(code)
		}
		spec.Decimals = digits
		specs[code] = spec
	}
	engine := services.NewConversionEngine(models.BaseCurrency, models.ForeignCurrencies, specs)

	// Rate store
	var store services.RateStore
	if cfg.redisHost == "" {
		logger.Log.Info("REDIS_HOST not set, keeping rates in memory")
		store = repositories.NewRateMemoryRepository()
	} else {
		rdb := redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.redisHost, strconv.Itoa(cfg.redisPort)),
			Password: cfg.redisPassword,
			DB:       cfg.redisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis connection error: %w", err)
		}
		store = repositories.NewRateRedisRepository(rdb, models.BaseCurrency, cfg.redisExp)
	}

	// Kafka writer
	var kafkaWriter services.KafkaWriter
	if len(cfg.kafkaBrokers) > 0 {
		w := &kafka.Writer{
			Addr:                   kafka.TCP(cfg.kafkaBrokers...),
			Topic:                  cfg.kafkaTopic,
			AllowAutoTopicCreation: true,
			RequiredAcks:           kafka.RequireOne,
			Balancer:               &kafka.Hash{},
		}
		defer func() {
			if err := w.Close(); err != nil {
				logger.Log.Errorw("failed to close kafka writer", "error", err)
			}
		}()
		kafkaWriter = w
	}

	// Rate source
	fetcher := facades.NewLoggingRateFetcher(
		logger.Log,
		facades.NewAwesomeAPIFacade(cfg.ratesURL, models.ForeignCurrencies, cfg.ratesHTTPTimeout),
	)

	// Initialize services
	rateService := services.NewRateService(fetcher, store, kafkaWriter, models.BaseCurrency, models.ForeignCurrencies)
	convertService := services.NewConvertService(engine, rateService, cfg.maxAmount)
	coalescer := debounce.New(cfg.debounce)
	viewService := services.NewViewService(rateService, engine, coalescer, cfg.maxAmount, loc)
	defer viewService.Stop()
	logger.Log.Infow("widget edits debounced", "window", coalescer.Window())

	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if _, err := viewService.Refresh(ctxShutdown); err != nil {
		logger.Log.Warnw("initial rate fetch failed, serving without rates", "error", err)
	}
	if cfg.ratesRefresh > 0 {
		go rateService.RefreshPeriodically(ctxShutdown, cfg.ratesRefresh)
	}

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))

	r.Route("/api/v1", func(r chi.Router) {
		handlers.RegisterRatesHandlers(r,
			handlers.NewGetRatesHandler(rateService, engine),
			handlers.NewRefreshRatesHandler(rateService, engine),
		)
		handlers.RegisterConvertHandler(r, handlers.NewConvertHandler(convertService))
		handlers.RegisterViewHandlers(r,
			handlers.NewGetViewHandler(viewService),
			handlers.NewRefreshViewHandler(viewService),
			handlers.NewViewInputHandler(viewService),
			handlers.NewViewSubmitHandler(viewService),
		)
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s/swagger/doc.json", net.JoinHostPort(cfg.appHost, cfg.appPort))),
	))

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.appHost, cfg.appPort),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)

	go func() {
		logger.Log.Infof("HTTP server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
