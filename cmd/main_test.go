package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbilibin2017/gw-currency-converter/internal/models"
)

// resetFlags resets the global flag.CommandLine to avoid "flag redefined" panic
func resetFlags() {
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
}

// resetEnv clears env vars used by parseConfig
func resetEnv() {
	os.Clearenv()
}

func TestParseFlags_Default(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd"}
	assert.Equal(t, "config.env", parseFlags())
}

func TestParseFlags_Custom(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd", "-c", "myconfig.env"}
	assert.Equal(t, "myconfig.env", parseFlags())
}

func TestPrintBuildInfo_Output(t *testing.T) {
	// Capture stdout
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	buildVersion = "v1.0.0"
	buildCommit = "abcd1234"
	buildDate = "2025-09-26"

	printBuildInfo()

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout

	output := buf.String()
	assert.Contains(t, output, "Version: v1.0.0")
	assert.Contains(t, output, "Commit: abcd1234")
	assert.Contains(t, output, "Build: 2025-09-26")
}

func TestParseConfig_Defaults(t *testing.T) {
	resetEnv()

	cfg, err := parseConfig("nonexistent.env")
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.appHost)
	assert.Equal(t, "8080", cfg.appPort)
	assert.Equal(t, "info", cfg.logLevel)
	assert.Equal(t, "America/Sao_Paulo", cfg.timezone)

	assert.Equal(t, "https://economia.awesomeapi.com.br/json/all/USD-BRL,EUR-BRL,BTC-BRL", cfg.ratesURL)
	assert.Equal(t, 10*time.Second, cfg.ratesHTTPTimeout)
	assert.Equal(t, time.Duration(0), cfg.ratesRefresh)

	assert.Equal(t, 500*time.Millisecond, cfg.debounce)
	assert.Equal(t, 999999999.0, cfg.maxAmount)
	assert.Empty(t, cfg.currencyDigits)

	assert.Equal(t, "", cfg.redisHost)
	assert.Equal(t, 6379, cfg.redisPort)
	assert.Equal(t, 0, cfg.redisDB)
	assert.Equal(t, time.Duration(0), cfg.redisExp)

	assert.Nil(t, cfg.kafkaBrokers)
	assert.Equal(t, "rates.updated", cfg.kafkaTopic)
}

func TestParseConfig_CustomEnv(t *testing.T) {
	resetEnv()
	os.Setenv("APP_HOST", "127.0.0.1")
	os.Setenv("APP_PORT", "9090")
	os.Setenv("APP_LOG_LEVEL", "debug")
	os.Setenv("APP_TIMEZONE", "UTC")

	os.Setenv("RATES_URL", "http://quotes.local/json")
	os.Setenv("RATES_HTTP_TIMEOUT_SECOND", "3")
	os.Setenv("RATES_REFRESH_SECOND", "60")

	os.Setenv("DEBOUNCE_MILLISECOND", "250")
	os.Setenv("MAX_CONVERSION_AMOUNT", "0")
	os.Setenv("CURRENCY_DECIMALS", "btc:6, USD:3")

	os.Setenv("REDIS_HOST", "redis.example.com")
	os.Setenv("REDIS_PORT", "6380")
	os.Setenv("REDIS_DB", "2")
	os.Setenv("REDIS_PASSWORD", "redispass")
	os.Setenv("REDIS_EXP_SECOND", "120")

	os.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	os.Setenv("KAFKA_TOPIC", "quotes")

	cfg, err := parseConfig("nonexistent.env")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.appHost)
	assert.Equal(t, "9090", cfg.appPort)
	assert.Equal(t, "debug", cfg.logLevel)
	assert.Equal(t, "UTC", cfg.timezone)

	assert.Equal(t, "http://quotes.local/json", cfg.ratesURL)
	assert.Equal(t, 3*time.Second, cfg.ratesHTTPTimeout)
	assert.Equal(t, time.Minute, cfg.ratesRefresh)

	assert.Equal(t, 250*time.Millisecond, cfg.debounce)
	assert.Equal(t, 0.0, cfg.maxAmount)
	assert.Equal(t, map[string]int{"BTC": 6, "USD": 3}, cfg.currencyDigits)

	assert.Equal(t, "redis.example.com", cfg.redisHost)
	assert.Equal(t, 6380, cfg.redisPort)
	assert.Equal(t, 2, cfg.redisDB)
	assert.Equal(t, "redispass", cfg.redisPassword)
	assert.Equal(t, 2*time.Minute, cfg.redisExp)

	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.kafkaBrokers)
	assert.Equal(t, "quotes", cfg.kafkaTopic)
}

func TestParseConfig_FromFile(t *testing.T) {
	resetEnv()

	path := t.TempDir() + "/config.env"
	require.NoError(t, os.WriteFile(path, []byte("APP_PORT=7070\nDEBOUNCE_MILLISECOND=100\n"), 0o600))

	cfg, err := parseConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.appPort)
	assert.Equal(t, 100*time.Millisecond, cfg.debounce)
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"RATES_HTTP_TIMEOUT_SECOND", "ten"},
		{"RATES_REFRESH_SECOND", "1.5"},
		{"DEBOUNCE_MILLISECOND", "fast"},
		{"MAX_CONVERSION_AMOUNT", "lots"},
		{"CURRENCY_DECIMALS", "BTC"},
		{"CURRENCY_DECIMALS", "BTC:-1"},
		{"REDIS_PORT", "redis"},
		{"REDIS_DB", "x"},
		{"REDIS_EXP_SECOND", "never"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			resetEnv()
			os.Setenv(tt.key, tt.value)

			_, err := parseConfig("nonexistent.env")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

const quotesBody = `{
	"USD": {"code": "USD", "codein": "BRL", "ask": "5.00"},
	"EUR": {"code": "EUR", "codein": "BRL", "ask": "5.50"},
	"BTC": {"code": "BTC", "codein": "BRL", "ask": "300000.00"}
}`

func freePort(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return strconv.Itoa(l.Addr().(*net.TCPAddr).Port)
}

func testConfig(t *testing.T, quotesURL string) config {
	return config{
		appHost:          "127.0.0.1",
		appPort:          freePort(t),
		logLevel:         "error",
		timezone:         "America/Sao_Paulo",
		ratesURL:         quotesURL,
		ratesHTTPTimeout: time.Second,
		ratesRefresh:     50 * time.Millisecond,
		debounce:         10 * time.Millisecond,
		maxAmount:        999999999,
		currencyDigits:   map[string]int{"BTC": 8},
		redisPort:        6379,
		kafkaTopic:       "rates.updated",
	}
}

func TestRun_Success(t *testing.T) {
	quotes := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(quotesBody))
	}))
	defer quotes.Close()

	cfg := testConfig(t, quotes.URL)
	base := "http://" + net.JoinHostPort(cfg.appHost, cfg.appPort) + "/api/v1"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- run(ctx, cfg) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/rates")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		var rates models.RatesResponse
		return resp.StatusCode == http.StatusOK &&
			json.NewDecoder(resp.Body).Decode(&rates) == nil &&
			rates.Available
	}, 5*time.Second, 20*time.Millisecond)

	resp, err := http.Post(base+"/view/submit", "application/json", strings.NewReader(`{"field": "BRL", "value": "100"}`))
	require.NoError(t, err)
	var view models.View
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "20,00", view.Fields[models.USD])
	assert.Equal(t, "Cotação: R$ 5,00", view.RateLabels[models.USD])
	assert.Contains(t, view.Summary, "Dólar: R$ 5,00")

	resp, err = http.Post(base+"/convert", "application/json", strings.NewReader(`{"amount": 1, "direction": "to_base", "currency": "BTC"}`))
	require.NoError(t, err)
	var conv models.ConvertResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&conv))
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "R$ 300.000,00", conv.Formatted[models.BRL])

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("run did not stop")
	}
}

func TestRun_UpstreamDown(t *testing.T) {
	quotes := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer quotes.Close()

	cfg := testConfig(t, quotes.URL)
	cfg.ratesRefresh = 0
	base := "http://" + net.JoinHostPort(cfg.appHost, cfg.appPort) + "/api/v1"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- run(ctx, cfg) }()

	var view models.View
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/view")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK && json.NewDecoder(resp.Body).Decode(&view) == nil
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, "Não foi possível carregar as cotações. Tente novamente mais tarde.", view.Error)
	assert.False(t, view.Loading)

	resp, err := http.Post(base+"/rates/refresh", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("run did not stop")
	}
}

func TestRun_RedisUnreachable(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.redisHost = "127.0.0.1"
	cfg.redisPort = 1

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := run(ctx, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis connection error")
}

func TestRun_InvalidLogLevel(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.logLevel = "loud"

	assert.Error(t, run(context.Background(), cfg))
}
