package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ProviderConfig holds the base URL and credentials for one upstream.
type ProviderConfig struct {
	BaseURL string
	APIKey  string
}

type AppConfig struct {
	OpenWeather     ProviderConfig
	NASAPower       ProviderConfig
	CarbonInterface ProviderConfig
	ClimateTrace    ProviderConfig
	WorldBank       ProviderConfig

	// HTTPTimeout bounds every outbound provider call.
	HTTPTimeout time.Duration

	// Outbound request throttling, applied per provider.
	RateLimitRPS   float64
	RateLimitBurst int

	// RefreshInterval controls how often overview snapshots are recomputed.
	RefreshInterval time.Duration

	// OverviewYears are the years the scheduler keeps warm.
	OverviewYears []int

	// In-memory store retention.
	StoreMaxHistory int           // max number of snapshots per year (0 = unlimited)
	StoreMaxAge     time.Duration // max age of snapshots (0 = unlimited)

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenWeather = ProviderConfig{
		BaseURL: getenvDefault("OPENWEATHER_API_BASE", "https://api.openweathermap.org/data/2.5"),
		APIKey:  os.Getenv("OPENWEATHER_API_KEY"),
	}
	cfg.NASAPower = ProviderConfig{
		BaseURL: getenvDefault("NASA_API_BASE", "https://power.larc.nasa.gov/api/temporal"),
		APIKey:  os.Getenv("NASA_API_KEY"),
	}
	cfg.CarbonInterface = ProviderConfig{
		BaseURL: getenvDefault("CARBON_INTERFACE_API_BASE", "https://www.carboninterface.com/api/v1"),
		APIKey:  os.Getenv("CARBON_INTERFACE_API_KEY"),
	}
	cfg.ClimateTrace = ProviderConfig{
		BaseURL: getenvDefault("CLIMATETRACE_API_BASE", "https://api.climatetrace.org/v6"),
	}
	cfg.WorldBank = ProviderConfig{
		BaseURL: getenvDefault("WORLD_BANK_API_BASE", "https://api.worldbank.org/v2"),
	}

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.RateLimitRPS = getenvFloat("RATE_LIMIT_RPS", 5)
	cfg.RateLimitBurst = getenvInt("RATE_LIMIT_BURST", 10)

	// Refresh interval: default hourly.
	intervalStr := getenvDefault("REFRESH_INTERVAL", "1h")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}
	cfg.RefreshInterval = interval

	years, err := loadOverviewYears()
	if err != nil {
		return nil, err
	}
	cfg.OverviewYears = years

	// Store retention.
	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 24) // roughly a day at hourly refreshes

	maxAgeStr := getenvDefault("STORE_MAX_AGE", "24h")
	maxAge, err := time.ParseDuration(maxAgeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_MAX_AGE: %w", err)
	}
	cfg.StoreMaxAge = maxAge
	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func loadOverviewYears() ([]int, error) {
	raw := getenvDefault("OVERVIEW_YEARS", "2022")
	var years []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		year, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid OVERVIEW_YEARS entry %q: %w", part, err)
		}
		years = append(years, year)
	}
	return years, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
