package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is built once in main and passed through the pipeline; no stage re-reads
// the environment mid-run.
type Config struct {
	Keyword string

	HTMLPath        string
	ParsedPath      string
	TransformedPath string
	InsertedPath    string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	PostgresTable    string

	LoadMoreClicks int
	ScrollPauseMs  int
	ClickPauseMs   int
	NavTimeoutSec  int

	ChromeBin string
	Debug     bool
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		Keyword: getEnv("KEYWORD", "wuling air ev"),

		HTMLPath:        getEnv("HTML_PATH", "./output/raw_page.html"),
		ParsedPath:      getEnv("PARSED_PATH", "./output/parsed_listings.csv"),
		TransformedPath: getEnv("TRANSFORMED_PATH", "./output/transformed_listings.csv"),
		InsertedPath:    getEnv("INSERTED_PATH", "./output/inserted_records.json"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "olx_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTable:    getEnv("POSTGRES_TABLE", "scrape_data"),

		LoadMoreClicks: getEnvInt("LOAD_MORE_CLICKS", 5),
		ScrollPauseMs:  getEnvInt("SCROLL_PAUSE_MS", 1000),
		ClickPauseMs:   getEnvInt("CLICK_PAUSE_MS", 1500),
		NavTimeoutSec:  getEnvInt("NAV_TIMEOUT_SEC", 60),

		ChromeBin: getEnv("CHROME_BIN", ""),
		Debug:     getEnvBool("DEBUG", false),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
