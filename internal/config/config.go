package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Store    StoreConfig
	Document DocumentConfig
	Palette  PaletteConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	StreamLogFilePath  string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	// JwtSecret enables bearer auth on /api when non-empty.
	JwtSecret string
}

type StoreConfig struct {
	Driver     string // memory, sqlite, redis, postgres
	SqlitePath string
	Connection string
	KeyPrefix  string
}

type DocumentConfig struct {
	AutosaveKey        string
	AutosaveInterval   time.Duration
	FetchTimeout       time.Duration
	SaveTimeout        time.Duration
	MaxBackgroundBytes int
	MaxBackgroundPixel int
	DefaultEmojiSize   int
}

type PaletteConfig struct {
	StoreName string
	SeedFile  string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			StreamLogFilePath:  getEnv("STREAM_LOG_FILE_PATH", "stream.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			JwtSecret:          getEnv("JWT_SECRET", ""),
		},
		Store: StoreConfig{
			Driver:     getEnv("STORE_DRIVER", "sqlite"),
			SqlitePath: getEnv("STORE_SQLITE_PATH", "data/emojiart.db"),
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			KeyPrefix:  getEnv("STORE_KEY_PREFIX", "emojiart:"),
		},
		Document: DocumentConfig{
			AutosaveKey:        getEnv("AUTOSAVE_KEY", "Autosave.emojiart"),
			AutosaveInterval:   getEnvAsDuration("AUTOSAVE_INTERVAL", 5*time.Second),
			FetchTimeout:       getEnvAsDuration("BACKGROUND_FETCH_TIMEOUT", 30*time.Second),
			SaveTimeout:        getEnvAsDuration("AUTOSAVE_WRITE_TIMEOUT", 10*time.Second),
			MaxBackgroundBytes: getEnvAsInt("BACKGROUND_MAX_BYTES", 10*1024*1024),
			MaxBackgroundPixel: getEnvAsInt("BACKGROUND_MAX_PIXELS", 64*1024*1024),
			DefaultEmojiSize:   getEnvAsInt("DEFAULT_EMOJI_SIZE", 40),
		},
		Palette: PaletteConfig{
			StoreName: getEnv("PALETTE_STORE_NAME", "Default"),
			SeedFile:  getEnv("PALETTE_SEED_FILE", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil && value > 0 {
		return value
	}
	return fallback
}
