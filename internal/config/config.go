package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tmsiti/tmsiti-backend/internal/models"
)

type Config struct {
	PORT        string
	DB_HOST     string
	DB_PORT     string
	DB_USER     string
	DB_PASSWORD string
	DB_NAME     string

	ES_URL      string
	ES_USER     string
	ES_PASSWORD string

	KAFKA_ADDRESS string

	SECRET_KEY  string
	AccessTTL   time.Duration
	RefreshTTL  time.Duration
	MaxFileSize int64
	UPLOAD_DIR  string

	DEFAULT_LANG string
	CORS_ORIGINS []string
	LOG_LEVEL    string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		PORT:        getEnv("PORT", "8080"),
		DB_HOST:     os.Getenv("DB_HOST"),
		DB_PORT:     os.Getenv("DB_PORT"),
		DB_USER:     os.Getenv("DB_USER"),
		DB_PASSWORD: os.Getenv("DB_PASSWORD"),
		DB_NAME:     os.Getenv("DB_NAME"),

		ES_URL:      os.Getenv("ES_URL"),
		ES_USER:     os.Getenv("ES_USER"),
		ES_PASSWORD: os.Getenv("ES_PASSWORD"),

		KAFKA_ADDRESS: os.Getenv("KAFKA_ADDRESS"),

		SECRET_KEY:  os.Getenv("SECRET_KEY"),
		AccessTTL:   time.Duration(getEnvInt("ACCESS_TTL_MIN", 30)) * time.Minute,
		RefreshTTL:  time.Duration(getEnvInt("REFRESH_TTL_HOURS", 7*24)) * time.Hour,
		MaxFileSize: int64(getEnvInt("MAX_FILE_SIZE", 10*1024*1024)),
		UPLOAD_DIR:  getEnv("UPLOAD_DIR", "static/uploads"),

		DEFAULT_LANG: getEnv("DEFAULT_LANG", "uz"),
		CORS_ORIGINS: splitList(getEnv("CORS_ORIGINS", "*")),
		LOG_LEVEL:    getEnv("LOG_LEVEL", "info"),
	}

	if config.SECRET_KEY == "" {
		return nil, fmt.Errorf("SECRET_KEY is not set")
	}

	return config, nil
}

func InitDB(configuration *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		configuration.DB_USER,
		configuration.DB_PASSWORD,
		configuration.DB_HOST,
		configuration.DB_PORT,
		configuration.DB_NAME,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.News{},
		&models.Announcement{},
		&models.Law{},
		&models.UrbanNorm{},
		&models.Standard{},
		&models.BuildingRegulation{},
		&models.SmetaResourceNorm{},
		&models.Reference{},
		&models.InstitutePage{},
		&models.Contact{},
	)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("Notice: invalid value for %s, using default %d", key, def)
	}
	return def
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
