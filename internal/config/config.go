package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string
	LogLevel   string

	StorageBackend string
	StoragePath    string
	SQLitePath     string
	SnapshotKey    string
	BlobDir        string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisAddr     string
	RedisPassword string

	BaseURL        string
	JWTSecret      string
	JWTExpiryHours int

	DedupWindow     time.Duration
	DeadlineWarning time.Duration
	SweepInterval   time.Duration
	SeedDemo        bool
	HashPasswords   bool
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		StorageBackend: getEnv("STORAGE_BACKEND", "file"),
		StoragePath:    getEnv("STORAGE_PATH", "data"),
		SQLitePath:     getEnv("SQLITE_PATH", "data/taskboard.db"),
		SnapshotKey:    getEnv("SNAPSHOT_KEY", "taskboard-state"),
		BlobDir:        getEnv("BLOB_DIR", "data/blobs"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5431"),
		DBUser:     getEnv("DB_USER", "taskboard_user"),
		DBPassword: getEnv("DB_PASSWORD", "taskboard_pass"),
		DBName:     getEnv("DB_NAME", "taskboard_db"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		BaseURL:        getEnv("APP_BASE_URL", "http://localhost:5173/"),
		JWTSecret:      getEnv("JWT_SECRET", "supersecretkey"),
		JWTExpiryHours: getEnvInt("JWT_EXPIRY_HOURS", 24),

		DedupWindow:     getEnvDuration("NOTIFY_DEDUP_WINDOW", 0),
		DeadlineWarning: getEnvDuration("DEADLINE_WARNING", 24*time.Hour),
		SweepInterval:   getEnvDuration("DEADLINE_SWEEP_INTERVAL", 5*time.Minute),
		SeedDemo:        getEnvBool("SEED_DEMO", true),
		HashPasswords:   getEnvBool("HASH_PASSWORDS", false),
	}
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if v, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return v
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return v
	}
	return defaultVal
}
