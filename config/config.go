package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config stores the application configuration. Values come from the
// environment (optionally seeded from a .env file) with sensible defaults.
type Config struct {
	// Library scanning
	MusicRoots      []string // directories to scan for audio files
	AudioExtensions []string // lower-case extensions treated as audio
	ScanWorkers     int      // worker cap; effective count is min(ScanWorkers, NumCPU)
	ScanQueueSize   int      // bounded folder-job queue size
	ScanCachePath   string   // JSON folder->mtime cache for incremental scans

	// Matching thresholds. The duplicate-suppression and dedup-grouping
	// thresholds are intentionally independent.
	AlbumMatchThreshold     int // fuzzy score needed to pair local/remote albums
	DuplicateTitleThreshold int // normalized-ratio cutoff for suppressing remote duplicates
	DedupGroupThreshold     int // similarity cutoff for grouping missing-album candidates

	// Deezer API
	DeezerBaseURL    string
	DeezerTimeoutSec int

	// Result files written by the CLI
	ScanResultPath    string
	CompareResultPath string

	// HTTP server
	ServerAddr string

	// MySQL (server mode persistence)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Redis (optional catalog response cache)
	RedisEnabled  bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisTTLMin   int

	// MinIO (optional report archival)
	MinioEnabled   bool
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	// Logging
	LogLevel string
	LogPath  string
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool gets an environment variable as bool or returns a default value.
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvList splits a comma-separated environment variable, trimming blanks.
func getEnvList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

// defaultExtensions is the stock audio allow-list; override via AUDIO_EXTENSIONS.
var defaultExtensions = []string{
	".mp3", ".flac", ".m4a", ".ogg", ".wav", ".aac",
	".wma", ".opus", ".alac", ".ape", ".wv",
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() will not override variables already set in the environment.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on existing environment variables and defaults.")
	}

	dataDir := getEnv("DATA_DIR", "data")

	return &Config{
		MusicRoots:      getEnvList("MUSIC_ROOTS", nil),
		AudioExtensions: getEnvList("AUDIO_EXTENSIONS", defaultExtensions),
		ScanWorkers:     getEnvInt("SCAN_WORKERS", 8),
		ScanQueueSize:   getEnvInt("SCAN_QUEUE_SIZE", 256),
		ScanCachePath:   getEnv("SCAN_CACHE_PATH", filepath.Join(dataDir, "scan_cache.json")),

		AlbumMatchThreshold:     getEnvInt("ALBUM_MATCH_THRESHOLD", 70),
		DuplicateTitleThreshold: getEnvInt("DUPLICATE_TITLE_THRESHOLD", 90),
		DedupGroupThreshold:     getEnvInt("DEDUP_GROUP_THRESHOLD", 85),

		DeezerBaseURL:    getEnv("DEEZER_BASE_URL", "https://api.deezer.com"),
		DeezerTimeoutSec: getEnvInt("DEEZER_TIMEOUT_SEC", 15),

		ScanResultPath:    getEnv("SCAN_RESULT_PATH", filepath.Join(dataDir, "local_albums.json")),
		CompareResultPath: getEnv("COMPARE_RESULT_PATH", filepath.Join(dataDir, "comparison.json")),

		ServerAddr: getEnv("SERVER_ADDR", ":8080"),

		DBHost:     getEnv("DB_HOST", "127.0.0.1"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "albumgap"),

		RedisEnabled:  getEnvBool("REDIS_ENABLED", false),
		RedisHost:     getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisTTLMin:   getEnvInt("REDIS_TTL_MIN", 1440),

		MinioEnabled:   getEnvBool("MINIO_ENABLED", false),
		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "127.0.0.1:9000"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getEnv("MINIO_BUCKET", "albumgap"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogPath:  getEnv("LOG_PATH", ""),
	}
}
