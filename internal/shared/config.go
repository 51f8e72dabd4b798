package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	MongoURI string
	MongoDB  string

	RedisAddr string
	RedisDB   int
	RedisPass string

	SessionSecret string
	SessionStore  string // redis|mongo
	SessionTTL    time.Duration
	CacheTTL      time.Duration

	UploadDriver string // imagehost|s3
	UploadRPS    int
	MaxUploadMB  int64

	// ImageBaseURL prefixes stored image references when rendering.
	ImageBaseURL string

	ImageHostBase   string
	ImageHostCloud  string
	ImageHostKey    string
	ImageHostSecret string

	S3Bucket   string
	S3Region   string
	S3Key      string
	S3Secret   string
	S3Endpoint string

	SeedWorkers int
}

// Production reports whether error diagnostics must be hidden.
func (c Config) Production() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production"
}

func Load() Config {
	// .env is optional; real environment wins.
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),

		MongoURI: env("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  env("MONGO_DB", "lets_travel"),

		RedisAddr: env("REDIS_ADDR", "localhost:6379"),
		RedisPass: env("REDIS_PASSWORD", ""),
		RedisDB:   atoi("REDIS_DB", 0),

		SessionSecret: env("SESSION_SECRET", ""),
		SessionStore:  env("SESSION_STORE", "redis"),
		SessionTTL:    time.Duration(atoi("SESSION_TTL_SECONDS", 1209600)) * time.Second,
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,

		UploadDriver: env("UPLOAD_DRIVER", "imagehost"),
		UploadRPS:    atoi("UPLOAD_RPS", 5),
		MaxUploadMB:  int64(atoi("MAX_UPLOAD_MB", 10)),

		ImageBaseURL: env("IMAGE_BASE_URL", ""),

		ImageHostBase:   env("CLOUDINARY_URL_BASE", "https://api.cloudinary.com/v1_1"),
		ImageHostCloud:  env("CLOUDINARY_CLOUD_NAME", ""),
		ImageHostKey:    env("CLOUDINARY_API_KEY", ""),
		ImageHostSecret: env("CLOUDINARY_API_SECRET", ""),

		S3Bucket:   env("S3_BUCKET", ""),
		S3Region:   env("S3_REGION", "us-east-1"),
		S3Key:      env("S3_KEY", ""),
		S3Secret:   env("S3_SECRET", ""),
		S3Endpoint: env("S3_ENDPOINT", ""),

		SeedWorkers: atoi("SEED_WORKERS", 4),
	}
	if c.ImageBaseURL == "" {
		switch c.UploadDriver {
		case "s3":
			c.ImageBaseURL = "https://" + c.S3Bucket + ".s3." + c.S3Region + ".amazonaws.com"
		default:
			c.ImageBaseURL = "https://res.cloudinary.com/" + c.ImageHostCloud + "/image/upload"
		}
	}
	if c.SessionSecret == "" {
		log.Warn().Msg("SESSION_SECRET is empty")
	}
	if c.UploadDriver == "imagehost" && c.ImageHostKey == "" {
		log.Warn().Msg("CLOUDINARY_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
