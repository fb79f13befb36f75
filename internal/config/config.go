package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "secret"

type Config struct {
	Port         string
	AppEnv       string
	ServiceName  string
	LogLevel     string
	StoreBackend string // mongo | memory
	MongoURI     string
	MongoDB      string

	JWTSecret   string
	JWTExpire   time.Duration
	CookieName  string
	FrontendURL string

	MediaBackend        string // cloudinary | s3 | none
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	S3Region            string
	S3Endpoint          string
	S3AccessKey         string
	S3SecretKey         string
	S3Bucket            string
	S3PublicBaseURL     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	GoogleClientID string

	TraceExporter string // stdout | otlp | none
	OTLPEndpoint  string

	AuthRateLimit  int
	AuthRateWindow time.Duration
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found")
	}

	return &Config{
		Port:         getEnv("PORT", "8080"),
		AppEnv:       getEnv("APP_ENV", "development"),
		ServiceName:  getEnv("SERVICE_NAME", "bloghunt-api"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		StoreBackend: getEnv("STORE_BACKEND", "mongo"),
		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:      getEnv("MONGO_DB", "bloghunt"),

		JWTSecret:   getEnv("JWT_SECRET", defaultJWTSecret),
		JWTExpire:   time.Duration(getEnvInt("JWT_EXPIRE_HOURS", 24)) * time.Hour,
		CookieName:  getEnv("COOKIE_NAME", "token"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		MediaBackend:        getEnv("MEDIA_BACKEND", "cloudinary"),
		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		S3Region:            getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:          getEnv("S3_ENDPOINT", ""),
		S3AccessKey:         getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:         getEnv("S3_SECRET_KEY", ""),
		S3Bucket:            getEnv("S3_BUCKET", "bloghunt"),
		S3PublicBaseURL:     getEnv("S3_PUBLIC_BASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),

		TraceExporter: getEnv("OTEL_TRACES_EXPORTER", "none"),
		OTLPEndpoint:  getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),

		AuthRateLimit:  getEnvInt("AUTH_RATE_LIMIT", 20),
		AuthRateWindow: time.Duration(getEnvInt("AUTH_RATE_WINDOW_SECONDS", 60)) * time.Second,
	}
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Validate rejects settings that are unsafe to serve with.
func (c *Config) Validate() error {
	if c.IsProduction() && c.JWTSecret == defaultJWTSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	if c.JWTExpire <= 0 {
		return errors.New("JWT_EXPIRE_HOURS must be positive")
	}
	switch c.StoreBackend {
	case "mongo", "memory":
	default:
		return errors.New("STORE_BACKEND must be mongo or memory")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer for %s, using %d", key, defaultValue)
		return defaultValue
	}
	return n
}
