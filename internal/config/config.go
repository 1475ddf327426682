package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values. Each field corresponds to an
// environment variable. Secrets and identifiers are strings, tunables are ints.
type Config struct {
	Env        string // application environment (e.g. "dev", "prod")
	Port       string // HTTP port to listen on
	DBUser     string // database username
	DBPass     string // database password (optional)
	DBHost     string // database host address
	DBPort     string // database port number
	DBName     string // database name
	JWTSecret  string // secret used to sign JWTs
	BcryptCost int    // bcrypt cost for password hashing

	Storage StorageConfig // object storage (S3-compatible) settings

	PredictURL string // image-classification service endpoint for /api/predict
}

// StorageConfig carries the credentials and addressing for the S3-compatible
// bucket that holds profile pictures and catalog images. PublicBaseURL is the
// externally reachable prefix under which uploaded objects can be fetched; if
// unset it is derived from the endpoint and bucket.
type StorageConfig struct {
	Endpoint      string
	Region        string
	KeyID         string
	AccessKey     string
	Bucket        string
	PublicBaseURL string
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must(); missing values cause the
// program to exit with a fatal log message.
func Load() Config {
	storage := StorageConfig{
		Endpoint:      must("S3_ENDPOINT"),
		Region:        must("S3_REGION"),
		KeyID:         must("S3_KEY_ID"),
		AccessKey:     must("S3_ACCESS_KEY"),
		Bucket:        must("S3_BUCKET"),
		PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),
	}
	if storage.PublicBaseURL == "" {
		storage.PublicBaseURL = storage.Endpoint + "/" + storage.Bucket
	}
	return Config{
		Env:        must("APP_ENV"),
		Port:       must("APP_PORT"),
		DBUser:     must("DB_USER"),
		DBPass:     os.Getenv("DB_PASS"), // empty allowed
		DBHost:     must("DB_HOST"),
		DBPort:     must("DB_PORT"),
		DBName:     must("DB_NAME"),
		JWTSecret:  must("JWT_SECRET"),
		BcryptCost: mustInt("BCRYPT_COST"),
		Storage:    storage,
		PredictURL: getenv("PREDICT_API_URL", "https://artefacto-749281711221.asia-southeast2.run.app/predict"),
	}
}

// must retrieves the value of a required environment variable. If the variable
// is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
