package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var (
	BIND_ADDRESS    = "0.0.0.0:5000"
	TLS_DOMAINS     = "" // e.g. "example.com,example2.com"
	MYSQL_DSN       = "" // MySQL will be used if this is set
	POSTGRES_DSN    = "" // Postgres will be used if this is set and MYSQL_DSN is not
	SQLITE_FILE     = "openings.db"
	UPLOAD_DIR      = "uploads"
	S3_BUCKET       = "" // Images go to S3 instead of UPLOAD_DIR if this is set
	S3_REGION       = "us-east-1"
	S3_ENDPOINT     = "" // For S3 compatible services (MinIO, etc)
	S3_KEY          = ""
	S3_SECRET       = ""
	S3_PREFIX       = "uploads"
	ADMIN_PASSWORD  = "" // Empty disables guest admin mode
	SESSION_SECRET  = "" // A random one is generated when empty, sessions do not survive restarts then
	SESSION_MAX_AGE = 30 * 86400
	CORS_ORIGINS    = "http://localhost:5173,http://127.0.0.1:5173"
	MAX_UPLOAD_MB   = 16
	DEBUG_MODE      = true
)

// Load reads an optional .env file and then overrides the defaults from the environment
func Load() {
	_ = godotenv.Load()

	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("POSTGRES_DSN", &POSTGRES_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("UPLOAD_DIR", &UPLOAD_DIR)
	readEnvString("S3_BUCKET", &S3_BUCKET)
	readEnvString("S3_REGION", &S3_REGION)
	readEnvString("S3_ENDPOINT", &S3_ENDPOINT)
	readEnvString("S3_KEY", &S3_KEY)
	readEnvString("S3_SECRET", &S3_SECRET)
	readEnvString("S3_PREFIX", &S3_PREFIX)
	readEnvString("ADMIN_PASSWORD", &ADMIN_PASSWORD)
	readEnvString("SESSION_SECRET", &SESSION_SECRET)
	readEnvInt("SESSION_MAX_AGE", &SESSION_MAX_AGE)
	readEnvString("CORS_ORIGINS", &CORS_ORIGINS)
	readEnvInt("MAX_UPLOAD_MB", &MAX_UPLOAD_MB)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
}

func CorsOrigins() []string {
	result := []string{}
	for _, origin := range strings.Split(CORS_ORIGINS, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			result = append(result, origin)
		}
	}
	return result
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}

func readEnvInt(name string, value *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*value = f
}
