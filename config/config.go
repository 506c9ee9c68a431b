package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alriefqyd/gemba-api/storage"
)

func New() map[string]string {
	environ := os.Environ()
	envAsMap := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry != "" {
			key, value := split(entry)
			envAsMap[key] = value
		}
	}
	return envAsMap
}

// assumes entry is not the empty string
func split(entry string) (key, value string) {
	parts := strings.SplitN(entry, "=", 2)
	if len(parts) < 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func GetString(config map[string]string, key string, defaultValue string) string {
	if config == nil {
		return defaultValue
	}

	if val, ok := config[key]; ok {
		return val
	}
	return defaultValue
}

func GetInt(config map[string]string, key string, defaultValue int) int {
	if config == nil {
		return defaultValue
	}

	s, ok := config[key]
	if !ok {
		return defaultValue
	}

	asInt, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}

	return asInt
}

func GetBool(config map[string]string, key string, defaultValue bool) bool {
	if config == nil {
		return defaultValue
	}

	s, ok := config[key]
	if !ok {
		return defaultValue
	}

	asBool, err := strconv.ParseBool(s)
	if err != nil {
		return defaultValue
	}

	return asBool
}

// DatabaseDSN assembles the postgres connection string from DB_* variables.
func DatabaseDSN(config map[string]string) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		GetString(config, "DB_HOST", "localhost"),
		GetString(config, "DB_USER", "postgres"),
		GetString(config, "DB_PASSWORD", ""),
		GetString(config, "DB_NAME", "gemba"),
		GetString(config, "DB_PORT", "5432"),
		GetString(config, "DB_SSLMODE", "disable"),
	)
}

// StorageConfig assembles the attachment store configuration from STORAGE_*
// and S3_* variables. With no STORAGE_TYPE set the store defaults to local
// disk under UPLOAD_DIR.
func StorageConfig(config map[string]string) storage.Config {
	return storage.Config{
		Type:      GetString(config, "STORAGE_TYPE", "local"),
		BasePath:  GetString(config, "UPLOAD_DIR", "./uploads"),
		BaseURL:   GetString(config, "STORAGE_BASE_URL", ""),
		Bucket:    GetString(config, "S3_BUCKET", ""),
		Region:    GetString(config, "S3_REGION", "us-east-1"),
		AccessKey: GetString(config, "S3_ACCESS_KEY", ""),
		SecretKey: GetString(config, "S3_SECRET_KEY", ""),
		Endpoint:  GetString(config, "S3_ENDPOINT", ""),
	}
}
